// Package filter narrows a property list down to what a visitor asked for and
// keeps that request in a shareable query string.
package filter

import (
	"github.com/yourorg/listings-api/internal/canon"
	"github.com/yourorg/listings-api/listing"
)

// Section8MaxPrice is the rent below which a listing is treated as likely
// Section 8 eligible even when its description does not say so.
const Section8MaxPrice = 1100

// StatusAll is the status value meaning "any status".
const StatusAll = "all"

// State holds the optional constraints of a listing search. A nil bound, an
// empty string or a false flag means the dimension is unconstrained.
type State struct {
	MinPrice     *float64 `json:"minPrice,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty"`
	MinBeds      *float64 `json:"minBeds,omitempty"`
	MaxBeds      *float64 `json:"maxBeds,omitempty"`
	MinBaths     *float64 `json:"minBaths,omitempty"`
	MaxBaths     *float64 `json:"maxBaths,omitempty"`
	Status       string   `json:"status,omitempty"`
	City         string   `json:"city,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	SearchQuery  string   `json:"searchQuery,omitempty"`

	// Mission toggles. They are not part of the shareable query string.
	Section8Only     bool `json:"section8Only,omitempty"`
	VeteranPreferred bool `json:"veteranPreferred,omitempty"`
}

// Apply returns the properties that satisfy every constraint in s, in their
// original order. The input slice is not modified.
func Apply(props []listing.Property, s State) []listing.Property {
	out := make([]listing.Property, 0, len(props))
	for _, p := range props {
		if Match(p, s) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether p satisfies every constraint in s. The public
// listing page only drives price, size, text and the mission toggles;
// status, city and neighborhood are extra API-side constraints and are
// ignored when unset or, for status, "all".
func Match(p listing.Property, s State) bool {
	price, priced := p.NumericPrice()
	// An unreadable price cannot violate a price bound.
	if priced {
		if s.MinPrice != nil && price < *s.MinPrice {
			return false
		}
		if s.MaxPrice != nil && price > *s.MaxPrice {
			return false
		}
	}

	if !within(float64(p.Beds), s.MinBeds, s.MaxBeds) {
		return false
	}
	if !within(p.Baths, s.MinBaths, s.MaxBaths) {
		return false
	}

	if s.SearchQuery != "" && !matchesQuery(p, s.SearchQuery) {
		return false
	}

	if s.Section8Only {
		eligible := canon.Contains(p.Description, "section 8") || (priced && price < Section8MaxPrice)
		if !eligible {
			return false
		}
	}
	if s.VeteranPreferred && !p.VeteranPreferred {
		return false
	}

	if s.Status != "" && s.Status != StatusAll && string(p.Status) != s.Status {
		return false
	}
	if s.City != "" && !canon.Equal(p.City, s.City) {
		return false
	}
	if s.Neighborhood != "" && !canon.Equal(p.Neighborhood, s.Neighborhood) {
		return false
	}
	return true
}

func within(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

func matchesQuery(p listing.Property, q string) bool {
	if canon.Contains(p.Title, q) || canon.Contains(p.Address, q) || canon.Contains(p.Description, q) {
		return true
	}
	for _, a := range p.Amenities {
		if canon.Contains(a, q) {
			return true
		}
	}
	return false
}

// ActiveCount is the number of filter groups in use, for the badge next to
// the filter button. A price range counts once however many bounds it has.
func (s State) ActiveCount() int {
	n := 0
	if truthy(s.MinPrice) || truthy(s.MaxPrice) {
		n++
	}
	if truthy(s.MinBeds) || truthy(s.MaxBeds) {
		n++
	}
	if truthy(s.MinBaths) || truthy(s.MaxBaths) {
		n++
	}
	if s.Status != "" && s.Status != StatusAll {
		n++
	}
	if s.City != "" {
		n++
	}
	if s.Neighborhood != "" {
		n++
	}
	if s.SearchQuery != "" {
		n++
	}
	return n
}

// IsActive reports whether any filter group is in use.
func (s State) IsActive() bool { return s.ActiveCount() > 0 }

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	c := s
	c.MinPrice = clonePtr(s.MinPrice)
	c.MaxPrice = clonePtr(s.MaxPrice)
	c.MinBeds = clonePtr(s.MinBeds)
	c.MaxBeds = clonePtr(s.MaxBeds)
	c.MinBaths = clonePtr(s.MinBaths)
	c.MaxBaths = clonePtr(s.MaxBaths)
	return c
}

// Merge overlays every constraint set in over onto base.
func Merge(base, over State) State {
	out := base.Clone()
	o := over.Clone()
	if o.MinPrice != nil {
		out.MinPrice = o.MinPrice
	}
	if o.MaxPrice != nil {
		out.MaxPrice = o.MaxPrice
	}
	if o.MinBeds != nil {
		out.MinBeds = o.MinBeds
	}
	if o.MaxBeds != nil {
		out.MaxBeds = o.MaxBeds
	}
	if o.MinBaths != nil {
		out.MinBaths = o.MinBaths
	}
	if o.MaxBaths != nil {
		out.MaxBaths = o.MaxBaths
	}
	if o.Status != "" {
		out.Status = o.Status
	}
	if o.City != "" {
		out.City = o.City
	}
	if o.Neighborhood != "" {
		out.Neighborhood = o.Neighborhood
	}
	if o.SearchQuery != "" {
		out.SearchQuery = o.SearchQuery
	}
	if o.Section8Only {
		out.Section8Only = true
	}
	if o.VeteranPreferred {
		out.VeteranPreferred = true
	}
	return out
}

// Normalize drops values that the query string would omit anyway: zero
// bounds and the "all" status.
func (s State) Normalize() State {
	out := s.Clone()
	for _, b := range []**float64{&out.MinPrice, &out.MaxPrice, &out.MinBeds, &out.MaxBeds, &out.MinBaths, &out.MaxBaths} {
		if !truthy(*b) {
			*b = nil
		}
	}
	if out.Status == StatusAll {
		out.Status = ""
	}
	return out
}

func truthy(v *float64) bool { return v != nil && *v != 0 }

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
