package catalog

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourorg/listings-api/internal/canon"
	"github.com/yourorg/listings-api/listing"
)

const DefaultCity = "Tyler"

// CreateInput is the admin form payload. Numeric fields accept a JSON number
// or a string such as "$1,200.00"; beds and baths also accept the longer
// bedrooms/bathrooms names, which win when both are sent.
type CreateInput struct {
	Title                 string               `json:"title"`
	Address               string               `json:"address"`
	City                  string               `json:"city"`
	Price                 listing.StringNumber `json:"price"`
	Beds                  listing.StringNumber `json:"beds"`
	Bedrooms              listing.StringNumber `json:"bedrooms"`
	Baths                 listing.StringNumber `json:"baths"`
	Bathrooms             listing.StringNumber `json:"bathrooms"`
	Sqft                  listing.StringNumber `json:"sqft"`
	ImageURL              string               `json:"imageUrl"`
	Images                []string             `json:"images"`
	Description           string               `json:"description"`
	Badges                List                 `json:"badges"`
	Amenities             List                 `json:"amenities"`
	AccessibilityFeatures List                 `json:"accessibilityFeatures"`
	SchoolDistrict        *string              `json:"schoolDistrict"`
	Neighborhood          *string              `json:"neighborhood"`
	AvailabilityDate      *string              `json:"availabilityDate"`
	VeteranPreferred      bool                 `json:"veteranPreferred"`
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// Row converts the payload into the stored column set. Malformed numbers
// become 0, negatives are clamped to 0, a missing or zero bath count becomes
// 1 and new rows are always active.
func (in CreateInput) Row() listing.NewRow {
	price := strings.NewReplacer("$", "", ",", "").Replace(string(in.Price))

	image := in.ImageURL
	if image == "" && len(in.Images) > 0 {
		image = in.Images[0]
	}

	return listing.NewRow{
		Title:                 in.Title,
		Address:               in.Address,
		City:                  orDefault(canon.Text(in.City), DefaultCity),
		Price:                 parseFloat(price),
		Beds:                  toInt(pick(0, in.Bedrooms, in.Beds)),
		Baths:                 pick(1, in.Bathrooms, in.Baths),
		Sqft:                  parseInt(string(in.Sqft)),
		ImageURL:              image,
		Description:           in.Description,
		Badges:                nonNil(in.Badges),
		Amenities:             nonNil(in.Amenities),
		AccessibilityFeatures: nonNil(in.AccessibilityFeatures),
		SchoolDistrict:        in.SchoolDistrict,
		Neighborhood:          in.Neighborhood,
		AvailabilityDate:      in.AvailabilityDate,
		VeteranPreferred:      in.VeteranPreferred,
		IsActive:              true,
	}
}

// pick returns the first value that reads as a positive number. Empty,
// zero and negative values fall through to the next one and finally to def;
// a malformed value yields 0.
func pick(def float64, vals ...listing.StringNumber) float64 {
	for _, v := range vals {
		raw := strings.TrimSpace(string(v))
		if raw == "" {
			continue
		}
		n, ok := parseNumber(raw)
		if !ok {
			return 0
		}
		if n > 0 {
			return n
		}
	}
	return def
}

// parseNumber reads the leading decimal number of s.
func parseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseFloat is parseNumber with malformed and negative input read as 0.
func parseFloat(s string) float64 {
	v, ok := parseNumber(s)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// parseInt reads the leading integer of s, or 0. "3.5" is 3.
func parseInt(s string) int {
	return toInt(parseFloat(s))
}

func toInt(v float64) int {
	if v < 0 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

func nonNil(v List) []string {
	if v == nil {
		return []string{}
	}
	return []string(v)
}

// List accepts a JSON array of strings or one delimited string, as sent by
// a textarea ("Porch, Fenced yard").
type List []string

func (l *List) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = List(canon.Lines(s))
		if *l == nil {
			*l = List{}
		}
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = List(items)
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
