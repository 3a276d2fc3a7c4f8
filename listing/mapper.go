package listing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Values used when the data source leaves a display field empty.
const (
	DefaultNeighborhood     = "East Texas"
	DefaultSchoolDistrict   = "TISD"
	DefaultAvailabilityDate = "Available Now"
)

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// StringNumber accepts a JSON string or number and keeps its textual form.
type StringNumber string

func (s *StringNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = StringNumber(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = StringNumber(num.String())
	return nil
}

// MapRecord turns a raw row into a Property. It never fails: anything missing
// or of the wrong type falls back to the documented default.
func MapRecord(raw RawRecord) Property {
	p := Property{
		ID:                    raw.str("id"),
		Title:                 raw.str("title"),
		Address:               raw.str("address"),
		City:                  raw.str("city"),
		Price:                 raw.price("price"),
		Beds:                  raw.whole("beds"),
		Baths:                 raw.count("baths"),
		Sqft:                  raw.whole("sqft"),
		Description:           raw.str("description"),
		Badges:                raw.list("badges"),
		Amenities:             raw.list("amenities"),
		AccessibilityFeatures: raw.list("accessibility_features"),
		ImageURL:              raw.str("image_url"),
		Images:                []string{},
		Neighborhood:          orDefault(raw.str("neighborhood"), DefaultNeighborhood),
		SchoolDistrict:        orDefault(raw.str("school_district"), DefaultSchoolDistrict),
		AvailabilityDate:      orDefault(raw.str("availability_date"), DefaultAvailabilityDate),
		Status:                raw.status(),
		VeteranPreferred:      raw.flag("veteran_preferred"),
	}
	if p.ImageURL != "" {
		p.Images = []string{p.ImageURL}
	}
	lat, latOK := raw.number("lat")
	lng, lngOK := raw.number("lng")
	if latOK && lngOK {
		p.Location = &Location{Lat: lat, Lng: lng}
	}
	return p
}

// MapRecords maps rows in order.
func MapRecords(rows []RawRecord) []Property {
	out := make([]Property, 0, len(rows))
	for _, r := range rows {
		out = append(out, MapRecord(r))
	}
	return out
}

// FormatPrice renders an amount as whole US dollars with grouping, e.g. "$1,200".
func FormatPrice(v float64) string {
	v = math.Round(v)
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return pricePrinter.Sprintf("$%.0f", v)
}

// ParsePrice reads the amount out of a display price. Every character other
// than digits and '.' is dropped first; the leading decimal number of what is
// left is the result.
func ParsePrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	end, dot, seen := 0, false, false
	for end < len(digits) {
		c := digits[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else {
			seen = true
		}
		end++
	}
	if !seen {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(digits[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Text reads a text column; numbers come back in their decimal form and
// anything else as "".
func (r RawRecord) Text(key string) string { return r.str(key) }

// Number reads a numeric column. ok is false when the value is missing, not
// numeric or not finite.
func (r RawRecord) Number(key string) (float64, bool) { return r.number(key) }

func (r RawRecord) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// number reads numeric columns in whatever form the driver produced.
func (r RawRecord) number(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		f := float64(v)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

func (r RawRecord) count(key string) float64 {
	v, ok := r.number(key)
	if !ok || v < 0 || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// whole is count truncated to an int. Values past math.MaxInt32 are treated
// as garbage and read as 0.
func (r RawRecord) whole(key string) int {
	v := r.count(key)
	if v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

func (r RawRecord) price(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	}
	if n, ok := r.number(key); ok {
		return FormatPrice(n)
	}
	return ""
}

func (r RawRecord) list(key string) []string {
	out := []string{}
	switch v := r[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func (r RawRecord) flag(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

// status honours an explicit status column, otherwise is_active decides
// between available and occupied.
func (r RawRecord) status() Status {
	if s, ok := ParseStatus(r.str("status")); ok {
		return s
	}
	if r.flag("is_active") {
		return StatusAvailable
	}
	return StatusOccupied
}
