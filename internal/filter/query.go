package filter

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/yourorg/listings-api/listing"
)

// Query string keys.
const (
	ParamMinPrice     = "minPrice"
	ParamMaxPrice     = "maxPrice"
	ParamMinBeds      = "minBeds"
	ParamMaxBeds      = "maxBeds"
	ParamMinBaths     = "minBaths"
	ParamMaxBaths     = "maxBaths"
	ParamStatus       = "status"
	ParamCity         = "city"
	ParamNeighborhood = "neighborhood"
	ParamQuery        = "q"
)

var (
	ErrUnknownField = errors.New("unknown filter field")
	ErrInvalidValue = errors.New("invalid filter value")
)

// Field names one member of State for Set and Session.Update.
type Field string

const (
	FieldMinPrice         Field = "minPrice"
	FieldMaxPrice         Field = "maxPrice"
	FieldMinBeds          Field = "minBeds"
	FieldMaxBeds          Field = "maxBeds"
	FieldMinBaths         Field = "minBaths"
	FieldMaxBaths         Field = "maxBaths"
	FieldStatus           Field = "status"
	FieldCity             Field = "city"
	FieldNeighborhood     Field = "neighborhood"
	FieldSearchQuery      Field = "searchQuery"
	FieldSection8Only     Field = "section8Only"
	FieldVeteranPreferred Field = "veteranPreferred"
)

// Values builds the query parameters for s. Only values that constrain
// something are written, so an empty State yields no parameters.
func Values(s State) url.Values {
	v := url.Values{}
	setNum(v, ParamMinPrice, s.MinPrice)
	setNum(v, ParamMaxPrice, s.MaxPrice)
	setNum(v, ParamMinBeds, s.MinBeds)
	setNum(v, ParamMaxBeds, s.MaxBeds)
	setNum(v, ParamMinBaths, s.MinBaths)
	setNum(v, ParamMaxBaths, s.MaxBaths)
	if s.Status != "" && s.Status != StatusAll {
		v.Set(ParamStatus, s.Status)
	}
	if s.City != "" {
		v.Set(ParamCity, s.City)
	}
	if s.Neighborhood != "" {
		v.Set(ParamNeighborhood, s.Neighborhood)
	}
	if s.SearchQuery != "" {
		v.Set(ParamQuery, s.SearchQuery)
	}
	return v
}

// Encode renders s as a query string without the leading '?'.
func Encode(s State) string {
	return Values(s).Encode()
}

// Decode reads a State from query parameters. Unknown keys are ignored and
// values that do not parse are treated as absent.
func Decode(v url.Values) State {
	var s State
	s.MinPrice = getNum(v, ParamMinPrice)
	s.MaxPrice = getNum(v, ParamMaxPrice)
	s.MinBeds = getNum(v, ParamMinBeds)
	s.MaxBeds = getNum(v, ParamMaxBeds)
	s.MinBaths = getNum(v, ParamMinBaths)
	s.MaxBaths = getNum(v, ParamMaxBaths)
	// "all" is kept so it can override a default status in Merge.
	if raw := v.Get(ParamStatus); raw == StatusAll {
		s.Status = StatusAll
	} else if st, ok := listing.ParseStatus(raw); ok {
		s.Status = string(st)
	}
	s.City = v.Get(ParamCity)
	s.Neighborhood = v.Get(ParamNeighborhood)
	s.SearchQuery = v.Get(ParamQuery)
	return s
}

// DecodeQuery is Decode for a raw query string. Malformed pairs are skipped.
func DecodeQuery(raw string) State {
	v, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(v)
}

// Set assigns one field. Numeric fields take any Go number or a numeric
// string; nil or "" clears a field.
func (s *State) Set(f Field, value any) error {
	switch f {
	case FieldMinPrice:
		return setBound(&s.MinPrice, f, value)
	case FieldMaxPrice:
		return setBound(&s.MaxPrice, f, value)
	case FieldMinBeds:
		return setBound(&s.MinBeds, f, value)
	case FieldMaxBeds:
		return setBound(&s.MaxBeds, f, value)
	case FieldMinBaths:
		return setBound(&s.MinBaths, f, value)
	case FieldMaxBaths:
		return setBound(&s.MaxBaths, f, value)
	case FieldStatus:
		str, err := asString(f, value)
		if err != nil {
			return err
		}
		if str != "" && str != StatusAll {
			if _, ok := listing.ParseStatus(str); !ok {
				return fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, str)
			}
		}
		s.Status = str
	case FieldCity:
		return setString(&s.City, f, value)
	case FieldNeighborhood:
		return setString(&s.Neighborhood, f, value)
	case FieldSearchQuery:
		return setString(&s.SearchQuery, f, value)
	case FieldSection8Only:
		return setFlag(&s.Section8Only, f, value)
	case FieldVeteranPreferred:
		return setFlag(&s.VeteranPreferred, f, value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

func setNum(v url.Values, key string, n *float64) {
	if !truthy(n) {
		return
	}
	v.Set(key, strconv.FormatFloat(*n, 'f', -1, 64))
}

func getNum(v url.Values, key string) *float64 {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func setBound(dst **float64, f Field, value any) error {
	var n float64
	switch v := value.(type) {
	case nil:
		*dst = nil
		return nil
	case *float64:
		*dst = clonePtr(v)
		return nil
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			*dst = nil
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, f, v)
		}
		n = parsed
	default:
		return fmt.Errorf("%w: %s has type %T", ErrInvalidValue, f, value)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidValue, f, n)
	}
	*dst = &n
	return nil
}

func asString(f Field, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", fmt.Errorf("%w: %s has type %T", ErrInvalidValue, f, value)
}

func setString(dst *string, f Field, value any) error {
	str, err := asString(f, value)
	if err != nil {
		return err
	}
	*dst = str
	return nil
}

func setFlag(dst *bool, f Field, value any) error {
	switch v := value.(type) {
	case nil:
		*dst = false
	case bool:
		*dst = v
	default:
		return fmt.Errorf("%w: %s has type %T", ErrInvalidValue, f, value)
	}
	return nil
}
