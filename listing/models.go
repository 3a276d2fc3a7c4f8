package listing

// Status is the occupancy state shown on a property card.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// ParseStatus reports whether s names one of the three occupancy states.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return Status(s), true
	}
	return "", false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Property is the fully defaulted view-model served to clients. Every list
// field is non-nil and every string has a value, see MapRecord.
type Property struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Address               string    `json:"address"`
	City                  string    `json:"city"`
	Price                 string    `json:"price"` // display form, e.g. "$1,200"
	Beds                  int       `json:"beds"`
	Baths                 float64   `json:"baths"` // half baths exist
	Sqft                  int       `json:"sqft"`
	Description           string    `json:"description"`
	Badges                []string  `json:"badges"`
	Amenities             []string  `json:"amenities"`
	AccessibilityFeatures []string  `json:"accessibilityFeatures"`
	ImageURL              string    `json:"imageUrl"`
	Images                []string  `json:"images"`
	Neighborhood          string    `json:"neighborhood"`
	SchoolDistrict        string    `json:"schoolDistrict"`
	AvailabilityDate      string    `json:"availabilityDate"`
	Status                Status    `json:"status"`
	VeteranPreferred      bool      `json:"veteranPreferred"`
	Location              *Location `json:"location,omitempty"`
}

// NumericPrice recovers the amount behind the display price. ok is false when
// no number can be read from it.
func (p Property) NumericPrice() (float64, bool) {
	return ParsePrice(p.Price)
}

// RawRecord is one row as delivered by the data source, keyed by column name.
type RawRecord map[string]any

// NewRow is the column set written when a property is created. Optional text
// columns are nil when the caller left them out, so the data source stores
// NULL and MapRecord applies its defaults on the way back.
type NewRow struct {
	Title                 string   `json:"title" db:"title"`
	Address               string   `json:"address" db:"address"`
	City                  string   `json:"city" db:"city"`
	Price                 float64  `json:"price" db:"price"`
	Beds                  int      `json:"beds" db:"beds"`
	Baths                 float64  `json:"baths" db:"baths"`
	Sqft                  int      `json:"sqft" db:"sqft"`
	ImageURL              string   `json:"image_url" db:"image_url"`
	Description           string   `json:"description" db:"description"`
	Badges                []string `json:"badges" db:"badges"`
	Amenities             []string `json:"amenities" db:"amenities"`
	AccessibilityFeatures []string `json:"accessibility_features" db:"accessibility_features"`
	SchoolDistrict        *string  `json:"school_district" db:"school_district"`
	Neighborhood          *string  `json:"neighborhood" db:"neighborhood"`
	AvailabilityDate      *string  `json:"availability_date" db:"availability_date"`
	VeteranPreferred      bool     `json:"veteran_preferred" db:"veteran_preferred"`
	IsActive              bool     `json:"is_active" db:"is_active"`
}
