// Package community holds the resident portal and impact page models: live
// impact metrics, the rent allocation breakdown, renovation standards and
// maintenance requests.
package community

// Trend is the direction arrow shown next to a metric.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

type Metric struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Trend       Trend  `json:"trend"`
	TrendValue  string `json:"trendValue"`
}

// FinancialShare is one slice of the rent allocation chart.
type FinancialShare struct {
	Category   string `json:"category"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// Standard compares a typical landlord finish with the one used in our
// renovations.
type Standard struct {
	ID               string `json:"id"`
	Category         string `json:"category"`
	StandardLandlord string `json:"standardLandlord"`
	CompanyStandard  string `json:"companyStandard"`
	Benefit          string `json:"benefit"`
}

// RequestStatusOpen is the status of every newly filed request.
const RequestStatusOpen = "open"

// NewRequest is what a resident files from the portal.
type NewRequest struct {
	ResidentID    string `json:"residentId" db:"resident_id"`
	PropertyID    string `json:"propertyId" db:"property_id"`
	IssueCategory string `json:"issueCategory" db:"issue_category"`
	Description   string `json:"description" db:"description"`
	Priority      string `json:"priority" db:"priority"`
	Status        string `json:"-" db:"status"`
}

// PropertyRef is the slice of the property shown beside a request.
type PropertyRef struct {
	Title   string `json:"title"`
	Address string `json:"address"`
}

type MaintenanceRequest struct {
	ID            string       `json:"id"`
	ResidentID    string       `json:"residentId"`
	PropertyID    string       `json:"propertyId"`
	IssueCategory string       `json:"issueCategory"`
	Description   string       `json:"description"`
	Priority      string       `json:"priority,omitempty"`
	Status        string       `json:"status"`
	PhotoURL      string       `json:"photoUrl,omitempty"`
	CreatedAt     string       `json:"createdAt"`
	Property      *PropertyRef `json:"property,omitempty"`
}
