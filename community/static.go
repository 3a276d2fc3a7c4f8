package community

// FallbackMetrics is shown when the metrics table is empty. Each call returns
// a fresh slice.
func FallbackMetrics() []Metric {
	return []Metric{
		{ID: "1", Label: "Families Housed", Value: "142", Icon: "home", Description: "Total families placed.", Trend: TrendUp, TrendValue: "+12%"},
		{ID: "2", Label: "Veterans Served", Value: "85", Icon: "users", Description: "Veterans housed.", Trend: TrendUp, TrendValue: "+8%"},
		{ID: "3", Label: "Properties Revitalized", Value: "56", Icon: "hammer", Description: "Renovated homes.", Trend: TrendUp, TrendValue: "+5"},
		{ID: "4", Label: "Community Wealth", Value: "$2.4M", Icon: "dollar", Description: "Value added.", Trend: TrendUp, TrendValue: "Est."},
	}
}

// FinancialBreakdown is where each rent dollar goes. The shares add up to 100.
func FinancialBreakdown() []FinancialShare {
	return []FinancialShare{
		{Category: "Property Maintenance", Percentage: 35, Color: "#0B1120"},
		{Category: "Future Acquisitions", Percentage: 30, Color: "#C5A059"},
		{Category: "Investor Returns", Percentage: 20, Color: "#334155"},
		{Category: "Community Programs", Percentage: 10, Color: "#94a3b8"},
		{Category: "Admin/Ops", Percentage: 5, Color: "#cbd5e1"},
	}
}

func Standards() []Standard {
	return []Standard{
		{ID: "kitchen", Category: "Kitchen Countertops", StandardLandlord: "Laminate", CompanyStandard: "Quartz/Granite", Benefit: "Durable & Dignified"},
		{ID: "flooring", Category: "Flooring", StandardLandlord: "Carpet", CompanyStandard: "Luxury Vinyl Plank", Benefit: "Waterproof & Clean"},
		{ID: "hvac", Category: "Climate", StandardLandlord: "Old Units", CompanyStandard: "SEER 16+", Benefit: "Lower Utility Bills"},
		{ID: "security", Category: "Security", StandardLandlord: "Deadbolt", CompanyStandard: "Smart Locks", Benefit: "Safety First"},
	}
}
