package listing

// fallbackRows is the bundled catalogue served while the data source is
// unreachable. It goes through MapRecord like live rows do.
var fallbackRows = []RawRecord{
	{
		"id":                     "1",
		"title":                  "The Magnolia Residence",
		"address":                "1245 Oakwood Dr, Tyler, TX",
		"city":                   "Tyler",
		"price":                  950,
		"beds":                   3,
		"baths":                  2,
		"sqft":                   1450,
		"image_url":              "/images/properties/tyler-ranch.webp",
		"badges":                 []string{"Section 8 Approved", "Wheelchair Accessible"},
		"description":            "Fully renovated single-family home featuring quartz countertops, new HVAC, and a spacious fenced backyard perfect for families. Located within walking distance of Douglas Elementary School.",
		"amenities":              []string{"Quartz Countertops", "Fenced Backyard", "Central HVAC", "Dishwasher", "Washer/Dryer Hookups"},
		"accessibility_features": []string{"Wheelchair Ramp", `Wide Doorways (36")`, "Grab Bars in Bathroom"},
		"school_district":        "Tyler ISD",
		"neighborhood":           "Azalea District",
		"availability_date":      "Available Now",
		"is_active":              true,
		"lat":                    32.3513,
		"lng":                    -95.3011,
	},
	{
		"id":                     "2",
		"title":                  "Veterans Harbor",
		"address":                "880 Pine Street, Longview, TX",
		"city":                   "Longview",
		"price":                  875,
		"beds":                   2,
		"baths":                  1.5,
		"sqft":                   1100,
		"image_url":              "/images/properties/mineola-studio.webp",
		"badges":                 []string{"HUD-VASH Preferred", "Near VA Clinic"},
		"description":            "Cozy bungalow tailored for veterans. Includes walk-in shower, energy-efficient appliances, and dedicated parking. Quiet neighborhood with community garden nearby.",
		"amenities":              []string{"Energy Star Appliances", "Dedicated Parking", "Community Garden Access", "Security System"},
		"accessibility_features": []string{"Step-free Entrance", "Roll-in Shower", "Lever Handles"},
		"school_district":        "Longview ISD",
		"neighborhood":           "Pine Tree",
		"availability_date":      "October 15, 2023",
		"is_active":              true,
		"veteran_preferred":      true,
		"lat":                    32.5007,
		"lng":                    -94.7405,
	},
	{
		"id":                     "3",
		"title":                  "Creekview Estate",
		"address":                "300 Cedar Lane, Marshall, TX",
		"city":                   "Marshall",
		"price":                  1100,
		"beds":                   4,
		"baths":                  2,
		"sqft":                   1800,
		"image_url":              "/images/properties/marshall-farmhouse.webp",
		"badges":                 []string{"Fenced Yard", "New Roof"},
		"description":            "Spacious family home with open floor plan. Brand new luxury vinyl plank flooring throughout and modernized kitchen. Features a covered patio and detached garage.",
		"amenities":              []string{"LVP Flooring", "Covered Patio", "Detached Garage", "Walk-in Closets"},
		"accessibility_features": []string{"Flat Thresholds"},
		"school_district":        "Marshall ISD",
		"neighborhood":           "Historic District",
		"availability_date":      "November 1, 2023",
		"is_active":              true,
		"lat":                    32.5449,
		"lng":                    -94.3674,
	},
	{
		"id":                     "4",
		"title":                  "Liberty Row",
		"address":                "405 Freedom Blvd, Tyler, TX",
		"city":                   "Tyler",
		"price":                  1050,
		"beds":                   3,
		"baths":                  2,
		"sqft":                   1600,
		"image_url":              "/images/properties/longview-victorian.webp",
		"badges":                 []string{"New Construction", "Energy Star"},
		"description":            "A complete restoration project turned modern sanctuary. Open concept living area, LED lighting throughout, and a brand new thermal insulation package to keep utility bills low.",
		"amenities":              []string{"LED Lighting", "Smart Thermostat", "Thermal Insulation", "Open Concept"},
		"accessibility_features": []string{"Accessible Parking"},
		"school_district":        "Tyler ISD",
		"neighborhood":           "Downtown Tyler",
		"availability_date":      "Available Now",
		"is_active":              true,
		"veteran_preferred":      true,
		"lat":                    32.3513,
		"lng":                    -95.3011,
	},
	{
		"id":                     "5",
		"title":                  "The Patriot Duplex",
		"address":                "220 Victory Lane, Kilgore, TX",
		"city":                   "Kilgore",
		"price":                  825,
		"beds":                   2,
		"baths":                  1,
		"sqft":                   950,
		"image_url":              "/images/properties/kemp-townhome.webp",
		"badges":                 []string{"Rapid Rehousing", "Pet Friendly"},
		"description":            "Affordable duplex unit recently updated with fresh paint and new appliances. Large shared yard and close to public transit routes.",
		"amenities":              []string{"Fresh Paint", "Shared Yard", "Pet Friendly", "Transit Access"},
		"accessibility_features": []string{"Ground Floor Unit"},
		"school_district":        "Kilgore ISD",
		"neighborhood":           "Sycamore Grove",
		"availability_date":      "Waitlist Open",
		"is_active":              false,
		"lat":                    32.3852,
		"lng":                    -94.8767,
	},
	{
		"id":                     "6",
		"title":                  "Freedom Heights",
		"address":                "1500 Independence Dr, Lindale, TX",
		"city":                   "Lindale",
		"price":                  1250,
		"beds":                   3,
		"baths":                  2.5,
		"sqft":                   1750,
		"image_url":              "/images/properties/rodriguez-family.webp",
		"badges":                 []string{"Family Size", "Top Rated Schools"},
		"description":            "Beautiful brick home in the highly sought-after Lindale school district. Features a double vanity, large soaking tub, and a fireplace for cozy evenings.",
		"amenities":              []string{"Fireplace", "Double Vanity", "Soaking Tub", "Brick Exterior"},
		"accessibility_features": []string{"Paved Walkways"},
		"school_district":        "Lindale ISD",
		"neighborhood":           "Eagle Creek",
		"availability_date":      "December 1, 2023",
		"is_active":              true,
		"lat":                    32.5165,
		"lng":                    -95.4093,
	},
}

// Fallback returns a fresh copy of the bundled catalogue. Callers may modify
// the result freely.
func Fallback() []Property {
	return MapRecords(fallbackRows)
}

// FallbackByID looks a property up in the bundled catalogue.
func FallbackByID(id string) (Property, bool) {
	for _, r := range fallbackRows {
		if r.str("id") == id {
			return MapRecord(r), true
		}
	}
	return Property{}, false
}
