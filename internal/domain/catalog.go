package domain

// ExampleProfile pairs a representative lifestyle description with
// hand-tuned preference weights. The catalog is the reference corpus for
// semantic matching; it is read-only and loaded once at startup.
type ExampleProfile struct {
	Text    string
	Weights WeightVector
}

// ExampleCatalog returns the curated example profiles. Each weight vector
// sums to 1.0.
func ExampleCatalog() []ExampleProfile {
	return []ExampleProfile{
		{
			Text: "great for families with young kids, safe and quiet with good schools",
			Weights: WeightVector{
				Recreation: 0.20,
				Community:  0.30,
				Transport:  0.15,
				Education:  0.30,
				Utility:    0.05,
			},
		},
		{
			Text: "lots of nightlife, bars and restaurants, great public transport, close to the city",
			Weights: WeightVector{
				Recreation: 0.35,
				Community:  0.15,
				Transport:  0.30,
				Education:  0.10,
				Utility:    0.10,
			},
		},
		{
			Text: "budget friendly suburb with basic amenities, okay transport, nothing too fancy",
			Weights: WeightVector{
				Recreation: 0.15,
				Community:  0.20,
				Transport:  0.25,
				Education:  0.15,
				Utility:    0.25,
			},
		},
		{
			Text: "quiet area for retirees, close to healthcare and essential services, peaceful community",
			Weights: WeightVector{
				Recreation: 0.15,
				Community:  0.30,
				Transport:  0.15,
				Education:  0.05,
				Utility:    0.35,
			},
		},
		{
			Text: "good for students, close to universities and TAFEs, strong public transport",
			Weights: WeightVector{
				Recreation: 0.20,
				Community:  0.20,
				Transport:  0.30,
				Education:  0.25,
				Utility:    0.05,
			},
		},
		{
			Text: "balanced lifestyle with parks, decent schools, community feel and good transport options",
			Weights: WeightVector{
				Recreation: 0.25,
				Community:  0.25,
				Transport:  0.25,
				Education:  0.20,
				Utility:    0.05,
			},
		},
	}
}

// KeywordTriggers maps each preference category to the phrases that signal
// it in free text. Matching is case-insensitive substring presence.
var KeywordTriggers = map[string][]string{
	"recreation": {
		"park", "parks", "beach", "beaches", "sports", "gym", "pool",
		"playground", "green space", "nature", "outdoors", "recreation",
		"nightlife", "bars", "restaurants",
	},
	"community": {
		"community", "family", "family-friendly", "families", "kids", "safe",
		"quiet", "peaceful", "neighbourly", "neighborhood", "village",
		"local vibe", "community centre", "community center", "library",
	},
	"transport": {
		"transport", "public transport", "train", "station", "bus", "metro",
		"light rail", "tram", "easy commute", "close to city", "near cbd",
		"good transport", "strong transport",
	},
	"education": {
		"school", "schools", "good schools", "education", "university", "uni",
		"college", "tafes", "students", "student", "children's education",
	},
	"utility": {
		"shopping", "shops", "supermarket", "mall", "services", "hospital",
		"clinic", "doctor", "healthcare", "infrastructure", "amenities",
		"essential services",
	},
}
