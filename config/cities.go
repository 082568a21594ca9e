package config

// City represents a city the sample generator can anchor listings to.
type City struct {
	Name   string    `json:"name"`
	State  string    `json:"state"`
	Center []float64 `json:"center"` // latitude, longitude
	Zips   []string  `json:"zips"`
}

// SupportedCities lists cities with known anchor coordinates. Sample-mode
// listings for other cities fall back to the first entry's geography.
var SupportedCities = []City{
	{
		Name:   "Plano",
		State:  "TX",
		Center: []float64{33.0198, -96.6989},
		Zips:   []string{"75023", "75024", "75025", "75074", "75075"},
	},
	{
		Name:   "Frisco",
		State:  "TX",
		Center: []float64{33.1507, -96.8236},
		Zips:   []string{"75033", "75034", "75035"},
	},
	{
		Name:   "McKinney",
		State:  "TX",
		Center: []float64{33.1972, -96.6398},
		Zips:   []string{"75069", "75070", "75071"},
	},
}

// GetCityNames returns a list of supported city names.
func GetCityNames() []string {
	names := make([]string, len(SupportedCities))
	for i, city := range SupportedCities {
		names[i] = city.Name
	}
	return names
}

// GetCityByName returns a city configuration by name, or nil.
func GetCityByName(name string) *City {
	for _, city := range SupportedCities {
		if city.Name == name {
			return &city
		}
	}
	return nil
}
