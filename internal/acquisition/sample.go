package acquisition

import (
	"fmt"
	"math"
	"math/rand"

	"propaudit/server/config"
	"propaudit/server/internal/models"
)

// sampleCount is how many listings one sample batch contains.
const sampleCount = 30

var sampleStreets = []string{
	"Park Blvd", "Preston Rd", "Coit Rd", "Independence Pkwy",
	"Spring Creek Pkwy", "Legacy Dr", "Ohio Dr", "Jupiter Rd",
}

var samplePropertyTypes = []string{"Single Family", "Townhouse", "Condo"}

var sampleBedrooms = []int{3, 4, 5}
var sampleBathrooms = []float64{2, 2.5, 3, 3.5}

// GenerateSampleListings synthesizes realistic listings anchored to the
// city's known coordinates, so the whole pipeline is exercisable without
// an API credential. Unsupported cities borrow the first configured
// city's geography.
func (s *Service) GenerateSampleListings(city, state string) []*models.Property {
	anchor := config.GetCityByName(city)
	if anchor == nil {
		anchor = &config.SupportedCities[0]
	}

	properties := make([]*models.Property, 0, sampleCount)
	for i := 0; i < sampleCount; i++ {
		streetNum := 1000 + rand.Intn(9000)
		street := sampleStreets[rand.Intn(len(sampleStreets))]

		bedrooms := sampleBedrooms[rand.Intn(len(sampleBedrooms))]
		bathrooms := sampleBathrooms[rand.Intn(len(sampleBathrooms))]
		sqft := 1800 + rand.Intn(2701)
		lotSize := 6000 + rand.Intn(6001)
		yearBuilt := 1990 + rand.Intn(33)

		price := float64(sqft * (180 + rand.Intn(141)))
		taxAssessment := price * 0.85
		daysOnMarket := 1 + rand.Intn(90)

		status := models.StatusActive
		if rand.Intn(4) == 3 {
			status = models.StatusPending
		}

		property := &models.Property{
			Address:       fmt.Sprintf("%d %s, %s, %s", streetNum, street, city, state),
			City:          city,
			State:         state,
			ZipCode:       anchor.Zips[rand.Intn(len(anchor.Zips))],
			Latitude:      anchor.Center[0] + jitter(0.05),
			Longitude:     anchor.Center[1] + jitter(0.05),
			PropertyType:  samplePropertyTypes[rand.Intn(len(samplePropertyTypes))],
			Bedrooms:      &bedrooms,
			Bathrooms:     &bathrooms,
			Sqft:          &sqft,
			LotSize:       &lotSize,
			YearBuilt:     &yearBuilt,
			ListPrice:     &price,
			TaxAssessment: &taxAssessment,
			DaysOnMarket:  &daysOnMarket,
			Status:        status,
			Features: models.Features{
				"pool":            rand.Intn(2) == 1,
				"garage":          2 + rand.Intn(2),
				"fireplace":       rand.Intn(2) == 1,
				"updated_kitchen": rand.Intn(2) == 1,
				"hardwood_floors": rand.Intn(2) == 1,
			},
			DataSource: "SAMPLE",
		}
		normalize(property)

		properties = append(properties, property)
	}

	return properties
}

func jitter(max float64) float64 {
	return (rand.Float64()*2 - 1) * max
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
