package analytics

import (
	"math"
	"time"

	"propaudit/server/internal/models"
)

// Fixed reference year for age-sensitive investment formulas. Structural
// scoring uses the wall clock; these ladders were calibrated against 2024
// and must stay pinned for output compatibility.
const referenceYear = 2024

// Defaults substituted for missing optional fields.
const (
	defaultYearBuilt    = 2000
	defaultDaysOnMarket = 30
)

// amenityWeights are the fixed per-amenity score contributions. The garage
// weight is applied per space.
var amenityWeights = map[string]float64{
	"pool":              10,
	"updated_kitchen":   8,
	"hardwood_floors":   7,
	"fireplace":         5,
	"smart_home":        8,
	"solar_panels":      10,
	"new_hvac":          7,
	"new_roof":          6,
	"finished_basement": 9,
	"garage":            3,
}

// AmenityScore scores a feature map on [50,100]. The base is 50 and all
// weights are additive, so no lower clamp is needed. Unknown keys are
// ignored; an empty or nil map scores exactly 50.
func AmenityScore(features models.Features) float64 {
	if len(features) == 0 {
		return 50.0
	}

	score := 50.0
	for amenity, weight := range amenityWeights {
		value, ok := features[amenity]
		if !ok {
			continue
		}
		if amenity == "garage" {
			if spaces, ok := intValue(value); ok {
				score += float64(spaces) * weight
				continue
			}
		}
		if truthy(value) {
			score += weight
		}
	}

	return math.Min(score, 100.0)
}

// StructuralScore combines an age ladder (60%) with a size ladder (40%).
// The optimal size band is 2000-3500 sqft.
func StructuralScore(yearBuilt, sqft int) float64 {
	age := time.Now().Year() - yearBuilt

	var ageScore float64
	switch {
	case age < 5:
		ageScore = 100
	case age < 10:
		ageScore = 95
	case age < 20:
		ageScore = 85
	case age < 30:
		ageScore = 75
	case age < 50:
		ageScore = 65
	default:
		ageScore = 60
	}

	var sizeScore float64
	switch {
	case sqft >= 2000 && sqft <= 3500:
		sizeScore = 100
	case sqft >= 1500 && sqft < 2000:
		sizeScore = 90
	case sqft > 3500 && sqft <= 4500:
		sizeScore = 90
	case sqft < 1500:
		sizeScore = 70
	default:
		sizeScore = 75
	}

	return ageScore*0.6 + sizeScore*0.4
}

// LocationScore bands a listing's price per sqft against the street
// average. The sweet spot is within 5% of the average. Returns the 75
// default when no baseline average exists.
func LocationScore(pricePerSqft, avgPricePerSqft float64) float64 {
	if avgPricePerSqft == 0 {
		return 75.0
	}

	ratio := pricePerSqft / avgPricePerSqft
	switch {
	case ratio >= 0.95 && ratio <= 1.05:
		return 100
	case ratio >= 0.85 && ratio < 0.95:
		return 95 // slightly undervalued
	case ratio > 1.05 && ratio <= 1.15:
		return 90 // slightly premium
	case ratio < 0.85:
		return 80 // significantly undervalued
	default:
		return 70 // overpriced
	}
}

// InvestmentMetrics fills the placeholder investment block. The constants
// are illustrative and pinned, not fitted.
func InvestmentMetrics(p *models.Property) models.PropertyScores {
	sqft := float64(intOrDefault(p.Sqft, 1))
	price := floatOrDefault(p.ListPrice, 0)

	// Rental yield at $1.2/sqft/month estimated rent.
	var rentalYield float64
	if price > 0 {
		rentalYield = sqft * 1.2 * 12 / price * 100
	}

	age := referenceYear - intOrDefault(p.YearBuilt, defaultYearBuilt)
	var appreciation float64
	switch {
	case age < 10:
		appreciation = 4.5
	case age < 20:
		appreciation = 3.8
	default:
		appreciation = 3.2
	}

	daysOnMarket := intOrDefault(p.DaysOnMarket, defaultDaysOnMarket)
	var demand float64
	switch {
	case daysOnMarket < 15:
		demand = 90
	case daysOnMarket < 30:
		demand = 80
	case daysOnMarket < 60:
		demand = 70
	default:
		demand = 60
	}

	return models.PropertyScores{
		RentalYield:      round2(rentalYield),
		AppreciationRate: round2(appreciation),
		DemandIndex:      demand,
		SupplyIndex:      70,
		VolatilityScore:  25,
	}
}

// AIScores produces the valuation/growth/risk triple from price
// positioning and neighborhood context. Growth and risk are clamped
// symmetrically to [0,100].
func AIScores(p *models.Property, street models.StreetStats, hood models.NeighborhoodStats) (valuation, growth, risk float64) {
	ppsf := floatOrDefault(p.PricePerSqft, 200)
	ratio := 1.0 // fair value when no baseline exists
	if street.AvgPricePerSqft > 0 {
		ratio = ppsf / street.AvgPricePerSqft
	}

	switch {
	case ratio < 0.9:
		valuation = 90 // undervalued
	case ratio < 0.95:
		valuation = 85
	case ratio <= 1.05:
		valuation = 80 // fair value
	case ratio <= 1.10:
		valuation = 70
	default:
		valuation = 60 // overvalued
	}

	age := float64(referenceYear - intOrDefault(p.YearBuilt, defaultYearBuilt))
	growth = clamp(70+hood.PopulationGrowth*5-age*0.3, 0, 100)

	daysOnMarket := float64(intOrDefault(p.DaysOnMarket, defaultDaysOnMarket))
	risk = clamp(50+daysOnMarket*0.3+hood.CrimeRate*0.5, 0, 100)

	return round1(valuation), round1(growth), round1(risk)
}

// CalculateScores computes the full score block for a record. Street stats
// may be nil when no comparison group exists, in which case the location
// score falls back to its 75 default.
func CalculateScores(p *models.Property, street *models.StreetStats, hood models.NeighborhoodStats) models.PropertyScores {
	scores := InvestmentMetrics(p)

	scores.AmenityScore = AmenityScore(p.Features)
	scores.StructuralScore = StructuralScore(
		intOrDefault(p.YearBuilt, defaultYearBuilt),
		intOrDefault(p.Sqft, 0),
	)

	if street != nil {
		scores.LocationScore = LocationScore(floatOrDefault(p.PricePerSqft, 0), street.AvgPricePerSqft)
	} else {
		scores.LocationScore = 75.0
	}

	baseline := models.StreetStats{}
	if street != nil {
		baseline = *street
	}
	scores.AIValuationScore, scores.AIGrowthScore, scores.AIRiskScore = AIScores(p, baseline, hood)

	return scores
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return v != nil
	}
}

// intValue extracts an integer count from a feature value. JSON decoding
// delivers numbers as float64.
func intValue(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	default:
		return 0, false
	}
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
