package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"propaudit/server/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestAmenityScore_EmptyFeatures(t *testing.T) {
	assert.Equal(t, 50.0, AmenityScore(nil))
	assert.Equal(t, 50.0, AmenityScore(models.Features{}))
}

func TestAmenityScore_SingleAmenity(t *testing.T) {
	score := AmenityScore(models.Features{"pool": true})
	assert.Equal(t, 60.0, score)
}

func TestAmenityScore_GarageCountsPerSpace(t *testing.T) {
	// Two garage spaces at 3 points each
	score := AmenityScore(models.Features{"garage": 2})
	assert.Equal(t, 56.0, score)

	// JSON decoding delivers numbers as float64
	score = AmenityScore(models.Features{"garage": float64(3)})
	assert.Equal(t, 59.0, score)
}

func TestAmenityScore_IgnoresUnknownKeys(t *testing.T) {
	score := AmenityScore(models.Features{"helipad": true, "moat": true})
	assert.Equal(t, 50.0, score)
}

func TestAmenityScore_FalseValuesDoNotCount(t *testing.T) {
	score := AmenityScore(models.Features{"pool": false, "fireplace": true})
	assert.Equal(t, 55.0, score)
}

func TestAmenityScore_CappedAt100(t *testing.T) {
	features := models.Features{
		"pool":              true,
		"updated_kitchen":   true,
		"hardwood_floors":   true,
		"fireplace":         true,
		"smart_home":        true,
		"solar_panels":      true,
		"new_hvac":          true,
		"new_roof":          true,
		"finished_basement": true,
		"garage":            3,
	}
	score := AmenityScore(features)
	assert.Equal(t, 100.0, score)
}

func TestAmenityScore_Bounds(t *testing.T) {
	cases := []models.Features{
		nil,
		{"pool": true},
		{"garage": 10},
		{"pool": true, "solar_panels": true, "garage": 4},
	}
	for _, features := range cases {
		score := AmenityScore(features)
		assert.GreaterOrEqual(t, score, 50.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestStructuralScore_NewOptimalHome(t *testing.T) {
	// Brand new build in the optimal size band scores a perfect 100
	score := StructuralScore(time.Now().Year(), 2800)
	assert.Equal(t, 100.0, score)
}

func TestStructuralScore_AgeLadder(t *testing.T) {
	year := time.Now().Year()

	// 25 years old, optimal size: 0.6*75 + 0.4*100
	assert.Equal(t, 85.0, StructuralScore(year-25, 2800))

	// 60 years old, small: 0.6*60 + 0.4*70
	assert.Equal(t, 64.0, StructuralScore(year-60, 1200))
}

func TestLocationScore_Bands(t *testing.T) {
	tests := []struct {
		name     string
		ppsf     float64
		avg      float64
		expected float64
	}{
		{"at average", 100, 100, 100},
		{"slightly undervalued", 90, 100, 95},
		{"slightly premium", 110, 100, 90},
		{"deeply undervalued", 80, 100, 80},
		{"overpriced", 130, 100, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LocationScore(tt.ppsf, tt.avg))
		})
	}
}

func TestLocationScore_ZeroBaselineDefaultsTo75(t *testing.T) {
	assert.Equal(t, 75.0, LocationScore(100, 0))
	assert.Equal(t, 75.0, LocationScore(0, 0))
	assert.Equal(t, 75.0, LocationScore(99999, 0))
}

func TestInvestmentMetrics(t *testing.T) {
	p := &models.Property{
		Sqft:         intPtr(2000),
		ListPrice:    floatPtr(400000),
		YearBuilt:    intPtr(2018),
		DaysOnMarket: intPtr(10),
	}

	scores := InvestmentMetrics(p)

	// 2000 * 1.2 * 12 / 400000 * 100
	assert.Equal(t, 7.2, scores.RentalYield)
	assert.Equal(t, 4.5, scores.AppreciationRate)
	assert.Equal(t, 90.0, scores.DemandIndex)
	assert.Equal(t, 70.0, scores.SupplyIndex)
	assert.Equal(t, 25.0, scores.VolatilityScore)
}

func TestInvestmentMetrics_ZeroPriceGuard(t *testing.T) {
	p := &models.Property{Sqft: intPtr(2000), ListPrice: floatPtr(0)}
	scores := InvestmentMetrics(p)
	assert.Equal(t, 0.0, scores.RentalYield)

	p.ListPrice = nil
	scores = InvestmentMetrics(p)
	assert.Equal(t, 0.0, scores.RentalYield)
}

func TestInvestmentMetrics_DemandLadder(t *testing.T) {
	tests := []struct {
		daysOnMarket int
		expected     float64
	}{
		{5, 90},
		{20, 80},
		{45, 70},
		{90, 60},
	}
	for _, tt := range tests {
		p := &models.Property{DaysOnMarket: intPtr(tt.daysOnMarket)}
		assert.Equal(t, tt.expected, InvestmentMetrics(p).DemandIndex)
	}
}

func TestAIScores_ValuationBands(t *testing.T) {
	street := models.StreetStats{AvgPricePerSqft: 200}
	hood := models.NeighborhoodStats{PopulationGrowth: 2.3, CrimeRate: 12.5}

	tests := []struct {
		ppsf     float64
		expected float64
	}{
		{170, 90}, // undervalued
		{185, 85},
		{200, 80}, // fair value
		{218, 70},
		{250, 60}, // overvalued
	}

	for _, tt := range tests {
		p := &models.Property{PricePerSqft: floatPtr(tt.ppsf)}
		valuation, _, _ := AIScores(p, street, hood)
		assert.Equal(t, tt.expected, valuation)
	}
}

func TestAIScores_GrowthAndRiskClamped(t *testing.T) {
	street := models.StreetStats{AvgPricePerSqft: 200}

	// Explosive population growth cannot push growth above 100
	p := &models.Property{PricePerSqft: floatPtr(200), YearBuilt: intPtr(2020)}
	_, growth, _ := AIScores(p, street, models.NeighborhoodStats{PopulationGrowth: 50})
	assert.Equal(t, 100.0, growth)

	// A very old building with no growth cannot go negative
	p.YearBuilt = intPtr(1724)
	_, growth, _ = AIScores(p, street, models.NeighborhoodStats{PopulationGrowth: 0})
	assert.Equal(t, 0.0, growth)

	// Risk is capped at 100
	p.DaysOnMarket = intPtr(365)
	_, _, risk := AIScores(p, street, models.NeighborhoodStats{CrimeRate: 90})
	assert.Equal(t, 100.0, risk)
}

func TestCalculateScores_NoBaseline(t *testing.T) {
	p := &models.Property{
		Sqft:      intPtr(2400),
		ListPrice: floatPtr(480000),
		YearBuilt: intPtr(2015),
		Features:  models.Features{"pool": true},
	}

	scores := CalculateScores(p, nil, models.NeighborhoodStats{PopulationGrowth: 2.3})

	assert.Equal(t, 60.0, scores.AmenityScore)
	assert.Equal(t, 75.0, scores.LocationScore)
	assert.NotZero(t, scores.StructuralScore)
	assert.NotZero(t, scores.AIValuationScore)
}
