package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"propaudit/server/internal/models"
)

func TestComputeStreetStats_Empty(t *testing.T) {
	stats := ComputeStreetStats(nil)
	assert.Equal(t, models.StreetStats{}, stats)

	stats = ComputeStreetStats([]models.Property{})
	assert.Zero(t, stats.AvgPrice)
	assert.Zero(t, stats.MedianPrice)
	assert.Zero(t, stats.StdPrice)
}

func TestComputeStreetStats_Basic(t *testing.T) {
	records := []models.Property{
		{ListPrice: floatPtr(100), Sqft: intPtr(1000)},
		{ListPrice: floatPtr(200), Sqft: intPtr(2000)},
		{ListPrice: floatPtr(300), Sqft: intPtr(3000)},
	}

	stats := ComputeStreetStats(records)

	assert.Equal(t, 3, stats.PropertyCount)
	assert.Equal(t, 200.0, stats.AvgPrice)
	assert.Equal(t, 200.0, stats.MedianPrice)
	assert.InDelta(t, math.Sqrt(20000.0/3.0), stats.StdPrice, 1e-9)
	assert.Equal(t, 2000.0, stats.AvgSqft)
}

func TestComputeStreetStats_MedianEvenCount(t *testing.T) {
	records := []models.Property{
		{ListPrice: floatPtr(100)},
		{ListPrice: floatPtr(200)},
		{ListPrice: floatPtr(400)},
		{ListPrice: floatPtr(800)},
	}
	stats := ComputeStreetStats(records)
	assert.Equal(t, 300.0, stats.MedianPrice)
}

func TestComputeStreetStats_MetricsFilterIndependently(t *testing.T) {
	// A record missing its price still contributes to the sqft average
	records := []models.Property{
		{ListPrice: floatPtr(100), Sqft: intPtr(1000)},
		{Sqft: intPtr(3000)},
	}

	stats := ComputeStreetStats(records)

	assert.Equal(t, 2, stats.PropertyCount)
	assert.Equal(t, 100.0, stats.AvgPrice)
	assert.Equal(t, 2000.0, stats.AvgSqft)
}

func TestCompareToStreet_ZScoreAndPercentile(t *testing.T) {
	stats := ComputeStreetStats([]models.Property{
		{ListPrice: floatPtr(100)},
		{ListPrice: floatPtr(200)},
		{ListPrice: floatPtr(300)},
	})

	p := &models.Property{ListPrice: floatPtr(200)}
	comparison := CompareToStreet(p, stats)

	assert.Equal(t, 0.0, comparison.PriceZScore)
	assert.Equal(t, 50, comparison.PricePercentile)
}

func TestCompareToStreet_ZeroStdDegrades(t *testing.T) {
	stats := models.StreetStats{AvgPrice: 200, StdPrice: 0}
	p := &models.Property{ListPrice: floatPtr(500)}

	comparison := CompareToStreet(p, stats)

	assert.Equal(t, 0.0, comparison.PriceZScore)
	assert.Equal(t, 50, comparison.PricePercentile)
}

func TestCompareToStreet_Ratios(t *testing.T) {
	stats := models.StreetStats{
		AvgPrice:        200000,
		StdPrice:        50000,
		AvgPricePerSqft: 200,
		AvgSqft:         2000,
	}
	p := &models.Property{
		ListPrice:    floatPtr(250000),
		PricePerSqft: floatPtr(220),
		Sqft:         intPtr(2500),
	}

	comparison := CompareToStreet(p, stats)

	assert.Equal(t, 1.0, comparison.PriceZScore)
	assert.Equal(t, 84, comparison.PricePercentile)
	assert.Equal(t, 1.1, comparison.PpsfRatio)
	assert.InDelta(t, 10.0, comparison.PpsfVsStreet, 1e-9)
	assert.Equal(t, 1.25, comparison.SqftRatio)
}

func TestCompareToStreet_ZeroDenominatorsSuppressRatios(t *testing.T) {
	p := &models.Property{ListPrice: floatPtr(100), PricePerSqft: floatPtr(50), Sqft: intPtr(1200)}
	comparison := CompareToStreet(p, models.StreetStats{})

	assert.Zero(t, comparison.PpsfRatio)
	assert.Zero(t, comparison.PpsfVsStreet)
	assert.Zero(t, comparison.SqftRatio)
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-9)
	assert.InDelta(t, 0.8413, normalCDF(1), 1e-4)
	assert.InDelta(t, 0.1587, normalCDF(-1), 1e-4)
}

func TestPopulationStd_NotBesselCorrected(t *testing.T) {
	// Population std of [2,4] is 1; the sample std would be sqrt(2)
	assert.InDelta(t, 1.0, populationStd([]float64{2, 4}), 1e-9)
}
