package analytics

import (
	"math"
	"sort"

	"propaudit/server/internal/models"
)

// ComputeStreetStats aggregates descriptive statistics over a comparison
// group. Each metric filters missing values independently, so a record
// without a price still contributes to the sqft average. An empty group
// yields all-zero statistics.
func ComputeStreetStats(records []models.Property) models.StreetStats {
	stats := models.StreetStats{PropertyCount: len(records)}
	if len(records) == 0 {
		return stats
	}

	var prices, ppsf, sqfts, beds, baths []float64
	for _, p := range records {
		if p.ListPrice != nil {
			prices = append(prices, *p.ListPrice)
		}
		if p.PricePerSqft != nil {
			ppsf = append(ppsf, *p.PricePerSqft)
		}
		if p.Sqft != nil {
			sqfts = append(sqfts, float64(*p.Sqft))
		}
		if p.Bedrooms != nil {
			beds = append(beds, float64(*p.Bedrooms))
		}
		if p.Bathrooms != nil {
			baths = append(baths, *p.Bathrooms)
		}
	}

	stats.AvgPrice = mean(prices)
	stats.MedianPrice = median(prices)
	stats.StdPrice = populationStd(prices)
	stats.AvgPricePerSqft = mean(ppsf)
	stats.AvgSqft = mean(sqfts)
	stats.AvgBedrooms = mean(beds)
	stats.AvgBathrooms = mean(baths)

	return stats
}

// CompareToStreet positions one record against street averages. The price
// z-score degrades to 0 (percentile 50) when the baseline deviation is
// zero; ratios stay zero when their denominator is zero.
func CompareToStreet(p *models.Property, stats models.StreetStats) models.StreetComparison {
	comparison := models.StreetComparison{PricePercentile: 50}

	price := floatOrDefault(p.ListPrice, 0)
	if stats.StdPrice > 0 {
		z := (price - stats.AvgPrice) / stats.StdPrice
		comparison.PriceZScore = round2(z)
		comparison.PricePercentile = zscoreToPercentile(z)
	}

	ppsf := floatOrDefault(p.PricePerSqft, 0)
	if stats.AvgPricePerSqft > 0 {
		ratio := ppsf / stats.AvgPricePerSqft
		comparison.PpsfRatio = round2(ratio)
		comparison.PpsfVsStreet = round1((ratio - 1) * 100)
	}

	if stats.AvgSqft > 0 {
		comparison.SqftRatio = round2(float64(intOrDefault(p.Sqft, 0)) / stats.AvgSqft)
	}

	return comparison
}

// zscoreToPercentile maps a z-score through the standard normal CDF.
func zscoreToPercentile(z float64) int {
	return int(normalCDF(z) * 100)
}

func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// populationStd is the uncorrected standard deviation, not the
// Bessel-corrected sample deviation.
func populationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
