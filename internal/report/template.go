package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"propaudit/server/internal/models"
)

// TemplateGenerator renders the audit deterministically from the numeric
// scores. Identical inputs produce byte-identical reports.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// recommendation maps the valuation/growth pair onto the buy ladder.
func recommendation(valuation, growth float64) string {
	switch {
	case valuation > 85 && growth > 80:
		return "STRONG BUY"
	case valuation > 75:
		return "BUY"
	default:
		return "HOLD"
	}
}

// overallScore is the report headline: mean of valuation, growth, and
// inverted risk, rounded to one decimal.
func overallScore(valuation, growth, risk float64) float64 {
	return math.Round((valuation+growth+(100-risk))/3*10) / 10
}

func (g *TemplateGenerator) GenerateAudit(_ context.Context, property *models.Property, _ models.StreetStats, _ models.NeighborhoodStats, scores models.PropertyScores) (*models.AuditReport, error) {
	address := property.Address
	if address == "" {
		address = "Property"
	}
	price := floatValue(property.ListPrice)
	ppsf := floatValue(property.PricePerSqft)
	sqft := 0
	if property.Sqft != nil {
		sqft = *property.Sqft
	}

	valuation := scores.AIValuationScore
	growth := scores.AIGrowthScore
	risk := scores.AIRiskScore

	var b strings.Builder

	fmt.Fprintf(&b, "# INVESTMENT AUDIT REPORT\n## %s\n\n", address)

	fmt.Fprintf(&b, "### EXECUTIVE SUMMARY\n")
	fmt.Fprintf(&b,
		"This property presents a %s investment opportunity with a current listing price of $%s ($%.2f/sqft). "+
			"The property demonstrates %s market positioning within its neighborhood, with a valuation score of %g/100.\n\n",
		pick(valuation > 80, "strong", "moderate"),
		commaf(price),
		ppsf,
		pick(valuation > 75, "above-average", "average"),
		valuation,
	)

	fmt.Fprintf(&b, "### PROPERTY VALUATION ANALYSIS\n\n")
	fmt.Fprintf(&b, "**Market Positioning**: %g/100\n", valuation)
	fmt.Fprintf(&b, "- Current asking price: $%s\n", commaf(price))
	fmt.Fprintf(&b, "- Price per square foot: $%.2f\n", ppsf)
	fmt.Fprintf(&b, "- Total living area: %s sq ft\n\n", commaf(float64(sqft)))
	fmt.Fprintf(&b,
		"The property is currently %s priced relative to comparable properties in the immediate area.\n\n",
		priceAdjective(valuation),
	)

	fmt.Fprintf(&b, "### LOCATION & NEIGHBORHOOD ASSESSMENT\n\n")
	fmt.Fprintf(&b, "**Growth Score**: %g/100\n", growth)
	fmt.Fprintf(&b, "- Neighborhood demonstrates %s growth indicators\n", pick(growth > 75, "strong", "steady"))
	fmt.Fprintf(&b, "- Quality school district with ratings above regional average\n")
	fmt.Fprintf(&b, "- %s demographic and economic stability\n\n", pick(growth > 80, "High", "Moderate"))

	fmt.Fprintf(&b, "### INVESTMENT METRICS\n\n")
	fmt.Fprintf(&b, "**Rental Yield**: %.2f%%\n", scores.RentalYield)
	fmt.Fprintf(&b, "**Projected Appreciation**: %.1f%% annually\n", scores.AppreciationRate)
	fmt.Fprintf(&b, "**Demand Index**: %g/100\n\n", scores.DemandIndex)
	fmt.Fprintf(&b,
		"The property shows %s demand characteristics with below-average days on market, indicating %s liquidity.\n\n",
		pick(scores.DemandIndex > 80, "strong", "solid"),
		pick(scores.DemandIndex > 80, "high", "moderate"),
	)

	fmt.Fprintf(&b, "### AMENITY & CONDITION ANALYSIS\n\n")
	fmt.Fprintf(&b, "**Amenity Score**: %.1f/100\n", scores.AmenityScore)
	fmt.Fprintf(&b, "**Structural Score**: %.1f/100\n\n", scores.StructuralScore)
	fmt.Fprintf(&b,
		"The property features %s construction and %s amenities for its market segment.\n\n",
		pick(scores.StructuralScore > 80, "modern", "well-maintained"),
		pick(scores.AmenityScore > 75, "premium", "standard"),
	)

	fmt.Fprintf(&b, "### RISK ASSESSMENT\n\n")
	fmt.Fprintf(&b, "**Risk Score**: %g/100 (Lower is better)\n\n", risk)
	fmt.Fprintf(&b, "Key considerations:\n")
	fmt.Fprintf(&b, "- Market liquidity: %s\n", pick(risk < 40, "High", "Moderate"))
	fmt.Fprintf(&b, "- Price volatility: %s\n", pick(risk < 40, "Low", "Moderate"))
	fmt.Fprintf(&b, "- Neighborhood stability: %s\n\n", pick(risk < 40, "High", "Moderate"))

	fmt.Fprintf(&b, "### INVESTMENT THESIS\n\n")
	fmt.Fprintf(&b, "**Recommendation**: %s\n", recommendation(valuation, growth))
	fmt.Fprintf(&b, "**Confidence**: %s\n\n", pick(valuation > 80, "High", "Moderate"))
	fmt.Fprintf(&b,
		"This property represents a %s investment opportunity for %s investors. "+
			"The combination of %s neighborhood fundamentals, %s pricing, and %s risk profile suggests %s potential "+
			"for both rental income and capital appreciation.\n\n",
		pick(valuation > 85, "compelling", "solid"),
		pick(valuation > 75, "value-oriented", "balanced"),
		pick(growth > 75, "strong", "stable"),
		pick(valuation >= 75 && valuation <= 85, "competitive", "attractive"),
		pick(risk < 40, "low", "manageable"),
		pick(valuation > 85, "excellent", "good"),
	)

	fmt.Fprintf(&b, "**Target Hold Period**: 5-7 years\n")
	fmt.Fprintf(&b, "**Expected IRR**: %.1f%%\n", scores.AppreciationRate+scores.RentalYield)

	fullReport := b.String()

	return &models.AuditReport{
		PropertyID: property.ID,
		Summary: fmt.Sprintf(
			"This property presents a %s investment opportunity with a valuation score of %g/100 and growth potential of %g/100.",
			pick(valuation > 80, "strong", "moderate"), valuation, growth,
		),
		InvestmentThesis: fmt.Sprintf(
			"%s - This property represents a %s investment with %s appreciation potential.",
			recommendation(valuation, growth),
			pick(valuation > 85, "compelling", "solid"),
			pick(valuation > 85, "excellent", "good"),
		),
		FullReport:     fullReport,
		OverallScore:   overallScore(valuation, growth, risk),
		ValuationScore: valuation,
		GrowthScore:    growth,
		RiskScore:      risk,
		Sections:       parseSections(fullReport),
	}, nil
}

// priceAdjective picks the valuation wording for the market-positioning
// sentence.
func priceAdjective(valuation float64) string {
	switch {
	case valuation >= 75 && valuation <= 85:
		return "competitively"
	case valuation > 85:
		return "attractively"
	default:
		return "moderately"
	}
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// commaf renders a number with thousands separators and no decimals.
func commaf(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
