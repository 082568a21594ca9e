package models

import "time"

// Property status values as stored in the listings table.
const (
	StatusActive  = "Active"
	StatusPending = "Pending"
	StatusSold    = "Sold"
)

// Features holds named amenity flags for a listing. Values are either
// booleans (pool, fireplace, ...) or integers (garage space count).
type Features map[string]interface{}

type Property struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	// Basic info
	Address string `json:"address" gorm:"not null;index:idx_properties_address"`
	City    string `json:"city" gorm:"not null;index:idx_properties_city_zip"`
	State   string `json:"state" gorm:"not null"`
	ZipCode string `json:"zip_code" gorm:"not null;index:idx_properties_city_zip"`

	// Location
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`

	// Physical attributes
	PropertyType string   `json:"property_type"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
	Sqft         *int     `json:"sqft"`
	LotSize      *int     `json:"lot_size"`
	YearBuilt    *int     `json:"year_built"`

	// Market attributes
	ListPrice     *float64 `json:"list_price" gorm:"index:idx_properties_price"`
	PricePerSqft  *float64 `json:"price_per_sqft"`
	TaxAssessment *float64 `json:"tax_assessment"`
	DaysOnMarket  *int     `json:"days_on_market"`
	Status        string   `json:"status"`

	Features Features `json:"features" gorm:"serializer:json"`

	Scores PropertyScores `json:"scores" gorm:"embedded"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	DataSource string    `json:"data_source"`
}

// PropertyScores is the computed score block attached to every record at
// ingestion time.
type PropertyScores struct {
	AmenityScore    float64 `json:"amenity_score"`
	StructuralScore float64 `json:"structural_score"`
	LocationScore   float64 `json:"location_score"`

	RentalYield      float64 `json:"rental_yield"`
	AppreciationRate float64 `json:"appreciation_rate"`
	VolatilityScore  float64 `json:"volatility_score"`
	DemandIndex      float64 `json:"demand_index"`
	SupplyIndex      float64 `json:"supply_index"`

	AIValuationScore float64 `json:"ai_valuation_score"`
	AIGrowthScore    float64 `json:"ai_growth_score"`
	AIRiskScore      float64 `json:"ai_risk_score"`
}

// StreetStats are descriptive statistics over a comparison group (same
// street or same city). They are recomputed on every query, never stored.
type StreetStats struct {
	PropertyCount   int     `json:"property_count"`
	AvgPrice        float64 `json:"avg_price"`
	MedianPrice     float64 `json:"median_price"`
	StdPrice        float64 `json:"std_price"`
	AvgPricePerSqft float64 `json:"avg_price_per_sqft"`
	AvgSqft         float64 `json:"avg_sqft"`
	AvgBedrooms     float64 `json:"avg_bedrooms"`
	AvgBathrooms    float64 `json:"avg_bathrooms"`

	// Market-dynamics placeholders carried for report context.
	TurnoverRate      float64 `json:"turnover_rate"`
	RenovationDensity float64 `json:"renovation_density"`
	InvestorRatio     float64 `json:"investor_ratio"`
	GrowthRate        float64 `json:"growth_rate"`
}

// NeighborhoodStats is external context consumed read-only by scoring and
// report generation.
type NeighborhoodStats struct {
	MedianIncome        float64 `json:"median_income"`
	Population          int     `json:"population"`
	PopulationGrowth    float64 `json:"population_growth"`
	SchoolQualityAvg    float64 `json:"school_quality_avg"`
	CrimeRate           float64 `json:"crime_rate"`
	InfrastructureScore float64 `json:"infrastructure_score"`
	HousingSupplyRate   float64 `json:"housing_supply_rate"`
	DemandGrowthRate    float64 `json:"demand_growth_rate"`
}

// StreetComparison positions one record against its street baseline.
// Ratio fields are zero when the baseline denominator is zero.
type StreetComparison struct {
	PriceZScore     float64 `json:"price_zscore"`
	PricePercentile int     `json:"price_percentile"`
	PpsfRatio       float64 `json:"ppsf_ratio"`
	PpsfVsStreet    float64 `json:"ppsf_vs_street"`
	SqftRatio       float64 `json:"sqft_ratio"`
}

// NearbyProperty is the trimmed listing shape returned as analysis context.
type NearbyProperty struct {
	ID           int64    `json:"id"`
	Address      string   `json:"address"`
	Price        *float64 `json:"price"`
	Sqft         *int     `json:"sqft"`
	PricePerSqft *float64 `json:"price_per_sqft"`
}

// Analysis bundles everything Analyze computes for one record.
type Analysis struct {
	Property         *Property         `json:"property"`
	Scores           PropertyScores    `json:"scores"`
	StreetStats      StreetStats       `json:"street_stats"`
	StreetComparison StreetComparison  `json:"street_comparison"`
	Neighborhood     NeighborhoodStats `json:"neighborhood"`
	Nearby           []NearbyProperty  `json:"nearby_properties"`
}

// AuditReport is the narrative investment summary for a single record.
// Repeated audits of the same property produce independent reports.
type AuditReport struct {
	PropertyID       int64             `json:"property_id"`
	Summary          string            `json:"summary"`
	InvestmentThesis string            `json:"investment_thesis"`
	FullReport       string            `json:"full_report"`
	OverallScore     float64           `json:"overall_score"`
	ValuationScore   float64           `json:"valuation_score"`
	GrowthScore      float64           `json:"growth_score"`
	RiskScore        float64           `json:"risk_score"`
	Sections         map[string]string `json:"sections"`
}

// CityStats is the city-level aggregate returned by the stats endpoint.
type CityStats struct {
	TotalProperties int     `json:"total_properties"`
	AvgPrice        float64 `json:"avg_price"`
	MedianPrice     float64 `json:"median_price"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	AvgSqft         float64 `json:"avg_sqft"`
	AvgPricePerSqft float64 `json:"avg_price_per_sqft"`
	ActiveListings  int     `json:"active_listings"`
}
