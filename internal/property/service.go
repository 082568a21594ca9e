package property

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"propaudit/server/internal/acquisition"
	"propaudit/server/internal/analytics"
	"propaudit/server/internal/database"
	"propaudit/server/internal/models"
	"propaudit/server/internal/neighborhood"
	"propaudit/server/internal/report"
)

// nearbyContextRadius is how far Analyze looks for display-context
// listings, in miles.
const nearbyContextRadius = 0.3

// maxNearbyContext caps the nearby listings attached to an analysis.
const maxNearbyContext = 10

// Service orchestrates acquisition, persistence, scoring, aggregation and
// report generation. It is the only component with side effects; all the
// computation below it is pure.
type Service struct {
	db           *database.Database
	acquisition  *acquisition.Service
	neighborhood *neighborhood.Provider
	reports      *report.Service
	logger       *logrus.Logger
	fetchLimit   int
}

func NewService(db *database.Database, acq *acquisition.Service, hood *neighborhood.Provider, reports *report.Service, fetchLimit int, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Service{
		db:           db,
		acquisition:  acq,
		neighborhood: hood,
		reports:      reports,
		logger:       logger,
		fetchLimit:   fetchLimit,
	}
}

// Sync fetches listings for a city and upserts them by exact address in
// one transaction. Scores are recomputed on every upsert, insert or
// update, so re-listed properties never carry scores from a prior price.
func (s *Service) Sync(ctx context.Context, city, state string) (*models.SyncReport, error) {
	syncReport := &models.SyncReport{City: city, State: state}

	listings, skipped, err := s.acquisition.FetchCityListings(ctx, city, state, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	for _, item := range skipped {
		syncReport.Record(item.Address, item.Outcome, item.Reason)
	}

	hood := s.neighborhood.GetNeighborhoodData(city, "")
	for _, listing := range listings {
		listing.Scores = analytics.CalculateScores(listing, nil, hood)
	}

	items, err := s.db.UpsertBatch(listings)
	if err != nil {
		return nil, fmt.Errorf("failed to persist batch: %w", err)
	}
	for _, item := range items {
		syncReport.Record(item.Address, item.Outcome, item.Reason)
	}

	s.logger.WithFields(logrus.Fields{
		"city":     city,
		"state":    state,
		"inserted": syncReport.Inserted,
		"updated":  syncReport.Updated,
		"skipped":  syncReport.Skipped,
	}).Info("Sync completed")

	return syncReport, nil
}

// GetProperties answers the filtered, paginated listing query.
func (s *Service) GetProperties(filter database.PropertyFilter) ([]models.Property, error) {
	return s.db.GetProperties(filter)
}

// GetProperty returns a single record, or nil when it does not exist.
func (s *Service) GetProperty(id int64) (*models.Property, error) {
	return s.db.GetPropertyByID(id)
}

// GetNearby returns records within radiusMiles of the point.
func (s *Service) GetNearby(latitude, longitude, radiusMiles float64) ([]models.Property, error) {
	return s.db.GetNearbyProperties(latitude, longitude, radiusMiles)
}

// Analyze assembles the full analysis for one record: street baseline,
// neighborhood context, fresh scores, street comparison, and nearby
// listings for display. Returns nil when the record does not exist.
func (s *Service) Analyze(ctx context.Context, id int64) (*models.Analysis, error) {
	property, err := s.db.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, nil
	}

	streetName := ExtractStreetName(property.Address)
	streetProperties, err := s.db.GetStreetProperties(streetName, property.City)
	if err != nil {
		return nil, err
	}
	streetStats := analytics.ComputeStreetStats(streetProperties)

	hood := s.neighborhood.GetNeighborhoodData(property.City, property.ZipCode)
	scores := analytics.CalculateScores(property, &streetStats, hood)
	comparison := analytics.CompareToStreet(property, streetStats)

	nearby, err := s.db.GetNearbyProperties(property.Latitude, property.Longitude, nearbyContextRadius)
	if err != nil {
		s.logger.WithError(err).WithField("property_id", id).Error("Nearby lookup failed")
		nearby = nil
	}

	return &models.Analysis{
		Property:         property,
		Scores:           scores,
		StreetStats:      streetStats,
		StreetComparison: comparison,
		Neighborhood:     hood,
		Nearby:           trimNearby(nearby, maxNearbyContext),
	}, nil
}

// Audit runs Analyze and feeds its outputs to the report generator.
// Returns nil when the record does not exist.
func (s *Service) Audit(ctx context.Context, id int64) (*models.AuditReport, error) {
	analysis, err := s.Analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, nil
	}

	audit := s.reports.GenerateAudit(ctx, analysis.Property, analysis.StreetStats, analysis.Neighborhood, analysis.Scores)
	return audit, nil
}

// GetCityStats aggregates city-level statistics. Returns nil when the
// city has no records.
func (s *Service) GetCityStats(city string) (*models.CityStats, error) {
	properties, err := s.db.GetCityProperties(city)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, nil
	}

	stats := analytics.ComputeStreetStats(properties)

	cityStats := &models.CityStats{
		TotalProperties: len(properties),
		AvgPrice:        round2(stats.AvgPrice),
		MedianPrice:     round2(stats.MedianPrice),
		AvgSqft:         round2(stats.AvgSqft),
		AvgPricePerSqft: round2(stats.AvgPricePerSqft),
	}

	for _, p := range properties {
		if p.ListPrice != nil {
			price := *p.ListPrice
			if cityStats.MinPrice == 0 || price < cityStats.MinPrice {
				cityStats.MinPrice = price
			}
			if price > cityStats.MaxPrice {
				cityStats.MaxPrice = price
			}
		}
		if p.Status == models.StatusActive {
			cityStats.ActiveListings++
		}
	}

	return cityStats, nil
}

// ExtractStreetName derives the street name from a full address: the
// segment before the first comma, minus the leading house-number token.
func ExtractStreetName(address string) string {
	parts := strings.TrimSpace(strings.Split(address, ",")[0])
	words := strings.Fields(parts)
	if len(words) > 1 {
		return strings.Join(words[1:], " ")
	}
	return parts
}

func trimNearby(properties []models.Property, limit int) []models.NearbyProperty {
	nearby := make([]models.NearbyProperty, 0, limit)
	for _, p := range properties {
		if len(nearby) == limit {
			break
		}
		nearby = append(nearby, models.NearbyProperty{
			ID:           p.ID,
			Address:      p.Address,
			Price:        p.ListPrice,
			Sqft:         p.Sqft,
			PricePerSqft: p.PricePerSqft,
		})
	}
	return nearby
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
