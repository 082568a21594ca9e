package acquisition

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"propaudit/server/internal/models"
)

// Service obtains raw listings from the ATTOM property API, or from the
// procedural sample generator when no credential is configured. Both paths
// normalize into the canonical Property shape.
type Service struct {
	logger        *logrus.Logger
	client        *http.Client
	attomKey      string
	useSampleData bool
}

func NewService(attomKey string, useSampleData bool, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Service{
		logger:        logger,
		client:        &http.Client{Timeout: 15 * time.Second},
		attomKey:      attomKey,
		useSampleData: useSampleData,
	}
}

// FetchCityListings returns normalized listings for a city plus the
// per-record skips produced during transformation. A failure of the
// external API degrades to sample data rather than surfacing an error.
func (s *Service) FetchCityListings(ctx context.Context, city, state string, limit int) ([]*models.Property, []models.SyncItem, error) {
	if s.attomKey == "" || s.useSampleData {
		return s.GenerateSampleListings(city, state), nil, nil
	}

	properties, skipped, err := s.fetchFromAttom(ctx, city, state, limit)
	if err != nil {
		s.logger.WithError(err).WithField("city", city).Error("ATTOM fetch failed, falling back to sample data")
		return s.GenerateSampleListings(city, state), nil, nil
	}
	return properties, skipped, nil
}

// normalize keeps the price-per-sqft invariant: when both price and area
// are present it is derived at ingestion, never trusted from upstream.
func normalize(p *models.Property) {
	if p.ListPrice != nil && p.Sqft != nil && *p.Sqft > 0 {
		ppsf := round2(*p.ListPrice / float64(*p.Sqft))
		p.PricePerSqft = &ppsf
	}
}
