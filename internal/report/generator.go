package report

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"propaudit/server/internal/models"
)

// Generator turns a record plus its scores and context into an audit
// report.
type Generator interface {
	GenerateAudit(ctx context.Context, property *models.Property, street models.StreetStats, hood models.NeighborhoodStats, scores models.PropertyScores) (*models.AuditReport, error)
}

// Service is the production generator: the OpenAI path when a credential
// is configured, with a transparent fallback to the deterministic
// template. Report generation is never allowed to fail the read path, so
// GenerateAudit on the service returns no error.
type Service struct {
	logger   *logrus.Logger
	template *TemplateGenerator
	openai   *OpenAIGenerator
}

func NewService(openAIKey string, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	s := &Service{
		logger:   logger,
		template: NewTemplateGenerator(),
	}
	if openAIKey != "" {
		s.openai = NewOpenAIGenerator(openAIKey, logger)
	}

	return s
}

// GenerateAudit produces a report, degrading from the generative path to
// the template on any failure.
func (s *Service) GenerateAudit(ctx context.Context, property *models.Property, street models.StreetStats, hood models.NeighborhoodStats, scores models.PropertyScores) *models.AuditReport {
	if s.openai != nil {
		audit, err := s.openai.GenerateAudit(ctx, property, street, hood, scores)
		if err == nil {
			return audit
		}
		s.logger.WithError(err).WithField("property_id", property.ID).Error("Generative audit failed, using template")
	}

	audit, _ := s.template.GenerateAudit(ctx, property, street, hood, scores)
	return audit
}
