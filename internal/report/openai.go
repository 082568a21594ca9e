package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"propaudit/server/internal/models"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-4-turbo-preview"
)

const systemPrompt = `You are an expert real estate investment analyst with deep knowledge of:
- Property valuation and comparative market analysis
- Urban economics and neighborhood dynamics
- Investment risk assessment
- Real estate market trends

Generate a professional, data-driven investment audit report with the following sections:

1. EXECUTIVE SUMMARY (2-3 sentences)
2. PROPERTY VALUATION ANALYSIS
   - Current market positioning
   - Price per square foot analysis
   - Comparison to street and neighborhood averages
3. LOCATION & NEIGHBORHOOD ASSESSMENT
   - Neighborhood quality indicators
   - Growth trends and demographics
   - Infrastructure and amenities
4. INVESTMENT METRICS
   - Rental yield potential
   - Appreciation forecast
   - Risk factors
5. STREET-LEVEL COMPARISON
   - How this property compares to nearby homes
   - Market positioning
6. RISK ASSESSMENT
   - Key risk factors
   - Mitigation strategies
7. INVESTMENT THESIS (Final recommendation with confidence level)

Use quantitative data provided. Be specific, analytical, and professional.
Format the report with clear headers and bullet points for readability.
`

// OpenAIGenerator produces audits through the chat-completions API. Any
// failure is returned to the caller, which falls back to the template.
type OpenAIGenerator struct {
	logger *logrus.Logger
	client *http.Client
	apiKey string
}

func NewOpenAIGenerator(apiKey string, logger *logrus.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		logger: logger,
		client: &http.Client{Timeout: 60 * time.Second},
		apiKey: apiKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *OpenAIGenerator) GenerateAudit(ctx context.Context, property *models.Property, street models.StreetStats, hood models.NeighborhoodStats, scores models.PropertyScores) (*models.AuditReport, error) {
	auditContext, err := json.MarshalIndent(buildAuditContext(property, street, hood, scores), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit context: %w", err)
	}

	auditText, err := g.complete(ctx, string(auditContext))
	if err != nil {
		return nil, err
	}

	return &models.AuditReport{
		PropertyID:       property.ID,
		Summary:          extractSummary(auditText),
		InvestmentThesis: extractThesis(auditText),
		FullReport:       auditText,
		OverallScore:     scores.AIValuationScore,
		ValuationScore:   scores.AIValuationScore,
		GrowthScore:      scores.AIGrowthScore,
		RiskScore:        scores.AIRiskScore,
		Sections:         parseSections(auditText),
	}, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, auditContext string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: openAIModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Generate an investment audit for this property:\n\n" + auditContext},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion returned status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// buildAuditContext assembles the structured JSON context the model is
// prompted with.
func buildAuditContext(property *models.Property, street models.StreetStats, hood models.NeighborhoodStats, scores models.PropertyScores) map[string]interface{} {
	return map[string]interface{}{
		"property": map[string]interface{}{
			"address":        property.Address,
			"type":           property.PropertyType,
			"price":          property.ListPrice,
			"price_per_sqft": property.PricePerSqft,
			"bedrooms":       property.Bedrooms,
			"bathrooms":      property.Bathrooms,
			"sqft":           property.Sqft,
			"lot_size":       property.LotSize,
			"year_built":     property.YearBuilt,
			"features":       property.Features,
			"days_on_market": property.DaysOnMarket,
		},
		"street_stats": street,
		"neighborhood": hood,
		"analytics": map[string]interface{}{
			"amenity_score":     scores.AmenityScore,
			"structural_score":  scores.StructuralScore,
			"location_score":    scores.LocationScore,
			"valuation_score":   scores.AIValuationScore,
			"growth_score":      scores.AIGrowthScore,
			"risk_score":        scores.AIRiskScore,
			"rental_yield":      scores.RentalYield,
			"appreciation_rate": scores.AppreciationRate,
			"demand_index":      scores.DemandIndex,
		},
	}
}
