package acquisition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"propaudit/server/internal/models"
)

const attomProfileURL = "https://api.gateway.attomdata.com/propertyapi/v1.0.0/property/expandedprofile"

type attomResponse struct {
	Property []attomProperty `json:"property"`
}

type attomProperty struct {
	Address struct {
		OneLine     string `json:"oneLine"`
		Locality    string `json:"locality"`
		CountrySubd string `json:"countrySubd"`
		Postal1     string `json:"postal1"`
		Latitude    string `json:"latitude"`
		Longitude   string `json:"longitude"`
	} `json:"address"`
	Building struct {
		PropertyType string `json:"propertyType"`
		Rooms        struct {
			Beds       int     `json:"beds"`
			BathsTotal float64 `json:"bathstotal"`
		} `json:"rooms"`
		Size struct {
			BldgSize int `json:"bldgsize"`
		} `json:"size"`
		Summary struct {
			YearBuilt int `json:"yearbuilt"`
		} `json:"summary"`
	} `json:"building"`
	Lot struct {
		LotSize1 float64 `json:"lotsize1"`
	} `json:"lot"`
	Assessment struct {
		Assessed struct {
			AssdTtlValue float64 `json:"assdttlvalue"`
		} `json:"assessed"`
	} `json:"assessment"`
}

func (s *Service) fetchFromAttom(ctx context.Context, city, state string, limit int) ([]*models.Property, []models.SyncItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attomProfileURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("address1", city)
	q.Set("address2", state)
	q.Set("pagesize", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("apikey", s.attomKey)
	req.Header.Set("accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("ATTOM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("ATTOM returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	var data attomResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, nil, fmt.Errorf("failed to parse response: %w", err)
	}

	properties, skipped := s.transformAttomData(&data)
	return properties, skipped, nil
}

// transformAttomData maps API records into the canonical shape. A record
// with a missing or malformed required field becomes a skip entry, never
// a batch failure.
func (s *Service) transformAttomData(data *attomResponse) ([]*models.Property, []models.SyncItem) {
	var properties []*models.Property
	var skipped []models.SyncItem

	for _, raw := range data.Property {
		property, err := transformAttomProperty(raw)
		if err != nil {
			s.logger.WithError(err).WithField("address", raw.Address.OneLine).Warn("Skipping malformed property")
			skipped = append(skipped, models.SyncItem{
				Address: raw.Address.OneLine,
				Outcome: models.SyncSkipped,
				Reason:  err.Error(),
			})
			continue
		}
		properties = append(properties, property)
	}

	return properties, skipped
}

func transformAttomProperty(raw attomProperty) (*models.Property, error) {
	if raw.Address.OneLine == "" {
		return nil, fmt.Errorf("missing address")
	}

	latitude, err := strconv.ParseFloat(raw.Address.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed latitude %q", raw.Address.Latitude)
	}
	longitude, err := strconv.ParseFloat(raw.Address.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed longitude %q", raw.Address.Longitude)
	}

	propertyType := raw.Building.PropertyType
	if propertyType == "" {
		propertyType = "Single Family"
	}

	bedrooms := raw.Building.Rooms.Beds
	bathrooms := raw.Building.Rooms.BathsTotal
	sqft := raw.Building.Size.BldgSize
	lotSize := int(raw.Lot.LotSize1)
	yearBuilt := raw.Building.Summary.YearBuilt
	taxAssessment := raw.Assessment.Assessed.AssdTtlValue

	property := &models.Property{
		Address:       raw.Address.OneLine,
		City:          raw.Address.Locality,
		State:         raw.Address.CountrySubd,
		ZipCode:       raw.Address.Postal1,
		Latitude:      latitude,
		Longitude:     longitude,
		PropertyType:  propertyType,
		Bedrooms:      &bedrooms,
		Bathrooms:     &bathrooms,
		Sqft:          &sqft,
		LotSize:       &lotSize,
		YearBuilt:     &yearBuilt,
		TaxAssessment: &taxAssessment,
		DataSource:    "ATTOM",
	}
	normalize(property)

	return property, nil
}
