package dal

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// MemoryDAL implements CatalogDAL using in-memory storage
type MemoryDAL struct {
	mu      sync.RWMutex
	catalog *models.Catalog
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{catalog: DefaultCatalog()}
}

// GetCatalog returns a deep copy so callers can never mutate the fixtures
func (m *MemoryDAL) GetCatalog() (*models.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneCatalog(m.catalog)
}

func (m *MemoryDAL) ListMatchups() ([]models.Matchup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matchups := make([]models.Matchup, len(m.catalog.Matchups))
	copy(matchups, m.catalog.Matchups)
	return matchups, nil
}

func (m *MemoryDAL) GetMatchup(idx int) (*models.Matchup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mu, ok := m.catalog.MatchupAt(idx)
	if !ok {
		return nil, fmt.Errorf("matchup %d: %w", idx, ErrNotFound)
	}
	return &mu, nil
}

func (m *MemoryDAL) GetScheduleDay(idx int) (*models.BracketGameDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day, ok := m.catalog.DayAt(idx)
	if !ok {
		return nil, fmt.Errorf("schedule day %d: %w", idx, ErrNotFound)
	}
	return &day, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = DefaultCatalog()
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}

// cloneCatalog deep-copies through JSON; pointer fields would otherwise be shared
func cloneCatalog(c *models.Catalog) (*models.Catalog, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("clone catalog: %w", err)
	}
	var out models.Catalog
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone catalog: %w", err)
	}
	return &out, nil
}
