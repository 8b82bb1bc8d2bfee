package mocks

import (
	"context"
	"sync"

	"github.com/Billy-Davies-2/bracket-champs/internal/clickhouse"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
)

// MockClickHouseClient keeps pick analytics in memory for local development
type MockClickHouseClient struct {
	mu     sync.Mutex
	counts map[int]map[string]int
	picks  []clickhouse.PickRecord
}

var _ clickhouse.PickRecorder = (*MockClickHouseClient)(nil)

// NewMockClickHouseClient creates a mock ClickHouse client
func NewMockClickHouseClient() *MockClickHouseClient {
	logger.Info("Using MOCK ClickHouse client for local development")
	return &MockClickHouseClient{counts: make(map[int]map[string]int)}
}

// RecordPick counts the pick in memory
func (m *MockClickHouseClient) RecordPick(_ context.Context, rec clickhouse.PickRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counts[rec.MatchupID] == nil {
		m.counts[rec.MatchupID] = make(map[string]int)
	}
	m.counts[rec.MatchupID][rec.Team]++
	m.picks = append(m.picks, rec)
	return nil
}

// PickCounts returns a copy of the counts for a matchup
func (m *MockClickHouseClient) PickCounts(_ context.Context, matchupID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int, len(m.counts[matchupID]))
	for team, n := range m.counts[matchupID] {
		out[team] = n
	}
	return out, nil
}

// Recorded returns every pick seen so far
func (m *MockClickHouseClient) Recorded() []clickhouse.PickRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]clickhouse.PickRecord{}, m.picks...)
}

// Close is a no-op for mock client
func (m *MockClickHouseClient) Close() error {
	return nil
}
