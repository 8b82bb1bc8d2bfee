package mocks

import (
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
)

// MockPostgresDAL stands in for Postgres with a SQLite catalog store
type MockPostgresDAL struct {
	dal.CatalogDAL
}

// NewMockPostgresDAL creates a mock Postgres DAL backed by sqliteFile
func NewMockPostgresDAL(sqliteFile string) (*MockPostgresDAL, error) {
	logger.Info("Using MOCK Postgres (SQLite) for local development", "file", sqliteFile)

	sqliteDAL, err := dal.NewSQLiteDAL(sqliteFile)
	if err != nil {
		return nil, err
	}
	return &MockPostgresDAL{CatalogDAL: sqliteDAL}, nil
}
