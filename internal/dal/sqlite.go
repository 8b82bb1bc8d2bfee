package dal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDAL implements CatalogDAL using SQLite
type SQLiteDAL struct {
	sqlStore
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{sqlStore{db: db, bind: func(int) string { return "?" }}}
	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matchups (
		idx INTEGER PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_sections (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed default data if empty
	return s.seedIfEmpty()
}
