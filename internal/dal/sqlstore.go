package dal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// sqlStore holds the catalog as JSON blobs, one row per section plus one row per matchup.
// The sqlite and postgres stores differ only in DDL and placeholder syntax.
type sqlStore struct {
	db   *sql.DB
	bind func(n int) string
}

// catalog sections other than matchups, keyed by row name
func sections(c *models.Catalog) map[string]any {
	return map[string]any{
		"friend_leaderboard": &c.FriendLeaderboard,
		"campus_leaderboard": &c.CampusLeaderboard,
		"group_leaderboard":  &c.GroupLeaderboard,
		"global_leaderboard": &c.GlobalLeaderboard,
		"drip_items":         &c.DripItems,
		"schedule":           &c.Schedule,
		"friend_picks":       &c.FriendPicks,
		"people":             &c.People,
		"score_updates":      &c.ScoreUpdates,
		"recap":              &c.Recap,
	}
}

func (s *sqlStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM matchups").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.seedData()
}

func (s *sqlStore) seedData() error {
	c := DefaultCatalog()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertMatchup := fmt.Sprintf("INSERT INTO matchups (idx, data) VALUES (%s, %s)", s.bind(1), s.bind(2))
	for i, m := range c.Matchups {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(insertMatchup, i, string(data)); err != nil {
			return fmt.Errorf("seed matchup %d: %w", i, err)
		}
	}

	insertSection := fmt.Sprintf("INSERT INTO catalog_sections (name, body) VALUES (%s, %s)", s.bind(1), s.bind(2))
	for name, v := range sections(c) {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(insertSection, name, string(data)); err != nil {
			return fmt.Errorf("seed section %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func (s *sqlStore) GetCatalog() (*models.Catalog, error) {
	matchups, err := s.ListMatchups()
	if err != nil {
		return nil, err
	}
	c := &models.Catalog{Matchups: matchups}

	rows, err := s.db.Query("SELECT name, body FROM catalog_sections")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := sections(c)
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		target, ok := targets[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(body), target); err != nil {
			return nil, fmt.Errorf("decode section %s: %w", name, err)
		}
	}
	return c, rows.Err()
}

func (s *sqlStore) ListMatchups() ([]models.Matchup, error) {
	rows, err := s.db.Query("SELECT data FROM matchups ORDER BY idx")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matchups := []models.Matchup{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var m models.Matchup
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, err
		}
		matchups = append(matchups, m)
	}
	return matchups, rows.Err()
}

func (s *sqlStore) GetMatchup(idx int) (*models.Matchup, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM matchups WHERE idx = "+s.bind(1), idx).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("matchup %d: %w", idx, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var m models.Matchup
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *sqlStore) GetScheduleDay(idx int) (*models.BracketGameDay, error) {
	var body string
	err := s.db.QueryRow("SELECT body FROM catalog_sections WHERE name = "+s.bind(1), "schedule").Scan(&body)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	var days []models.BracketGameDay
	if body != "" {
		if err := json.Unmarshal([]byte(body), &days); err != nil {
			return nil, err
		}
	}
	if idx < 0 || idx >= len(days) {
		return nil, fmt.Errorf("schedule day %d: %w", idx, ErrNotFound)
	}
	return &days[idx], nil
}

// Reset restores the seeded fixtures
func (s *sqlStore) Reset() error {
	if _, err := s.db.Exec("DELETE FROM matchups"); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM catalog_sections"); err != nil {
		return err
	}
	return s.seedData()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
