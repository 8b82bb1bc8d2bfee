package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// PickRecord is one locked-in pick as stored for analytics
type PickRecord struct {
	SessionID   string
	MatchupID   int
	Team        string
	BracketMode string
	PickedAt    time.Time
}

// PickRecorder stores picks and reports how many times each team was picked
type PickRecorder interface {
	RecordPick(ctx context.Context, rec PickRecord) error
	PickCounts(ctx context.Context, matchupID int) (map[string]int, error)
	Close() error
}

// Client provides ClickHouse integration for pick analytics
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client and ensures the picks table exists
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) initSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS bracket_picks (
			session_id   String,
			matchup_id   Int32,
			team         LowCardinality(String),
			bracket_mode LowCardinality(String),
			picked_at    DateTime64(3)
		)
		ENGINE = MergeTree
		ORDER BY (matchup_id, picked_at)
	`
	if err := c.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create bracket_picks: %w", err)
	}
	return nil
}

// RecordPick appends one pick
func (c *Client) RecordPick(ctx context.Context, rec PickRecord) error {
	if rec.PickedAt.IsZero() {
		rec.PickedAt = time.Now().UTC()
	}
	err := c.conn.Exec(ctx,
		`INSERT INTO bracket_picks (session_id, matchup_id, team, bracket_mode, picked_at) VALUES (?, ?, ?, ?, ?)`,
		rec.SessionID, int32(rec.MatchupID), rec.Team, rec.BracketMode, rec.PickedAt,
	)
	if err != nil {
		return fmt.Errorf("record pick: %w", err)
	}
	return nil
}

// PickCounts returns picks per team for a matchup over the last 30 days
func (c *Client) PickCounts(ctx context.Context, matchupID int) (map[string]int, error) {
	query := `
		SELECT team, toInt64(count()) AS picks
		FROM bracket_picks
		WHERE matchup_id = ?
		AND picked_at >= now() - INTERVAL 30 DAY
		GROUP BY team
	`
	rows, err := c.conn.Query(ctx, query, int32(matchupID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var team string
		var n int64
		if err := rows.Scan(&team, &n); err != nil {
			return nil, err
		}
		counts[team] = int(n)
	}
	return counts, rows.Err()
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
