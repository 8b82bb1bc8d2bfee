package mocks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Billy-Davies-2/bracket-champs/internal/clickhouse"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
)

func TestMockClickHouseCounts(t *testing.T) {
	m := NewMockClickHouseClient()
	ctx := context.Background()

	for _, team := range []string{"Duke", "Vermont", "Duke"} {
		if err := m.RecordPick(ctx, clickhouse.PickRecord{MatchupID: 1, Team: team}); err != nil {
			t.Fatalf("RecordPick: %v", err)
		}
	}

	counts, err := m.PickCounts(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if counts["Duke"] != 2 || counts["Vermont"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	counts["Duke"] = 100
	again, _ := m.PickCounts(ctx, 1)
	if again["Duke"] != 2 {
		t.Error("PickCounts should return a copy")
	}

	if empty, _ := m.PickCounts(ctx, 9); len(empty) != 0 {
		t.Errorf("expected no counts for unknown matchup, got %v", empty)
	}
	if len(m.Recorded()) != 3 {
		t.Errorf("expected 3 recorded picks, got %d", len(m.Recorded()))
	}
}

func TestMockNATSPubSub(t *testing.T) {
	m := NewMockNATSPubSub("")
	defer m.Close()

	if m.Subject() != pubsub.DefaultSubject {
		t.Errorf("expected default subject, got %s", m.Subject())
	}

	ch := m.Subscribe()
	m.Publish(pubsub.NewEvent(pubsub.EventGroupCreated, "", nil))

	select {
	case ev := <-ch:
		if ev.Type != pubsub.EventGroupCreated {
			t.Errorf("unexpected event %s", ev.Type)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestMockPostgresDAL(t *testing.T) {
	m, err := NewMockPostgresDAL(filepath.Join(t.TempDir(), "mock.db"))
	if err != nil {
		t.Fatalf("NewMockPostgresDAL: %v", err)
	}
	defer m.Close()

	matchups, err := m.ListMatchups()
	if err != nil {
		t.Fatal(err)
	}
	if len(matchups) != 4 {
		t.Errorf("expected 4 matchups, got %d", len(matchups))
	}
}
