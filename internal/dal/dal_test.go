package dal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newStores(t *testing.T) map[string]CatalogDAL {
	t.Helper()

	sqliteDAL, err := NewSQLiteDAL(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteDAL: %v", err)
	}
	t.Cleanup(func() { sqliteDAL.Close() })

	return map[string]CatalogDAL{
		"memory": NewMemoryDAL(),
		"sqlite": sqliteDAL,
	}
}

func TestDefaultCatalogPickPercentagesSumTo100(t *testing.T) {
	for _, m := range DefaultCatalog().Matchups {
		if m.PickPercentA+m.PickPercentB != 100 {
			t.Errorf("matchup %d: %d + %d != 100", m.ID, m.PickPercentA, m.PickPercentB)
		}
	}
}

func TestDefaultCatalogShape(t *testing.T) {
	c := DefaultCatalog()

	if len(c.Matchups) != 4 {
		t.Errorf("expected 4 matchups, got %d", len(c.Matchups))
	}
	if len(c.Schedule) != 10 {
		t.Errorf("expected 10 schedule days, got %d", len(c.Schedule))
	}
	if len(c.DripItems) != 11 {
		t.Errorf("expected 11 drip items, got %d", len(c.DripItems))
	}
	for name, days := range c.FriendPicks {
		if len(days) != len(c.Schedule) {
			t.Errorf("%s: expected %d days of picks, got %d", name, len(c.Schedule), len(days))
		}
	}
	if last := c.GlobalLeaderboard[len(c.GlobalLeaderboard)-1]; last.Rank != 42 {
		t.Errorf("expected the current user at #42, got #%d", last.Rank)
	}
}

func TestStoresReturnFixtures(t *testing.T) {
	want := DefaultCatalog()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.GetCatalog()
			if err != nil {
				t.Fatalf("GetCatalog: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("catalog mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetMatchup(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			m, err := store.GetMatchup(1)
			if err != nil {
				t.Fatalf("GetMatchup(1): %v", err)
			}
			if m.TeamB.Name != "Oregon" {
				t.Errorf("expected Oregon, got %s", m.TeamB.Name)
			}

			for _, idx := range []int{-1, 4, 100} {
				if _, err := store.GetMatchup(idx); !errors.Is(err, ErrNotFound) {
					t.Errorf("GetMatchup(%d): expected ErrNotFound, got %v", idx, err)
				}
			}
		})
	}
}

func TestGetScheduleDay(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			day, err := store.GetScheduleDay(0)
			if err != nil {
				t.Fatalf("GetScheduleDay(0): %v", err)
			}
			if day.Date != "Thursday, March 19" {
				t.Errorf("unexpected date %q", day.Date)
			}
			if _, err := store.GetScheduleDay(10); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestMemoryCatalogIsACopy(t *testing.T) {
	store := NewMemoryDAL()

	c, _ := store.GetCatalog()
	c.Matchups[0].TeamA.Name = "Mutated"
	*c.FriendLeaderboard[0].RankChange = 99

	again, _ := store.GetCatalog()
	if again.Matchups[0].TeamA.Name != "Duke" {
		t.Error("matchup mutation leaked into the store")
	}
	if *again.FriendLeaderboard[0].RankChange != 2 {
		t.Error("pointer field mutation leaked into the store")
	}
}

func TestReset(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Reset(); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			matchups, err := store.ListMatchups()
			if err != nil {
				t.Fatalf("ListMatchups: %v", err)
			}
			if len(matchups) != 4 {
				t.Errorf("expected 4 matchups after reset, got %d", len(matchups))
			}
		})
	}
}

func TestSQLiteReopenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := NewSQLiteDAL(path)
	if err != nil {
		t.Fatalf("NewSQLiteDAL: %v", err)
	}
	first.Close()

	second, err := NewSQLiteDAL(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	matchups, err := second.ListMatchups()
	if err != nil {
		t.Fatalf("ListMatchups: %v", err)
	}
	if len(matchups) != 4 {
		t.Errorf("expected 4 matchups, got %d", len(matchups))
	}
}
