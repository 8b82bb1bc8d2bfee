package derive

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

func intPtr(v int) *int { return &v }

func TestSeedLabel(t *testing.T) {
	tests := []struct {
		seed int
		want string
	}{
		{1, LabelFavorite},
		{3, LabelFavorite},
		{4, LabelUnderdog},
		{8, LabelUnderdog},
		{9, LabelStrongUnderdog},
		{16, LabelStrongUnderdog},
	}
	for _, tt := range tests {
		if got := SeedLabel(tt.seed); got != tt.want {
			t.Errorf("SeedLabel(%d) = %q, want %q", tt.seed, got, tt.want)
		}
	}
}

func TestSeedLabelTotalAndStable(t *testing.T) {
	valid := map[string]bool{LabelFavorite: true, LabelUnderdog: true, LabelStrongUnderdog: true}
	for seed := 1; seed <= 16; seed++ {
		first := SeedLabel(seed)
		if !valid[first] {
			t.Errorf("SeedLabel(%d) returned unknown label %q", seed, first)
		}
		for i := 0; i < 3; i++ {
			if again := SeedLabel(seed); again != first {
				t.Errorf("SeedLabel(%d) not stable: %q then %q", seed, first, again)
			}
		}
	}
}

func TestPickRarity(t *testing.T) {
	tests := []struct {
		pct     int
		rarity  models.Rarity
		message string
	}{
		{7, models.RarityLegendary, "Only 7% picked this"},
		{19, models.RarityEpic, "Only 19% picked this"},
		{38, models.RarityRare, "38% picked this"},
		{74, models.RarityCommon, "Popular pick — 74% agreed"},
		{0, models.RarityLegendary, "Only 0% picked this"},
		{10, models.RarityEpic, "Only 10% picked this"},
		{25, models.RarityRare, "25% picked this"},
		{40, models.RarityCommon, "Popular pick — 40% agreed"},
	}
	for _, tt := range tests {
		got := PickRarity(tt.pct)
		if got.Rarity != tt.rarity || got.Message != tt.message {
			t.Errorf("PickRarity(%d) = %+v, want %s / %q", tt.pct, got, tt.rarity, tt.message)
		}
		if got != PickRarity(tt.pct) {
			t.Errorf("PickRarity(%d) not stable", tt.pct)
		}
	}
}

func TestDripRarity(t *testing.T) {
	tests := []struct {
		name string
		pct  *int
		want models.Rarity
	}{
		{"undefined", nil, models.RarityCommon},
		{"zero", intPtr(0), models.RarityCommon},
		{"legendary", intPtr(4), models.RarityLegendary},
		{"epic", intPtr(18), models.RarityEpic},
		{"rare", intPtr(32), models.RarityRare},
		{"common", intPtr(74), models.RarityCommon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DripRarity(tt.pct); got != tt.want {
				t.Errorf("DripRarity = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestItemRarityOverridesOnlyWithPickPct(t *testing.T) {
	stored := models.DripItem{Rarity: models.RarityEpic}
	if got := ItemRarity(stored); got != models.RarityEpic {
		t.Errorf("expected stored rarity epic, got %s", got)
	}

	// Kentucky Kicks is stored rare at 38%
	overridden := models.DripItem{Rarity: models.RarityLegendary, PickPct: intPtr(38)}
	if got := ItemRarity(overridden); got != models.RarityRare {
		t.Errorf("expected derived rarity rare, got %s", got)
	}
}

func TestRivalry(t *testing.T) {
	r1, r2 := Rivalry(12400, 11200)
	if r1 != 53 || r2 != 47 {
		t.Errorf("Rivalry(12400, 11200) = %d/%d, want 53/47", r1, r2)
	}

	pairs := [][2]int{{1, 2}, {1, 1}, {333, 667}, {1, 999999}, {15800, 9200}}
	for _, p := range pairs {
		a, b := Rivalry(p[0], p[1])
		if a+b != 100 {
			t.Errorf("Rivalry(%d, %d) = %d/%d, does not sum to 100", p[0], p[1], a, b)
		}
	}

	if a, b := Rivalry(0, 0); a != 50 || b != 50 {
		t.Errorf("Rivalry(0, 0) = %d/%d, want 50/50", a, b)
	}
}

func TestCampusBarPct(t *testing.T) {
	if got := CampusBarPct(60); got != 50 {
		t.Errorf("CampusBarPct(60) = %v, want 50", got)
	}
	if got := CampusBarPct(240); got != 100 {
		t.Errorf("CampusBarPct(240) = %v, want 100", got)
	}
}

func TestShortDate(t *testing.T) {
	tests := map[string]string{
		"Thursday, March 19": "Mar 19",
		"Saturday, April 4":  "Apr 4",
		"Monday, April 6":    "Apr 6",
		"May 1":              "May 1",
	}
	for in, want := range tests {
		if got := ShortDate(in); got != want {
			t.Errorf("ShortDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLockerItems(t *testing.T) {
	items := dal.DefaultCatalog().DripItems
	locker := LockerItems(items)
	if len(locker) != LockerSize {
		t.Fatalf("expected %d items, got %d", LockerSize, len(locker))
	}
	if got := EarnedCount(locker); got != 4 {
		t.Errorf("expected 4 earned in locker, got %d", got)
	}
	if got := len(EarnedItems(items)); got != 4 {
		t.Errorf("expected 4 earned overall, got %d", got)
	}
	if got := LockerItems(items[:2]); len(got) != 2 {
		t.Errorf("short list should pass through, got %d", len(got))
	}
}

func TestRankArrow(t *testing.T) {
	if got := RankArrow(nil); got != "—" {
		t.Errorf("nil: %q", got)
	}
	if got := RankArrow(intPtr(2)); got != "↑2" {
		t.Errorf("up: %q", got)
	}
	if got := RankArrow(intPtr(-1)); got != "↓1" {
		t.Errorf("down: %q", got)
	}
}

func TestGlobalRankLabel(t *testing.T) {
	if got := GlobalRankLabel(1); got != "🥇" {
		t.Errorf("rank 1: %q", got)
	}
	if got := GlobalRankLabel(42); got != "#42" {
		t.Errorf("rank 42: %q", got)
	}
}

func TestIsCampusGame(t *testing.T) {
	updates := dal.DefaultCatalog().ScoreUpdates
	want := []bool{true, false, false}
	for i, u := range updates {
		if got := IsCampusGame(u, "Oregon"); got != want[i] {
			t.Errorf("update %d: got %v, want %v", i, got, want[i])
		}
	}
}

func TestBracketRowsIncludesUserPicksRegardlessOfFlag(t *testing.T) {
	catalog := dal.DefaultCatalog()
	for _, started := range []bool{false, true} {
		v := View{Catalog: catalog, GamesStarted: started}
		for dayIdx, day := range catalog.Schedule {
			rows := v.BracketRows(dayIdx)
			set := map[int]bool{}
			for _, r := range rows {
				set[r] = true
			}
			for _, p := range day.Picks {
				if !set[p.Matchup] {
					t.Errorf("started=%v day %d: missing user matchup %d in %v", started, dayIdx, p.Matchup, rows)
				}
			}
		}
	}
}

func TestBracketRowsSortedAndDeduplicated(t *testing.T) {
	catalog := dal.DefaultCatalog()
	catalog.Schedule[0].Picks = append(catalog.Schedule[0].Picks, models.BracketPick{Matchup: 0, Team: "Duke"})
	catalog.FriendPicks["Sarah B."][0] = append(catalog.FriendPicks["Sarah B."][0], models.BracketPick{Matchup: 3, Team: "Penn"})

	v := View{Catalog: catalog, GamesStarted: true}
	if diff := cmp.Diff([]int{0, 1, 3}, v.BracketRows(0)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFriendPicksHiddenBeforeGamesStart(t *testing.T) {
	catalog := dal.DefaultCatalog()
	v := View{Catalog: catalog}

	if picks := v.VisiblePicks("Cosmo Kramer", 0); len(picks) != 0 {
		t.Errorf("expected Cosmo Kramer's day-1 picks hidden, got %v", picks)
	}

	grid := v.BracketGrid(0)
	for _, row := range grid.Rows {
		for _, cell := range row.Cells {
			if cell.Person == models.CurrentUser {
				continue
			}
			if cell.State != CellLocked {
				t.Errorf("matchup %d: %s cell should be locked, got %s", row.MatchupIdx, cell.Person, cell.State)
			}
		}
	}

	live := View{Catalog: catalog, GamesStarted: true}
	picks := live.VisiblePicks("Cosmo Kramer", 0)
	if len(picks) != 2 || picks[0].Team != "Vermont" {
		t.Errorf("expected Cosmo Kramer's picks once games start, got %v", picks)
	}
}

func TestBracketGrid(t *testing.T) {
	v := View{Catalog: dal.DefaultCatalog(), GamesStarted: true}
	grid := v.BracketGrid(0)

	if grid.ShortDate != "Mar 19" {
		t.Errorf("unexpected short date %q", grid.ShortDate)
	}
	if len(grid.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid.Rows))
	}
	first := grid.Rows[0]
	if first.TeamA != "Duke" || first.TeamB != "Vermont" {
		t.Errorf("unexpected first row %+v", first)
	}
	you := first.Cells[0]
	if you.State != CellPick || you.Outcome != "✅" {
		t.Errorf("unexpected user cell %+v", you)
	}
	cosmo := first.Cells[1]
	if cosmo.Pick == nil || cosmo.Pick.Team != "Vermont" || cosmo.Outcome != "❌" {
		t.Errorf("unexpected Cosmo Kramer cell %+v", cosmo)
	}
}

func TestBracketGridOutOfRange(t *testing.T) {
	v := View{Catalog: dal.DefaultCatalog()}
	for _, idx := range []int{-1, 10, 99} {
		grid := v.BracketGrid(idx)
		if len(grid.Rows) != 0 || grid.Day != nil {
			t.Errorf("day %d: expected empty grid, got %+v", idx, grid)
		}
		if rows := v.BracketRows(idx); len(rows) != 0 {
			t.Errorf("day %d: expected no rows, got %v", idx, rows)
		}
	}
}

func TestBracketGridSkipsUnknownMatchups(t *testing.T) {
	catalog := dal.DefaultCatalog()
	catalog.Schedule[4].Picks = []models.BracketPick{{Matchup: 12, Team: "Nobody"}}

	grid := View{Catalog: catalog}.BracketGrid(4)
	if len(grid.Rows) != 0 {
		t.Errorf("expected the unknown matchup row to be skipped, got %+v", grid.Rows)
	}
}
