package derive

import (
	"sort"

	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// View is the input to the bracket tracker computations
type View struct {
	Catalog      *models.Catalog
	GamesStarted bool
}

// VisiblePicks returns the picks a person shows for a day.
// Other people's picks stay hidden until games start.
func (v View) VisiblePicks(person string, dayIdx int) []models.BracketPick {
	day, ok := v.Catalog.DayAt(dayIdx)
	if !ok {
		return nil
	}
	if person == models.CurrentUser {
		return day.Picks
	}
	if !v.GamesStarted {
		return nil
	}
	days := v.Catalog.FriendPicks[person]
	if dayIdx >= len(days) {
		return nil
	}
	return days[dayIdx]
}

// BracketRows is the ascending set of matchup indices shown for a day
func (v View) BracketRows(dayIdx int) []int {
	day, ok := v.Catalog.DayAt(dayIdx)
	if !ok {
		return []int{}
	}

	seen := map[int]struct{}{}
	for _, p := range v.Catalog.People {
		for _, pick := range v.VisiblePicks(p.Name, dayIdx) {
			seen[pick.Matchup] = struct{}{}
		}
	}
	for _, pick := range day.Picks {
		seen[pick.Matchup] = struct{}{}
	}

	rows := make([]int, 0, len(seen))
	for idx := range seen {
		rows = append(rows, idx)
	}
	sort.Ints(rows)
	return rows
}

// CellState is what a bracket grid cell shows
type CellState string

const (
	CellPick   CellState = "pick"
	CellLocked CellState = "locked"
	CellEmpty  CellState = "empty"
)

type Cell struct {
	Person  string              `json:"person"`
	State   CellState           `json:"state"`
	Pick    *models.BracketPick `json:"pick,omitempty"`
	Outcome string              `json:"outcome,omitempty"`
}

type Row struct {
	MatchupIdx int    `json:"matchupIdx"`
	TeamA      string `json:"teamA"`
	TeamB      string `json:"teamB"`
	Cells      []Cell `json:"cells"`
}

// Grid is the bracket tracker table for one day
type Grid struct {
	DayIdx       int                    `json:"dayIdx"`
	Day          *models.BracketGameDay `json:"day,omitempty"`
	ShortDate    string                 `json:"shortDate,omitempty"`
	People       []models.Person        `json:"people"`
	Rows         []Row                  `json:"rows"`
	GamesStarted bool                   `json:"gamesStarted"`
}

// PickOutcome renders the tri-state correctness of a pick
func PickOutcome(correct *bool) string {
	switch {
	case correct == nil:
		return "⏳"
	case *correct:
		return "✅"
	default:
		return "❌"
	}
}

// BracketGrid builds the rows x people grid for a day. Rows that point past the
// matchup list are skipped. An out-of-range day yields an empty grid.
func (v View) BracketGrid(dayIdx int) Grid {
	g := Grid{DayIdx: dayIdx, People: []models.Person{}, Rows: []Row{}, GamesStarted: v.GamesStarted}
	day, ok := v.Catalog.DayAt(dayIdx)
	if !ok {
		return g
	}
	g.Day = &day
	g.ShortDate = ShortDate(day.Date)
	g.People = v.Catalog.People

	for _, idx := range v.BracketRows(dayIdx) {
		m, ok := v.Catalog.MatchupAt(idx)
		if !ok {
			continue
		}
		row := Row{MatchupIdx: idx, TeamA: m.TeamA.Name, TeamB: m.TeamB.Name}
		for _, p := range v.Catalog.People {
			row.Cells = append(row.Cells, v.cell(p.Name, dayIdx, idx))
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func (v View) cell(person string, dayIdx, matchupIdx int) Cell {
	for _, pick := range v.VisiblePicks(person, dayIdx) {
		if pick.Matchup == matchupIdx {
			pick := pick
			return Cell{Person: person, State: CellPick, Pick: &pick, Outcome: PickOutcome(pick.Correct)}
		}
	}
	if person != models.CurrentUser && !v.GamesStarted {
		return Cell{Person: person, State: CellLocked}
	}
	return Cell{Person: person, State: CellEmpty}
}
