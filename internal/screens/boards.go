package screens

import (
	"fmt"

	"github.com/Billy-Davies-2/bracket-champs/internal/derive"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// Leaderboard tabs
const (
	TabFriends  = "friends"
	TabGroups   = "groups"
	TabCampuses = "campuses"
	TabGlobal   = "global"
)

var tabs = []struct{ name, emoji string }{
	{TabFriends, "👫"},
	{TabGroups, "👥"},
	{TabCampuses, "🏫"},
	{TabGlobal, "🌍"},
}

// ValidTab reports whether tab names a leaderboard tab
func ValidTab(tab string) bool {
	for _, t := range tabs {
		if t.name == tab {
			return true
		}
	}
	return false
}

type TabView struct {
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	Active bool   `json:"active"`
}

type EntryRow struct {
	models.LeaderboardEntry
	RankLabel string `json:"rankLabel"`
	Arrow     string `json:"arrow"`
	IsYou     bool   `json:"isYou"`
}

type GroupRow struct {
	models.GroupEntry
	HasYou bool `json:"hasYou"`
}

type CampusRow struct {
	models.CampusEntry
	BarPct   float64 `json:"barPct"`
	Joined   bool    `json:"joined"`
	Expanded bool    `json:"expanded"`
}

type RivalryView struct {
	A    models.CampusEntry `json:"a"`
	B    models.CampusEntry `json:"b"`
	PctA int                `json:"pctA"`
	PctB int                `json:"pctB"`
}

type CampusDetail struct {
	models.CampusEntry
	Joined bool `json:"joined"`
}

// LeaderboardState is the screen-local UI state carried in the query string
type LeaderboardState struct {
	Tab      string
	Group    string
	Campus   string
	Expanded string
	Joined   string
	// JustJoined is set on the request right after joining a campus
	JustJoined bool
}

type LeaderboardView struct {
	Tab            string        `json:"tab"`
	Tabs           []TabView     `json:"tabs"`
	Friends        []EntryRow    `json:"friends,omitempty"`
	Groups         []GroupRow    `json:"groups,omitempty"`
	SelectedGroup  *GroupRow     `json:"selectedGroup,omitempty"`
	Rivalry        *RivalryView  `json:"rivalry,omitempty"`
	Campuses       []CampusRow   `json:"campuses,omitempty"`
	SelectedCampus *CampusDetail `json:"selectedCampus,omitempty"`
	JoinedCampus   *CampusDetail `json:"joinedCampus,omitempty"`
	Joined         string        `json:"joined,omitempty"`
	Global         []EntryRow    `json:"global,omitempty"`
	Toast          string        `json:"toast,omitempty"`
}

func entryRows(entries []models.LeaderboardEntry, rankLabel func(int) string) []EntryRow {
	rows := make([]EntryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, EntryRow{
			LeaderboardEntry: e,
			RankLabel:        rankLabel(e.Rank),
			Arrow:            derive.RankArrow(e.RankChange),
			IsYou:            e.Name == models.CurrentUser,
		})
	}
	return rows
}

// Rivalry compares the top two campuses. It is nil with fewer than two campuses.
func Rivalry(c *models.Catalog) *RivalryView {
	if len(c.CampusLeaderboard) < 2 {
		return nil
	}
	a, b := c.CampusLeaderboard[0], c.CampusLeaderboard[1]
	pa, pb := derive.Rivalry(a.TotalPoints, b.TotalPoints)
	return &RivalryView{A: a, B: b, PctA: pa, PctB: pb}
}

// Leaderboard builds the tab named by st.Tab, defaulting to friends
func Leaderboard(env Env, st LeaderboardState) LeaderboardView {
	c := env.Catalog
	tab := st.Tab
	if !ValidTab(tab) {
		tab = TabFriends
	}

	v := LeaderboardView{Tab: tab}
	for _, t := range tabs {
		v.Tabs = append(v.Tabs, TabView{Name: t.name, Emoji: t.emoji, Active: t.name == tab})
	}

	switch tab {
	case TabFriends:
		v.Friends = entryRows(c.FriendLeaderboard, func(r int) string { return fmt.Sprint(r) })
	case TabGroups:
		for _, g := range c.GroupLeaderboard {
			row := GroupRow{GroupEntry: g, HasYou: g.HasMember(models.CurrentUser)}
			v.Groups = append(v.Groups, row)
			if g.Name == st.Group {
				selected := row
				v.SelectedGroup = &selected
			}
		}
	case TabCampuses:
		v.Rivalry = Rivalry(c)
		v.Joined = st.Joined
		for _, e := range c.CampusLeaderboard {
			v.Campuses = append(v.Campuses, CampusRow{
				CampusEntry: e,
				BarPct:      derive.CampusBarPct(e.AvgPoints),
				Joined:      e.Group == st.Joined,
				Expanded:    e.Group == st.Expanded,
			})
		}
		if e, ok := c.CampusByGroup(st.Campus); ok {
			v.SelectedCampus = &CampusDetail{CampusEntry: e, Joined: e.Group == st.Joined}
		}
		if e, ok := c.CampusByGroup(st.Joined); ok {
			v.JoinedCampus = &CampusDetail{CampusEntry: e, Joined: true}
			if st.JustJoined {
				v.Toast = JoinedCampusMessage(e.Group)
			}
		}
	case TabGlobal:
		v.Global = entryRows(c.GlobalLeaderboard, derive.GlobalRankLabel)
	}
	return v
}

// JoinedCampusMessage is the confirmation after joining a campus
func JoinedCampusMessage(group string) string {
	return fmt.Sprintf("You joined %s! 🎉", group)
}

type DayPill struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type BracketView struct {
	Banner     string      `json:"banner"`
	RecapPill  string      `json:"recapPill"`
	Days       []DayPill   `json:"days"`
	Grid       derive.Grid `json:"grid"`
	GamesLabel string      `json:"gamesLabel,omitempty"`
	Empty      bool        `json:"empty"`
	EmptyText  string      `json:"emptyText,omitempty"`
}

// BracketBanner is the live-mode banner on the bracket tracker
func BracketBanner(gamesStarted bool) string {
	if gamesStarted {
		return "🔒 BRACKET LOCKED — Games are live!"
	}
	return "👀 Friends' picks hidden until tip-off"
}

// GamesLabel reads like "16 games · Thursday, March 19"
func GamesLabel(day models.BracketGameDay) string {
	plural := "s"
	if day.GamesCount <= 1 {
		plural = ""
	}
	return fmt.Sprintf("%d game%s · %s", day.GamesCount, plural, day.Date)
}

// RecapPill is the round recap shortcut label
func RecapPill(c *models.Catalog) string {
	return "📋 ROUND RECAP: " + c.Recap.Round
}

// Bracket builds the tracker for schedule day dayIdx
func Bracket(env Env, dayIdx int) BracketView {
	c := env.Catalog
	v := BracketView{
		Banner:    BracketBanner(env.Features.GamesStarted),
		RecapPill: RecapPill(c),
		Grid:      env.View().BracketGrid(dayIdx),
	}
	for i, d := range c.Schedule {
		v.Days = append(v.Days, DayPill{Index: i, Label: derive.ShortDate(d.Date), Active: i == dayIdx})
	}
	if v.Grid.Day != nil {
		v.GamesLabel = GamesLabel(*v.Grid.Day)
	}
	if len(v.Grid.Rows) == 0 {
		v.Empty = true
		v.EmptyText = "No picks yet for this day"
	}
	return v
}

type ScoresView struct {
	Index      int                 `json:"index"`
	Update     *models.ScoreUpdate `json:"update,omitempty"`
	CampusGame bool                `json:"campusGame"`
	Dots       []bool              `json:"dots"`
	UpsetAlert string              `json:"upsetAlert,omitempty"`
	RecapPill  string              `json:"recapPill"`
}

// Scores builds the score updates carousel at idx
func Scores(env Env, idx int) ScoresView {
	c := env.Catalog
	v := ScoresView{
		Index:      idx,
		UpsetAlert: env.UpsetAlert(),
		RecapPill:  RecapPill(c),
		Dots:       make([]bool, len(c.ScoreUpdates)),
	}
	for i := range v.Dots {
		v.Dots[i] = i == idx
	}
	if idx >= 0 && idx < len(c.ScoreUpdates) {
		u := c.ScoreUpdates[idx]
		v.Update = &u
		v.CampusGame = derive.IsCampusGame(u, env.Features.UserCampus)
	}
	return v
}

type RecapCard struct {
	Icon  string   `json:"icon"`
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type UpsetRow struct {
	Label      string `json:"label"`
	CorrectPct int    `json:"correctPct"`
}

type RecapView struct {
	Round    string      `json:"round"`
	Subtitle string      `json:"subtitle"`
	Cards    []RecapCard `json:"cards"`
	Upsets   []UpsetRow  `json:"upsets"`
}

// Recap builds the round recap cards and the upset breakdown
func Recap(env Env) RecapView {
	r := env.Catalog.Recap

	upsets := make([]string, 0, len(r.Upsets))
	rows := make([]UpsetRow, 0, len(r.Upsets))
	for _, u := range r.Upsets {
		upsets = append(upsets, u.Description)
		rows = append(rows, UpsetRow{Label: u.Team + " over " + u.Opponent, CorrectPct: derive.UpsetCorrectPct(u)})
	}
	shift := r.CampusShift

	return RecapView{
		Round:    r.Round,
		Subtitle: r.Round + " — Complete",
		Cards: []RecapCard{
			{Icon: "🎯", Title: "Upsets Hit", Items: upsets},
			{Icon: "📊", Title: "Your Group", Items: []string{fmt.Sprintf("%d%% of your group got %s right", r.GroupCorrectPct, r.GroupTeam)}},
			{Icon: "🤯", Title: "Biggest Anomaly", Items: []string{r.BiggestAnomaly}},
			{Icon: "🏫", Title: "Campus Shift", Items: []string{fmt.Sprintf("%s %s moved from #%d → #%d this round", shift.Emoji, shift.Group, shift.From, shift.To)}},
		},
		Upsets: rows,
	}
}
