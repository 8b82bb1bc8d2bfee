package models

// Rarity is the drip/pick rarity tier
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// BracketMode is how the user fills their bracket
type BracketMode string

const (
	ModeClassic      BracketMode = "Classic Full Bracket"
	ModeRoundByRound BracketMode = "Round-by-Round Mode"
)

// BracketModes lists the selectable modes in display order
var BracketModes = []BracketMode{ModeClassic, ModeRoundByRound}

// ParseBracketMode maps a raw value to a known mode, defaulting to Classic
func ParseBracketMode(s string) BracketMode {
	if BracketMode(s) == ModeRoundByRound {
		return ModeRoundByRound
	}
	return ModeClassic
}

// CurrentUser is the display name of the person using the app
const CurrentUser = "You"

// Team represents a tournament team
type Team struct {
	Name       string `json:"name"`
	Seed       int    `json:"seed"`
	Mascot     string `json:"mascot"`
	Record     string `json:"record"`
	Conference string `json:"conference"`
	Color      string `json:"color"`
}

// Commish is one of the two personas arguing a matchup
type Commish struct {
	Name   string   `json:"name"`
	Emoji  string   `json:"emoji"`
	Points []string `json:"points"`
}

// Matchup represents a single game to pick
type Matchup struct {
	ID           int     `json:"id"`
	Round        string  `json:"round"`
	TeamA        Team    `json:"teamA"`
	TeamB        Team    `json:"teamB"`
	PickPercentA int     `json:"pickPercentA"`
	PickPercentB int     `json:"pickPercentB"`
	CommishA     Commish `json:"commishA"`
	CommishB     Commish `json:"commishB"`
}

// PickPercent returns the share of users picking the named team
func (m Matchup) PickPercent(team string) (int, bool) {
	switch team {
	case m.TeamA.Name:
		return m.PickPercentA, true
	case m.TeamB.Name:
		return m.PickPercentB, true
	}
	return 0, false
}

// LeaderboardEntry is a row on the friends or global leaderboard
type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar"`
	Points           int    `json:"points"`
	CorrectPicks     int    `json:"correctPicks"`
	Drip             int    `json:"drip"`
	RankChange       *int   `json:"rankChange,omitempty"`
	GroupPickSamePct *int   `json:"groupPickSamePct,omitempty"`
}

// DripItem is a collectible awarded for picks
type DripItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Team    string `json:"team"`
	Rarity  Rarity `json:"rarity"`
	Emoji   string `json:"emoji"`
	Earned  bool   `json:"earned"`
	PickPct *int   `json:"pickPct,omitempty"`
}

type TopPlayer struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Avatar string `json:"avatar"`
}

type GroupMember struct {
	Name         string `json:"name"`
	Avatar       string `json:"avatar"`
	Points       int    `json:"points"`
	CorrectPicks int    `json:"correctPicks"`
}

// CampusEntry is a campus rollup. TotalPoints and AvgPoints are stored values.
type CampusEntry struct {
	Rank        int         `json:"rank"`
	Group       string      `json:"group"`
	Emoji       string      `json:"emoji"`
	Members     int         `json:"members"`
	TotalPoints int         `json:"totalPoints"`
	AvgPoints   int         `json:"avgPoints"`
	TopPlayers  []TopPlayer `json:"topPlayers"`
}

// GroupEntry is a custom group rollup. TotalPoints and AvgPoints are stored values.
type GroupEntry struct {
	Rank          int           `json:"rank"`
	Name          string        `json:"name"`
	Emoji         string        `json:"emoji"`
	Members       int           `json:"members"`
	TotalPoints   int           `json:"totalPoints"`
	AvgPoints     int           `json:"avgPoints"`
	MemberDetails []GroupMember `json:"memberDetails"`
}

// HasMember reports whether the named person is in the group
func (g GroupEntry) HasMember(name string) bool {
	for _, m := range g.MemberDetails {
		if m.Name == name {
			return true
		}
	}
	return false
}

// BracketPick is one pick on a game day. Correct is nil while the game is pending.
type BracketPick struct {
	Matchup int    `json:"matchup"`
	Team    string `json:"team"`
	Correct *bool  `json:"correct"`
}

type BracketGameDay struct {
	Date       string        `json:"date"`
	Label      string        `json:"label"`
	Round      string        `json:"round"`
	GamesCount int           `json:"gamesCount"`
	Picks      []BracketPick `json:"picks"`
}

type Person struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type ScoreUpdate struct {
	TeamA      string  `json:"teamA"`
	ScoreA     int     `json:"scoreA"`
	TeamB      string  `json:"teamB"`
	ScoreB     int     `json:"scoreB"`
	Status     string  `json:"status"`
	CampusTeam *string `json:"campusTeam"`
	Narrative  string  `json:"narrative"`
}

type Upset struct {
	Team        string `json:"team"`
	Opponent    string `json:"opponent"`
	MissedByPct int    `json:"missedByPct"`
	Description string `json:"description"`
}

type CampusShift struct {
	Group string `json:"group"`
	Emoji string `json:"emoji"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

type RoundRecap struct {
	Round           string      `json:"round"`
	Upsets          []Upset     `json:"upsets"`
	GroupCorrectPct int         `json:"groupCorrectPct"`
	GroupTeam       string      `json:"groupTeam"`
	BiggestAnomaly  string      `json:"biggestAnomaly"`
	CampusShift     CampusShift `json:"campusShift"`
}

// HandOff is the one-shot payload passed from the pick flow to the post-pick screens
type HandOff struct {
	Picks       []string    `json:"picks"`
	BracketMode BracketMode `json:"bracketMode"`
}

// Catalog is the complete static data set
type Catalog struct {
	Matchups          []Matchup                  `json:"matchups"`
	FriendLeaderboard []LeaderboardEntry         `json:"friendLeaderboard"`
	CampusLeaderboard []CampusEntry              `json:"campusLeaderboard"`
	GroupLeaderboard  []GroupEntry               `json:"groupLeaderboard"`
	GlobalLeaderboard []LeaderboardEntry         `json:"globalLeaderboard"`
	DripItems         []DripItem                 `json:"dripItems"`
	Schedule          []BracketGameDay           `json:"schedule"`
	FriendPicks       map[string][][]BracketPick `json:"friendPicks"`
	People            []Person                   `json:"people"`
	ScoreUpdates      []ScoreUpdate              `json:"scoreUpdates"`
	Recap             RoundRecap                 `json:"recap"`
}

// MatchupAt returns the matchup at idx, or false when idx is out of range
func (c *Catalog) MatchupAt(idx int) (Matchup, bool) {
	if c == nil || idx < 0 || idx >= len(c.Matchups) {
		return Matchup{}, false
	}
	return c.Matchups[idx], true
}

// DayAt returns the schedule day at idx, or false when idx is out of range
func (c *Catalog) DayAt(idx int) (BracketGameDay, bool) {
	if c == nil || idx < 0 || idx >= len(c.Schedule) {
		return BracketGameDay{}, false
	}
	return c.Schedule[idx], true
}

// CampusByGroup finds a campus by its group name
func (c *Catalog) CampusByGroup(group string) (CampusEntry, bool) {
	for _, e := range c.CampusLeaderboard {
		if e.Group == group {
			return e, true
		}
	}
	return CampusEntry{}, false
}
