// Package screens builds the view model of every route in the app. Builders
// are pure: they read the catalog, the derived views and request-local UI
// state, and never mutate anything.
package screens

import (
	"slices"

	"github.com/Billy-Davies-2/bracket-champs/internal/auth"
	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/derive"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// Route paths
const (
	PathLanding     = "/"
	PathMatchup     = "/matchup"
	PathCongrats    = "/congrats"
	PathShare       = "/share"
	PathLeaderboard = "/leaderboard"
	PathBracket     = "/bracket"
	PathDrip        = "/drip"
	PathScores      = "/scores"
	PathAccount     = "/account"
	PathGroupsNew   = "/groups/new"
	PathRecap       = "/recap"
	PathEnd         = "/end"
)

// HiddenNavRoutes are the paths rendered without the bottom nav
var HiddenNavRoutes = []string{PathLanding, PathCongrats, PathShare, PathAccount, PathGroupsNew, PathRecap, PathEnd}

// ShowNav reports whether the bottom nav is rendered on path
func ShowNav(path string) bool {
	return !slices.Contains(HiddenNavRoutes, path)
}

type NavItem struct {
	Path   string
	Label  string
	Emoji  string
	Active bool
}

var navItems = []NavItem{
	{Path: PathLanding, Label: "Home", Emoji: "🏠"},
	{Path: PathMatchup, Label: "Pick", Emoji: "🏀"},
	{Path: PathBracket, Label: "Bracket", Emoji: "📊"},
	{Path: PathLeaderboard, Label: "Board", Emoji: "🏆"},
	{Path: PathDrip, Label: "Drip", Emoji: "🔥"},
}

// Nav returns the bottom nav with the item for path marked active
func Nav(path string) []NavItem {
	items := make([]NavItem, len(navItems))
	for i, item := range navItems {
		item.Active = item.Path == path
		items[i] = item
	}
	return items
}

// Env is what every screen builder reads
type Env struct {
	Catalog  *models.Catalog
	Features config.Features
	User     *auth.User
}

// View returns the derived bracket view for this environment
func (e Env) View() derive.View {
	return derive.View{Catalog: e.Catalog, GamesStarted: e.Features.GamesStarted}
}

// UpsetAlert is the live-mode banner, empty until games start
func (e Env) UpsetAlert() string {
	if !e.Features.GamesStarted {
		return ""
	}
	return e.Features.UpsetAlert
}

// Page wraps a screen body with the layout data
type Page struct {
	Title    string
	Path     string
	Template string
	ShowNav  bool
	Nav      []NavItem
	User     *auth.User
	Toast    string
	// Refresh reloads the page (or loads RefreshURL) after this many seconds
	Refresh    int
	RefreshURL string
	Body       any
}

// NewPage lays out body under template for path
func NewPage(env Env, path, template, title string, body any) Page {
	p := Page{
		Title:    title,
		Path:     path,
		Template: template,
		ShowNav:  ShowNav(path),
		User:     env.User,
		Body:     body,
	}
	if p.ShowNav {
		p.Nav = Nav(path)
	}
	return p
}

// PickLine is one row of a picks summary
type PickLine struct {
	Matchup string `json:"matchup"`
	Team    string `json:"team"`
}

// PickLines pairs picks with the matchups they were made on, by position
func PickLines(c *models.Catalog, picks []string) []PickLine {
	lines := make([]PickLine, 0, len(picks))
	for i, team := range picks {
		line := PickLine{Team: team}
		if m, ok := c.MatchupAt(i); ok {
			line.Matchup = m.TeamA.Name + " vs " + m.TeamB.Name
		}
		lines = append(lines, line)
	}
	return lines
}

type NotFoundView struct {
	Path string `json:"path"`
}
