package screens

import (
	"fmt"
	"net/url"

	"github.com/Billy-Davies-2/bracket-champs/internal/derive"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/share"
)

type ModeOption struct {
	Mode        models.BracketMode `json:"mode"`
	Icon        string             `json:"icon"`
	Description string             `json:"description"`
}

type LandingView struct {
	Title     string       `json:"title"`
	Tagline   string       `json:"tagline"`
	ShowModes bool         `json:"showModes"`
	Modes     []ModeOption `json:"modes"`
}

// ModeOptions are the choices on the mode selector, in display order
func ModeOptions() []ModeOption {
	opts := make([]ModeOption, 0, len(models.BracketModes))
	for _, m := range models.BracketModes {
		o := ModeOption{Mode: m, Icon: "📋", Description: "Pick all 63 games upfront — the classic experience"}
		if m == models.ModeRoundByRound {
			o.Icon = "🔄"
			o.Description = "Pick each round as it opens — locks after tip-off"
		}
		opts = append(opts, o)
	}
	return opts
}

// Landing builds the title screen. showModes opens the mode selector.
func Landing(showModes bool) LandingView {
	return LandingView{
		Title:     "MARCH MADNESS 101",
		Tagline:   "Learn about teams before you make picks!",
		ShowModes: showModes,
		Modes:     ModeOptions(),
	}
}

type SideView struct {
	Team      models.Team    `json:"team"`
	SeedLabel string         `json:"seedLabel"`
	PickPct   int            `json:"pickPct"`
	Commish   models.Commish `json:"commish"`
}

// Dot states for the matchup progress row
const (
	DotDone    = "done"
	DotCurrent = "current"
	DotTodo    = "todo"
)

type OverlayView struct {
	Team   string         `json:"team"`
	Reveal *derive.Reveal `json:"reveal,omitempty"`
}

type MatchupView struct {
	SessionID       string             `json:"sessionId,omitempty"`
	Mode            models.BracketMode `json:"mode"`
	ModeBadge       string             `json:"modeBadge"`
	Round           string             `json:"round"`
	Index           int                `json:"index"`
	Total           int                `json:"total"`
	Counter         string             `json:"counter"`
	Dots            []string           `json:"dots"`
	TeamA           SideView           `json:"teamA"`
	TeamB           SideView           `json:"teamB"`
	ShowSplitBar    bool               `json:"showSplitBar"`
	UpsetAlert      string             `json:"upsetAlert,omitempty"`
	NextRoundBanner string             `json:"nextRoundBanner,omitempty"`
	Overlay         *OverlayView       `json:"overlay,omitempty"`
	Complete        bool               `json:"complete"`
}

// ModeBadge is the short label shown next to the round name
func ModeBadge(mode models.BracketMode) string {
	if mode == models.ModeRoundByRound {
		return "🔄 Round-by-Round"
	}
	return "📋 Full Bracket"
}

// ProgressDots marks matchups before idx done, idx current, the rest todo
func ProgressDots(idx, total int) []string {
	dots := make([]string, total)
	for i := range dots {
		switch {
		case i < idx:
			dots[i] = DotDone
		case i == idx:
			dots[i] = DotCurrent
		default:
			dots[i] = DotTodo
		}
	}
	return dots
}

// Matchup builds the pick screen for matchup idx. It returns nil when idx is
// out of range, which renders as an empty screen.
func Matchup(env Env, mode models.BracketMode, idx int) *MatchupView {
	m, ok := env.Catalog.MatchupAt(idx)
	if !ok {
		return nil
	}
	mode = models.ParseBracketMode(string(mode))
	total := len(env.Catalog.Matchups)

	v := &MatchupView{
		Mode:         mode,
		ModeBadge:    ModeBadge(mode),
		Round:        m.Round,
		Index:        idx,
		Total:        total,
		Counter:      fmt.Sprintf("%d/%d", idx+1, total),
		Dots:         ProgressDots(idx, total),
		TeamA:        SideView{Team: m.TeamA, SeedLabel: derive.SeedLabel(m.TeamA.Seed), PickPct: m.PickPercentA, Commish: m.CommishA},
		TeamB:        SideView{Team: m.TeamB, SeedLabel: derive.SeedLabel(m.TeamB.Seed), PickPct: m.PickPercentB, Commish: m.CommishB},
		ShowSplitBar: !env.Features.GamesStarted,
		UpsetAlert:   env.UpsetAlert(),
	}
	if mode == models.ModeRoundByRound {
		v.NextRoundBanner = env.Features.NextRoundOpensIn
	}
	return v
}

// SessionMatchup builds the pick screen from a live session snapshot
func SessionMatchup(env Env, sessionID string, snap pickflow.Snapshot) *MatchupView {
	if snap.State == pickflow.StateComplete {
		return &MatchupView{SessionID: sessionID, Mode: snap.BracketMode, Complete: true, Total: snap.Total}
	}
	v := Matchup(env, snap.BracketMode, snap.Index)
	if v == nil {
		return nil
	}
	v.SessionID = sessionID
	if snap.Overlay() {
		v.Overlay = &OverlayView{Team: snap.Team, Reveal: snap.Reveal}
	}
	return v
}

type CongratsView struct {
	Picks    []PickLine         `json:"picks"`
	Count    int                `json:"count"`
	Total    int                `json:"total"`
	Mode     models.BracketMode `json:"mode"`
	ShareURL string             `json:"shareUrl"`
}

// HandOffQuery encodes a hand-off as navigation state for the Share screen
func HandOffQuery(ho models.HandOff) url.Values {
	q := url.Values{}
	for _, p := range ho.Picks {
		q.Add("pick", p)
	}
	q.Set("mode", string(ho.BracketMode))
	return q
}

// HandOffFromQuery is the inverse of HandOffQuery
func HandOffFromQuery(q url.Values) models.HandOff {
	picks := q["pick"]
	if picks == nil {
		picks = []string{}
	}
	return models.HandOff{Picks: picks, BracketMode: models.ParseBracketMode(q.Get("mode"))}
}

// Congrats summarizes a completed pick flow
func Congrats(env Env, ho models.HandOff) CongratsView {
	mode := models.ParseBracketMode(string(ho.BracketMode))
	return CongratsView{
		Picks:    PickLines(env.Catalog, ho.Picks),
		Count:    len(ho.Picks),
		Total:    len(env.Catalog.Matchups),
		Mode:     mode,
		ShareURL: PathShare + "?" + HandOffQuery(models.HandOff{Picks: ho.Picks, BracketMode: mode}).Encode(),
	}
}

// Share screen actions, posted to /share/{name}
const (
	ShareCopy     = "copy"
	ShareNative   = "native"
	ShareSnapchat = "snapchat"
)

type ShareAction struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Ghost bool   `json:"-"`
}

var shareActions = []ShareAction{
	{Name: ShareCopy, Label: "🔗 Copy Link"},
	{Name: ShareNative, Label: "📤 Share"},
	{Name: ShareSnapchat, Label: "👻 Snapchat", Ghost: true},
}

// RunShare performs the named action with s. ok is false for an unknown action.
func RunShare(s share.Sharer, action string) (share.Result, bool) {
	switch action {
	case ShareCopy:
		return s.Copy(), true
	case ShareNative:
		return s.Share(), true
	case ShareSnapchat:
		return s.Snapchat(), true
	}
	return share.Result{}, false
}

type ShareView struct {
	Picks    []PickLine         `json:"picks"`
	Mode     models.BracketMode `json:"mode"`
	Title    string             `json:"title"`
	Link     string             `json:"link"`
	Text     string             `json:"text"`
	SMSLink  string             `json:"smsLink"`
	Fallback string             `json:"fallback"`
	Actions  []ShareAction      `json:"actions"`
	Result   *share.Result      `json:"result,omitempty"`
}

// Share builds the challenge screen for the handed-off picks
func Share(env Env, ho models.HandOff) ShareView {
	link := env.Features.ShareLink
	if link == "" {
		link = share.Link
	}
	return ShareView{
		Picks:    PickLines(env.Catalog, ho.Picks),
		Mode:     models.ParseBracketMode(string(ho.BracketMode)),
		Title:    share.Title,
		Link:     link,
		Text:     share.Text,
		SMSLink:  share.SMSLink(share.Text, link),
		Fallback: share.FallbackMessage(link),
		Actions:  shareActions,
	}
}
