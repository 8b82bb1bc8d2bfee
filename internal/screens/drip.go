package screens

import (
	"fmt"

	"github.com/Billy-Davies-2/bracket-champs/internal/auth"
	"github.com/Billy-Davies-2/bracket-champs/internal/derive"
	"github.com/Billy-Davies-2/bracket-champs/internal/groups"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// ComingSoonMessage is the toast behind the Download Takes button
const ComingSoonMessage = "Coming soon! 🚀"

type CTA struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

type DripCard struct {
	models.DripItem
	Rarity      models.Rarity `json:"computedRarity"`
	RarityLabel string        `json:"rarityLabel"`
	Locked      bool          `json:"locked"`
}

type DripDetail struct {
	DripCard
	Description string `json:"description"`
}

type DripView struct {
	Earned   int         `json:"earned"`
	Total    int         `json:"total"`
	Counter  string      `json:"counter"`
	Items    []DripCard  `json:"items"`
	Selected *DripDetail `json:"selected,omitempty"`
	CTAs     []CTA       `json:"ctas"`
	Toast    string      `json:"toast,omitempty"`
}

func dripCard(item models.DripItem) DripCard {
	r := derive.ItemRarity(item)
	return DripCard{DripItem: item, Rarity: r, RarityLabel: derive.TierLabel(r), Locked: !item.Earned}
}

// DripDescription is the detail text for an item
func DripDescription(item models.DripItem) string {
	if item.PickPct != nil {
		return fmt.Sprintf("Earned by only %d%% of Takes users 🔥", *item.PickPct)
	}
	return "Download Takes to secure your drip forever 🔐"
}

// Drip builds the locker. selectedID opens an item's detail; download shows the toast.
func Drip(env Env, selectedID string, download bool) DripView {
	items := derive.LockerItems(env.Catalog.DripItems)
	earned := derive.EarnedCount(items)

	v := DripView{
		Earned:  earned,
		Total:   len(items),
		Counter: fmt.Sprintf("%d/%d", earned, len(items)),
		CTAs: []CTA{
			{Icon: "🌍", Label: "JOIN WORLD CUP EARLY ACCESS", URL: env.Features.AppStoreURL},
			{Icon: "⛳", Label: "UNLOCK MASTERS BRACKET", URL: env.Features.AppStoreURL},
		},
	}
	for _, item := range items {
		card := dripCard(item)
		v.Items = append(v.Items, card)
		if item.ID == selectedID {
			v.Selected = &DripDetail{DripCard: card, Description: DripDescription(item)}
		}
	}
	if download {
		v.Toast = ComingSoonMessage
	}
	return v
}

type EndView struct {
	RankLabel string            `json:"rankLabel"`
	Summary   string            `json:"summary"`
	Earned    []models.DripItem `json:"earned"`
	CTAs      []CTA             `json:"ctas"`
	Footer    string            `json:"footer"`
}

// TopPercent is the user's global percentile shown at the end of the tournament
const TopPercent = 15

// End builds the end-of-tournament screen from the user's global row
func End(env Env) EndView {
	c := env.Catalog
	v := EndView{
		Earned: derive.EarnedItems(c.DripItems),
		Footer: "Your drip is saved. See you next season 🏀",
		CTAs: []CTA{
			{Icon: "🌍", Label: "UNLOCK WORLD CUP BRACKET", URL: env.Features.AppStoreURL},
			{Icon: "⛳", Label: "JOIN MASTERS WAITLIST", URL: env.Features.AppStoreURL},
			{Icon: "📲", Label: "GET EARLY ACCESS IN APP", URL: env.Features.AppStoreURL},
		},
	}
	for _, e := range c.GlobalLeaderboard {
		if e.Name == models.CurrentUser {
			v.RankLabel = fmt.Sprintf("#%d", e.Rank)
			v.Summary = fmt.Sprintf("Top %d%% • %d correct picks", TopPercent, e.CorrectPicks)
			break
		}
	}
	return v
}

type MethodOption struct {
	Method string `json:"method"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type AccountView struct {
	Method      string         `json:"method"`
	Methods     []MethodOption `json:"methods"`
	InputType   string         `json:"inputType"`
	Placeholder string         `json:"placeholder"`
	Error       string         `json:"error,omitempty"`
	SignedIn    bool           `json:"signedIn"`
	Name        string         `json:"name,omitempty"`
	SkipURL     string         `json:"skipUrl"`
}

// Account builds the sign-up screen for method (email or phone)
func Account(env Env, method, errMsg string) AccountView {
	if method != auth.MethodPhone {
		method = auth.MethodEmail
	}
	v := AccountView{
		Method:      method,
		InputType:   "email",
		Placeholder: "your@email.com",
		Error:       errMsg,
		SkipURL:     PathDrip,
		Methods: []MethodOption{
			{Method: auth.MethodEmail, Label: "📧 Email", Active: method == auth.MethodEmail},
			{Method: auth.MethodPhone, Label: "📱 Phone", Active: method == auth.MethodPhone},
		},
	}
	if method == auth.MethodPhone {
		v.InputType = "tel"
		v.Placeholder = "(555) 123-4567"
	}
	if env.User != nil {
		v.SignedIn = true
		v.Name = env.User.Username
	}
	return v
}

// Group screen modes
const (
	GroupModeCreate = "create"
	GroupModeJoin   = "join"
)

type GroupsView struct {
	Mode          string        `json:"mode"`
	Emojis        []string      `json:"emojis"`
	SelectedEmoji string        `json:"selectedEmoji"`
	Name          string        `json:"name,omitempty"`
	Created       *groups.Group `json:"created,omitempty"`
	Message       string        `json:"message,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// Groups builds the create/join screen
func Groups(mode, emoji string) GroupsView {
	if mode != GroupModeJoin {
		mode = GroupModeCreate
	}
	if emoji == "" {
		emoji = groups.DefaultEmoji
	}
	return GroupsView{Mode: mode, Emojis: groups.PresetEmojis, SelectedEmoji: emoji}
}
