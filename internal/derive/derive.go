// Package derive holds the pure view computations over the static catalog.
package derive

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// Seed labels
const (
	LabelFavorite       = "Favorite"
	LabelUnderdog       = "Underdog"
	LabelStrongUnderdog = "Strong Underdog"
)

// MaxCampusAvg is the average-points value that fills a campus progress bar
const MaxCampusAvg = 120

// LockerSize is how many drip items the locker shows
const LockerSize = 8

// SeedLabel classifies a tournament seed
func SeedLabel(seed int) string {
	switch {
	case seed <= 3:
		return LabelFavorite
	case seed <= 8:
		return LabelUnderdog
	default:
		return LabelStrongUnderdog
	}
}

// Reveal is the rarity badge shown after a pick is locked in
type Reveal struct {
	Rarity  models.Rarity `json:"rarity"`
	Tier    string        `json:"tier"`
	Message string        `json:"message"`
}

// PickRarity classifies the share of users who made the same pick.
// Used for the live reveal overlay.
func PickRarity(pct int) Reveal {
	switch {
	case pct < 10:
		return Reveal{models.RarityLegendary, TierLabel(models.RarityLegendary), fmt.Sprintf("Only %d%% picked this", pct)}
	case pct < 25:
		return Reveal{models.RarityEpic, TierLabel(models.RarityEpic), fmt.Sprintf("Only %d%% picked this", pct)}
	case pct < 40:
		return Reveal{models.RarityRare, TierLabel(models.RarityRare), fmt.Sprintf("%d%% picked this", pct)}
	default:
		return Reveal{models.RarityCommon, TierLabel(models.RarityCommon), fmt.Sprintf("Popular pick — %d%% agreed", pct)}
	}
}

// DripRarity classifies the share of users who earned a drip item.
// A missing or zero percentage is common.
func DripRarity(pct *int) models.Rarity {
	if pct == nil || *pct == 0 {
		return models.RarityCommon
	}
	switch p := *pct; {
	case p < 10:
		return models.RarityLegendary
	case p < 25:
		return models.RarityEpic
	case p < 40:
		return models.RarityRare
	default:
		return models.RarityCommon
	}
}

// ItemRarity is the rarity the locker displays: derived from PickPct when set, else stored
func ItemRarity(item models.DripItem) models.Rarity {
	if item.PickPct != nil {
		return DripRarity(item.PickPct)
	}
	return item.Rarity
}

// TierLabel is the display label for a rarity tier
func TierLabel(r models.Rarity) string {
	switch r {
	case models.RarityLegendary:
		return "Legendary 👑"
	case models.RarityEpic:
		return "Epic 🔮"
	case models.RarityRare:
		return "Rare 💎"
	default:
		return "Common"
	}
}

// Rivalry splits two campus totals into percentages that always sum to 100.
// Two zero totals split evenly.
func Rivalry(t1, t2 int) (int, int) {
	if t1+t2 == 0 {
		return 50, 50
	}
	r1 := int(math.Round(100 * float64(t1) / float64(t1+t2)))
	return r1, 100 - r1
}

// CampusBarPct is the width of a campus progress bar, capped at 100
func CampusBarPct(avg int) float64 {
	return math.Min(float64(avg)/MaxCampusAvg*100, 100)
}

var weekdayPrefix = regexp.MustCompile(`^[A-Za-z]+,\s*`)

// ShortDate turns "Thursday, March 19" into "Mar 19"
func ShortDate(date string) string {
	parts := strings.Split(weekdayPrefix.ReplaceAllString(date, ""), " ")
	month := parts[0]
	if len(month) > 3 {
		month = month[:3]
	}
	if len(parts) < 2 {
		return month
	}
	return month + " " + parts[1]
}

// LockerItems returns the items the drip locker shows
func LockerItems(items []models.DripItem) []models.DripItem {
	if len(items) > LockerSize {
		return items[:LockerSize]
	}
	return items
}

// EarnedCount counts earned items
func EarnedCount(items []models.DripItem) int {
	n := 0
	for _, it := range items {
		if it.Earned {
			n++
		}
	}
	return n
}

// EarnedItems filters to earned items
func EarnedItems(items []models.DripItem) []models.DripItem {
	earned := []models.DripItem{}
	for _, it := range items {
		if it.Earned {
			earned = append(earned, it)
		}
	}
	return earned
}

// RankArrow renders a signed rank delta
func RankArrow(change *int) string {
	switch {
	case change == nil || *change == 0:
		return "—"
	case *change > 0:
		return fmt.Sprintf("↑%d", *change)
	default:
		return fmt.Sprintf("↓%d", -*change)
	}
}

// GlobalRankLabel renders medals for the podium and #N below it
func GlobalRankLabel(rank int) string {
	medals := []string{"🥇", "🥈", "🥉"}
	if rank >= 1 && rank <= 3 {
		return medals[rank-1]
	}
	return fmt.Sprintf("#%d", rank)
}

// UpsetCorrectPct is the share of users who called an upset
func UpsetCorrectPct(u models.Upset) int {
	return 100 - u.MissedByPct
}

// IsCampusGame reports whether a score update gets the campus badge
func IsCampusGame(u models.ScoreUpdate, campus string) bool {
	return u.TeamA == campus || u.TeamB == campus || u.CampusTeam != nil
}
