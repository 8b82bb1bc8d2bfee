package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Billy-Davies-2/bracket-champs/internal/auth"
	"github.com/Billy-Davies-2/bracket-champs/internal/groups"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
)

// GetCatalog returns the complete static catalog
func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Getting catalog")
	c, err := h.dal.GetCatalog()
	if err != nil {
		logger.Error("Failed to get catalog", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ResetCatalog restores the seed catalog. Admins only.
func (h *Handlers) ResetCatalog(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdmin(auth.GetUser(r)) {
		http.Error(w, "Forbidden: Admin access required", http.StatusForbidden)
		return
	}

	logger.Info("Resetting catalog")
	if err := h.dal.Reset(); err != nil {
		logger.Error("Failed to reset catalog", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.publish(pubsub.NewEvent(pubsub.EventCatalogReset, "", nil))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListMatchups returns the ordered matchups
func (h *Handlers) ListMatchups(w http.ResponseWriter, r *http.Request) {
	matchups, err := h.dal.ListMatchups()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, matchups)
}

// GetMatchup returns one matchup by index, 404 when out of range
func (h *Handlers) GetMatchup(w http.ResponseWriter, r *http.Request) {
	idx, err := intParam(r, "idx")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := h.dal.GetMatchup(idx)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetBracketDay returns the bracket tracker for a day. Out of range days are empty.
func (h *Handlers) GetBracketDay(w http.ResponseWriter, r *http.Request) {
	idx, err := intParam(r, "idx")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.Bracket(env, idx))
}

func leaderboardState(r *http.Request, tab string) screens.LeaderboardState {
	q := r.URL.Query()
	return screens.LeaderboardState{
		Tab:        tab,
		Group:      q.Get("group"),
		Campus:     q.Get("campus"),
		Expanded:   q.Get("expanded"),
		Joined:     q.Get("joined"),
		JustJoined: q.Get("just") == "1",
	}
}

// GetLeaderboard returns one leaderboard tab
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	if !screens.ValidTab(tab) {
		http.Error(w, "Unknown leaderboard", http.StatusNotFound)
		return
	}
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.Leaderboard(env, leaderboardState(r, tab)))
}

// GetRivalry returns the top-two campus split
func (h *Handlers) GetRivalry(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rivalry := screens.Rivalry(env.Catalog)
	if rivalry == nil {
		http.Error(w, "Not enough campuses", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rivalry)
}

// joinCampus validates the campus and announces the join. Nothing is persisted.
func (h *Handlers) joinCampus(r *http.Request, group string) (models.CampusEntry, error) {
	env, err := h.env(r)
	if err != nil {
		return models.CampusEntry{}, err
	}
	campus, ok := env.Catalog.CampusByGroup(group)
	if !ok {
		return models.CampusEntry{}, errUnknownCampus
	}
	logger.Info("Campus joined", "campus", campus.Group)
	h.publish(pubsub.NewEvent(pubsub.EventCampusJoined, "", map[string]any{"campus": campus.Group}))
	return campus, nil
}

var errUnknownCampus = errors.New("unknown campus")

// JoinCampus joins a campus rivalry group
func (h *Handlers) JoinCampus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Campus string `json:"campus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode campus join request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	campus, err := h.joinCampus(r, req.Campus)
	if errors.Is(err, errUnknownCampus) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"joined":  campus,
		"message": screens.JoinedCampusMessage(campus.Group),
	})
}

// GetDrip returns the drip locker, with ?item= opening an item's detail
func (h *Handlers) GetDrip(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.Drip(env, r.URL.Query().Get("item"), false))
}

// GetScores returns the score carousel at ?idx= (default 0)
func (h *Handlers) GetScores(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.Scores(env, queryInt(r, "idx", 0)))
}

// GetRecap returns the round recap
func (h *Handlers) GetRecap(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.Recap(env))
}

// GetEnd returns the end of tournament summary
func (h *Handlers) GetEnd(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.End(env))
}

// CreateSession starts a pick flow in Browsing(0)
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BracketMode string `json:"bracketMode"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("Failed to decode session request", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	matchups, err := h.dal.ListMatchups()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s := h.sessions.Create(matchups, models.ParseBracketMode(req.BracketMode))
	writeJSON(w, http.StatusCreated, s.View())
}

// GetSession returns the current snapshot of a session
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// PickSession locks in a team on the session's current matchup
func (h *Handlers) PickSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Team string `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	view, err := h.sessions.Pick(r.Context(), id, req.Team)
	if err != nil {
		logger.Debug("Pick rejected", "session", id, "team", req.Team, "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClaimHandOff returns a completed session's picks. Only the first call succeeds.
func (h *Handlers) ClaimHandOff(w http.ResponseWriter, r *http.Request) {
	ho, err := h.sessions.Claim(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, ho)
}

// CreateGroup registers a custom group and returns its invite code
func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.groups.Create(req.Name, req.Emoji)
	if err != nil {
		http.Error(w, groups.Message(err), statusFor(err))
		return
	}
	h.publish(pubsub.NewEvent(pubsub.EventGroupCreated, "", map[string]any{"name": g.Name, "code": g.InviteCode}))
	writeJSON(w, http.StatusCreated, map[string]any{
		"group":   g,
		"message": g.CreatedMessage(),
	})
}

// JoinGroup joins a group by invite code
func (h *Handlers) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	code, g, err := h.groups.Join(req.Code)
	if err != nil {
		http.Error(w, groups.Message(err), statusFor(err))
		return
	}
	h.publish(pubsub.NewEvent(pubsub.EventGroupJoined, "", map[string]any{"code": code}))
	writeJSON(w, http.StatusOK, map[string]any{
		"code":    code,
		"group":   g,
		"message": groups.JoinedMessage,
	})
}

// handOffFromRequest reads picks as repeated pick= values or a comma separated picks=
func handOffFromRequest(r *http.Request) models.HandOff {
	q := r.URL.Query()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			q = r.Form
		}
	}
	ho := screens.HandOffFromQuery(q)
	if len(ho.Picks) == 0 && q.Get("picks") != "" {
		for _, p := range strings.Split(q.Get("picks"), ",") {
			if p = strings.TrimSpace(p); p != "" {
				ho.Picks = append(ho.Picks, p)
			}
		}
	}
	return ho
}

// GetShare returns the challenge link, SMS deep link and fallback text
func (h *Handlers) GetShare(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, screens.Share(env, handOffFromRequest(r)))
}

// PostShare runs a share action. The server has no clipboard, so this is the fallback path.
func (h *Handlers) PostShare(w http.ResponseWriter, r *http.Request) {
	res, ok := screens.RunShare(h.sharer, chi.URLParam(r, "action"))
	if !ok {
		http.Error(w, "Unknown share action", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetPickCounts returns how often each team was picked on a matchup
func (h *Handlers) GetPickCounts(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		http.Error(w, "Analytics not configured", http.StatusServiceUnavailable)
		return
	}
	idx, err := intParam(r, "idx")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := h.dal.GetMatchup(idx)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	counts, err := h.recorder.PickCounts(r.Context(), m.ID)
	if err != nil {
		logger.Error("Failed to read pick counts", "error", err, "matchup", m.ID)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matchup": m.ID,
		"counts":  counts,
	})
}
