package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Billy-Davies-2/bracket-champs/internal/auth"
	"github.com/Billy-Davies-2/bracket-champs/internal/groups"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

// render writes page with status
func (h *Handlers) render(w http.ResponseWriter, status int, page screens.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, page); err != nil {
		logger.Error("Failed to render page", "template", page.Template, "error", err)
	}
}

// page builds the screen env and renders the body produced by build
func (h *Handlers) page(w http.ResponseWriter, r *http.Request, path, tmpl, title string, build func(screens.Env) any) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, screens.NewPage(env, path, tmpl, title, build(env)))
}

// NotFoundPage renders the 404 screen for any unknown path
func (h *Handlers) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	env, _ := h.env(r)
	h.render(w, http.StatusNotFound, screens.NotFound(env, r.URL.Path))
}

func (h *Handlers) LandingPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, screens.PathLanding, screens.TmplLanding, "March Madness 101", func(screens.Env) any {
		return screens.Landing(r.URL.Query().Get("play") != "")
	})
}

func sessionURL(id string) string {
	return screens.PathMatchup + "?" + url.Values{"session": {id}}.Encode()
}

func (h *Handlers) startSession(mode string) (*session.Session, error) {
	matchups, err := h.dal.ListMatchups()
	if err != nil {
		return nil, err
	}
	return h.sessions.Create(matchups, models.ParseBracketMode(mode)), nil
}

// StartMatchup starts a session in the chosen mode and opens its first matchup
func (h *Handlers) StartMatchup(w http.ResponseWriter, r *http.Request) {
	s, err := h.startSession(r.FormValue("mode"))
	if err != nil {
		http.Error(w, "Failed to load matchups", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, sessionURL(s.ID), http.StatusSeeOther)
}

// MatchupPage shows a live session, or a read-only preview of ?idx= without one
func (h *Handlers) MatchupPage(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()

	id := q.Get("session")
	if id == "" {
		mode := models.ParseBracketMode(q.Get("mode"))
		view := screens.Matchup(env, mode, queryInt(r, "idx", 0))
		h.render(w, http.StatusOK, screens.NewPage(env, screens.PathMatchup, screens.TmplMatchup, "Pick", view))
		return
	}

	s, err := h.sessions.Get(id)
	if err != nil {
		h.render(w, http.StatusNotFound, screens.NotFound(env, r.URL.Path))
		return
	}
	v := s.View()
	if v.State == pickflow.StateComplete {
		http.Redirect(w, r, screens.PathCongrats+"?"+url.Values{"session": {id}}.Encode(), http.StatusSeeOther)
		return
	}

	page := screens.NewPage(env, screens.PathMatchup, screens.TmplMatchup, "Pick", screens.SessionMatchup(env, id, v.Snapshot))
	if v.Overlay() {
		page.Refresh = 1
	}
	h.render(w, http.StatusOK, page)
}

// PickMatchup locks in a team, starting a session first when the form has none.
// The team is checked against the first matchup before a session exists.
func (h *Handlers) PickMatchup(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("session")
	team := r.FormValue("team")
	if id == "" {
		matchups, err := h.dal.ListMatchups()
		if err != nil {
			http.Error(w, "Failed to load matchups", http.StatusInternalServerError)
			return
		}
		if len(matchups) == 0 {
			http.Error(w, pickflow.ErrNoMatchup.Error(), statusFor(pickflow.ErrNoMatchup))
			return
		}
		if _, ok := matchups[0].PickPercent(team); !ok {
			http.Error(w, pickflow.ErrUnknownTeam.Error(), statusFor(pickflow.ErrUnknownTeam))
			return
		}
		id = h.sessions.Create(matchups, models.ParseBracketMode(r.FormValue("mode"))).ID
	}

	_, err := h.sessions.Pick(r.Context(), id, team)
	switch {
	case err == nil, errors.Is(err, pickflow.ErrOverlayActive), errors.Is(err, pickflow.ErrSessionComplete):
		// repeated taps while the overlay shows are ignored
	case errors.Is(err, session.ErrNotFound):
		h.NotFoundPage(w, r)
		return
	default:
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	http.Redirect(w, r, sessionURL(id), http.StatusSeeOther)
}

// CongratsPage claims the session hand-off. A second visit finds it gone
// and falls back to the picks in the query string, if any.
func (h *Handlers) CongratsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ho := screens.HandOffFromQuery(q)
	if id := q.Get("session"); id != "" {
		claimed, err := h.sessions.Claim(id)
		if err == nil {
			ho = claimed
		} else {
			logger.Debug("No hand-off to claim", "session", id, "error", err)
		}
	}
	h.page(w, r, screens.PathCongrats, screens.TmplCongrats, "Bracket Locked", func(env screens.Env) any {
		return screens.Congrats(env, ho)
	})
}

func (h *Handlers) SharePage(w http.ResponseWriter, r *http.Request) {
	ho := handOffFromRequest(r)
	h.page(w, r, screens.PathShare, screens.TmplShare, "Share Bracket", func(env screens.Env) any {
		return screens.Share(env, ho)
	})
}

// ShareAction runs a share button and re-renders the screen with the outcome
func (h *Handlers) ShareAction(w http.ResponseWriter, r *http.Request) {
	res, ok := screens.RunShare(h.sharer, chi.URLParam(r, "action"))
	if !ok {
		h.NotFoundPage(w, r)
		return
	}
	ho := handOffFromRequest(r)
	h.page(w, r, screens.PathShare, screens.TmplShare, "Share Bracket", func(env screens.Env) any {
		v := screens.Share(env, ho)
		v.Result = &res
		return v
	})
}

func (h *Handlers) LeaderboardPage(w http.ResponseWriter, r *http.Request) {
	st := leaderboardState(r, r.URL.Query().Get("tab"))
	h.page(w, r, screens.PathLeaderboard, screens.TmplLeaderboard, "Leaderboard", func(env screens.Env) any {
		return screens.Leaderboard(env, st)
	})
}

// JoinCampusPage joins a campus and returns to its detail with the toast showing
func (h *Handlers) JoinCampusPage(w http.ResponseWriter, r *http.Request) {
	campus, err := h.joinCampus(r, r.FormValue("campus"))
	if errors.Is(err, errUnknownCampus) {
		h.NotFoundPage(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}
	q := url.Values{
		"tab":    {screens.TabCampuses},
		"campus": {campus.Group},
		"joined": {campus.Group},
		"just":   {"1"},
	}
	http.Redirect(w, r, screens.PathLeaderboard+"?"+q.Encode(), http.StatusSeeOther)
}

func (h *Handlers) BracketPage(w http.ResponseWriter, r *http.Request) {
	day := queryInt(r, "day", 0)
	h.page(w, r, screens.PathBracket, screens.TmplBracket, "Bracket", func(env screens.Env) any {
		return screens.Bracket(env, day)
	})
}

func (h *Handlers) DripPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.page(w, r, screens.PathDrip, screens.TmplDrip, "Drip Locker", func(env screens.Env) any {
		return screens.Drip(env, q.Get("item"), q.Get("download") != "")
	})
}

func (h *Handlers) ScoresPage(w http.ResponseWriter, r *http.Request) {
	idx := queryInt(r, "idx", 0)
	h.page(w, r, screens.PathScores, screens.TmplScores, "Live Scores", func(env screens.Env) any {
		return screens.Scores(env, idx)
	})
}

func (h *Handlers) AccountPage(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("method")
	h.page(w, r, screens.PathAccount, screens.TmplAccount, "Save Your Drip", func(env screens.Env) any {
		return screens.Account(env, method, "")
	})
}

// SignUp validates the contact before handing off to the auth provider
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	method := r.FormValue("method")
	if _, _, err := auth.ParseContact(method, r.FormValue("contact")); err != nil {
		env, envErr := h.env(r)
		if envErr != nil {
			http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
			return
		}
		h.render(w, http.StatusBadRequest, screens.NewPage(env, screens.PathAccount, screens.TmplAccount, "Save Your Drip",
			screens.Account(env, method, auth.Message(err))))
		return
	}
	h.auth.SignUpHandler(w, r)
}

func (h *Handlers) GroupsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.page(w, r, screens.PathGroupsNew, screens.TmplGroups, "Groups", func(screens.Env) any {
		return screens.Groups(q.Get("mode"), q.Get("emoji"))
	})
}

// GroupsAction creates or joins a group. A successful join moves on to the leaderboard.
func (h *Handlers) GroupsAction(w http.ResponseWriter, r *http.Request) {
	env, err := h.env(r)
	if err != nil {
		http.Error(w, "Failed to load catalog", http.StatusInternalServerError)
		return
	}
	mode := r.FormValue("mode")
	v := screens.Groups(mode, r.FormValue("emoji"))
	page := screens.NewPage(env, screens.PathGroupsNew, screens.TmplGroups, "Groups", nil)
	status := http.StatusOK

	if v.Mode == screens.GroupModeJoin {
		code, _, err := h.groups.Join(r.FormValue("code"))
		if err != nil {
			v.Error = groups.Message(err)
			status = statusFor(err)
		} else {
			h.publish(pubsub.NewEvent(pubsub.EventGroupJoined, "", map[string]any{"code": code}))
			v.Message = groups.JoinedMessage
			page.Refresh = 1
			page.RefreshURL = screens.PathLeaderboard
		}
	} else {
		v.Name = r.FormValue("name")
		g, err := h.groups.Create(v.Name, v.SelectedEmoji)
		if err != nil {
			v.Error = groups.Message(err)
			status = statusFor(err)
		} else {
			h.publish(pubsub.NewEvent(pubsub.EventGroupCreated, "", map[string]any{"name": g.Name, "code": g.InviteCode}))
			v.Created = &g
			v.Message = g.CreatedMessage()
		}
	}

	page.Body = v
	h.render(w, status, page)
}

func (h *Handlers) RecapPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, screens.PathRecap, screens.TmplRecap, "Round Recap", func(env screens.Env) any {
		return screens.Recap(env)
	})
}

func (h *Handlers) EndPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, screens.PathEnd, screens.TmplEnd, "Tournament Over", func(env screens.Env) any {
		return screens.End(env)
	})
}
