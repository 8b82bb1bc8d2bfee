package fuzz

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/handlers"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
	"github.com/Billy-Davies-2/bracket-champs/internal/share"
)

func init() {
	// Initialize logger for tests
	logger.Init("error")
}

type server struct {
	router   http.Handler
	sessions *session.Manager
}

func newServer(t *testing.T) server {
	t.Helper()
	ps := pubsub.New()
	sessions := session.NewManager(session.Options{Bus: ps})
	t.Cleanup(sessions.CloseAll)
	h, err := handlers.NewHandlers(handlers.Options{
		DAL:      dal.NewMemoryDAL(),
		Bus:      ps,
		Sessions: sessions,
		Features: config.DefaultFeatures(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return server{router: h.Router(), sessions: sessions}
}

func (s server) post(target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s server) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

// FuzzHTTPSessionPick fuzzes the session pick endpoint
func FuzzHTTPSessionPick(f *testing.F) {
	// Seed corpus with valid examples
	f.Add(`{"team":"Duke"}`)
	f.Add(`{"team":"Vermont"}`)
	f.Add(`{"team":"Gonzaga"}`)
	f.Add(`{"team":""}`)
	f.Add(`{`)

	f.Fuzz(func(t *testing.T, data string) {
		s := newServer(t)
		sess := s.sessions.Create(dal.DefaultCatalog().Matchups, models.ModeClassic)

		w := s.post("/api/sessions/"+sess.ID+"/picks", "application/json", data)
		if w.Code >= http.StatusInternalServerError {
			t.Errorf("pick %q returned %d", data, w.Code)
		}
	})
}

// FuzzHTTPCreateSession fuzzes the session create endpoint
func FuzzHTTPCreateSession(f *testing.F) {
	f.Add(`{"bracketMode":"Classic Full Bracket"}`)
	f.Add(`{"bracketMode":"Round-by-Round Mode"}`)
	f.Add(`{"bracketMode":"Chaos"}`)
	f.Add(`[]`)

	f.Fuzz(func(t *testing.T, data string) {
		s := newServer(t)
		w := s.post("/api/sessions", "application/json", data)
		if w.Code != http.StatusCreated && w.Code != http.StatusBadRequest {
			t.Errorf("create %q returned %d", data, w.Code)
		}
	})
}

// FuzzHTTPCreateGroup fuzzes the group create endpoint
func FuzzHTTPCreateGroup(f *testing.F) {
	// Seed corpus
	f.Add(`{"name":"Dorm 4B","emoji":"🔥"}`)
	f.Add(`{"name":"ab","emoji":""}`)
	f.Add(`{"name":"` + strings.Repeat("x", 31) + `"}`)

	f.Fuzz(func(t *testing.T, data string) {
		s := newServer(t)
		w := s.post("/api/groups", "application/json", data)
		if w.Code >= http.StatusInternalServerError {
			t.Errorf("create group %q returned %d", data, w.Code)
		}
	})
}

// FuzzHTTPJoinGroup fuzzes the group join endpoint
func FuzzHTTPJoinGroup(f *testing.F) {
	f.Add(`{"code":"MARCH-AB12"}`)
	f.Add(`{"code":"   "}`)
	f.Add(`{"code":"march-ab12"}`)

	f.Fuzz(func(t *testing.T, data string) {
		s := newServer(t)
		w := s.post("/api/groups/join", "application/json", data)
		if w.Code >= http.StatusInternalServerError {
			t.Errorf("join group %q returned %d", data, w.Code)
		}
	})
}

// FuzzHTTPGroupsForm fuzzes the groups screen form
func FuzzHTTPGroupsForm(f *testing.F) {
	f.Add("create", "Dorm 4B", "🔥", "")
	f.Add("join", "", "", "MARCH-AB12")
	f.Add("", "", "", "")

	f.Fuzz(func(t *testing.T, mode, name, emoji, code string) {
		s := newServer(t)
		form := url.Values{"mode": {mode}, "name": {name}, "emoji": {emoji}, "code": {code}}
		w := s.post(screens.PathGroupsNew, "application/x-www-form-urlencoded", form.Encode())
		if w.Code >= http.StatusInternalServerError {
			t.Errorf("groups form returned %d", w.Code)
		}
	})
}

// FuzzHTTPJoinCampus fuzzes the campus join endpoint
func FuzzHTTPJoinCampus(f *testing.F) {
	f.Add(`{"campus":"Oregon Ducks"}`)
	f.Add(`{"campus":""}`)
	f.Add(`null`)

	f.Fuzz(func(t *testing.T, data string) {
		s := newServer(t)
		w := s.post("/api/campuses/join", "application/json", data)
		if w.Code >= http.StatusInternalServerError {
			t.Errorf("join campus %q returned %d", data, w.Code)
		}
	})
}

// FuzzHTTPIndexes fuzzes the indexed lookups
func FuzzHTTPIndexes(f *testing.F) {
	f.Add("0")
	f.Add("3")
	f.Add("-1")
	f.Add("99999999999999999999")
	f.Add("abc")

	f.Fuzz(func(t *testing.T, idx string) {
		s := newServer(t)
		seg := url.PathEscape(idx)
		for _, target := range []string{
			"/api/matchups/" + seg,
			"/api/bracket/days/" + seg,
			"/bracket?day=" + url.QueryEscape(idx),
			"/scores?idx=" + url.QueryEscape(idx),
			"/matchup?idx=" + url.QueryEscape(idx),
		} {
			if w := s.get(target); w.Code >= http.StatusInternalServerError {
				t.Errorf("GET %s returned %d", target, w.Code)
			}
		}
	})
}

// FuzzHTTPLeaderboard fuzzes the leaderboard query state
func FuzzHTTPLeaderboard(f *testing.F) {
	f.Add("friends", "", "", "")
	f.Add("groups", "Oregon Ducks Nation", "", "")
	f.Add("campuses", "", "Oregon Ducks", "Oregon Ducks")

	f.Fuzz(func(t *testing.T, tab, group, campus, joined string) {
		s := newServer(t)
		q := url.Values{"tab": {tab}, "group": {group}, "campus": {campus}, "joined": {joined}, "just": {"1"}}
		if w := s.get(screens.PathLeaderboard + "?" + q.Encode()); w.Code != http.StatusOK {
			t.Errorf("leaderboard returned %d", w.Code)
		}
	})
}

// FuzzHandOffQuery fuzzes hand-off parsing from the query string
func FuzzHandOffQuery(f *testing.F) {
	f.Add("pick=Duke&pick=Kentucky&mode=Classic+Full+Bracket")
	f.Add("picks=Duke,,Kentucky")
	f.Add("%zz")

	f.Fuzz(func(t *testing.T, raw string) {
		q, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		ho := screens.HandOffFromQuery(q)
		if ho.BracketMode != models.ModeClassic && ho.BracketMode != models.ModeRoundByRound {
			t.Errorf("unexpected mode %q", ho.BracketMode)
		}
		screens.PickLines(dal.DefaultCatalog(), ho.Picks)
	})
}

// FuzzEncodeURIComponent checks the SMS body encoding decodes back to its input
func FuzzEncodeURIComponent(f *testing.F) {
	f.Add("I just locked in my bracket! 🏀 https://example.com")
	f.Add("")
	f.Add("a+b=c&d")

	f.Fuzz(func(t *testing.T, s string) {
		enc := share.EncodeURIComponent(s)
		dec, err := url.PathUnescape(enc)
		if err != nil {
			t.Fatalf("decode %q: %v", enc, err)
		}
		if dec != s {
			t.Errorf("round trip %q -> %q -> %q", s, enc, dec)
		}
	})
}
