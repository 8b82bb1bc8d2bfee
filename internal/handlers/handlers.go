package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/Billy-Davies-2/bracket-champs/internal/auth"
	"github.com/Billy-Davies-2/bracket-champs/internal/clickhouse"
	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/groups"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
	"github.com/Billy-Davies-2/bracket-champs/internal/share"
)

// Options wires the handlers to their collaborators. Recorder is optional;
// a nil Auth falls back to the mock provider and a nil Groups to an empty directory.
type Options struct {
	DAL         dal.CatalogDAL
	Bus         *pubsub.PubSub
	Sessions    *session.Manager
	Groups      *groups.Directory
	Recorder    clickhouse.PickRecorder
	Auth        auth.AuthProvider
	Features    config.Features
	Sharer      share.Sharer
	CORSOrigins []string
	// Production adds the analytics and bus checks to /api/health
	Production bool
}

// Handlers serves the HTML screens, the JSON API and the live streams
type Handlers struct {
	dal        dal.CatalogDAL
	pubsub     *pubsub.PubSub
	sessions   *session.Manager
	groups     *groups.Directory
	recorder   clickhouse.PickRecorder
	auth       auth.AuthProvider
	features   config.Features
	sharer     share.Sharer
	renderer   *screens.Renderer
	upgrader   websocket.Upgrader
	origins    []string
	production bool
}

// NewHandlers creates the handlers and parses the page templates
func NewHandlers(opts Options) (*Handlers, error) {
	renderer, err := screens.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if opts.Auth == nil {
		opts.Auth = auth.NewMockAuth()
	}
	if opts.Groups == nil {
		opts.Groups = groups.NewDirectory()
	}
	if opts.Sessions == nil {
		sopts := session.Options{Recorder: opts.Recorder}
		if opts.Bus != nil {
			sopts.Bus = opts.Bus
		}
		opts.Sessions = session.NewManager(sopts)
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Sharer.Link == "" {
		opts.Sharer.Link = opts.Features.ShareLink
	}

	return &Handlers{
		dal:        opts.DAL,
		pubsub:     opts.Bus,
		sessions:   opts.Sessions,
		groups:     opts.Groups,
		recorder:   opts.Recorder,
		auth:       opts.Auth,
		features:   opts.Features,
		sharer:     opts.Sharer,
		renderer:   renderer,
		origins:    opts.CORSOrigins,
		production: opts.Production,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Router mounts every route on a chi router
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	}).Handler)
	r.Use(h.auth.Attach)

	// Auth
	r.Get("/auth/login", h.auth.LoginHandler)
	r.Get("/auth/callback", h.auth.CallbackHandler)
	r.Get("/auth/logout", h.auth.LogoutHandler)

	// Screens
	r.Get(screens.PathLanding, h.LandingPage)
	r.Get(screens.PathMatchup, h.MatchupPage)
	r.Post("/matchup/start", h.StartMatchup)
	r.Post("/matchup/pick", h.PickMatchup)
	r.Get(screens.PathCongrats, h.CongratsPage)
	r.Get(screens.PathShare, h.SharePage)
	r.Post("/share/{action}", h.ShareAction)
	r.Get(screens.PathLeaderboard, h.LeaderboardPage)
	r.Post("/leaderboard/join", h.JoinCampusPage)
	r.Get(screens.PathBracket, h.BracketPage)
	r.Get(screens.PathDrip, h.DripPage)
	r.Get(screens.PathScores, h.ScoresPage)
	r.Get(screens.PathAccount, h.AccountPage)
	r.Post(screens.PathAccount, h.SignUp)
	r.Get(screens.PathGroupsNew, h.GroupsPage)
	r.Post(screens.PathGroupsNew, h.GroupsAction)
	r.Get(screens.PathRecap, h.RecapPage)
	r.Get(screens.PathEnd, h.EndPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.GetCatalog)
		r.Post("/catalog/reset", h.auth.Middleware(h.ResetCatalog))
		r.Get("/matchups", h.ListMatchups)
		r.Get("/matchups/{idx}", h.GetMatchup)
		r.Get("/bracket/days/{idx}", h.GetBracketDay)
		r.Get("/leaderboards/rivalry", h.GetRivalry)
		r.Get("/leaderboards/{tab}", h.GetLeaderboard)
		r.Post("/campuses/join", h.JoinCampus)
		r.Get("/drip", h.GetDrip)
		r.Get("/scores", h.GetScores)
		r.Get("/recap", h.GetRecap)
		r.Get("/end", h.GetEnd)

		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Post("/sessions/{id}/picks", h.PickSession)
		r.Get("/sessions/{id}/handoff", h.ClaimHandOff)
		r.Get("/sessions/{id}/ws", h.SessionWS)

		r.Post("/groups", h.CreateGroup)
		r.Post("/groups/join", h.JoinGroup)

		r.Get("/share", h.GetShare)
		r.Post("/share/{action}", h.PostShare)

		r.Get("/analytics/matchups/{idx}", h.GetPickCounts)

		r.Get("/events", h.EventsSSE)
		r.Get("/health", h.Health)
	})

	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)

	r.NotFound(h.NotFoundPage)
	return r
}

// requestLogger logs every request through the app logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrHandOffClaimed),
		errors.Is(err, dal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pickflow.ErrOverlayActive),
		errors.Is(err, pickflow.ErrSessionComplete),
		errors.Is(err, pickflow.ErrNoMatchup),
		errors.Is(err, session.ErrHandOffPending):
		return http.StatusConflict
	case errors.Is(err, pickflow.ErrUnknownTeam),
		errors.Is(err, groups.ErrGroupNameLength),
		errors.Is(err, groups.ErrInviteCodeEmpty):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// intParam reads an integer URL param
func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

// queryInt reads an optional integer query value, def when absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// env loads the catalog and builds the screen environment for r
func (h *Handlers) env(r *http.Request) (screens.Env, error) {
	c, err := h.dal.GetCatalog()
	if err != nil {
		return screens.Env{}, fmt.Errorf("load catalog: %w", err)
	}
	return screens.Env{Catalog: c, Features: h.features, User: auth.GetUser(r)}, nil
}

func (h *Handlers) publish(ev pubsub.Event) {
	if h.pubsub != nil {
		h.pubsub.Publish(ev)
	}
}
