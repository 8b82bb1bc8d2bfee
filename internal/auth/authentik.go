package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
)

// AuthentikConfig holds the configuration for Authentik OAuth2/OIDC
type AuthentikConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// AppSlug names the Authentik application, used for the end-session URL
	AppSlug string
}

// AuthentikAuth manages authentication with Authentik
type AuthentikAuth struct {
	config       *AuthentikConfig
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	sessions     sessionStore
}

// NewAuthentikAuth creates a new Authentik authentication handler
func NewAuthentikAuth(config *AuthentikConfig) *AuthentikAuth {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"openid", "profile", "email"}
	}
	if config.AppSlug == "" {
		config.AppSlug = "bracket-champs"
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/application/o/authorize/", config.BaseURL),
			TokenURL: fmt.Sprintf("%s/application/o/token/", config.BaseURL),
		},
	}

	return &AuthentikAuth{
		config:       config,
		oauth2Config: oauth2Config,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		sessions:     newSessionStore(),
	}
}

// LoginHandler initiates the OAuth2 login flow
func (a *AuthentikAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	a.redirectToAuthorize(w, r)
}

// SignUpHandler sends the Account screen's contact to Authentik as a login hint
func (a *AuthentikAuth) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	_, contact, err := ParseContact(r.FormValue("method"), r.FormValue("contact"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.redirectToAuthorize(w, r, oauth2.SetAuthURLParam("login_hint", contact))
}

func (a *AuthentikAuth) redirectToAuthorize(w http.ResponseWriter, r *http.Request, opts ...oauth2.AuthCodeOption) {
	state := randomToken()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	authURL := a.oauth2Config.AuthCodeURL(state, opts...)
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// CallbackHandler handles the OAuth2 callback from Authentik
func (a *AuthentikAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	code := r.URL.Query().Get("code")
	token, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		logger.Warn("Authentik token exchange failed", "error", err)
		http.Error(w, "Failed to exchange token: "+err.Error(), http.StatusBadGateway)
		return
	}

	user, err := a.getUserInfo(r, token)
	if err != nil {
		logger.Warn("Authentik userinfo failed", "error", err)
		http.Error(w, "Failed to get user info: "+err.Error(), http.StatusBadGateway)
		return
	}

	expires := token.Expiry
	if expires.IsZero() {
		expires = time.Now().Add(24 * time.Hour)
	}
	session := &Session{
		ID:        randomToken(),
		User:      user,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	a.sessions.put(session)
	setSessionCookie(w, session, true)

	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	logger.Info("User signed in", "user", user.Username)
	http.Redirect(w, r, "/drip", http.StatusSeeOther)
}

// LogoutHandler handles user logout
func (a *AuthentikAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	a.sessions.logout(w, r)
	logoutURL := fmt.Sprintf("%s/application/o/%s/end-session/", a.config.BaseURL, a.config.AppSlug)
	http.Redirect(w, r, logoutURL, http.StatusSeeOther)
}

// Middleware protects routes requiring authentication
func (a *AuthentikAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return a.sessions.middleware(next)
}

// Attach adds the signed-in user to the request context when there is one
func (a *AuthentikAuth) Attach(next http.Handler) http.Handler {
	return a.sessions.attach(next)
}

// getUserInfo fetches user information from Authentik
func (a *AuthentikAuth) getUserInfo(r *http.Request, token *oauth2.Token) (*User, error) {
	userInfoURL := fmt.Sprintf("%s/application/o/userinfo/", a.config.BaseURL)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: %s - %s", resp.Status, string(body))
	}

	var userInfo struct {
		Sub               string   `json:"sub"`
		Email             string   `json:"email"`
		PhoneNumber       string   `json:"phone_number"`
		Name              string   `json:"name"`
		PreferredUsername string   `json:"preferred_username"`
		Groups            []string `json:"groups"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &User{
		ID:       userInfo.Sub,
		Email:    userInfo.Email,
		Phone:    userInfo.PhoneNumber,
		Name:     userInfo.Name,
		Username: userInfo.PreferredUsername,
		Groups:   userInfo.Groups,
	}, nil
}
