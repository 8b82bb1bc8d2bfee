package auth

import (
	"net/http"
	"time"

	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// MockAuth provides a mock authentication for local development
type MockAuth struct {
	sessions sessionStore
}

// NewMockAuth creates a new mock authentication handler
func NewMockAuth() *MockAuth {
	return &MockAuth{sessions: newSessionStore()}
}

func (m *MockAuth) startSession(w http.ResponseWriter, user *User) {
	session := &Session{
		ID:        randomToken(),
		User:      user,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	m.sessions.put(session)
	setSessionCookie(w, session, false)
}

// LoginHandler for mock auth - auto-creates a session
func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	m.startSession(w, &User{
		ID:       "dev-user-123",
		Email:    "dev@bracket.local",
		Name:     models.CurrentUser,
		Username: "devuser",
		Groups:   []string{"users", "admins"},
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignUpHandler signs in straight away with the contact from the Account screen
func (m *MockAuth) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	method, contact, err := ParseContact(r.FormValue("method"), r.FormValue("contact"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := &User{ID: "dev-" + method, Name: models.CurrentUser, Username: contact, Groups: []string{"users"}}
	if method == MethodEmail {
		user.Email = contact
	} else {
		user.Phone = contact
	}
	m.startSession(w, user)
	logger.Info("Mock account created", "method", method)
	http.Redirect(w, r, "/drip", http.StatusSeeOther)
}

// CallbackHandler is not needed for mock auth
func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler for mock auth
func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	m.sessions.logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Middleware for mock auth
func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return m.sessions.middleware(next)
}

func (m *MockAuth) Attach(next http.Handler) http.Handler {
	return m.sessions.attach(next)
}
