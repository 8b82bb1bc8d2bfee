package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const sessionCookie = "session_id"

// Contact methods offered on the Account screen
const (
	MethodEmail = "email"
	MethodPhone = "phone"
)

var (
	ErrContactEmpty   = errors.New("contact is empty")
	ErrUnknownMethod  = errors.New("unknown contact method")
	ErrInvalidContact = errors.New("contact is not a valid email address")
)

// Message is the user-facing text for a ParseContact error
func Message(err error) string {
	switch {
	case errors.Is(err, ErrContactEmpty):
		return "Enter your email or phone number"
	case errors.Is(err, ErrInvalidContact):
		return "Enter a valid email address"
	case errors.Is(err, ErrUnknownMethod):
		return "Choose email or phone"
	}
	return "Something went wrong"
}

type contextKey struct{}

// User represents an authenticated user
type User struct {
	ID       string
	Email    string
	Phone    string
	Name     string
	Username string
	Groups   []string
}

// Session represents a user session
type Session struct {
	ID        string
	User      *User
	Token     *oauth2.Token
	CreatedAt time.Time
	ExpiresAt time.Time
}

// AuthProvider is a common interface for authentication providers
type AuthProvider interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	CallbackHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	SignUpHandler(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
	Attach(next http.Handler) http.Handler
}

// ParseContact validates the Account screen form
func ParseContact(method, value string) (string, string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", ErrContactEmpty
	}
	switch method {
	case "", MethodEmail:
		if !strings.Contains(value, "@") {
			return "", "", ErrInvalidContact
		}
		return MethodEmail, value, nil
	case MethodPhone:
		return MethodPhone, value, nil
	}
	return "", "", ErrUnknownMethod
}

// GetUser retrieves the authenticated user from the request context
func GetUser(r *http.Request) *User {
	user, ok := r.Context().Value(contextKey{}).(*User)
	if !ok {
		return nil
	}
	return user
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// IsAdmin checks if the user has admin privileges
func IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	for _, group := range user.Groups {
		if group == "admins" {
			return true
		}
	}
	return false
}

// sessionStore is the in-memory session table shared by both providers
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newSessionStore() sessionStore {
	return sessionStore{sessions: make(map[string]*Session)}
}

func (s *sessionStore) put(session *Session) {
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// lookup returns the live session named by the request cookie
func (s *sessionStore) lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	session, exists := s.sessions[cookie.Value]
	s.mu.RUnlock()
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return session, true
}

func (s *sessionStore) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.lookup(r)
		if !ok {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), session.User)))
	}
}

func (s *sessionStore) attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := s.lookup(r); ok {
			r = r.WithContext(WithUser(r.Context(), session.User))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *sessionStore) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func setSessionCookie(w http.ResponseWriter, session *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

// randomToken returns 32 random bytes, base64url encoded
func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
