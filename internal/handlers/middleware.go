package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"chorestar/internal/models"
	"chorestar/internal/security"
	"chorestar/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	FamilyContextKey  ContextKey = "family"
	SessionContextKey ContextKey = "session"
	ChildContextKey   ContextKey = "child"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService   *service.AuthService
	familyService *service.FamilyService
	csrf          *security.CSRFGenerator
	childTokens   *security.ChildTokenIssuer
	limiter       *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, familyService *service.FamilyService, csrf *security.CSRFGenerator, childTokens *security.ChildTokenIssuer, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService:   authService,
		familyService: familyService,
		csrf:          csrf,
		childTokens:   childTokens,
		limiter:       limiter,
	}
}

// RequireAuth validates the session cookie, resolves the caller's effective
// family and places user, session id and family on the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		family, err := m.familyService.ResolveEffectiveFamily(user.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to resolve family", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, SessionContextKey, cookie.Value)
		ctx = context.WithValue(ctx, FamilyContextKey, family)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect verifies the CSRF header on state-changing requests. Must run
// inside RequireAuth so the session id is on the context.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next(w, r)
			return
		}

		sessionID := GetSessionIDFromContext(r.Context())
		token := r.Header.Get(CSRFHeaderName)
		if !m.csrf.ValidateToken(sessionID, token) {
			respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
			return
		}
		next(w, r)
	}
}

// RequireChildAuth validates the child session token and places its claims on
// the request context. Child tokens are stateless; the routes behind this
// middleware re-check the child still exists in the family.
func (m *Middleware) RequireChildAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(ChildSessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Child sign-in required", "", nil)
			return
		}

		claims, err := m.childTokens.Parse(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, ChildSessionCookieName))
			respondWithError(w, http.StatusUnauthorized, "Child sign-in required", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ChildContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects requests from clients that exceed the per-IP budget.
// Applied to credential endpoints (login, PIN verification).
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetFamilyFromContext retrieves the resolved effective family
func GetFamilyFromContext(ctx context.Context) models.EffectiveFamily {
	family, _ := ctx.Value(FamilyContextKey).(models.EffectiveFamily)
	return family
}

// GetSessionIDFromContext retrieves the session id placed by RequireAuth
func GetSessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionContextKey).(string)
	return sessionID
}

// GetChildClaimsFromContext retrieves the child token claims
func GetChildClaimsFromContext(ctx context.Context) *security.ChildClaims {
	claims, ok := ctx.Value(ChildContextKey).(*security.ChildClaims)
	if !ok {
		return nil
	}
	return claims
}
