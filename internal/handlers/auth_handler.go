package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"chorestar/internal/models"
	"chorestar/internal/security"
	"chorestar/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	csrf                 *security.CSRFGenerator
	googleOAuth          *oauth2.Config
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler. Google sign-in stays disabled
// when no client credentials are configured.
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator, googleClientID, googleClientSecret, oauthRedirectBaseURL string) *AuthHandler {
	var googleOAuth *oauth2.Config
	if googleClientID != "" && googleClientSecret != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		csrf:                 csrf,
		googleOAuth:          googleOAuth,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

// userView is the client-facing account shape
type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func viewUser(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register creates a new parent account and opens a session
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(w, err, "Failed to register user")
		return
	}

	// Welcome email is best effort, never blocks registration
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.emailService.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err, "Failed to log in after registration")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, viewUser(user))
}

// Login authenticates a parent and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err, "Failed to log in")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, viewUser(user))
}

// Logout destroys the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusNoContent, nil)
}

// Me returns the signed-in account and its effective family
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	family := GetFamilyFromContext(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":             viewUser(user),
		"family_user_id":   family.FamilyUserID,
		"is_shared_member": family.IsSharedMember,
	})
}

// CSRFToken returns the CSRF token for the current session
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionIDFromContext(r.Context())
	token, err := h.csrf.GenerateToken(sessionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to generate CSRF token", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

// StartGoogleOAuth begins the Google sign-in flow
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", "", nil)
		return
	}

	state := security.GenerateSessionID()
	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)

	config := *h.googleOAuth
	config.RedirectURL = h.oauthRedirectURL(r)

	http.Redirect(w, r, config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleOAuthCallback completes the Google sign-in flow
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuth == nil {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", "", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}
	h.clearTempCookie(w, r, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.googleOAuth
	config.RedirectURL = h.oauthRedirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "OAuth exchange failed", err)
		return
	}

	info, err := fetchGoogleUser(ctx, token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to fetch Google account", "Google userinfo failed", err)
		return
	}

	session, _, err := h.authService.LoginWithOAuth("google", info.Subject, info.Email, info.Name)
	if err != nil {
		respondServiceError(w, err, "OAuth login failed")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type googleUserInfo struct {
	Subject string
	Email   string
	Name    string
}

func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to parse Google user info: %w", err)
	}

	return googleUserInfo{Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.oauthRedirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
