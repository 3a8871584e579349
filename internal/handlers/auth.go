package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/webdevzw/reviews-apiserver/internal/services"
	"github.com/webdevzw/reviews-apiserver/internal/session"
	"github.com/webdevzw/reviews-apiserver/internal/store"
	"github.com/webdevzw/reviews-apiserver/internal/validate"
	"github.com/webdevzw/reviews-apiserver/types"
)

const invalidCredentialsMessage = "Invalid credentials"

// sessionCookieMaxAge matches the session hard cap.
const sessionCookieMaxAge = 7 * 24 * time.Hour

// AuthHandler provides session-cookie authentication endpoints.
type AuthHandler struct {
	adminService  *services.AdminService
	sessions      *session.Manager
	secureCookies bool
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(adminService *services.AdminService, sessions *session.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		adminService:  adminService,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
}

// RequireAuth validates the session token, slides the inactivity window,
// and injects the admin ID into context. Missing, invalid, and expired
// tokens are all the same generic 401.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Validate(r.Context(), requestToken(r))
		if err != nil {
			if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrExpired) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to authorize")
			return
		}

		ctx := context.WithValue(r.Context(), contextAdminKey, sess.AdminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success bool               `json:"success"`
	Token   string             `json:"token"`
	User    types.AdminProfile `json:"user"`
}

// Login verifies credentials, issues a session, and sets the session
// cookie. Every failure mode returns the same message so callers cannot
// probe which admin emails exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validate.DecodeStrict(r, &req); err != nil {
		writeError(w, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	admin, err := h.adminService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	sess, err := h.sessions.Create(r.Context(), admin.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, h.sessionCookie(sess.Token, int(sessionCookieMaxAge.Seconds())))
	writeJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   sess.Token,
		User:    admin.Profile(),
	})
}

// Logout revokes the session and clears the cookie. Logging out twice is
// not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), requestToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated admin's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	admin, err := h.adminService.GetByID(r.Context(), adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load admin")
		return
	}

	writeJSON(w, http.StatusOK, admin.Profile())
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
