package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/webdevzw/reviews-apiserver/internal/validate"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "admin_token"

type contextKey string

const contextAdminKey contextKey = "admin_id"

// ErrorResponse is the error payload for every non-2xx response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// writeValidationError reports field-level detail for a 400, or degrades
// to a generic invalid-request message for malformed bodies.
func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErrs *validate.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Errors:  fieldErrs.Fields,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request")
}

func adminIDFromContext(ctx context.Context) (string, error) {
	adminID, ok := ctx.Value(contextAdminKey).(string)
	if !ok || adminID == "" {
		return "", errors.New("missing admin")
	}
	return adminID, nil
}

// requestToken finds the session token in the admin cookie or, for API
// clients, a bearer Authorization header.
func requestToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
