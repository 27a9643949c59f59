package handler

import (
	"context"
	"net/http"
	"time"

	"linecut/internal/model"
	"linecut/internal/mw"
	"linecut/internal/service"
)

type Authenticator interface {
	Register(ctx context.Context, in service.SignUpInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func RegisterHandler(authSvc Authenticator, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.SignUpInput
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := authSvc.Register(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeSession(w, user, secret, ttl)
	}
}

func LoginHandler(authSvc Authenticator, secret string, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := authSvc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeSession(w, user, secret, ttl)
	}
}

func writeSession(w http.ResponseWriter, user *model.User, secret string, ttl time.Duration) {
	token, err := mw.IssueToken(secret, user.ID, ttl)
	if err != nil {
		http.Error(w, "token generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusOK, user)
}
