package handler

import (
	"context"
	"net/http"

	"linecut/internal/service"
)

type PasswordResetter interface {
	Forgot(ctx context.Context, email string) error
	Reset(ctx context.Context, in service.ResetInput) error
}

type forgotRequest struct {
	Email string `json:"email"`
}

func ForgotPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.Forgot(r.Context(), req.Email); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func ResetPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.ResetInput
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.Reset(r.Context(), req); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
