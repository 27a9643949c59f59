package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"linecut/internal/brdoc"
	"linecut/internal/imagecache"
	"linecut/internal/model"
	"linecut/internal/service"
)

type Profiles interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, in service.ProfileInput) (*model.User, error)
	Close(ctx context.Context, userID, password string) error
}

type Images interface {
	Get(ctx context.Context, path string) (imagecache.Image, error)
}

type profileResponse struct {
	*model.User
	FormattedCPF   string `json:"formatted_cpf"`
	FormattedPhone string `json:"formatted_phone"`
}

func newProfileResponse(u *model.User) profileResponse {
	return profileResponse{
		User:           u,
		FormattedCPF:   brdoc.FormatCPF(u.CPF),
		FormattedPhone: brdoc.FormatPhone(u.Phone),
	}
}

func GetProfileHandler(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		user, err := profiles.Get(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newProfileResponse(user))
	}
}

func UpdateProfileHandler(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req service.ProfileInput
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := profiles.UpdateProfile(r.Context(), userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newProfileResponse(user))
	}
}

type closeAccountRequest struct {
	Password string `json:"password"`
}

func CloseAccountHandler(profiles Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req closeAccountRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Password == "" {
			http.Error(w, "Digite sua senha", http.StatusBadRequest)
			return
		}

		if err := profiles.Close(r.Context(), userID, req.Password); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ImageHandler(images Images) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := images.Get(r.Context(), chi.URLParam(r, "*"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", img.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Data)
	}
}
