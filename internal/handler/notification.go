package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linecut/internal/service"
)

type Notifications interface {
	List(ctx context.Context, userID string) ([]service.NotificationView, error)
	MarkRead(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
	RegisterDevice(ctx context.Context, userID, token string) error
	RemoveDevice(ctx context.Context, userID, token string) error
}

func ListNotificationsHandler(svc Notifications) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if list == nil {
			list = []service.NotificationView{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func MarkNotificationReadHandler(svc Notifications) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := svc.MarkRead(r.Context(), userID, chi.URLParam(r, "notificationID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteNotificationsHandler(svc Notifications) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteAll(r.Context(), userID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type deviceRequest struct {
	Token string `json:"token"`
}

func RegisterDeviceHandler(svc Notifications) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req deviceRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.RegisterDevice(r.Context(), userID, req.Token); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RemoveDeviceHandler(svc Notifications) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := svc.RemoveDevice(r.Context(), userID, chi.URLParam(r, "token")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
