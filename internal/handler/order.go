package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linecut/internal/model"
	"linecut/internal/service"
)

type Orders interface {
	Create(ctx context.Context, userID string, in service.CreateOrderInput) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]service.OrderSummary, error)
	Get(ctx context.Context, userID, orderID string) (*service.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	MarkPaid(ctx context.Context, txid string) error
}

type Ratings interface {
	Save(ctx context.Context, userID, orderID string, in service.RatingInput) (*model.Rating, error)
	Get(ctx context.Context, userID, orderID string) (*model.Rating, error)
}

func CreateOrderHandler(orders Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req service.CreateOrderInput
		if !decodeJSON(w, r, &req) {
			return
		}

		order, err := orders.Create(r.Context(), userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

func ListOrdersHandler(orders Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, err := orders.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if len(list) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetOrderHandler(orders Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		detail, err := orders.Get(r.Context(), userID, chi.URLParam(r, "orderID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func RateOrderHandler(ratings Ratings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req service.RatingInput
		if !decodeJSON(w, r, &req) {
			return
		}

		rating, err := ratings.Save(r.Context(), userID, chi.URLParam(r, "orderID"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rating)
	}
}

func GetRatingHandler(ratings Ratings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		rating, err := ratings.Get(r.Context(), userID, chi.URLParam(r, "orderID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rating)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusHandler is called by the store when an order moves along.
func UpdateStatusHandler(orders Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), model.OrderStatus(req.Status)); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type pixPaymentRequest struct {
	TxID string `json:"txid"`
}

// PixPaymentHandler confirms a PIX payment reported for txid.
func PixPaymentHandler(orders Orders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pixPaymentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := orders.MarkPaid(r.Context(), req.TxID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
