package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"linecut/internal/mw"
	"linecut/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// maxBodyBytes fits a base64 profile image of the largest accepted size.
const maxBodyBytes = 4 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

// writeError maps service errors to status codes. Messages for the user are
// in Portuguese.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Message, http.StatusBadRequest)
	case errors.Is(err, service.ErrEmailTaken):
		http.Error(w, "Este email já está cadastrado", http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Email ou senha incorretos", http.StatusUnauthorized)
	case errors.Is(err, service.ErrUserNotFound):
		http.Error(w, "Usuário não encontrado", http.StatusNotFound)
	case errors.Is(err, service.ErrStoreNotFound):
		http.Error(w, "Estabelecimento não encontrado", http.StatusNotFound)
	case errors.Is(err, service.ErrProductNotFound):
		http.Error(w, "Produto não encontrado neste estabelecimento", http.StatusBadRequest)
	case errors.Is(err, service.ErrStoreNoPixKey):
		http.Error(w, "Estabelecimento não aceita PIX no momento", http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrPaymentGateway):
		http.Error(w, "Não foi possível gerar o pagamento PIX", http.StatusBadGateway)
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, "Pedido não encontrado", http.StatusNotFound)
	case errors.Is(err, service.ErrOrderFinalized):
		http.Error(w, "Pedido já finalizado", http.StatusConflict)
	case errors.Is(err, service.ErrInvalidStatus):
		http.Error(w, "Status inválido", http.StatusBadRequest)
	case errors.Is(err, service.ErrRatingNotFound):
		http.Error(w, "Pedido ainda não avaliado", http.StatusNotFound)
	case errors.Is(err, service.ErrImageNotFound):
		http.Error(w, "Imagem não encontrada", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidImage):
		http.Error(w, "Imagem inválida", http.StatusBadRequest)
	case errors.Is(err, service.ErrResetTokenInvalid):
		http.Error(w, "Link de redefinição inválido ou expirado", http.StatusBadRequest)
	case errors.Is(err, service.ErrNotificationNotFound):
		http.Error(w, "Notificação não encontrada", http.StatusNotFound)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
