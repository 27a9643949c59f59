package handler

import (
	"net/http"

	"linecut/internal/help"
)

func FAQHandler(faq help.FAQ) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, faq)
	}
}
