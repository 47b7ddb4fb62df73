package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

// RegistrationQRCode: GET /api/admin/registration/{id}/qrcode
// PNG QR code of a registration id, for printing on membership cards.
func (h *Handler) RegistrationQRCode(w http.ResponseWriter, r *http.Request) {
	regID := chi.URLParam(r, "id")
	if !h.Options.Registration.Valid(regID) {
		http.Error(w, "invalid registration number", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(regID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
