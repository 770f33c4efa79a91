package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/trashcare/backend/internal/services"
)

type QRHandler struct {
	service *services.QRService
}

func NewQRHandler(service *services.QRService) *QRHandler {
	return &QRHandler{service: service}
}

// ProfileQR returns the caller's payout-profile QR image
// @Summary Payout profile QR code
// @Description Generate a QR code image encoding the authenticated user's payout profile
// @Tags QR
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{qrImage=string}
// @Failure 401 {object} services.MessageResponse
// @Failure 404 {object} services.MessageResponse
// @Failure 500 {object} services.MessageResponse
// @Router /account/qr [get]
func (h *QRHandler) ProfileQR(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	qrImage, err := h.service.GenerateProfileQR(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			services.SendMessage(w, http.StatusNotFound, "Pengguna tidak ditemukan")
			return
		}
		log.Printf("[QR] Profile QR generation failed for userId %s: %v", userID, err)
		services.SendMessage(w, http.StatusInternalServerError, "Gagal membuat kode QR")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"qrImage": qrImage})
}
