package httptransport

import (
	"net/http"

	"auracare/internal/contact"
	"auracare/internal/profile"
	"auracare/pkg/derrors"
)

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	url, err := h.premium.Checkout(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type verifyRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.premium.Verify(r.Context(), req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment verified. Welcome to Premium!"})
}

type bookRequest struct {
	Doctor string `json:"doctor"`
}

func (h *Handler) handleBookConsultation(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.premium.BookConsultation(r.Context(), req.Doctor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Consultation booked."})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, derrors.New(derrors.CodeValidation, "invalid multipart body"))
		return
	}

	err := h.profile.Apply(r.Context(), profile.Update{
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		ProfilePic: formFile(r, "profilePic"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	identity, _ := h.manager.Identity()
	writeJSON(w, http.StatusOK, map[string]any{"user": identity})
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if err := decodeJSON(r, &msg); err != nil {
		writeError(w, err)
		return
	}
	if err := h.contact.Send(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent. We will get back to you soon."})
}
