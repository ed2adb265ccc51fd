package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"auracare/internal/directory"
	"auracare/internal/nav"
	"auracare/pkg/derrors"
)

func (h *Handler) handleApprovedDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.directory.ApprovedDonors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	donors = directory.SearchDonors(donors, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"donors": donors})
}

func (h *Handler) handleApprovedReceivers(w http.ResponseWriter, r *http.Request) {
	if !nav.CanAccess(h.currentIdentity(), nav.RouteReceiversList) {
		writeError(w, derrors.New(derrors.CodeForbidden, "Only donors can browse the receivers list"))
		return
	}

	receivers, err := h.directory.ApprovedReceivers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	receivers = directory.SearchReceivers(receivers,
		r.URL.Query().Get("q"), r.URL.Query().Get("urgency"))
	writeJSON(w, http.StatusOK, map[string]any{"receivers": receivers})
}

func (h *Handler) handleContactDonor(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.ContactDonor(r.Context(), chi.URLParam(r, "donorId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact request sent."})
}

func (h *Handler) handleDonorRequests(w http.ResponseWriter, r *http.Request) {
	identity := h.currentIdentity()
	if identity == nil {
		writeError(w, derrors.New(derrors.CodeUnauthenticated, "not logged in"))
		return
	}

	requests, err := h.directory.DonorRequests(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}
