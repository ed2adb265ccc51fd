package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"auracare/internal/admin"
	"auracare/internal/domain"
)

type queueResponse struct {
	Entries []admin.Entry  `json:"entries"`
	Stats   domain.Stats   `json:"stats"`
	Summary map[string]int `json:"summary"`
}

func (h *Handler) handleAdminQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.admin.LoadAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	entries := queue.Filter(r.URL.Query().Get("status"))
	counts := queue.Counts()

	writeJSON(w, http.StatusOK, queueResponse{
		Entries: entries,
		Stats:   queue.Stats,
		Summary: map[string]int{
			"totalRequests": counts.TotalRequests,
			"pending":       counts.Pending,
		},
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.admin.SetStatus(r.Context(),
		chi.URLParam(r, "id"),
		domain.Variant(chi.URLParam(r, "variant")),
		domain.Status(req.Status),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminRemove requires an explicit confirm=true so an accidental
// DELETE from a client never destroys a record. The confirmation prompt is
// answered by the human in the UI before the request is sent.
func (h *Handler) handleAdminRemove(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"message": "Deletion requires confirmation. Retry with confirm=true.",
		})
		return
	}

	err := h.admin.Remove(r.Context(),
		chi.URLParam(r, "id"),
		domain.Variant(chi.URLParam(r, "variant")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.admin.Messages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
