package v1handler

import (
	"net/http"

	"moderation/internal/auth"
)

// getStatistics serves the platform-wide counter snapshot.
func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Statistics.Get(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeError(r.Context(), w, err)

		return
	}
	writeJSON(w, http.StatusOK, stats)
}
