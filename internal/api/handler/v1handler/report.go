package v1handler

import (
	"net/http"

	"moderation/internal/auth"
	"moderation/pkg/domain"
)

// reportConversation serves the messages of one report, oldest first.
func (h *Handler) reportConversation(kind domain.ReportKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}

		messages, err := h.deps.ReportMessages.ByReport(r.Context(), auth.FromContext(r.Context()), kind, id)
		if err != nil {
			writeError(r.Context(), w, err)

			return
		}
		writeJSON(w, http.StatusOK, messages)
	}
}
