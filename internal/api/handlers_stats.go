package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil || s.client == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider": s.client.Provider(),
		"model":    s.client.Model(),
		"busy":     s.consult != nil && s.consult.Busy(),
		"stats":    s.stats.Snapshot(),
	})
}
