package httpserver

import (
	"encoding/json"
	"net/http"

	"messenger_go/internal/provider"
)

type aiAskRequest struct {
	Question string `json:"question"`
}

func handleAIAsk(asker provider.Asker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req aiAskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
			return
		}

		answer, err := asker.Ask(r.Context(), req.Question)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}

func handleAIPhoto(photos provider.PhotoSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
			return
		}

		url, err := photos.Search(r.Context(), query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}
