package discovery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
)

type Handler struct {
	searcher *Searcher
}

func NewHandler(searcher *Searcher) *Handler {
	return &Handler{searcher: searcher}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/search", h.handleSearch).Methods(http.MethodGet)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := 0
	if value := params.Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	result, err := h.searcher.Search(r.Context(), SearchQuery{
		Query:    params.Get("q"),
		Type:     params.Get("type"),
		Language: params.Get("language"),
		Limit:    limit,
	})
	if err != nil {
		logger.Log.WithError(err).Error("search failed")
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}
