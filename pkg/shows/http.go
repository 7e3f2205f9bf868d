package shows

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mediaforge/cms-platform/pkg/auth"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/shows", h.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/shows", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/shows/{id}", h.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/shows/{id}", h.handleUpdate).Methods(http.MethodPut)
	router.HandleFunc("/shows/{id}", h.handleDelete).Methods(http.MethodDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Type == "" {
		http.Error(w, "title and type are required", http.StatusBadRequest)
		return
	}

	show, err := h.service.Create(r.Context(), req, auth.ActorFromRequest(r))
	if err != nil {
		if errors.Is(err, ErrShowAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("failed to create show")
		http.Error(w, "failed to create show", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, show)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)
	shows, err := h.service.List(r.Context(), r.URL.Query().Get("type"), r.URL.Query().Get("language"), limit, offset)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list shows")
		http.Error(w, "failed to list shows", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": shows})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid show id", http.StatusBadRequest)
		return
	}
	show, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			http.Error(w, "show not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get show")
		http.Error(w, "failed to get show", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid show id", http.StatusBadRequest)
		return
	}
	var req CreateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	show, err := h.service.Update(r.Context(), id, req, auth.ActorFromRequest(r))
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			http.Error(w, "show not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update show")
		http.Error(w, "failed to update show", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid show id", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrShowNotFound) {
			http.Error(w, "show not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete show")
		http.Error(w, "failed to delete show", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
