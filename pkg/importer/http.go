package importer

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mediaforge/cms-platform/pkg/auth"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/mediaforge/cms-platform/pkg/provider"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/import/providers", h.handleProviders).Methods(http.MethodGet)
	router.HandleFunc("/import/jobs", h.handleListJobs).Methods(http.MethodGet)
	router.HandleFunc("/import/jobs/{id}", h.handleGetJob).Methods(http.MethodGet)
	router.HandleFunc("/import/jobs/{id}/cancel", h.handleCancel).Methods(http.MethodPost)
	router.HandleFunc("/import/jobs/{id}/retry", h.handleRetry).Methods(http.MethodPost)
	router.HandleFunc("/import/{provider}", h.handleStartImport).Methods(http.MethodPost)
	router.HandleFunc("/import/{provider}/sync", h.handleImportNow).Methods(http.MethodPost)
}

type importRequestBody struct {
	Topic          string `json:"topic"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	SkipDuplicates bool   `json:"skip_duplicates"`
}

func (b importRequestBody) toRequest() (ImportRequest, error) {
	if b.Topic == "" {
		return ImportRequest{}, errors.New("topic is required")
	}
	start, err := time.Parse(dateLayout, b.StartDate)
	if err != nil {
		return ImportRequest{}, errors.New("start_date must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, b.EndDate)
	if err != nil {
		return ImportRequest{}, errors.New("end_date must be formatted as YYYY-MM-DD")
	}
	if start.After(end) {
		return ImportRequest{}, errors.New("start_date must not be after end_date")
	}
	return ImportRequest{
		Topic:          b.Topic,
		StartDate:      start,
		EndDate:        end,
		SkipDuplicates: b.SkipDuplicates,
	}, nil
}

func (h *Handler) handleStartImport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeImportRequest(w, r)
	if !ok {
		return
	}

	job, err := h.service.StartImport(r.Context(), mux.Vars(r)["provider"], req, auth.ActorFromRequest(r))
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (h *Handler) handleImportNow(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeImportRequest(w, r)
	if !ok {
		return
	}

	job, err := h.service.ImportNow(r.Context(), mux.Vars(r)["provider"], req, auth.ActorFromRequest(r))
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) decodeImportRequest(w http.ResponseWriter, r *http.Request) (ImportRequest, bool) {
	var body importRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return ImportRequest{}, false
	}
	req, err := body.toRequest()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return ImportRequest{}, false
	}
	return req, true
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	job, err := h.service.GetJob(id)
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var filter *Status
	if value := r.URL.Query().Get("status"); value != "" {
		status := Status(value)
		if !status.Valid() {
			http.Error(w, "unknown status filter", http.StatusBadRequest)
			return
		}
		filter = &status
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": h.service.ListJobs(filter)})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	job, err := h.service.CancelImport(id, auth.ActorFromRequest(r))
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	job, err := h.service.RetryImport(r.Context(), id, auth.ActorFromRequest(r))
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Providers())
}

func writeImportError(w http.ResponseWriter, err error) {
	var unknownProvider *UnknownProviderError
	var unavailable *ProviderUnavailableError
	var invalidState *InvalidStateError
	var publishErr *PublishError
	var providerErr *provider.Error

	switch {
	case errors.Is(err, ErrJobNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unknownProvider):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &invalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &publishErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &providerErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		logger.Log.WithError(err).Error("import request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
