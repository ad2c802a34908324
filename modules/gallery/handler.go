package gallery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList - GET /api/gallery?style=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), r.URL.Query().Get("style"))
	if err != nil {
		h.writeError(w, err, "Failed to load gallery")
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Success: true, Entries: entries})
}

// HandlePublish - POST /api/gallery
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{ErrorMessage: "Request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: "Invalid request format"})
		return
	}

	entry, err := h.service.Publish(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "Failed to publish image")
		return
	}
	writeJSON(w, http.StatusCreated, EntryResponse{Success: true, Entry: entry})
}

// HandleDownload - POST /api/gallery/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.RecordDownload(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err, "Failed to record download")
		return
	}
	writeJSON(w, http.StatusOK, EntryResponse{Success: true, Entry: entry})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidEntry):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{ErrorMessage: err.Error()})
	default:
		log.Error().Msgf("❌ [Gallery] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
