package saved

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/middleware"
)

const (
	ClientIDHeader = "X-Client-ID"
	defaultOwner   = "anonymous"
)

var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// HandleList - GET /api/saved
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	images, err := h.store.List(r.Context(), owner)
	if err != nil {
		log.Error().Msgf("❌ [Saved] List failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: "Failed to load saved images"})
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Success: true, Images: images})
}

// HandleSave - POST /api/saved
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{ErrorMessage: "Request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: "Invalid request format"})
		return
	}

	rec, err := h.store.Save(r.Context(), owner, req.Image)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: err.Error()})
			return
		}
		log.Error().Msgf("❌ [Saved] Save failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: "Failed to save image"})
		return
	}
	writeJSON(w, http.StatusCreated, SaveResponse{Success: true, Image: &rec})
}

// HandleDelete - DELETE /api/saved/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.store.Delete(r.Context(), owner, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{ErrorMessage: err.Error()})
			return
		}
		log.Error().Msgf("❌ [Saved] Delete failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: "Failed to delete image"})
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Success: true})
}

func ownerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.Header.Get(ClientIDHeader))
	if owner == "" {
		return defaultOwner, true
	}
	if !ownerPattern.MatchString(owner) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: "Invalid " + ClientIDHeader})
		return "", false
	}
	return owner, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
