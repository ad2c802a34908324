package fusion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/middleware"
	"art-fusion-server/modules/common/utils"
)

const defaultDownloadName = "imaginary-art-fusion"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate - POST /api/fusion/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{ErrorMessage: "Request body too large"})
			return
		}
		log.Warn().Msgf("❌ [Fusion] Invalid request: %v", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: "Invalid request format"})
		return
	}

	fusionReq := req.ToRequest()
	log.Info().Msgf("🎨 [Fusion] Processing request: style=%s, strength=%v, detail=%v, instructions=%q",
		fusionReq.Options.Style, fusionReq.Options.IntegrationStrength, fusionReq.Options.DetailLevel, fusionReq.Options.Instructions)

	result, err := h.service.Process(r.Context(), fusionReq)
	if err != nil {
		status := StatusFor(err)
		log.Warn().Msgf("❌ [Fusion] Generation failed (%d): %v", status, err)
		writeJSON(w, status, ErrorResponse{ErrorMessage: err.Error()})
		return
	}

	log.Info().Msgf("✅ [Fusion] Response sent: source=%s, %dx%d", result.Source, result.Width, result.Height)
	writeJSON(w, http.StatusOK, GenerateResponse{
		Success:   true,
		Image:     result.DataURI,
		MimeType:  result.MimeType,
		Source:    result.Source,
		Width:     result.Width,
		Height:    result.Height,
		Placement: result.Placement,
		UsedSeed:  result.UsedSeed,
	})
}

// HandleStyles - GET /api/fusion/styles
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StylesResponse{Success: true, Styles: Styles()})
}

// HandleDownload - POST /api/download
// data URI를 원본 MIME 타입의 바이너리 첨부파일로 변환
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{ErrorMessage: "Request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: "Invalid request format"})
		return
	}

	uri, err := utils.ParseDataURI(req.Image)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: err.Error()})
		return
	}

	filename := downloadFilename(req.Filename, uri.MimeType)
	log.Info().Msgf("📥 [Fusion] Download: %s (%s, %d bytes)", filename, uri.MimeType, len(uri.Data))

	w.Header().Set("Content-Type", uri.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(uri.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(uri.Data)
}

// StatusFor maps a Process error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrDecode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func downloadFilename(requested, mimeType string) string {
	name := path.Base(strings.TrimSpace(requested))
	if name == "." || name == "/" || name == "" {
		name = defaultDownloadName
	}
	if path.Ext(name) == "" {
		name += "." + utils.ExtensionForMime(mimeType)
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Msgf("❌ Failed to encode response: %v", err)
	}
}
