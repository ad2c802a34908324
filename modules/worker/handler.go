package worker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/middleware"
	"art-fusion-server/modules/common/model"
	redisutil "art-fusion-server/modules/common/redis"
	"art-fusion-server/modules/fusion"
)

// EnqueueResponse - Enqueue 응답
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	JobStatus     string `json:"job_status,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

type JobResponse struct {
	Success bool             `json:"success"`
	Job     *model.FusionJob `json:"job,omitempty"`
}

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}

type Handler struct {
	store *JobStore
}

func NewHandler(store *JobStore) *Handler {
	return &Handler{store: store}
}

// HandleEnqueue - POST /api/jobs
func (h *Handler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req fusion.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{ErrorMessage: "Request body too large"})
			return
		}
		log.Warn().Msgf("❌ [Enqueue] Invalid request: %v", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: "Invalid request body"})
		return
	}

	// 큐에 넣기 전에 입력 검증
	if strings.TrimSpace(req.BackgroundImage) == "" || strings.TrimSpace(req.PersonImage) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: fusion.ErrMissingInput.Error()})
		return
	}
	if _, err := req.Options.ToOptions().Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{ErrorMessage: err.Error()})
		return
	}

	job, position, err := h.store.Create(r.Context(), req)
	if err != nil {
		log.Error().Msgf("❌ [Enqueue] Failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: "Failed to enqueue job"})
		return
	}

	log.Info().Msgf("✅ [Enqueue] Job %s enqueued successfully (position: %d)", job.JobID, position)
	writeJSON(w, http.StatusAccepted, EnqueueResponse{
		Success:       true,
		Message:       "Job enqueued successfully",
		JobID:         job.JobID,
		JobStatus:     job.JobStatus,
		Queue:         redisutil.JobQueueKey,
		QueuePosition: position,
	})
}

// HandleGet - GET /api/jobs/{jobId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.Get(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{ErrorMessage: err.Error()})
			return
		}
		log.Error().Msgf("❌ [Jobs] Lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{ErrorMessage: "Failed to load job"})
		return
	}
	writeJSON(w, http.StatusOK, JobResponse{Success: true, Job: job})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
