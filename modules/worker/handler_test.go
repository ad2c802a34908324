package worker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"art-fusion-server/modules/common/middleware"
	"art-fusion-server/modules/common/model"
	redisutil "art-fusion-server/modules/common/redis"
)

func newTestRouter(t *testing.T) (*mux.Router, *JobStore) {
	store, _, _ := newTestStore(t)
	h := NewHandler(store)
	r := mux.NewRouter()
	r.HandleFunc("/api/jobs", h.HandleEnqueue).Methods("POST")
	r.HandleFunc("/api/jobs/{jobId}", h.HandleGet).Methods("GET")
	return r, store
}

func TestHandler_EnqueueAndGet(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"background_image":"` + sampleImage + `","person_image":"` + sampleImage + `","options":{"style":"surreal"}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var enqueued EnqueueResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&enqueued))
	assert.True(t, enqueued.Success)
	assert.NotEmpty(t, enqueued.JobID)
	assert.Equal(t, model.StatusPending, enqueued.JobStatus)
	assert.Equal(t, redisutil.JobQueueKey, enqueued.Queue)
	assert.Equal(t, int64(1), enqueued.QueuePosition)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/"+enqueued.JobID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got JobResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.Job)
	assert.Equal(t, enqueued.JobID, got.Job.JobID)
	assert.Equal(t, model.StatusPending, got.Job.JobStatus)
}

func TestHandler_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed", http.MethodPost, "/api/jobs", "{", http.StatusBadRequest},
		{"missing person", http.MethodPost, "/api/jobs", `{"background_image":"` + sampleImage + `"}`, http.StatusBadRequest},
		{"bad options", http.MethodPost, "/api/jobs",
			`{"background_image":"` + sampleImage + `","person_image":"` + sampleImage + `","options":{"detail_level":250}}`,
			http.StatusBadRequest},
		{"unknown job", http.MethodGet, "/api/jobs/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestHandler_RejectsOversizedBody(t *testing.T) {
	router, _ := newTestRouter(t)
	h := middleware.MaxBodyBytes(64)(router)
	body := `{"image":"data:image/png;base64,` + strings.Repeat("A", 4096) + `"}`

	for _, path := range []string{"/api/jobs"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, path)
	}
}
