package model

import "time"

// FusionJob - Redis에 저장되는 비동기 합성 작업 레코드
type FusionJob struct {
	JobID        string                 `json:"job_id"`
	JobStatus    string                 `json:"job_status"`
	JobInputData map[string]interface{} `json:"job_input_data,omitempty"`
	Result       *JobResult             `json:"result,omitempty"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	StartedAt    *time.Time             `json:"started_at,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// JobResult - 완료된 작업의 결과 이미지
type JobResult struct {
	Image    string `json:"image"`
	MimeType string `json:"mime_type"`
	Source   string `json:"source"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	UsedSeed int64  `json:"used_seed"`
}

// JobEvent - job-events 채널로 발행되는 상태 변경
type JobEvent struct {
	JobID        string     `json:"job_id"`
	JobStatus    string     `json:"job_status"`
	Result       *JobResult `json:"result,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// GalleryEntry - fusion_gallery 테이블 구조
type GalleryEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Style       string    `json:"style"`
	ImageURL    string    `json:"image_url"`
	Downloads   int       `json:"downloads"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IsTerminal reports whether no further transitions follow status.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
