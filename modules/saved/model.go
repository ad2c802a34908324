package saved

// SavedImage - 저장된 결과 이미지 레코드
type SavedImage struct {
	ID        string `json:"id"`
	Image     string `json:"image"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

type SaveRequest struct {
	Image string `json:"image"`
}

type ListResponse struct {
	Success bool         `json:"success"`
	Images  []SavedImage `json:"images"`
}

type SaveResponse struct {
	Success bool        `json:"success"`
	Image   *SavedImage `json:"image,omitempty"`
}

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}
