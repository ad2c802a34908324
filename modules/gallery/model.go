package gallery

import "art-fusion-server/modules/common/model"

// PublishRequest - POST /api/gallery
type PublishRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Style       string `json:"style,omitempty"`
	Image       string `json:"image"` // data URI
}

type ListResponse struct {
	Success bool                 `json:"success"`
	Entries []model.GalleryEntry `json:"entries"`
}

type EntryResponse struct {
	Success bool                `json:"success"`
	Entry   *model.GalleryEntry `json:"entry,omitempty"`
}

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}
