package fusion

// GenerateRequest - POST /api/fusion/generate
type GenerateRequest struct {
	BackgroundImage string          `json:"background_image"`
	PersonImage     string          `json:"person_image"`
	Options         *OptionsRequest `json:"options,omitempty"`
}

// OptionsRequest - 생략된 필드는 기본값 사용
type OptionsRequest struct {
	Style               *string  `json:"style,omitempty"`
	IntegrationStrength *float64 `json:"integration_strength,omitempty"`
	DetailLevel         *float64 `json:"detail_level,omitempty"`
	PreserveLighting    *bool    `json:"preserve_lighting,omitempty"`
	AddShadows          *bool    `json:"add_shadows,omitempty"`
	Instructions        *string  `json:"instructions,omitempty"`
	Seed                *int64   `json:"seed,omitempty"`
}

// ToOptions overlays the provided fields on DefaultOptions.
func (r *OptionsRequest) ToOptions() Options {
	opts := DefaultOptions()
	if r == nil {
		return opts
	}
	if r.Style != nil {
		opts.Style = Style(*r.Style)
	}
	if r.IntegrationStrength != nil {
		opts.IntegrationStrength = *r.IntegrationStrength
	}
	if r.DetailLevel != nil {
		opts.DetailLevel = *r.DetailLevel
	}
	if r.PreserveLighting != nil {
		opts.PreserveLighting = *r.PreserveLighting
	}
	if r.AddShadows != nil {
		opts.AddShadows = *r.AddShadows
	}
	if r.Instructions != nil {
		opts.Instructions = *r.Instructions
	}
	if r.Seed != nil {
		seed := *r.Seed
		opts.Seed = &seed
	}
	return opts
}

func (r *GenerateRequest) ToRequest() Request {
	return Request{
		BackgroundImage: r.BackgroundImage,
		PersonImage:     r.PersonImage,
		Options:         r.Options.ToOptions(),
	}
}

// GenerateResponse - 생성 결과
type GenerateResponse struct {
	Success      bool       `json:"success"`
	Image        string     `json:"image,omitempty"`
	MimeType     string     `json:"mime_type,omitempty"`
	Source       Source     `json:"source,omitempty"`
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	Placement    *Placement `json:"placement,omitempty"`
	UsedSeed     int64      `json:"used_seed,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

type StylesResponse struct {
	Success bool              `json:"success"`
	Styles  []StyleDefinition `json:"styles"`
}

// DownloadRequest - POST /api/download
type DownloadRequest struct {
	Image    string `json:"image"`
	Filename string `json:"filename,omitempty"`
}

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}
