package fusion

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/gemini"
	"art-fusion-server/modules/common/utils"
)

// ImageGenerator is the remote generative delegate.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.GeneratedImage, error)
}

// generateRemote makes the single remote attempt. Any error means the caller
// falls back to local compositing.
func (s *Service) generateRemote(ctx context.Context, in *inputs, opts Options, seed int64) (*Result, error) {
	out, err := s.remote.GenerateImage(ctx, gemini.ImageRequest{
		Prompt: BuildInstruction(opts),
		Images: []gemini.InlineImage{
			{MimeType: in.background.MimeType, Data: in.background.Data},
			{MimeType: in.person.MimeType, Data: in.person.Data},
		},
		AspectRatio: gemini.AspectRatioFor(in.backgroundSize()),
		Seed:        &seed,
	})
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		return nil, fmt.Errorf("remote image is not decodable: %w", err)
	}

	log.Info().Msgf("✅ [Fusion] Remote image accepted: %dx%d (%s)", cfg.Width, cfg.Height, out.MimeType)
	return &Result{
		DataURI:  utils.EncodeDataURI(out.MimeType, out.Data),
		MimeType: out.MimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Source:   SourceRemote,
		UsedSeed: seed,
	}, nil
}
