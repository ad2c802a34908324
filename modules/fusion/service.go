package fusion

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/utils"
)

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Request carries the two images as data URIs plus processing options.
type Request struct {
	BackgroundImage string
	PersonImage     string
	Options         Options
}

// Result is one finished fusion. Placement is set only for local composites
// that were actually drawn.
type Result struct {
	DataURI   string     `json:"image"`
	MimeType  string     `json:"mime_type"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Source    Source     `json:"source"`
	Placement *Placement `json:"placement,omitempty"`
	UsedSeed  int64      `json:"used_seed"`
}

type Service struct {
	remote     ImageGenerator
	compositor *Compositor
	seeds      func() int64
}

type inputs struct {
	background *utils.DataURI
	person     *utils.DataURI
	bgConfig   image.Config
	bgImage    image.Image
	personImg  image.Image
}

// NewService wires the optional remote delegate and the local compositor.
// A nil remote means local compositing only.
func NewService(remote ImageGenerator, compositor *Compositor) *Service {
	if remote == nil {
		log.Warn().Msg("⚠️  [Fusion] Remote delegate disabled, using local compositing only")
	}
	return &Service{
		remote:     remote,
		compositor: compositor,
		seeds:      rand.Int63,
	}
}

// Process runs one fusion: validate, decode background then person, try the
// remote delegate once, then fall back to the local compositor.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.BackgroundImage) == "" || strings.TrimSpace(req.PersonImage) == "" {
		return nil, ErrMissingInput
	}

	opts, err := req.Options.Validate()
	if err != nil {
		return nil, err
	}

	in, err := s.decode(req)
	if err != nil {
		return nil, err
	}

	seed := s.nextSeed(opts)

	if s.remote != nil {
		result, err := s.generateRemote(ctx, in, opts, seed)
		if err == nil {
			return result, nil
		}
		log.Warn().Msgf("⚠️  [Fusion] Remote generation failed, using local composite: %v", err)
	}

	return s.composeLocal(in, opts, seed)
}

func (s *Service) nextSeed(opts Options) int64 {
	if opts.Seed != nil {
		return *opts.Seed
	}
	return s.seeds()
}

// decode parses both data URIs and decodes background before person. A
// background too large for a canvas is left undecoded.
func (s *Service) decode(req Request) (*inputs, error) {
	bg, err := utils.ParseDataURI(req.BackgroundImage)
	if err != nil {
		return nil, fmt.Errorf("%w: background: %v", ErrDecode, err)
	}
	person, err := utils.ParseDataURI(req.PersonImage)
	if err != nil {
		return nil, fmt.Errorf("%w: person: %v", ErrDecode, err)
	}

	in := &inputs{background: bg, person: person}

	in.bgConfig, _, err = image.DecodeConfig(bytes.NewReader(bg.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: background: %v", ErrDecode, err)
	}
	if s.compositor.CanAllocate(in.bgConfig.Width, in.bgConfig.Height) {
		if in.bgImage, _, err = utils.DecodeImage(bg.Data, 0); err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrDecode, err)
		}
	}

	if in.personImg, _, err = utils.DecodeImage(person.Data, s.compositor.maxPixels); err != nil {
		return nil, fmt.Errorf("%w: person: %v", ErrDecode, err)
	}
	return in, nil
}

// backgroundSize reports the displayed size: decoded pixels after EXIF
// orientation when available, otherwise the header dimensions.
func (in *inputs) backgroundSize() (int, int) {
	if in.bgImage != nil {
		b := in.bgImage.Bounds()
		return b.Dx(), b.Dy()
	}
	return in.bgConfig.Width, in.bgConfig.Height
}

func (s *Service) composeLocal(in *inputs, opts Options, seed int64) (*Result, error) {
	if in.bgImage == nil {
		return s.unmodifiedBackground(in, seed), nil
	}

	comp, err := s.compositor.Compose(in.bgImage, in.personImg, opts, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	return &Result{
		DataURI:   utils.EncodeDataURI(comp.MimeType, comp.Data),
		MimeType:  comp.MimeType,
		Width:     comp.Width,
		Height:    comp.Height,
		Source:    SourceLocal,
		Placement: &comp.Placement,
		UsedSeed:  seed,
	}, nil
}

func (s *Service) unmodifiedBackground(in *inputs, seed int64) *Result {
	log.Warn().Msgf("⚠️  [Fusion] Canvas unavailable for %dx%d background, returning it unmodified",
		in.bgConfig.Width, in.bgConfig.Height)
	return &Result{
		DataURI:  utils.EncodeDataURI(in.background.MimeType, in.background.Data),
		MimeType: in.background.MimeType,
		Width:    in.bgConfig.Width,
		Height:   in.bgConfig.Height,
		Source:   SourceLocal,
		UsedSeed: seed,
	}
}
