package gemini

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/auth/credentials"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"art-fusion-server/modules/common/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ContentGenerator is the slice of *genai.Models the delegate calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models ContentGenerator
	model  string
}

// NewClient - 설정된 백엔드(Gemini API / Vertex AI)로 Genai 클라이언트 생성
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientConfig, err := buildClientConfig(cfg)
	if err != nil {
		return nil, err
	}

	genaiClient, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	log.Info().Msgf("✅ [Gemini] Client initialized (backend: %s, model: %s)", cfg.GeminiBackend, cfg.GeminiModel)
	return NewClientWithGenerator(genaiClient.Models, cfg.GeminiModel), nil
}

// NewClientWithGenerator wraps an existing generator, typically a test double.
func NewClientWithGenerator(models ContentGenerator, model string) *Client {
	return &Client{models: models, model: model}
}

func buildClientConfig(cfg *config.Config) (*genai.ClientConfig, error) {
	if cfg.GeminiBackend != config.BackendVertex {
		return &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		}, nil
	}

	opts := &credentials.DetectOptions{Scopes: []string{cloudPlatformScope}}

	// 1. VERTEXAI_CREDENTIALS_JSON (배포용)
	// 2. VERTEXAI_CREDENTIALS_PATH (로컬 테스트용)
	// 3. Application Default Credentials
	switch {
	case cfg.VertexCredentialsJSON != "":
		log.Info().Msg("✅ [Gemini] Using VERTEXAI_CREDENTIALS_JSON from environment")
		opts.CredentialsJSON = []byte(cfg.VertexCredentialsJSON)
	case cfg.VertexCredentialsPath != "":
		log.Info().Msgf("✅ [Gemini] Using credentials from file: %s", cfg.VertexCredentialsPath)
		data, err := os.ReadFile(cfg.VertexCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		opts.CredentialsJSON = data
	default:
		log.Warn().Msg("⚠️  [Gemini] No explicit credentials found, using Application Default Credentials")
	}

	creds, err := credentials.DetectDefault(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect vertex credentials: %w", err)
	}

	return &genai.ClientConfig{
		Project:     cfg.VertexProject,
		Location:    cfg.VertexLocation,
		Backend:     genai.BackendVertexAI,
		Credentials: creds,
	}, nil
}
