package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	AppEnv string
	Port   string

	// Gemini API
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBackend string

	// Vertex AI (GeminiBackend == "vertex")
	VertexProject         string
	VertexLocation        string
	VertexCredentialsJSON string
	VertexCredentialsPath string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
	GalleryTable          string

	// Compositing
	JPEGQuality     int
	WebPQuality     float32
	MaxCanvasPixels int
	MaxRequestBytes int64

	JobResultTTL time.Duration
}

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️  .env file not found, using environment variables")
	}

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBackend: getEnv("GEMINI_BACKEND", BackendGemini),

		VertexProject:         getEnv("VERTEXAI_PROJECT", ""),
		VertexLocation:        getEnv("VERTEXAI_LOCATION", "us-central1"),
		VertexCredentialsJSON: getEnv("VERTEXAI_CREDENTIALS_JSON", ""),
		VertexCredentialsPath: getEnv("VERTEXAI_CREDENTIALS_PATH", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", false),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "attachments"),
		GalleryTable:          getEnv("GALLERY_TABLE", "fusion_gallery"),

		JPEGQuality:     getEnvInt("JPEG_QUALITY", 92),
		WebPQuality:     float32(getEnvInt("WEBP_QUALITY", 90)),
		MaxCanvasPixels: getEnvInt("MAX_CANVAS_PIXELS", 40_000_000),

		JobResultTTL: time.Duration(getEnvInt("JOB_RESULT_TTL_HOURS", 24)) * time.Hour,
	}

	cfg.MaxRequestBytes = int64(getEnvInt("MAX_REQUEST_BYTES", int(RequestBytesFor(cfg.MaxCanvasPixels))))

	// 필수 환경변수 검증
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	globalConfig = cfg

	log.Info().Msg("✅ Configuration loaded successfully")
	log.Info().Msgf("   Gemini: %s (backend: %s, remote enabled: %v)", cfg.GeminiModel, cfg.GeminiBackend, cfg.RemoteEnabled())
	log.Info().Msgf("   Redis: %s (TLS: %v)", cfg.GetRedisAddr(), cfg.RedisUseTLS)
	log.Info().Msgf("   Supabase: %s (bucket: %s, table: %s)", cfg.SupabaseURL, cfg.SupabaseStorageBucket, cfg.GalleryTable)
	log.Info().Msgf("   JPEG quality: %d, WebP quality: %.0f", cfg.JPEGQuality, cfg.WebPQuality)
	log.Info().Msgf("   Canvas budget: %d px, request body limit: %d bytes", cfg.MaxCanvasPixels, cfg.MaxRequestBytes)

	return cfg, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal().Msg("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 환경변수 조합 검증
func (c *Config) validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.WebPQuality < 0 || c.WebPQuality > 100 {
		return fmt.Errorf("WEBP_QUALITY must be between 0 and 100, got %.0f", c.WebPQuality)
	}
	if c.MaxCanvasPixels <= 0 {
		return fmt.Errorf("MAX_CANVAS_PIXELS must be positive")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive")
	}
	if c.SupabaseURL != "" && c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required when SUPABASE_URL is set")
	}
	switch c.GeminiBackend {
	case BackendGemini:
	case BackendVertex:
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEXAI_PROJECT is required for the vertex backend")
		}
	default:
		return fmt.Errorf("unknown GEMINI_BACKEND: %s", c.GeminiBackend)
	}
	return nil
}

// RequestBytesFor - 요청 본문 기본 한도
// 이미지 두 장 × (픽셀당 1바이트 인코딩 가정) × base64 4/3 + JSON 여유 1MiB
func RequestBytesFor(maxCanvasPixels int) int64 {
	perImage := int64(maxCanvasPixels) * 4 / 3
	return 2*perImage + 1<<20
}

// RemoteEnabled reports whether the generative delegate can be constructed.
func (c *Config) RemoteEnabled() bool {
	if c.GeminiBackend == BackendVertex {
		return c.VertexProject != ""
	}
	return c.GeminiAPIKey != ""
}

// GalleryEnabled reports whether Supabase credentials are present.
func (c *Config) GalleryEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Warn().Msgf("⚠️  %s is not an integer (%q), using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
