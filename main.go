package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/config"
	"art-fusion-server/modules/common/database"
	"art-fusion-server/modules/common/gemini"
	"art-fusion-server/modules/common/imagecodec"
	"art-fusion-server/modules/common/logger"
	"art-fusion-server/modules/common/middleware"
	redisutil "art-fusion-server/modules/common/redis"
	"art-fusion-server/modules/common/storage"
	"art-fusion-server/modules/fusion"
	"art-fusion-server/modules/gallery"
	"art-fusion-server/modules/saved"
	"art-fusion-server/modules/worker"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+saved.ClientIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(rdb *redis.Client, remoteEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if err := rdb.Ping(r.Context()).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "art-fusion-server",
			"remote":  remoteEnabled,
			"redis":   redisStatus,
		})
	}
}

// newRemote - Gemini 클라이언트 (비활성 또는 실패 시 nil → 로컬 합성만 사용)
func newRemote(ctx context.Context, cfg *config.Config) fusion.ImageGenerator {
	if !cfg.RemoteEnabled() {
		return nil
	}
	client, err := gemini.NewClient(ctx, cfg)
	if err != nil {
		log.Error().Msgf("❌ Failed to create Gemini client: %v", err)
		return nil
	}
	return client
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Msgf("❌ Failed to load config: %v", err)
	}
	accessLog := logger.Init(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fusion 모듈 초기화
	fusionService := fusion.NewService(newRemote(ctx, cfg), fusion.NewCompositor(cfg.JPEGQuality, cfg.MaxCanvasPixels))
	fusionHandler := fusion.NewHandler(fusionService)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(accessLog))
	r.Use(middleware.MaxBodyBytes(cfg.MaxRequestBytes))

	// Redis 연결 (실패 시 saved/jobs 라우트 비활성)
	rdb := redisutil.Connect(cfg)

	r.HandleFunc("/", healthCheck(rdb, cfg.RemoteEnabled())).Methods("GET")
	r.HandleFunc("/health", healthCheck(rdb, cfg.RemoteEnabled())).Methods("GET")

	r.HandleFunc("/api/fusion/generate", fusionHandler.HandleGenerate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/fusion/styles", fusionHandler.HandleStyles).Methods("GET")
	r.HandleFunc("/api/download", fusionHandler.HandleDownload).Methods("POST", "OPTIONS")

	var jobWorker *worker.Worker
	if rdb != nil {
		defer rdb.Close()

		savedHandler := saved.NewHandler(saved.NewStore(rdb))
		r.HandleFunc("/api/saved", savedHandler.HandleList).Methods("GET")
		r.HandleFunc("/api/saved", savedHandler.HandleSave).Methods("POST", "OPTIONS")
		r.HandleFunc("/api/saved/{id}", savedHandler.HandleDelete).Methods("DELETE", "OPTIONS")

		jobStore := worker.NewJobStore(rdb, cfg.JobResultTTL)
		jobHandler := worker.NewHandler(jobStore)
		hub := worker.NewHub(rdb, jobStore)
		r.HandleFunc("/api/jobs", jobHandler.HandleEnqueue).Methods("POST", "OPTIONS")
		r.HandleFunc("/api/jobs/{jobId}", jobHandler.HandleGet).Methods("GET")
		r.HandleFunc("/ws/jobs/{jobId}", hub.HandleStream)
		r.HandleFunc("/metrics", hub.HandleMetrics).Methods("GET")

		// Redis Queue Worker 시작 (백그라운드)
		jobWorker = worker.NewWorker(rdb, jobStore, fusionService)
		go jobWorker.Run(ctx)
	} else {
		log.Warn().Msg("⚠️  Redis unavailable: saved images and async jobs disabled")
	}

	if cfg.GalleryEnabled() {
		dbClient, err := database.NewClient(cfg)
		if err != nil {
			log.Fatal().Msgf("❌ Failed to initialize Database client: %v", err)
		}
		galleryService := gallery.NewService(dbClient, storage.NewClient(cfg), imagecodec.ConvertToWebP)
		galleryHandler := gallery.NewHandler(galleryService)
		r.HandleFunc("/api/gallery", galleryHandler.HandleList).Methods("GET")
		r.HandleFunc("/api/gallery", galleryHandler.HandlePublish).Methods("POST", "OPTIONS")
		r.HandleFunc("/api/gallery/{id}/download", galleryHandler.HandleDownload).Methods("POST", "OPTIONS")
	} else {
		log.Warn().Msg("⚠️  Supabase not configured: gallery disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Msgf("🚀 Art Fusion Server starting on port %s", cfg.Port)
	log.Info().Msgf("🎨 Generate: http://localhost:%s/api/fusion/generate", cfg.Port)
	log.Info().Msgf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	if rdb != nil {
		log.Info().Msgf("📡 Job stream: ws://localhost:%s/ws/jobs/{jobId}", cfg.Port)
		log.Info().Msgf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Msgf("❌ Server shutdown: %v", err)
	}
	if jobWorker != nil {
		jobWorker.Wait()
	}
	log.Info().Msg("👋 Server stopped")
}
