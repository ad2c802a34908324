package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/config"
)

const (
	JobQueueKey       = "fusion:jobs:queue"
	jobKeyPrefix      = "fusion:job:"
	jobEventKeyPrefix = "fusion:job-events:"
	savedKeyPrefix    = "fusion:saved:"
)

// Connect - Redis 연결 생성 (실패 시 nil)
func Connect(cfg *config.Config) *redis.Client {
	log.Info().Msgf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	// TLS 설정 (InsecureSkipVerify 추가)
	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // managed Redis 인증서용
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// 연결 테스트
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("🔍 Testing Redis connection...")
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Msgf("❌ Redis ping failed: %v", err)
		rdb.Close()
		return nil
	}

	log.Info().Msg("✅ Redis connected")
	return rdb
}

func JobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

func JobEventsChannel(jobID string) string {
	return jobEventKeyPrefix + jobID
}

func SavedKey(owner string) string {
	return fmt.Sprintf("%s%s", savedKeyPrefix, owner)
}
