// Command fetch-requirements pulls per-item skill requirement documents
// from the osrsreboxed item database and merges them into the persisted
// requirements cache. The job is idempotent: already-cached items are
// skipped, and the cache is saved after every batch so an interrupted run
// resumes where it left off.
//
// Invoked with no arguments; configured through environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/osrskit/equipment-requirements/pkg/fetcher"
	"github.com/osrskit/equipment-requirements/pkg/itemdb"
	"github.com/osrskit/equipment-requirements/pkg/logging"
	"github.com/osrskit/equipment-requirements/pkg/store"
)

const defaultUserAgent = "osrskit-equipment-requirements/0.1.0 (https://github.com/osrskit/equipment-requirements)"

func main() {
	logging.Setup(logging.JobConfig())
	logger := logging.NewLogger("fetch-requirements")

	equipmentPath := getEnv("EQUIPMENT_PATH", "data/equipment.json")
	requirementsPath := getEnv("REQUIREMENTS_PATH", "data/equipment-requirements.json")
	baseURL := getEnv("ITEMDB_BASE_URL", itemdb.DefaultBaseURL)
	userAgent := getEnv("USER_AGENT", defaultUserAgent)
	redisURL := os.Getenv("REDIS_URL")

	// SIGINT/SIGTERM stop after the current batch; the cache on disk stays
	// valid and the next run resumes from it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	equipment, err := store.LoadEquipment(equipmentPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", equipmentPath).Msg("Failed to load equipment list")
	}
	logger.Info().Int("items", len(equipment)).Str("path", equipmentPath).Msg("Loaded equipment list")

	reqs, err := store.LoadRequirements(requirementsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", requirementsPath).Msg("Failed to load requirements cache")
	}
	logger.Info().Int("entries", reqs.Len()).Str("path", requirementsPath).Msg("Loaded existing requirements")

	cfg := itemdb.DefaultConfig(userAgent)
	cfg.BaseURL = baseURL

	if redisURL != "" {
		if redisClient := connectRedis(ctx, redisURL, logger); redisClient != nil {
			cfg.Redis = redisClient
			defer redisClient.Close()
		}
	}

	client, err := itemdb.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create item database client")
	}

	summary, err := fetcher.New(client, fetcher.DefaultConfig()).Run(ctx, equipment, reqs, requirementsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Fetch aborted")
	}

	logger.Info().
		Int("fetched", summary.Fetched).
		Int("new_requirements", summary.Found).
		Int("failed", summary.Failed).
		Int("cache_total", reqs.Len()).
		Str("output", requirementsPath).
		Msg("Done")
}

// connectRedis returns a pinged Redis client enabling the document cache,
// or nil when Redis is unreachable. The client is closed before returning
// nil; the caller owns a non-nil client.
func connectRedis(ctx context.Context, addr string, logger zerolog.Logger) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{Addr: addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		logger.Warn().Err(err).Str("redis", addr).Msg("Redis not reachable - document cache disabled")
		return nil
	}
	logger.Info().Str("redis", addr).Msg("Document cache enabled")
	return redisClient
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
