package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chronicle/internal/archive"
	archivemetrics "chronicle/internal/archive/metrics"
	"chronicle/internal/domain"
	"chronicle/internal/platform/config"
	"chronicle/internal/platform/logger"
	"chronicle/internal/platform/postgres"
	"chronicle/internal/platform/redis"
	platformstrings "chronicle/pkg/platform/strings"
)

// main runs a single archive retrieval query and writes the result as JSON
// to stdout. It is the operator-facing read path for audits and compliance
// requests; the archiver binary owns the write path.
func main() {
	var (
		archiveID       = flag.String("archive-id", "", "retrieve a single archive by id")
		principalID     = flag.String("principal", "", "filter records by principal id")
		actions         = flag.String("actions", "", "comma-separated record actions to keep")
		classifications = flag.String("classifications", "", "comma-separated data classifications")
		policies        = flag.String("policies", "", "comma-separated retention policy names")
		limit           = flag.Int("limit", 0, "maximum archives to return, 0 for all")
		offset          = flag.Int("offset", 0, "archives to skip before the first returned")
	)
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	opts := []archive.RetrievalOption{
		archive.WithRetrievalLogger(log),
		archive.WithRetrievalMetrics(archivemetrics.New()),
	}

	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, archive.WithRecordCache(
			archive.NewRedisRecordCache(redisClient.Client, cfg.RecordCacheTTL)))
	}

	engine := archive.NewRetrievalEngine(archive.NewPostgresStore(db.Pool), archive.Config{
		Format:    archive.Format(cfg.SerializationFormat),
		Algorithm: archive.Algorithm(cfg.CompressionAlgorithm),
	}, opts...)

	req := archive.RetrievalRequest{
		ArchiveID:   *archiveID,
		PrincipalID: *principalID,
		Actions:     splitList(*actions),
		Limit:       *limit,
		Offset:      *offset,
	}
	req.RetentionPolicies = splitList(*policies)
	for _, c := range splitList(*classifications) {
		req.DataClassifications = append(req.DataClassifications, domain.DataClassification(c))
	}

	result, err := engine.Retrieve(ctx, req)
	if err != nil {
		log.Error("retrieval failed", "error", err)
		os.Exit(1)
	}
	log.Info("retrieval complete",
		"request_id", result.RequestID,
		"archives", len(result.Archives),
		"records", result.RecordCount,
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error("encoding result failed", "error", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return platformstrings.DedupeAndTrim(strings.Split(s, ","))
}
