package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chronicle/internal/archive"
	archivemetrics "chronicle/internal/archive/metrics"
	"chronicle/internal/compliance"
	"chronicle/internal/platform/config"
	"chronicle/internal/platform/kafka"
	"chronicle/internal/platform/logger"
	"chronicle/internal/platform/postgres"
	"chronicle/internal/retention"
	retentionmetrics "chronicle/internal/retention/metrics"
)

// main wires the stores and engines and runs one archival pass followed by
// the policy-driven deletion pass. The recurring schedule belongs to an
// external scheduler; this binary does exactly one cycle per invocation.
func main() {
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

	archiveStore := archive.NewPostgresStore(db.Pool)
	retentionStore := retention.NewPostgresStore(db.Pool)

	archiverOpts := []archive.Option{
		archive.WithLogger(log),
		archive.WithMetrics(archivemetrics.New()),
	}
	deleterOpts := []retention.DeleterOption{
		retention.WithDeleterLogger(log),
	}

	if len(cfg.KafkaSeeds) > 0 {
		kafkaClient, err := kafka.New(ctx, cfg.KafkaSeeds)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaClient.Close()
		if err := kafka.EnsureTopic(ctx, kafkaClient, cfg.KafkaTopic); err != nil {
			log.Error("kafka topic setup failed", "topic", cfg.KafkaTopic, "error", err)
			os.Exit(1)
		}
		publisher := compliance.NewPublisher(kafkaClient, cfg.KafkaTopic)
		archiverOpts = append(archiverOpts, archive.WithNotifier(publisher))
		deleterOpts = append(deleterOpts, retention.WithDeletionNotifier(publisher))
	}

	archiver := archive.NewArchiver(archiveStore, archive.Config{
		Format:          archive.Format(cfg.SerializationFormat),
		Algorithm:       archive.Algorithm(cfg.CompressionAlgorithm),
		Level:           cfg.CompressionLevel,
		VerifyIntegrity: cfg.VerifyIntegrity,
	}, archiverOpts...)

	retMetrics := retentionmetrics.New()
	deleterOpts = append(deleterOpts, retention.WithDeleterMetrics(retMetrics))
	deleter := retention.NewSecureDeleter(retentionStore, deleterOpts...)

	engine := retention.NewEngine(retentionStore, archiver,
		retention.WithLogger(log),
		retention.WithMetrics(retMetrics),
		retention.WithDeleter(deleter),
	)

	results := engine.ArchiveByPolicies(ctx)
	for _, r := range results {
		log.Info("policy result",
			"policy", r.Policy,
			"archive_id", r.ArchiveID,
			"records_archived", r.RecordsArchived,
			"verification_status", r.VerificationStatus,
		)
	}
	log.Info("archival pass complete", "policies_archived", len(results))

	// Re-check every fresh archive against its recorded content hash before
	// the deletion pass removes the source records.
	verifier := archive.NewVerifier(archiveStore)
	for _, r := range results {
		ok, err := verifier.VerifyArchive(ctx, r.ArchiveID)
		if err != nil {
			log.Error("integrity check errored", "archive_id", r.ArchiveID, "error", err)
			os.Exit(1)
		}
		if !ok && r.VerificationStatus == archive.VerificationVerified {
			log.Error("integrity check failed, aborting deletion pass", "archive_id", r.ArchiveID)
			os.Exit(1)
		}
	}

	deletions := engine.DeleteExpired(ctx)
	for _, d := range deletions {
		log.Info("deletion result",
			"policy", d.Policy,
			"records_deleted", d.Result.RecordsDeleted,
			"verification_status", d.Result.VerificationStatus,
		)
	}
	log.Info("deletion pass complete", "policies_deleted", len(deletions))
}
