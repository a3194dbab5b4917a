// Package compliance publishes archive lifecycle notices to Kafka for the
// external compliance-report generator, which consumes verified event hashes
// downstream. Publishing is best-effort from the engines' point of view;
// failed publishes surface as errors for the caller to log, never as failed
// archival or deletion.
package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"chronicle/internal/archive"
	"chronicle/internal/retention"
)

const (
	EventArchiveCreated = "archive_created"
	EventRecordsDeleted = "records_deleted"
)

// Notice is the wire shape published for every lifecycle event.
type Notice struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	Timestamp          time.Time `json:"timestamp"`
	ArchiveID          string    `json:"archiveId,omitempty"`
	RetentionPolicy    string    `json:"retentionPolicy,omitempty"`
	DataClassification string    `json:"dataClassification,omitempty"`
	PrincipalID        string    `json:"principalId,omitempty"`
	RecordCount        int       `json:"recordCount"`
	ContentHash        string    `json:"contentHash,omitempty"`
	VerificationStatus string    `json:"verificationStatus,omitempty"`
}

// Publisher writes lifecycle notices to a single Kafka topic. It implements
// archive.LifecycleNotifier and retention.DeletionNotifier.
type Publisher struct {
	client *kgo.Client
	topic  string
}

func NewPublisher(client *kgo.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// ArchiveCreated publishes an archive-created notice.
func (p *Publisher) ArchiveCreated(ctx context.Context, notice archive.ArchiveCreatedNotice) error {
	return p.publish(ctx, Notice{
		ID:                 uuid.NewString(),
		Type:               EventArchiveCreated,
		Timestamp:          notice.CreatedAt,
		ArchiveID:          notice.ArchiveID,
		RetentionPolicy:    notice.Metadata.RetentionPolicy,
		DataClassification: string(notice.Metadata.DataClassification),
		RecordCount:        notice.RecordCount,
		ContentHash:        notice.ContentHash,
	}, notice.ArchiveID)
}

// RecordsDeleted publishes a records-deleted notice.
func (p *Publisher) RecordsDeleted(ctx context.Context, notice retention.DeletionNotice) error {
	return p.publish(ctx, Notice{
		ID:                 uuid.NewString(),
		Type:               EventRecordsDeleted,
		Timestamp:          time.Now(),
		RetentionPolicy:    notice.RetentionPolicy,
		PrincipalID:        notice.PrincipalID,
		RecordCount:        notice.RecordsDeleted,
		VerificationStatus: string(notice.VerificationStatus),
	}, notice.RetentionPolicy)
}

func (p *Publisher) publish(ctx context.Context, notice Notice, key string) error {
	if p == nil || p.client == nil {
		return errors.New("compliance publisher not configured")
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal lifecycle notice: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(key),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce lifecycle notice: %w", err)
	}
	return nil
}
