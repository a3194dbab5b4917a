package domain

import "time"

// DataClassification is a sensitivity label attached to audit records and
// retention policies. Policies select records by classification, and the
// retrieval path filters archives by it.
type DataClassification string

const (
	ClassificationPublic       DataClassification = "PUBLIC"
	ClassificationInternal     DataClassification = "INTERNAL"
	ClassificationConfidential DataClassification = "CONFIDENTIAL"
	ClassificationRestricted   DataClassification = "RESTRICTED"
)

// AuditRecord is a single entry in the audit log. The audit store owns these
// records; the archival engine only reads them and, for secure deletion,
// deletes them by id. Hash is the content hash recorded when the event was
// written and travels with the record into archives.
type AuditRecord struct {
	ID                 string             `json:"id"`
	Timestamp          time.Time          `json:"timestamp"`
	PrincipalID        string             `json:"principalId"`
	Action             string             `json:"action"`
	DataClassification DataClassification `json:"dataClassification"`
	RetentionPolicy    string             `json:"retentionPolicy"`
	Hash               string             `json:"hash"`
}
