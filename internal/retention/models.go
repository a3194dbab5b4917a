package retention

import (
	"fmt"
	"time"

	"chronicle/internal/archive"
	"chronicle/internal/domain"
)

// Policy is a named rule governing how long audit records of a given
// classification are kept, archived, and eventually deleted. Policies are
// created and edited by administrators outside this engine; here they are
// read-only.
type Policy struct {
	// PolicyName is unique across all policies.
	PolicyName         string
	DataClassification domain.DataClassification
	RetentionDays      int
	ArchiveAfterDays   int
	// DeleteAfterDays is nil for policies that never auto-delete.
	DeleteAfterDays *int
	IsActive        bool
}

// Validate checks the policy's internal consistency: records must be
// archived within their retention window, and never deleted before they are
// archived.
func (p Policy) Validate() error {
	if p.PolicyName == "" {
		return fmt.Errorf("policy name is required")
	}
	if p.ArchiveAfterDays > p.RetentionDays {
		return fmt.Errorf("policy %s: archive_after_days %d exceeds retention_days %d",
			p.PolicyName, p.ArchiveAfterDays, p.RetentionDays)
	}
	if p.DeleteAfterDays != nil && *p.DeleteAfterDays < p.ArchiveAfterDays {
		return fmt.Errorf("policy %s: delete_after_days %d below archive_after_days %d",
			p.PolicyName, *p.DeleteAfterDays, p.ArchiveAfterDays)
	}
	return nil
}

// parseBoolFlag reads the "true"/"false" string representation the policy
// store uses for the active flag. Anything but the literal "true" is false.
func parseBoolFlag(s string) bool {
	return s == "true"
}

// formatBoolFlag is the inverse of parseBoolFlag for writes at the store
// boundary.
func formatBoolFlag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// PolicyRunResult is one entry in the result of an archival pass: the policy
// that was processed, how many records went into its archive, and the
// integrity status the archiver reported.
type PolicyRunResult struct {
	Policy             string
	ArchiveID          string
	RecordsArchived    int
	VerificationStatus archive.VerificationStatus
}

// DeletionCriteria identifies audit records for secure deletion. All filter
// fields are optional; criteria with no filters set match zero records, so
// an empty criteria value can never empty the audit log.
type DeletionCriteria struct {
	PrincipalID        string
	DataClassification domain.DataClassification
	RetentionPolicy    string
	// Before bounds matches to records older than the given instant. Zero
	// means no age bound.
	Before time.Time
	// VerifyDeletion requests a post-delete re-query confirming no matched
	// record remains.
	VerifyDeletion bool
}

func (c DeletionCriteria) isEmpty() bool {
	return c.PrincipalID == "" &&
		c.DataClassification == "" &&
		c.RetentionPolicy == "" &&
		c.Before.IsZero()
}

// DeletionTarget is the (id, hash) pair selected for deletion.
type DeletionTarget struct {
	ID   string
	Hash string
}

// VerificationDetails reports the post-delete re-query outcome.
type VerificationDetails struct {
	AllDeleted       bool
	RemainingRecords int
}

// DeletionResult reports a secure deletion. RecordsDeleted reflects the
// matched set actually deleted, independent of the verification outcome.
// VerificationDetails is nil when verification was not requested.
type DeletionResult struct {
	RecordsDeleted      int
	VerificationStatus  archive.VerificationStatus
	VerificationDetails *VerificationDetails
}

// DeletionRunResult is one entry in the result of a policy-driven deletion
// pass.
type DeletionRunResult struct {
	Policy string
	Result DeletionResult
}
