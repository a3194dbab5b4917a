package retention_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chronicle/internal/archive"
	"chronicle/internal/domain"
	"chronicle/internal/retention"
	"chronicle/internal/retention/mocks"
)

func intPtr(v int) *int { return &v }

func activePolicy(name string, classification domain.DataClassification) retention.Policy {
	return retention.Policy{
		PolicyName:         name,
		DataClassification: classification,
		RetentionDays:      365,
		ArchiveAfterDays:   90,
		IsActive:           true,
	}
}

func agedRecord(id string, classification domain.DataClassification, ageDays int) domain.AuditRecord {
	return domain.AuditRecord{
		ID:                 id,
		Timestamp:          time.Now().AddDate(0, 0, -ageDays),
		PrincipalID:        "user123",
		Action:             "login",
		DataClassification: classification,
		RetentionPolicy:    "standard",
	}
}

func TestArchiveByPolicies_NoActivePolicies(t *testing.T) {
	store := retention.NewInMemoryStore()
	inactive := activePolicy("dormant", domain.ClassificationInternal)
	inactive.IsActive = false
	store.AddPolicy(inactive)

	archives := archive.NewInMemoryStore()
	engine := retention.NewEngine(store, archive.NewArchiver(archives, archive.Config{
		Format:    archive.FormatJSON,
		Algorithm: archive.AlgorithmGzip,
	}))

	results := engine.ArchiveByPolicies(context.Background())
	require.NotNil(t, results)
	assert.Empty(t, results)
	assert.Zero(t, archives.Len())
}

func TestArchiveByPolicies_ListingFailureYieldsEmptyResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)

	store.EXPECT().ListActivePolicies(gomock.Any()).Return(nil, errors.New("db down"))

	engine := retention.NewEngine(store, creator)
	results := engine.ArchiveByPolicies(context.Background())
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestArchiveByPolicies_ArchivesEligibleRecords(t *testing.T) {
	store := retention.NewInMemoryStore()
	store.AddPolicy(activePolicy("standard", domain.ClassificationConfidential))
	store.AddRecord(agedRecord("old-1", domain.ClassificationConfidential, 120))
	store.AddRecord(agedRecord("old-2", domain.ClassificationConfidential, 200))
	store.AddRecord(agedRecord("young", domain.ClassificationConfidential, 10))
	store.AddRecord(agedRecord("other-class", domain.ClassificationPublic, 120))

	archives := archive.NewInMemoryStore()
	engine := retention.NewEngine(store, archive.NewArchiver(archives, archive.Config{
		Format:          archive.FormatJSON,
		Algorithm:       archive.AlgorithmGzip,
		VerifyIntegrity: true,
	}))

	results := engine.ArchiveByPolicies(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, "standard", results[0].Policy)
	assert.Equal(t, 2, results[0].RecordsArchived)
	assert.Equal(t, archive.VerificationVerified, results[0].VerificationStatus)
	require.NotEmpty(t, results[0].ArchiveID)

	arch, err := archives.GetByID(context.Background(), results[0].ArchiveID)
	require.NoError(t, err)
	assert.Equal(t, "standard", arch.Metadata.RetentionPolicy)
	assert.Equal(t, domain.ClassificationConfidential, arch.Metadata.DataClassification)
}

func TestArchiveByPolicies_FailingPolicyIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)

	policies := []retention.Policy{
		activePolicy("first", domain.ClassificationInternal),
		activePolicy("broken", domain.ClassificationConfidential),
		activePolicy("third", domain.ClassificationPublic),
	}
	records := []domain.AuditRecord{agedRecord("r1", domain.ClassificationInternal, 120)}

	store.EXPECT().ListActivePolicies(gomock.Any()).Return(policies, nil)
	store.EXPECT().SelectRecordsForArchival(gomock.Any(), policies[0], gomock.Any()).Return(records, nil)
	store.EXPECT().SelectRecordsForArchival(gomock.Any(), policies[1], gomock.Any()).Return(nil, errors.New("query timeout"))
	store.EXPECT().SelectRecordsForArchival(gomock.Any(), policies[2], gomock.Any()).Return(nil, nil)

	creator.EXPECT().
		CreateArchive(gomock.Any(), records, archive.Metadata{
			RetentionPolicy:    "first",
			DataClassification: domain.ClassificationInternal,
		}).
		Return(&archive.CreateResult{ArchiveID: "arch-1", VerificationStatus: archive.VerificationVerified}, nil)
	creator.EXPECT().
		CreateArchive(gomock.Any(), gomock.Nil(), archive.Metadata{
			RetentionPolicy:    "third",
			DataClassification: domain.ClassificationPublic,
		}).
		Return(&archive.CreateResult{ArchiveID: "arch-3", VerificationStatus: archive.VerificationVerified}, nil)

	engine := retention.NewEngine(store, creator)
	results := engine.ArchiveByPolicies(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Policy)
	assert.Equal(t, 1, results[0].RecordsArchived)
	assert.Equal(t, "third", results[1].Policy)
	assert.Zero(t, results[1].RecordsArchived)
}

func TestArchiveByPolicies_CreateFailureIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)

	policies := []retention.Policy{activePolicy("standard", domain.ClassificationInternal)}
	store.EXPECT().ListActivePolicies(gomock.Any()).Return(policies, nil)
	store.EXPECT().SelectRecordsForArchival(gomock.Any(), policies[0], gomock.Any()).Return(nil, nil)
	creator.EXPECT().CreateArchive(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full"))

	engine := retention.NewEngine(store, creator)
	results := engine.ArchiveByPolicies(context.Background())
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestArchiveByPolicies_InvalidPolicyIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)

	invalid := activePolicy("inconsistent", domain.ClassificationInternal)
	invalid.ArchiveAfterDays = invalid.RetentionDays + 1
	store.EXPECT().ListActivePolicies(gomock.Any()).Return([]retention.Policy{invalid}, nil)

	engine := retention.NewEngine(store, creator)
	results := engine.ArchiveByPolicies(context.Background())
	assert.Empty(t, results)
}

func TestDeleteExpired_NoDeleterConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)

	engine := retention.NewEngine(store, creator)
	results := engine.DeleteExpired(context.Background())
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestDeleteExpired_OnlyPoliciesWithDeletionWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)
	deleter := mocks.NewMockDeleter(ctrl)

	keepForever := activePolicy("keep-forever", domain.ClassificationRestricted)
	autoDelete := activePolicy("auto-delete", domain.ClassificationInternal)
	autoDelete.DeleteAfterDays = intPtr(365)

	store.EXPECT().ListActivePolicies(gomock.Any()).
		Return([]retention.Policy{keepForever, autoDelete}, nil)
	deleter.EXPECT().
		SecureDelete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, criteria retention.DeletionCriteria) (*retention.DeletionResult, error) {
			assert.Equal(t, "auto-delete", criteria.RetentionPolicy)
			assert.Equal(t, domain.ClassificationInternal, criteria.DataClassification)
			assert.True(t, criteria.VerifyDeletion)
			assert.WithinDuration(t, time.Now().AddDate(0, 0, -365), criteria.Before, time.Minute)
			return &retention.DeletionResult{
				RecordsDeleted:     7,
				VerificationStatus: archive.VerificationVerified,
			}, nil
		})

	engine := retention.NewEngine(store, creator, retention.WithDeleter(deleter))
	results := engine.DeleteExpired(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, "auto-delete", results[0].Policy)
	assert.Equal(t, 7, results[0].Result.RecordsDeleted)
}

func TestDeleteExpired_FailingPolicyIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	creator := mocks.NewMockArchiveCreator(ctrl)
	deleter := mocks.NewMockDeleter(ctrl)

	broken := activePolicy("broken", domain.ClassificationInternal)
	broken.DeleteAfterDays = intPtr(365)
	healthy := activePolicy("healthy", domain.ClassificationPublic)
	healthy.DeleteAfterDays = intPtr(400)

	store.EXPECT().ListActivePolicies(gomock.Any()).
		Return([]retention.Policy{broken, healthy}, nil)
	gomock.InOrder(
		deleter.EXPECT().SecureDelete(gomock.Any(), gomock.Any()).Return(nil, errors.New("delete failed")),
		deleter.EXPECT().SecureDelete(gomock.Any(), gomock.Any()).
			Return(&retention.DeletionResult{VerificationStatus: archive.VerificationVerified}, nil),
	)

	engine := retention.NewEngine(store, creator, retention.WithDeleter(deleter))
	results := engine.DeleteExpired(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, "healthy", results[0].Policy)
}
