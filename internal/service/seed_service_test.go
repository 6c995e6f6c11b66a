package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/store"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

func newSeedService() (*SeedService, store.Store) {
	st := store.NewMemoryStore()
	svc := NewSeedService(st, zap.NewNop())
	svc.rng = rand.New(rand.NewSource(42))
	return svc, st
}

func TestEnsureSampleDataRequiresActor(t *testing.T) {
	svc, _ := newSeedService()

	err := svc.EnsureSampleData(context.Background(), &models.Session{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Code, appErrors.FromError(err).Code)
}

func TestEnsureSampleDataSeedsEmptyCollections(t *testing.T) {
	svc, st := newSeedService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureSampleData(ctx, adminSession()))

	var submissions []models.Submission
	require.NoError(t, st.Get(ctx, store.KeySubmissions, &submissions))
	require.Len(t, submissions, 5)

	for i, sub := range submissions {
		if (i+1)%2 == 1 {
			assert.Equal(t, models.SubmissionVideo, sub.Type, "index %d", i)
			assert.Equal(t, models.MediaLink, sub.Media.Kind, "index %d", i)
		} else {
			assert.Equal(t, models.SubmissionPoster, sub.Type, "index %d", i)
			assert.Equal(t, models.MediaFile, sub.Media.Kind, "index %d", i)
		}
		assert.Equal(t, "admin", sub.SubmittedBy)
	}

	var leaves []models.LeaveRequest
	require.NoError(t, st.Get(ctx, store.KeyLeaves, &leaves))
	require.Len(t, leaves, 3)
	for _, leave := range leaves {
		assert.Equal(t, "admin", leave.UserID)
		assert.False(t, leave.EndDate.Before(leave.StartDate))
	}
}

func TestEnsureSampleDataShadowTracksPendingOnly(t *testing.T) {
	svc, st := newSeedService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureSampleData(ctx, adminSession()))

	var submissions []models.Submission
	require.NoError(t, st.Get(ctx, store.KeySubmissions, &submissions))
	pendingIDs := map[string]bool{}
	for _, sub := range submissions {
		if sub.Status == models.StatusPending {
			pendingIDs[sub.ID] = true
		}
	}

	var shadow []models.ApprovalShadow
	err := st.Get(ctx, store.KeyApprovals, &shadow)
	if len(pendingIDs) == 0 {
		// No pending seeds means an empty shadow list was written.
		if err == nil {
			assert.Empty(t, shadow)
		}
		return
	}
	require.NoError(t, err)
	require.Len(t, shadow, len(pendingIDs))
	for _, entry := range shadow {
		assert.True(t, pendingIDs[entry.SubmissionID])
		assert.Equal(t, "apr_"+entry.SubmissionID, entry.ID)
		assert.Equal(t, models.StatusPending, entry.Status)
		assert.Equal(t, models.RoleKetuaMedia, entry.FinalApprover)
	}
}

func TestEnsureSampleDataLeavesExistingDataAlone(t *testing.T) {
	svc, st := newSeedService()
	ctx := context.Background()

	existing := []models.Submission{{ID: "sub_keep", Title: "Keep Me", Status: models.StatusPending}}
	require.NoError(t, st.Set(ctx, store.KeySubmissions, existing))

	require.NoError(t, svc.EnsureSampleData(ctx, adminSession()))

	var submissions []models.Submission
	require.NoError(t, st.Get(ctx, store.KeySubmissions, &submissions))
	require.Len(t, submissions, 1)
	assert.Equal(t, "sub_keep", submissions[0].ID)

	// Leaves were still empty, so those got seeded.
	var leaves []models.LeaveRequest
	require.NoError(t, st.Get(ctx, store.KeyLeaves, &leaves))
	assert.Len(t, leaves, 3)
}

func TestEnsureSampleDataIsIdempotent(t *testing.T) {
	svc, st := newSeedService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureSampleData(ctx, adminSession()))
	var first []models.Submission
	require.NoError(t, st.Get(ctx, store.KeySubmissions, &first))

	require.NoError(t, svc.EnsureSampleData(ctx, adminSession()))
	var second []models.Submission
	require.NoError(t, st.Get(ctx, store.KeySubmissions, &second))

	assert.Equal(t, first, second)
}
