package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
	"github.com/belimuno/workhub/internal/testutil"
)

func newJobRequest(clientID string) *model.CreateJobRequest {
	return &model.CreateJobRequest{
		Title:       fmt.Sprintf("Landing page %d", time.Now().UnixNano()),
		Description: "Build a responsive landing page",
		Category:    "web",
		Budget:      750.50,
		Deadline:    time.Now().Add(72 * time.Hour).UTC().Truncate(time.Microsecond),
		ClientID:    clientID,
	}
}

func mustCreateJob(t *testing.T, db *sql.DB, clientID string) *model.Job {
	t.Helper()
	job, err := NewJobRepo(db).Create(context.Background(), newJobRequest(clientID))
	require.NoError(t, err)
	return job
}

func TestJobRepo_CreateAndGetRoundTrip(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobRepo(db)

		req := newJobRequest("client-1")
		created, err := repo.Create(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, model.JobStatusPosted, created.Status)
		assert.Equal(t, model.WorkerAcceptancePending, created.WorkerAcceptance)
		assert.Equal(t, 0, created.Progress)
		assert.Equal(t, 1, created.Version)
		assert.Nil(t, created.WorkerID)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, req.Title, got.Title)
		assert.Equal(t, req.Description, got.Description)
		assert.Equal(t, req.Category, got.Category)
		assert.Equal(t, req.Budget, got.Budget)
		assert.True(t, req.Deadline.Equal(got.Deadline),
			"deadline must survive the round trip: wrote %v, read %v", req.Deadline, got.Deadline)
		assert.Equal(t, created.Progress, got.Progress)
		assert.WithinDuration(t, time.Now(), got.CreatedAt, 10*time.Second)
	})
}

func TestJobRepo_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		_, err := NewJobRepo(db).GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestJobRepo_UpdateState_VersionGuard(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobRepo(db)
		job := mustCreateJob(t, db, "client-1")

		updated, err := repo.UpdateState(ctx, core.UpdateJobStateParams{
			JobID:            job.ID,
			Version:          job.Version,
			Status:           model.JobStatusInProgress,
			WorkerAcceptance: model.WorkerAcceptanceAccepted,
			Progress:         40,
		})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusInProgress, updated.Status)
		assert.Equal(t, 40, updated.Progress)
		assert.Equal(t, job.Version+1, updated.Version)

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, got.Progress, "progress must survive the round trip")

		// Writing against the stale snapshot version loses the race.
		_, err = repo.UpdateState(ctx, core.UpdateJobStateParams{
			JobID:            job.ID,
			Version:          job.Version,
			Status:           model.JobStatusSubmitted,
			WorkerAcceptance: model.WorkerAcceptanceAccepted,
			Progress:         100,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))

		_, err = repo.UpdateState(ctx, core.UpdateJobStateParams{
			JobID:            "00000000-0000-0000-0000-000000000000",
			Version:          1,
			Status:           model.JobStatusSubmitted,
			WorkerAcceptance: model.WorkerAcceptanceAccepted,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestJobRepo_CompleteWithPayment(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobRepo(db)
		payments := NewPaymentRepo(db)
		job := mustCreateJob(t, db, "client-1")

		completed, payment, err := repo.CompleteWithPayment(ctx, core.CompleteJobParams{
			JobID:    job.ID,
			Version:  job.Version,
			Amount:   job.Budget,
			Currency: "ETB",
		})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCompleted, completed.Status)
		assert.Equal(t, 100, completed.Progress)
		assert.Equal(t, job.Version+1, completed.Version)

		require.NotNil(t, payment)
		assert.Equal(t, job.ID, payment.JobID)
		assert.Equal(t, job.Budget, payment.Amount)
		assert.Equal(t, "ETB", payment.Currency)
		assert.Equal(t, model.PaymentStatusPending, payment.Status)
		assert.Nil(t, payment.ProofImage)

		rows, err := payments.ListByJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, payment.ID, rows[0].ID)
	})
}

func TestJobRepo_CompleteWithPayment_StaleVersionLeavesNoPayment(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobRepo(db)
		payments := NewPaymentRepo(db)
		job := mustCreateJob(t, db, "client-1")

		_, _, err := repo.CompleteWithPayment(ctx, core.CompleteJobParams{
			JobID:    job.ID,
			Version:  job.Version + 5,
			Amount:   job.Budget,
			Currency: "ETB",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))

		// The transaction rolled back: the job is untouched and no payment row exists.
		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusPosted, got.Status)
		assert.Equal(t, job.Version, got.Version)

		rows, err := payments.ListByJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestJobRepo_ListAndStats(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewJobRepo(db)

		first := mustCreateJob(t, db, "client-1")
		mustCreateJob(t, db, "client-2")

		clientID := "client-1"
		byClient, err := repo.List(ctx, &model.JobListOptions{ClientID: &clientID})
		require.NoError(t, err)
		require.Len(t, byClient, 1)
		assert.Equal(t, first.ID, byClient[0].ID)

		posted := model.JobStatusPosted
		byStatus, err := repo.List(ctx, &model.JobListOptions{Status: &posted})
		require.NoError(t, err)
		assert.Len(t, byStatus, 2)

		stats, err := repo.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Posted)
		assert.Equal(t, 0, stats.Completed)
	})
}
