package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
	"github.com/belimuno/workhub/internal/testutil"
)

func mustApply(t *testing.T, db *sql.DB, jobID, workerID string) *model.Application {
	t.Helper()
	app, err := NewApplicationRepo(db).Create(context.Background(), &model.CreateApplicationRequest{
		Proposal:       "I can deliver this in three days",
		ProposedBudget: 500,
		JobID:          jobID,
		WorkerID:       workerID,
	})
	require.NoError(t, err)
	return app
}

func TestApplicationRepo_CreateAndGetRoundTrip(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db)
		job := mustCreateJob(t, db, "client-1")

		app := mustApply(t, db, job.ID, "worker-1")
		assert.Equal(t, model.ApplicationStatusPending, app.Status)
		assert.Equal(t, 1, app.Version)

		got, err := repo.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, job.ID, got.JobID)
		assert.Equal(t, "worker-1", got.WorkerID)
		assert.Equal(t, "I can deliver this in three days", got.Proposal)
		assert.Equal(t, 500.0, got.ProposedBudget)
	})
}

func TestApplicationRepo_DuplicateApplication(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db)
		job := mustCreateJob(t, db, "client-1")
		mustApply(t, db, job.ID, "worker-1")

		_, err := repo.Create(ctx, &model.CreateApplicationRequest{
			Proposal:       "second attempt",
			ProposedBudget: 400,
			JobID:          job.ID,
			WorkerID:       "worker-1",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "job_id", apperrors.GetField(err))
	})
}

func TestApplicationRepo_AcceptAndAssign_RejectsOpenCompetitors(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db)
		jobs := NewJobRepo(db)
		job := mustCreateJob(t, db, "client-1")

		chosen := mustApply(t, db, job.ID, "worker-a")
		pending := mustApply(t, db, job.ID, "worker-b")
		shortlisted := mustApply(t, db, job.ID, "worker-c")
		withdrawn := mustApply(t, db, job.ID, "worker-d")

		shortlisted, err := repo.UpdateStatus(ctx, core.UpdateApplicationStatusParams{
			ApplicationID: shortlisted.ID,
			Version:       shortlisted.Version,
			Status:        model.ApplicationStatusShortlisted,
		})
		require.NoError(t, err)
		withdrawn, err = repo.UpdateStatus(ctx, core.UpdateApplicationStatusParams{
			ApplicationID: withdrawn.ID,
			Version:       withdrawn.Version,
			Status:        model.ApplicationStatusWithdrawn,
		})
		require.NoError(t, err)

		accepted, err := repo.AcceptAndAssign(ctx, core.AcceptApplicationParams{
			ApplicationID: chosen.ID,
			Version:       chosen.Version,
			JobID:         job.ID,
			JobVersion:    job.Version,
			WorkerID:      chosen.WorkerID,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusAccepted, accepted.Status)

		// Open competitors are rejected in the same transaction; withdrawn ones stay put.
		wantStatus := map[string]model.ApplicationStatus{
			pending.ID:     model.ApplicationStatusRejected,
			shortlisted.ID: model.ApplicationStatusRejected,
			withdrawn.ID:   model.ApplicationStatusWithdrawn,
		}
		for id, want := range wantStatus {
			got, getErr := repo.GetByID(ctx, id)
			require.NoError(t, getErr)
			assert.Equal(t, want, got.Status, "application %s", id)
		}

		assignedJob, err := jobs.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusAssigned, assignedJob.Status)
		require.NotNil(t, assignedJob.WorkerID)
		assert.Equal(t, chosen.WorkerID, *assignedJob.WorkerID)
		assert.Equal(t, model.WorkerAcceptancePending, assignedJob.WorkerAcceptance)
		assert.Equal(t, job.Version+1, assignedJob.Version)

		hasAccepted, err := repo.HasAccepted(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, hasAccepted)
	})
}

func TestApplicationRepo_AcceptAndAssign_StaleJobVersionRollsBack(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db)
		job := mustCreateJob(t, db, "client-1")
		app := mustApply(t, db, job.ID, "worker-a")

		_, err := repo.AcceptAndAssign(ctx, core.AcceptApplicationParams{
			ApplicationID: app.ID,
			Version:       app.Version,
			JobID:         job.ID,
			JobVersion:    job.Version + 3,
			WorkerID:      app.WorkerID,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))

		// The accept write rolled back with the failed job update.
		got, err := repo.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusPending, got.Status)
		assert.Equal(t, app.Version, got.Version)

		hasAccepted, err := repo.HasAccepted(ctx, job.ID)
		require.NoError(t, err)
		assert.False(t, hasAccepted)
	})
}

func TestApplicationRepo_UpdateStatus_VersionGuard(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db)
		job := mustCreateJob(t, db, "client-1")
		app := mustApply(t, db, job.ID, "worker-1")

		updated, err := repo.UpdateStatus(ctx, core.UpdateApplicationStatusParams{
			ApplicationID: app.ID,
			Version:       app.Version,
			Status:        model.ApplicationStatusShortlisted,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusShortlisted, updated.Status)
		assert.Equal(t, app.Version+1, updated.Version)

		_, err = repo.UpdateStatus(ctx, core.UpdateApplicationStatusParams{
			ApplicationID: app.ID,
			Version:       app.Version,
			Status:        model.ApplicationStatusRejected,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))

		_, err = repo.UpdateStatus(ctx, core.UpdateApplicationStatusParams{
			ApplicationID: "00000000-0000-0000-0000-000000000000",
			Version:       1,
			Status:        model.ApplicationStatusRejected,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestApplicationRepo_JobDeletionRestrictedByApplications(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		job := mustCreateJob(t, db, "client-1")
		mustApply(t, db, job.ID, "worker-1")

		// Job rows with applications cannot be deleted out from under them.
		_, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, job.ID)
		require.Error(t, err)

		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM applications WHERE job_id = $1`, job.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})
}
