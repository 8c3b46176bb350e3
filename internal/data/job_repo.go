package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/data/pgxutil"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
)

// JobRepo provides database operations for jobs.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo with real time provider.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a new JobRepo with a custom time provider (useful for tests).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

const jobColumns = `id, title, description, category, budget, deadline, status, client_id,
	worker_id, worker_acceptance, progress, version, created_at, updated_at`

// Create inserts a new job in posted status.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, apperrors.Validation("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO jobs (
				id, title, description, category, budget, deadline, status, client_id,
				worker_acceptance, progress, version, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 1, $10, $10
			) RETURNING `+jobColumns,
			uuid.NewString(),
			strings.TrimSpace(req.Title),
			req.Description,
			strings.TrimSpace(req.Category),
			req.Budget,
			req.Deadline.UTC(),
			model.JobStatusPosted,
			req.ClientID,
			model.WorkerAcceptancePending,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves jobs matching the given filters, newest first.
func (r *JobRepo) List(ctx context.Context, opts *model.JobListOptions) ([]*model.Job, error) {
	if opts == nil {
		opts = &model.JobListOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.ClientID != nil {
		args = append(args, *opts.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if opts.WorkerID != nil {
		args = append(args, *opts.WorkerID)
		where = append(where, fmt.Sprintf("worker_id = $%d", len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var rowsOut []model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}

	res := make([]*model.Job, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Stats returns job counts per lifecycle status.
func (r *JobRepo) Stats(ctx context.Context) (*model.JobStats, error) {
	var stats model.JobStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'posted'),
				COUNT(*) FILTER (WHERE status = 'assigned'),
				COUNT(*) FILTER (WHERE status = 'in_progress'),
				COUNT(*) FILTER (WHERE status = 'submitted'),
				COUNT(*) FILTER (WHERE status = 'revision_requested'),
				COUNT(*) FILTER (WHERE status = 'completed'),
				COUNT(*) FILTER (WHERE status = 'cancelled')
			FROM jobs`).Scan(
			&stats.Posted, &stats.Assigned, &stats.InProgress, &stats.Submitted,
			&stats.RevisionRequested, &stats.Completed, &stats.Cancelled,
		)
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &stats, nil
}

// UpdateState applies a validated transition guarded by the version counter.
// A stale version surfaces as a Conflict, a missing row as NotFound.
func (r *JobRepo) UpdateState(ctx context.Context, params core.UpdateJobStateParams) (*model.Job, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE jobs SET
				status = $1,
				worker_acceptance = $2,
				progress = $3,
				worker_id = CASE WHEN $4 THEN NULL ELSE worker_id END,
				version = version + 1,
				updated_at = $5
			WHERE id = $6 AND version = $7
			RETURNING `+jobColumns,
			params.Status,
			params.WorkerAcceptance,
			params.Progress,
			params.ClearWorker,
			now,
			params.JobID,
			params.Version,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, params.JobID)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// CompleteWithPayment marks the job completed and creates its payment row in
// one transaction, so a payment insert failure rolls the completion back.
func (r *JobRepo) CompleteWithPayment(ctx context.Context, params core.CompleteJobParams) (*model.Job, *model.Payment, error) {
	now := r.timeProvider.Now().UTC()
	var job model.Job
	var payment model.Payment
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				UPDATE jobs SET
					status = $1,
					progress = 100,
					version = version + 1,
					updated_at = $2
				WHERE id = $3 AND version = $4
				RETURNING `+jobColumns,
				model.JobStatusCompleted, now, params.JobID, params.Version,
			)
			if err != nil {
				return err
			}
			job, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
			if err != nil {
				return err
			}

			payRows, err := tx.Query(ctx, `
				INSERT INTO payments (
					id, job_id, amount, currency, status, version, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, 1, $6, $6)
				RETURNING id, job_id, amount, currency, status, proof_image, proof_note,
					proof_uploaded_at, version, created_at, updated_at`,
				uuid.NewString(), params.JobID, params.Amount, params.Currency,
				model.PaymentStatusPending, now,
			)
			if err != nil {
				return err
			}
			payment, err = pgx.CollectOneRow(payRows, pgx.RowToStructByName[model.Payment])
			return err
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, r.staleOrMissing(ctx, params.JobID)
		}
		return nil, nil, apperrors.MapDBError(err)
	}
	return &job, &payment, nil
}

// staleOrMissing distinguishes a lost optimistic race from a missing row.
func (r *JobRepo) staleOrMissing(ctx context.Context, jobID string) error {
	if _, err := r.GetByID(ctx, jobID); err != nil {
		return err
	}
	return apperrors.Conflict("The job was modified concurrently. Please retry.")
}
