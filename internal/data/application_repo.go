package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/data/pgxutil"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
)

// ApplicationRepo provides database operations for job applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider.
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

const applicationColumns = `id, job_id, worker_id, proposal, proposed_budget, status, version,
	applied_at, updated_at`

// Create inserts a new pending application. The UNIQUE (job_id, worker_id)
// constraint turns a repeat application into a Conflict.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if req == nil {
		return nil, apperrors.Validation("create application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO applications (
				id, job_id, worker_id, proposal, proposed_budget, status, version, applied_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
			RETURNING `+applicationColumns,
			uuid.NewString(),
			req.JobID,
			req.WorkerID,
			req.Proposal,
			req.ProposedBudget,
			model.ApplicationStatusPending,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("application %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByJob retrieves all applications for a job, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC`, jobID)
}

// ListByWorker retrieves all applications a worker has filed, newest first.
func (r *ApplicationRepo) ListByWorker(ctx context.Context, workerID string) ([]*model.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE worker_id = $1 ORDER BY applied_at DESC`, workerID)
}

func (r *ApplicationRepo) list(ctx context.Context, query, arg string) ([]*model.Application, error) {
	var rowsOut []model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// HasAccepted reports whether any application for the job is already accepted.
func (r *ApplicationRepo) HasAccepted(ctx context.Context, jobID string) (bool, error) {
	var accepted bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND status = 'accepted')`,
			jobID,
		).Scan(&accepted)
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return accepted, nil
}

// UpdateStatus applies a validated transition guarded by the version counter.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, params core.UpdateApplicationStatusParams) (*model.Application, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE applications SET
				status = $1,
				version = version + 1,
				updated_at = $2
			WHERE id = $3 AND version = $4
			RETURNING `+applicationColumns,
			params.Status, now, params.ApplicationID, params.Version,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, params.ApplicationID)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// AcceptAndAssign accepts the application, rejects its open competitors, and
// assigns the job, all in one transaction. Either everything lands or nothing
// does; the partial unique index on accepted applications backstops the race
// where two clients accept concurrently.
func (r *ApplicationRepo) AcceptAndAssign(ctx context.Context, params core.AcceptApplicationParams) (*model.Application, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Application
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				UPDATE applications SET
					status = $1,
					version = version + 1,
					updated_at = $2
				WHERE id = $3 AND version = $4
				RETURNING `+applicationColumns,
				model.ApplicationStatusAccepted, now, params.ApplicationID, params.Version,
			)
			if err != nil {
				return err
			}
			out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
			if err != nil {
				return err
			}

			if _, err = tx.Exec(ctx, `
				UPDATE applications SET
					status = $1,
					version = version + 1,
					updated_at = $2
				WHERE job_id = $3 AND id <> $4 AND status IN ('pending', 'reviewed', 'shortlisted')`,
				model.ApplicationStatusRejected, now, params.JobID, params.ApplicationID,
			); err != nil {
				return err
			}

			ct, err := tx.Exec(ctx, `
				UPDATE jobs SET
					status = $1,
					worker_id = $2,
					worker_acceptance = $3,
					version = version + 1,
					updated_at = $4
				WHERE id = $5 AND version = $6`,
				model.JobStatusAssigned, params.WorkerID, model.WorkerAcceptancePending,
				now, params.JobID, params.JobVersion,
			)
			if err != nil {
				return err
			}
			if ct.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Conflict("The job or application was modified concurrently. Please retry.")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func (r *ApplicationRepo) staleOrMissing(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict("The application was modified concurrently. Please retry.")
}
