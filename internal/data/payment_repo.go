package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/data/pgxutil"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
)

// PaymentRepo provides database operations for payments. Payment rows are
// created by JobRepo.CompleteWithPayment; this repo reads and transitions them.
type PaymentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPaymentRepo creates a new PaymentRepo with real time provider.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPaymentRepoWithTimeProvider creates a new PaymentRepo with a custom time provider.
func NewPaymentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: tp}
}

const paymentColumns = `id, job_id, amount, currency, status, proof_image, proof_note,
	proof_uploaded_at, version, created_at, updated_at`

// GetByID retrieves a payment by ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var out model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("payment %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByJob retrieves all payments for a job, newest first.
func (r *PaymentRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Payment, error) {
	var rowsOut []model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+paymentColumns+` FROM payments WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Payment])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	res := make([]*model.Payment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateState applies a validated transition guarded by the version counter.
// Proof columns are written only when SetProof is set.
func (r *PaymentRepo) UpdateState(ctx context.Context, params core.UpdatePaymentStateParams) (*model.Payment, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE payments SET
				status = $1,
				proof_image = CASE WHEN $2 THEN $3 ELSE proof_image END,
				proof_note = CASE WHEN $2 THEN $4 ELSE proof_note END,
				proof_uploaded_at = CASE WHEN $2 THEN $5 ELSE proof_uploaded_at END,
				version = version + 1,
				updated_at = $5
			WHERE id = $6 AND version = $7
			RETURNING `+paymentColumns,
			params.Status,
			params.SetProof,
			params.ProofImage,
			params.ProofNote,
			now,
			params.PaymentID,
			params.Version,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, params.PaymentID)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func (r *PaymentRepo) staleOrMissing(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict("The payment was modified concurrently. Please retry.")
}
