package core

import (
	"context"

	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UpdateJobStateParams groups parameters for JobRepository.UpdateState to keep param count ≤3.
// Version is the snapshot version the caller read; the write fails with a
// conflict when the row has moved on.
type UpdateJobStateParams struct {
	JobID            string
	Version          int
	Status           model.JobStatus
	WorkerAcceptance model.WorkerAcceptance
	Progress         int
	ClearWorker      bool
}

// CompleteJobParams groups parameters for JobRepository.CompleteWithPayment.
// The job completion and the payment row are written in one transaction.
type CompleteJobParams struct {
	JobID    string
	Version  int
	Amount   float64
	Currency string
}

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, opts *model.JobListOptions) ([]*model.Job, error)
	Stats(ctx context.Context) (*model.JobStats, error)
	// UpdateState applies a validated transition with an optimistic version check.
	UpdateState(ctx context.Context, params UpdateJobStateParams) (*model.Job, error)
	// CompleteWithPayment marks the job completed and creates its payment row atomically.
	CompleteWithPayment(ctx context.Context, params CompleteJobParams) (*model.Job, *model.Payment, error)
}

// UpdateApplicationStatusParams groups parameters for ApplicationRepository.UpdateStatus.
type UpdateApplicationStatusParams struct {
	ApplicationID string
	Version       int
	Status        model.ApplicationStatus
}

// AcceptApplicationParams groups parameters for ApplicationRepository.AcceptAndAssign.
// Accepting one application rejects its competitors and assigns the job, all in
// one transaction.
type AcceptApplicationParams struct {
	ApplicationID string
	Version       int
	JobID         string
	JobVersion    int
	WorkerID      string
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	ListByWorker(ctx context.Context, workerID string) ([]*model.Application, error)
	// HasAccepted reports whether any application for the job is already accepted.
	HasAccepted(ctx context.Context, jobID string) (bool, error)
	// UpdateStatus applies a validated transition with an optimistic version check.
	UpdateStatus(ctx context.Context, params UpdateApplicationStatusParams) (*model.Application, error)
	// AcceptAndAssign accepts the application, rejects all other open
	// applications for the job, and moves the job to assigned atomically.
	AcceptAndAssign(ctx context.Context, params AcceptApplicationParams) (*model.Application, error)
}

// UpdatePaymentStateParams groups parameters for PaymentRepository.UpdateState.
type UpdatePaymentStateParams struct {
	PaymentID  string
	Version    int
	Status     model.PaymentStatus
	ProofImage *string
	ProofNote  *string
	SetProof   bool
}

// PaymentRepository defines the interface for payment data operations.
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Payment, error)
	// UpdateState applies a validated transition with an optimistic version check.
	UpdateState(ctx context.Context, params UpdatePaymentStateParams) (*model.Payment, error)
}

// SessionStore resolves opaque bearer tokens to authenticated sessions.
// Sessions are written by the external auth system; this service only reads.
type SessionStore interface {
	Get(ctx context.Context, token string) (*actor.Session, error)
}

// Notifier publishes best-effort notifications after state changes commit.
// Implementations must never fail the calling operation.
type Notifier interface {
	Publish(ctx context.Context, n model.Notification)
}
