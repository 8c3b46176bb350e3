package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/lifecycle"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
)

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Repos    PaymentRepos
	Notifier core.Notifier
	Logger   *slog.Logger
	Clock    Clock
}

// PaymentRepos groups the repositories PaymentService orchestrates.
type PaymentRepos struct {
	Payments core.PaymentRepository
	Jobs     core.JobRepository
}

// PaymentService handles the payment follow-up after a job completes: the
// client uploads transfer proof, an admin reviews it, and completed payments
// can be refunded.
type PaymentService struct {
	payments core.PaymentRepository
	jobs     core.JobRepository
	notifier core.Notifier
	logger   *slog.Logger
	clock    Clock
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(opts PaymentServiceOptions) *PaymentService {
	if opts.Repos.Payments == nil {
		panic("PaymentRepository is required")
	}
	if opts.Repos.Jobs == nil {
		panic("JobRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &PaymentService{
		payments: opts.Repos.Payments,
		jobs:     opts.Repos.Jobs,
		notifier: opts.Notifier,
		logger:   logger.With("component", "payment_service"),
		clock:    clock,
	}
}

// ListByJob returns a job's payments. Visible to the owning client, the
// assigned worker, and admins.
func (s *PaymentService) ListByJob(ctx context.Context, act actor.Actor, jobID string) ([]*model.Payment, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !s.canViewPayments(job, act) {
		return nil, apperrors.Denied(string(lifecycle.ReasonNotOwner), lifecycle.ReasonNotOwner.Message())
	}
	return s.payments.ListByJob(ctx, jobID)
}

func (s *PaymentService) canViewPayments(job *model.Job, act actor.Actor) bool {
	if act.IsAdmin() {
		return true
	}
	if act.Role == actor.RoleClient && job.ClientID == act.ID {
		return true
	}
	return act.Role == actor.RoleWorker && job.AssignedTo(act.ID)
}

// PaymentTransitionParams groups the arguments for a requested payment transition.
type PaymentTransitionParams struct {
	// JobID is the parent job from the route when present; it must match the
	// payment's own job.
	JobID      string
	PaymentID  string
	Transition lifecycle.Transition
	// Proof carries the uploaded evidence for attach-proof.
	Proof *model.AttachProofRequest
	// Approve carries the reviewer's verdict for payment-review.
	Approve bool
}

// Transition validates and applies a payment lifecycle transition on behalf of
// the actor.
func (s *PaymentService) Transition(ctx context.Context, act actor.Actor, params PaymentTransitionParams) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, params.PaymentID)
	if err != nil {
		return nil, err
	}
	if params.JobID != "" && payment.JobID != params.JobID {
		return nil, apperrors.NotFoundf("payment %s not found for job %s", params.PaymentID, params.JobID)
	}

	job, err := s.jobs.GetByID(ctx, payment.JobID)
	if err != nil {
		return nil, err
	}

	if params.Transition == lifecycle.PaymentAttachProof {
		if params.Proof == nil {
			return nil, apperrors.Validation("payment proof is required")
		}
		if validateErr := params.Proof.Validate(); validateErr != nil {
			return nil, apperrors.Validation(validateErr.Error())
		}
	}

	decision := lifecycle.ForPayment(lifecycle.PaymentInput{
		Payment:    payment,
		Job:        job,
		Actor:      act,
		Transition: params.Transition,
		Approve:    params.Approve,
	})
	if !decision.Allowed {
		return nil, apperrors.Denied(string(decision.Reason), decision.Reason.Message())
	}

	update := core.UpdatePaymentStateParams{
		PaymentID: payment.ID,
		Version:   payment.Version,
		Status:    decision.Payment.Status,
	}
	if decision.Payment.SetProof {
		update.SetProof = true
		update.ProofImage = &params.Proof.Image
		if params.Proof.Note != "" {
			update.ProofNote = &params.Proof.Note
		}
	}

	updated, err := s.payments.UpdateState(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("apply payment transition %s: %w", params.Transition, err)
	}

	s.logger.InfoContext(ctx, "payment transition applied",
		"payment_id", updated.ID, "transition", params.Transition, "status", updated.Status)
	s.notifyUpdate(ctx, job, updated)
	return updated, nil
}

func (s *PaymentService) notifyUpdate(ctx context.Context, job *model.Job, payment *model.Payment) {
	if s.notifier == nil {
		return
	}
	var recipient string
	if job.WorkerID != nil {
		recipient = *job.WorkerID
	}
	s.notifier.Publish(ctx, model.Notification{
		Kind:        model.NotificationPaymentUpdated,
		JobID:       job.ID,
		EntityID:    payment.ID,
		RecipientID: recipient,
		Message:     fmt.Sprintf("The payment for %q is now %s.", job.Title, payment.Status),
		OccurredAt:  s.clock.Now().UTC(),
	})
}
