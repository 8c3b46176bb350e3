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

// defaultCurrency is applied to payments created at job completion.
const defaultCurrency = "ETB"

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo     core.JobRepository
	Notifier core.Notifier
	Logger   *slog.Logger
	Clock    Clock
}

// JobService orchestrates job lifecycle operations: posting, worker response,
// progress, submission, review, and completion. Every transition goes through
// the lifecycle validator before touching storage.
type JobService struct {
	repo     core.JobRepository
	notifier core.Notifier
	logger   *slog.Logger
	clock    Clock
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	if opts.Repo == nil {
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
	return &JobService{
		repo:     opts.Repo,
		notifier: opts.Notifier,
		logger:   logger.With("component", "job_service"),
		clock:    clock,
	}
}

// Create posts a new job on behalf of the acting client.
func (s *JobService) Create(ctx context.Context, act actor.Actor, req *model.CreateJobRequest) (*model.Job, error) {
	if act.Role != actor.RoleClient && !act.IsAdmin() {
		return nil, apperrors.Denied(string(lifecycle.ReasonNotOwner), "Only clients can post jobs.")
	}
	req.ClientID = act.ID

	job, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.InfoContext(ctx, "job posted", "job_id", job.ID, "client_id", job.ClientID)
	s.notify(ctx, model.Notification{
		Kind:       model.NotificationJobPosted,
		JobID:      job.ID,
		EntityID:   job.ID,
		Message:    "A new job was posted: " + job.Title,
		OccurredAt: s.clock.Now().UTC(),
	})
	return job, nil
}

// GetByID retrieves a job by ID.
func (s *JobService) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves jobs matching the given filters.
func (s *JobService) List(ctx context.Context, opts *model.JobListOptions) ([]*model.Job, error) {
	return s.repo.List(ctx, opts)
}

// Stats returns job counts per lifecycle status.
func (s *JobService) Stats(ctx context.Context) (*model.JobStats, error) {
	return s.repo.Stats(ctx)
}

// TransitionParams groups the arguments for a requested job transition.
type TransitionParams struct {
	JobID      string
	Transition lifecycle.Transition
	// Progress is the worker-requested percentage for start-work and
	// update-progress; ignored elsewhere.
	Progress int
}

// Transition validates and applies a job lifecycle transition on behalf of the
// actor. Completing a job also creates its payment row in the same transaction.
func (s *JobService) Transition(ctx context.Context, act actor.Actor, params TransitionParams) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	decision := lifecycle.ForJob(lifecycle.JobInput{
		Job:        job,
		Actor:      act,
		Transition: params.Transition,
		Progress:   params.Progress,
		Now:        s.clock.Now(),
	})
	if !decision.Allowed {
		return nil, apperrors.Denied(string(decision.Reason), decision.Reason.Message())
	}

	if params.Transition == lifecycle.JobComplete {
		return s.complete(ctx, job)
	}

	updated, err := s.repo.UpdateState(ctx, core.UpdateJobStateParams{
		JobID:            job.ID,
		Version:          job.Version,
		Status:           decision.Job.Status,
		WorkerAcceptance: decision.Job.WorkerAcceptance,
		Progress:         decision.Job.Progress,
		ClearWorker:      decision.Job.ClearWorker,
	})
	if err != nil {
		return nil, fmt.Errorf("apply job transition %s: %w", params.Transition, err)
	}

	s.logger.InfoContext(ctx, "job transition applied",
		"job_id", updated.ID, "transition", params.Transition, "status", updated.Status)
	s.notifyStatusChange(ctx, updated, params.Transition)
	return updated, nil
}

// complete marks the job completed and opens its payment atomically. The
// payment amount is the job budget; refinements happen at payment review.
func (s *JobService) complete(ctx context.Context, job *model.Job) (*model.Job, error) {
	updated, payment, err := s.repo.CompleteWithPayment(ctx, core.CompleteJobParams{
		JobID:    job.ID,
		Version:  job.Version,
		Amount:   job.Budget,
		Currency: defaultCurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}

	s.logger.InfoContext(ctx, "job completed",
		"job_id", updated.ID, "payment_id", payment.ID, "amount", payment.Amount)
	s.notifyStatusChange(ctx, updated, lifecycle.JobComplete)
	s.notify(ctx, model.Notification{
		Kind:       model.NotificationPaymentCreated,
		JobID:      updated.ID,
		EntityID:   payment.ID,
		Message:    "A payment is due for the completed job.",
		OccurredAt: s.clock.Now().UTC(),
	})
	return updated, nil
}

func (s *JobService) notifyStatusChange(ctx context.Context, job *model.Job, tr lifecycle.Transition) {
	kind := model.NotificationJobStatusChanged
	if tr == lifecycle.JobCancel {
		kind = model.NotificationJobCancelled
	}
	var recipient string
	if job.WorkerID != nil {
		recipient = *job.WorkerID
	}
	s.notify(ctx, model.Notification{
		Kind:        kind,
		JobID:       job.ID,
		EntityID:    job.ID,
		RecipientID: recipient,
		Message:     fmt.Sprintf("Job %q is now %s.", job.Title, job.Status),
		OccurredAt:  s.clock.Now().UTC(),
	})
}

func (s *JobService) notify(ctx context.Context, n model.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, n)
}
