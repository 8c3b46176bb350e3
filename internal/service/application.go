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

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repos    ApplicationRepos
	Notifier core.Notifier
	Logger   *slog.Logger
	Clock    Clock
}

// ApplicationRepos groups the repositories ApplicationService orchestrates.
type ApplicationRepos struct {
	Applications core.ApplicationRepository
	Jobs         core.JobRepository
}

// ApplicationService orchestrates the application workflow: workers apply,
// clients moderate, and accepting one application assigns the job while
// rejecting the rest.
type ApplicationService struct {
	apps     core.ApplicationRepository
	jobs     core.JobRepository
	notifier core.Notifier
	logger   *slog.Logger
	clock    Clock
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	if opts.Repos.Applications == nil {
		panic("ApplicationRepository is required")
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
	return &ApplicationService{
		apps:     opts.Repos.Applications,
		jobs:     opts.Repos.Jobs,
		notifier: opts.Notifier,
		logger:   logger.With("component", "application_service"),
		clock:    clock,
	}
}

// Apply files a worker's application against a posted job. The job must still
// be open for applications; a second application by the same worker surfaces
// as a Conflict from the unique constraint.
func (s *ApplicationService) Apply(ctx context.Context, act actor.Actor, req *model.CreateApplicationRequest) (*model.Application, error) {
	if act.Role != actor.RoleWorker {
		return nil, apperrors.Denied(string(lifecycle.ReasonNotAssignedWorker), "Only workers can apply to jobs.")
	}
	req.WorkerID = act.ID

	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusPosted {
		return nil, apperrors.Denied(string(lifecycle.ReasonJobNotPostable), lifecycle.ReasonJobNotPostable.Message())
	}
	if !job.OpenAt(s.clock.Now()) {
		return nil, apperrors.Denied(string(lifecycle.ReasonJobExpired), lifecycle.ReasonJobExpired.Message())
	}

	app, err := s.apps.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.logger.InfoContext(ctx, "application filed",
		"application_id", app.ID, "job_id", app.JobID, "worker_id", app.WorkerID)
	s.notify(ctx, model.Notification{
		Kind:        model.NotificationApplicationCreated,
		JobID:       job.ID,
		EntityID:    app.ID,
		RecipientID: job.ClientID,
		Message:     "A new application was filed for " + job.Title + ".",
		OccurredAt:  s.clock.Now().UTC(),
	})
	return app, nil
}

// GetByID retrieves an application by ID.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return s.apps.GetByID(ctx, id)
}

// ListByJob returns a job's applications. Only the owning client or an admin
// may see them.
func (s *ApplicationService) ListByJob(ctx context.Context, act actor.Actor, jobID string) ([]*model.Application, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !act.IsAdmin() && (act.Role != actor.RoleClient || job.ClientID != act.ID) {
		return nil, apperrors.Denied(string(lifecycle.ReasonNotOwner), lifecycle.ReasonNotOwner.Message())
	}
	return s.apps.ListByJob(ctx, jobID)
}

// ListByWorker returns the acting worker's own applications.
func (s *ApplicationService) ListByWorker(ctx context.Context, act actor.Actor) ([]*model.Application, error) {
	return s.apps.ListByWorker(ctx, act.ID)
}

// ApplicationTransitionParams groups the arguments for a requested application transition.
type ApplicationTransitionParams struct {
	// JobID is the parent job from the route; it must match the application's
	// own job or the request targets the wrong resource.
	JobID         string
	ApplicationID string
	Transition    lifecycle.Transition
}

// Transition validates and applies an application lifecycle transition on
// behalf of the actor. Accepting cascades: competitors are rejected and the
// job moves to assigned in one transaction.
func (s *ApplicationService) Transition(ctx context.Context, act actor.Actor, params ApplicationTransitionParams) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, params.ApplicationID)
	if err != nil {
		return nil, err
	}
	if params.JobID != "" && app.JobID != params.JobID {
		return nil, apperrors.NotFoundf("application %s not found for job %s", params.ApplicationID, params.JobID)
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	siblingAccepted := false
	if params.Transition == lifecycle.ApplicationAccept {
		siblingAccepted, err = s.apps.HasAccepted(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("check accepted applications: %w", err)
		}
		// The application under accept does not count as its own sibling.
		if app.Status == model.ApplicationStatusAccepted {
			siblingAccepted = false
		}
	}

	decision := lifecycle.ForApplication(lifecycle.ApplicationInput{
		Application:     app,
		Job:             job,
		Actor:           act,
		Transition:      params.Transition,
		SiblingAccepted: siblingAccepted,
		Now:             s.clock.Now(),
	})
	if !decision.Allowed {
		return nil, apperrors.Denied(string(decision.Reason), decision.Reason.Message())
	}
	if decision.Application.Idempotent {
		return app, nil
	}

	var updated *model.Application
	if decision.Application.AssignJob {
		updated, err = s.apps.AcceptAndAssign(ctx, core.AcceptApplicationParams{
			ApplicationID: app.ID,
			Version:       app.Version,
			JobID:         job.ID,
			JobVersion:    job.Version,
			WorkerID:      app.WorkerID,
		})
		if err != nil {
			return nil, fmt.Errorf("accept application: %w", err)
		}
		s.notify(ctx, model.Notification{
			Kind:        model.NotificationJobAssigned,
			JobID:       job.ID,
			EntityID:    updated.ID,
			RecipientID: updated.WorkerID,
			Message:     "Your application was accepted. The job is awaiting your confirmation.",
			OccurredAt:  s.clock.Now().UTC(),
		})
	} else {
		updated, err = s.apps.UpdateStatus(ctx, core.UpdateApplicationStatusParams{
			ApplicationID: app.ID,
			Version:       app.Version,
			Status:        decision.Application.Status,
		})
		if err != nil {
			return nil, fmt.Errorf("apply application transition %s: %w", params.Transition, err)
		}
		s.notify(ctx, model.Notification{
			Kind:        model.NotificationApplicationUpdated,
			JobID:       job.ID,
			EntityID:    updated.ID,
			RecipientID: updated.WorkerID,
			Message:     fmt.Sprintf("Your application for %q is now %s.", job.Title, updated.Status),
			OccurredAt:  s.clock.Now().UTC(),
		})
	}

	s.logger.InfoContext(ctx, "application transition applied",
		"application_id", updated.ID, "transition", params.Transition, "status", updated.Status)
	return updated, nil
}

func (s *ApplicationService) notify(ctx context.Context, n model.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, n)
}
