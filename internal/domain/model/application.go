package model

import (
	"errors"
	"strings"
	"time"
)

// ApplicationStatus represents the current status of a worker's application.
type ApplicationStatus string

const (
	// ApplicationStatusPending indicates the application awaits client review.
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusReviewed indicates the client has looked at the proposal.
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	// ApplicationStatusShortlisted indicates the client marked the application as a candidate.
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	// ApplicationStatusAccepted indicates the client selected this application; the job is assigned.
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	// ApplicationStatusRejected indicates the client declined the application.
	ApplicationStatusRejected ApplicationStatus = "rejected"
	// ApplicationStatusWithdrawn indicates the worker retracted the application.
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// Valid returns true if the ApplicationStatus is valid.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// Terminal returns true once the application can no longer change status.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// Application represents a worker's proposal against a posted job.
// Exactly one application may exist per (job, worker) pair.
type Application struct {
	ID             string            `json:"id"              db:"id"`
	JobID          string            `json:"job_id"          db:"job_id"`
	WorkerID       string            `json:"worker_id"       db:"worker_id"`
	Proposal       string            `json:"proposal"        db:"proposal"`
	ProposedBudget float64           `json:"proposed_budget" db:"proposed_budget"`
	Status         ApplicationStatus `json:"status"          db:"status"`
	Version        int               `json:"version"         db:"version"`
	AppliedAt      time.Time         `json:"applied_at"      db:"applied_at"`
	UpdatedAt      time.Time         `json:"updated_at"      db:"updated_at"`
}

// CreateApplicationRequest represents a worker applying to a job.
// JobID and WorkerID are filled in from the route and the authenticated actor.
type CreateApplicationRequest struct {
	Proposal       string  `json:"proposal"`
	ProposedBudget float64 `json:"proposed_budget"`
	JobID          string  `json:"-"`
	WorkerID       string  `json:"-"`
}

// Validate validates the CreateApplicationRequest fields.
func (r *CreateApplicationRequest) Validate() error {
	if strings.TrimSpace(r.Proposal) == "" {
		return errors.New("proposal is required")
	}
	if r.ProposedBudget <= 0 {
		return errors.New("proposed budget must be positive")
	}
	if r.JobID == "" {
		return errors.New("job id is required")
	}
	if r.WorkerID == "" {
		return errors.New("worker id is required")
	}
	return nil
}
