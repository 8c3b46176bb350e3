// Package model defines the core data types and structures used throughout the workhub marketplace.
package model

import (
	"errors"
	"strings"
	"time"
)

// JobStatus represents the current lifecycle status of a job.
type JobStatus string

// WorkerAcceptance represents the assigned worker's response to an assignment.
type WorkerAcceptance string

const (
	// JobStatusPosted indicates a job is open for applications.
	JobStatusPosted JobStatus = "posted"
	// JobStatusAssigned indicates a worker has been selected but has not started.
	JobStatusAssigned JobStatus = "assigned"
	// JobStatusInProgress indicates the assigned worker is actively working.
	JobStatusInProgress JobStatus = "in_progress"
	// JobStatusSubmitted indicates the worker delivered the work for client review.
	JobStatusSubmitted JobStatus = "submitted"
	// JobStatusRevisionRequested indicates the client sent submitted work back for changes.
	JobStatusRevisionRequested JobStatus = "revision_requested"
	// JobStatusCompleted indicates the client accepted the delivered work.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCancelled indicates the job was withdrawn before completion.
	JobStatusCancelled JobStatus = "cancelled"

	// WorkerAcceptancePending indicates the assigned worker has not yet responded.
	WorkerAcceptancePending WorkerAcceptance = "pending"
	// WorkerAcceptanceAccepted indicates the assigned worker accepted the assignment.
	WorkerAcceptanceAccepted WorkerAcceptance = "accepted"
	// WorkerAcceptanceDeclined indicates the assigned worker declined the assignment.
	WorkerAcceptanceDeclined WorkerAcceptance = "declined"
)

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPosted, JobStatusAssigned, JobStatusInProgress, JobStatusSubmitted,
		JobStatusRevisionRequested, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Terminal returns true when no further transitions can leave this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// Valid returns true if the WorkerAcceptance is valid.
func (a WorkerAcceptance) Valid() bool {
	return a == WorkerAcceptancePending || a == WorkerAcceptanceAccepted || a == WorkerAcceptanceDeclined
}

// Job represents a unit of work posted by a client.
//
// Version is an optimistic concurrency counter: every state write compares and
// increments it, so concurrent transitions against the same job surface as
// conflicts instead of lost updates.
type Job struct {
	ID               string           `json:"id"                  db:"id"`
	Title            string           `json:"title"               db:"title"`
	Description      string           `json:"description"         db:"description"`
	Category         string           `json:"category"            db:"category"`
	Budget           float64          `json:"budget"              db:"budget"`
	Deadline         time.Time        `json:"deadline"            db:"deadline"`
	Status           JobStatus        `json:"status"              db:"status"`
	ClientID         string           `json:"client_id"           db:"client_id"`
	WorkerID         *string          `json:"worker_id,omitempty" db:"worker_id"`
	WorkerAcceptance WorkerAcceptance `json:"worker_acceptance"   db:"worker_acceptance"`
	Progress         int              `json:"progress"            db:"progress"`
	Version          int              `json:"version"             db:"version"`
	CreatedAt        time.Time        `json:"created_at"          db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"          db:"updated_at"`
}

// OpenAt reports whether the job deadline has not passed at the given instant.
// A job expiring exactly at now is still open (inclusive deadline).
func (j *Job) OpenAt(now time.Time) bool {
	return !now.After(j.Deadline)
}

// AssignedTo reports whether workerID is the currently assigned worker.
func (j *Job) AssignedTo(workerID string) bool {
	return j.WorkerID != nil && *j.WorkerID == workerID
}

// CreateJobRequest represents a request to post a new job.
// ClientID is filled in from the authenticated actor, not the request body.
type CreateJobRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Budget      float64   `json:"budget"`
	Deadline    time.Time `json:"deadline"`
	ClientID    string    `json:"-"`
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if r.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	if r.Deadline.IsZero() {
		return errors.New("deadline is required")
	}
	if r.ClientID == "" {
		return errors.New("client id is required")
	}
	return nil
}

// JobListOptions holds optional filters for listing jobs.
type JobListOptions struct {
	Status   *JobStatus
	ClientID *string
	WorkerID *string
	Limit    int
	Offset   int
}

// JobStats represents counts of jobs per lifecycle status.
type JobStats struct {
	Posted            int `json:"posted"`
	Assigned          int `json:"assigned"`
	InProgress        int `json:"in_progress"`
	Submitted         int `json:"submitted"`
	RevisionRequested int `json:"revision_requested"`
	Completed         int `json:"completed"`
	Cancelled         int `json:"cancelled"`
}
