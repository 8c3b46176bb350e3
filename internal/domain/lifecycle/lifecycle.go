// Package lifecycle is the transition validator for jobs, applications, and
// payments: pure decision functions with no side effects.
//
// Job status graph:
//
//	posted ──► assigned ──► in_progress ──► submitted ──► completed
//	   ▲           │             ▲              │
//	   └───────────┘ (decline)   └──────────────┘ (revision)
//
// Application status graph:
//
//	pending ──► reviewed ──► shortlisted ──► accepted
//	    │           │             │     └──► rejected
//	    └───────────┴─────────────┴────────► withdrawn
//
// completed/cancelled jobs and accepted/rejected/withdrawn applications are
// terminal. The current time is injected by the caller so deadline rules stay
// deterministic under test.
package lifecycle

import (
	"github.com/belimuno/workhub/internal/domain/model"
)

// Transition is the name of a requested, validated status change.
type Transition string

const (
	JobAcceptAssignment  Transition = "accept-assignment"
	JobDeclineAssignment Transition = "decline-assignment"
	JobStartWork         Transition = "start-work"
	JobUpdateProgress    Transition = "update-progress"
	JobSubmitWork        Transition = "submit-work"
	JobResumeWork        Transition = "resume-work"
	JobRequestRevision   Transition = "request-revision"
	JobComplete          Transition = "complete"
	JobCancel            Transition = "cancel"

	ApplicationReview      Transition = "review"
	ApplicationShortlist   Transition = "shortlist"
	ApplicationUnshortlist Transition = "unshortlist"
	ApplicationAccept      Transition = "accept"
	ApplicationReject      Transition = "reject"
	ApplicationWithdraw    Transition = "withdraw"

	PaymentAttachProof Transition = "attach-proof"
	PaymentReview      Transition = "payment-review"
	PaymentCancel      Transition = "payment-cancel"
	PaymentRefund      Transition = "payment-refund"
)

// Reason is a machine-readable denial code, echoed to clients so the UI can
// render a precise restriction message.
type Reason string

const (
	// ReasonWrongState denies a transition the current status does not permit.
	ReasonWrongState Reason = "wrong-state"
	// ReasonNotOwner denies a client action by anyone but the owning client.
	ReasonNotOwner Reason = "not-owner"
	// ReasonNotAssignedWorker denies a worker action by anyone but the assigned worker.
	ReasonNotAssignedWorker Reason = "not-assigned-worker"
	// ReasonJobNotPostable denies application moderation once the parent job left posted.
	ReasonJobNotPostable Reason = "job-not-postable"
	// ReasonJobExpired denies application moderation after the parent job's deadline.
	ReasonJobExpired Reason = "job-expired"
	// ReasonAlreadyAccepted denies accepting a second application for the same job.
	ReasonAlreadyAccepted Reason = "already-accepted"
	// ReasonWorkerNotAccepted denies starting work before the worker accepted the assignment.
	ReasonWorkerNotAccepted Reason = "worker-not-accepted"
	// ReasonUnknownTransition denies a transition name the entity does not define.
	ReasonUnknownTransition Reason = "unknown-transition"
)

// Message returns the user-facing restriction message for a denial reason.
func (r Reason) Message() string {
	switch r {
	case ReasonWrongState:
		return "The current status does not allow this action."
	case ReasonNotOwner:
		return "Only the client who posted this job can do this."
	case ReasonNotAssignedWorker:
		return "Only the assigned worker can do this."
	case ReasonJobNotPostable:
		return "Applications can only be managed while the job is posted."
	case ReasonJobExpired:
		return "The application deadline for this job has passed."
	case ReasonAlreadyAccepted:
		return "Another application has already been accepted for this job."
	case ReasonWorkerNotAccepted:
		return "The worker has not accepted this assignment yet."
	case ReasonUnknownTransition:
		return "Unknown action."
	}
	return "This action is not allowed."
}

// JobNext is the job state an allowed transition produces.
type JobNext struct {
	Status           model.JobStatus
	WorkerAcceptance model.WorkerAcceptance
	Progress         int
	// ClearWorker resets the assignment (decline-assignment only).
	ClearWorker bool
}

// ApplicationNext is the application state an allowed transition produces.
type ApplicationNext struct {
	Status model.ApplicationStatus
	// AssignJob moves the parent job to assigned with this application's
	// worker and rejects all competing applications (accept only).
	AssignJob bool
	// Idempotent marks an accept replayed against an already-accepted
	// application: nothing to persist, return the current state.
	Idempotent bool
}

// PaymentNext is the payment state an allowed transition produces.
type PaymentNext struct {
	Status model.PaymentStatus
	// SetProof attaches the uploaded evidence alongside the status change.
	SetProof bool
}

// Decision is the validator outcome: either Allowed with the resulting state,
// or Denied with a reason code. Business-rule denials are values, never errors.
type Decision struct {
	Allowed     bool
	Reason      Reason
	Job         *JobNext
	Application *ApplicationNext
	Payment     *PaymentNext
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

func allowJob(next JobNext) Decision {
	return Decision{Allowed: true, Job: &next}
}

func allowApplication(next ApplicationNext) Decision {
	return Decision{Allowed: true, Application: &next}
}

func allowPayment(next PaymentNext) Decision {
	return Decision{Allowed: true, Payment: &next}
}
