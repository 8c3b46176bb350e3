package lifecycle

import (
	"time"

	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

// ApplicationInput groups the arguments for an application transition decision.
type ApplicationInput struct {
	Application *model.Application
	// Job is the parent job snapshot; shortlist and accept rules depend on its
	// status and deadline.
	Job        *model.Job
	Actor      actor.Actor
	Transition Transition
	// SiblingAccepted reports whether another application on the same job is
	// already accepted. Supplied by the caller so the validator stays pure.
	SiblingAccepted bool
	Now             time.Time
}

// ForApplication decides an application transition. It never mutates the snapshots.
func ForApplication(in ApplicationInput) Decision {
	switch in.Transition {
	case ApplicationReview:
		return applicationReview(in)
	case ApplicationShortlist:
		return applicationShortlist(in)
	case ApplicationUnshortlist:
		return applicationUnshortlist(in)
	case ApplicationAccept:
		return applicationAccept(in)
	case ApplicationReject:
		return applicationReject(in)
	case ApplicationWithdraw:
		return applicationWithdraw(in)
	}
	return deny(ReasonUnknownTransition)
}

// moderatable reports whether the application is still awaiting a client
// decision. reviewed sits between pending and shortlisted, so moderation
// actions treat it like pending.
func moderatable(s model.ApplicationStatus) bool {
	return s == model.ApplicationStatusPending ||
		s == model.ApplicationStatusReviewed ||
		s == model.ApplicationStatusShortlisted
}

func applicationReview(in ApplicationInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	if in.Application.Status != model.ApplicationStatusPending {
		return deny(ReasonWrongState)
	}
	return allowApplication(ApplicationNext{Status: model.ApplicationStatusReviewed})
}

func applicationShortlist(in ApplicationInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	// Status is checked before the deadline so callers can render the precise
	// restriction: a filled job is "not postable" even when it is also expired.
	if in.Job.Status != model.JobStatusPosted {
		return deny(ReasonJobNotPostable)
	}
	if !in.Job.OpenAt(in.Now) {
		return deny(ReasonJobExpired)
	}
	switch in.Application.Status {
	case model.ApplicationStatusPending, model.ApplicationStatusReviewed:
		return allowApplication(ApplicationNext{Status: model.ApplicationStatusShortlisted})
	}
	return deny(ReasonWrongState)
}

func applicationUnshortlist(in ApplicationInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	if in.Application.Status != model.ApplicationStatusShortlisted {
		return deny(ReasonWrongState)
	}
	return allowApplication(ApplicationNext{Status: model.ApplicationStatusPending})
}

func applicationAccept(in ApplicationInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	// Accepting twice is a no-op, not an error: return the accepted state.
	if in.Application.Status == model.ApplicationStatusAccepted {
		return allowApplication(ApplicationNext{
			Status:     model.ApplicationStatusAccepted,
			Idempotent: true,
		})
	}
	if !moderatable(in.Application.Status) {
		return deny(ReasonWrongState)
	}
	if in.SiblingAccepted {
		return deny(ReasonAlreadyAccepted)
	}
	if in.Job.Status != model.JobStatusPosted {
		return deny(ReasonJobNotPostable)
	}
	return allowApplication(ApplicationNext{
		Status:    model.ApplicationStatusAccepted,
		AssignJob: true,
	})
}

func applicationReject(in ApplicationInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	if !moderatable(in.Application.Status) {
		return deny(ReasonWrongState)
	}
	return allowApplication(ApplicationNext{Status: model.ApplicationStatusRejected})
}

func applicationWithdraw(in ApplicationInput) Decision {
	if in.Actor.Role != actor.RoleWorker || in.Application.WorkerID != in.Actor.ID {
		return deny(ReasonNotAssignedWorker)
	}
	if !moderatable(in.Application.Status) {
		return deny(ReasonWrongState)
	}
	return allowApplication(ApplicationNext{Status: model.ApplicationStatusWithdrawn})
}
