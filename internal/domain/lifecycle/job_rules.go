package lifecycle

import (
	"time"

	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

// Progress floor/ceiling for work in flight. Work that has started is at least
// minActiveProgress; only submit-work may reach 100.
const (
	minActiveProgress = 10
	maxActiveProgress = 99
)

// JobInput groups the arguments for a job transition decision.
type JobInput struct {
	Job        *model.Job
	Actor      actor.Actor
	Transition Transition
	// Progress is the worker-requested progress percentage; clamped into the
	// valid band for the target status. Ignored by client transitions.
	Progress int
	Now      time.Time
}

// ForJob decides a job transition. It never mutates the snapshot.
func ForJob(in JobInput) Decision {
	job := in.Job
	if job.Status.Terminal() {
		return deny(ReasonWrongState)
	}

	switch in.Transition {
	case JobAcceptAssignment:
		return jobAcceptAssignment(job, in.Actor)
	case JobDeclineAssignment:
		return jobDeclineAssignment(job, in.Actor)
	case JobStartWork:
		return jobStartWork(job, in.Actor, in.Progress)
	case JobUpdateProgress:
		return jobUpdateProgress(job, in.Actor, in.Progress)
	case JobSubmitWork:
		return jobSubmitWork(job, in.Actor)
	case JobResumeWork:
		return jobResumeWork(job, in.Actor)
	case JobRequestRevision:
		return jobRequestRevision(job, in.Actor)
	case JobComplete:
		return jobComplete(job, in.Actor)
	case JobCancel:
		return jobCancel(job, in.Actor)
	}
	return deny(ReasonUnknownTransition)
}

// owningClient reports whether the actor may act as this job's client.
// Admins pass every client guard.
func owningClient(job *model.Job, act actor.Actor) bool {
	if act.IsAdmin() {
		return true
	}
	return act.Role == actor.RoleClient && job.ClientID == act.ID
}

// assignedWorker reports whether the actor is the currently assigned worker.
// Admins do not act as workers.
func assignedWorker(job *model.Job, act actor.Actor) bool {
	return act.Role == actor.RoleWorker && job.AssignedTo(act.ID)
}

func jobAcceptAssignment(job *model.Job, act actor.Actor) Decision {
	if !assignedWorker(job, act) {
		return deny(ReasonNotAssignedWorker)
	}
	if job.Status != model.JobStatusAssigned || job.WorkerAcceptance != model.WorkerAcceptancePending {
		return deny(ReasonWrongState)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusAssigned,
		WorkerAcceptance: model.WorkerAcceptanceAccepted,
		Progress:         0,
	})
}

func jobDeclineAssignment(job *model.Job, act actor.Actor) Decision {
	if !assignedWorker(job, act) {
		return deny(ReasonNotAssignedWorker)
	}
	if job.Status != model.JobStatusAssigned || job.WorkerAcceptance != model.WorkerAcceptancePending {
		return deny(ReasonWrongState)
	}
	// Declining reopens the job for applications.
	return allowJob(JobNext{
		Status:           model.JobStatusPosted,
		WorkerAcceptance: model.WorkerAcceptancePending,
		Progress:         0,
		ClearWorker:      true,
	})
}

func jobStartWork(job *model.Job, act actor.Actor, progress int) Decision {
	if !assignedWorker(job, act) {
		return deny(ReasonNotAssignedWorker)
	}
	if job.Status != model.JobStatusAssigned {
		return deny(ReasonWrongState)
	}
	if job.WorkerAcceptance != model.WorkerAcceptanceAccepted {
		return deny(ReasonWorkerNotAccepted)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusInProgress,
		WorkerAcceptance: model.WorkerAcceptanceAccepted,
		Progress:         clampProgress(progress),
	})
}

func jobUpdateProgress(job *model.Job, act actor.Actor, progress int) Decision {
	if !assignedWorker(job, act) {
		return deny(ReasonNotAssignedWorker)
	}
	if job.Status != model.JobStatusInProgress {
		return deny(ReasonWrongState)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusInProgress,
		WorkerAcceptance: job.WorkerAcceptance,
		Progress:         clampProgress(progress),
	})
}

func jobSubmitWork(job *model.Job, act actor.Actor) Decision {
	if !assignedWorker(job, act) {
		return deny(ReasonNotAssignedWorker)
	}
	if job.Status != model.JobStatusInProgress {
		return deny(ReasonWrongState)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusSubmitted,
		WorkerAcceptance: job.WorkerAcceptance,
		Progress:         100,
	})
}

func jobResumeWork(job *model.Job, act actor.Actor) Decision {
	if !assignedWorker(job, act) {
		return deny(ReasonNotAssignedWorker)
	}
	if job.Status != model.JobStatusRevisionRequested {
		return deny(ReasonWrongState)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusInProgress,
		WorkerAcceptance: job.WorkerAcceptance,
		Progress:         clampProgress(job.Progress),
	})
}

func jobRequestRevision(job *model.Job, act actor.Actor) Decision {
	if !owningClient(job, act) {
		return deny(ReasonNotOwner)
	}
	if job.Status != model.JobStatusSubmitted {
		return deny(ReasonWrongState)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusRevisionRequested,
		WorkerAcceptance: job.WorkerAcceptance,
		Progress:         job.Progress,
	})
}

func jobComplete(job *model.Job, act actor.Actor) Decision {
	if !owningClient(job, act) {
		return deny(ReasonNotOwner)
	}
	if job.Status != model.JobStatusSubmitted {
		return deny(ReasonWrongState)
	}
	return allowJob(JobNext{
		Status:           model.JobStatusCompleted,
		WorkerAcceptance: job.WorkerAcceptance,
		Progress:         100,
	})
}

func jobCancel(job *model.Job, act actor.Actor) Decision {
	if !owningClient(job, act) {
		return deny(ReasonNotOwner)
	}
	// Submitted work awaits review and cannot be cancelled out from under the
	// worker; the client must complete or request a revision first.
	switch job.Status {
	case model.JobStatusPosted, model.JobStatusAssigned, model.JobStatusInProgress, model.JobStatusRevisionRequested:
		return allowJob(JobNext{
			Status:           model.JobStatusCancelled,
			WorkerAcceptance: job.WorkerAcceptance,
			Progress:         job.Progress,
		})
	}
	return deny(ReasonWrongState)
}

func clampProgress(p int) int {
	if p < minActiveProgress {
		return minActiveProgress
	}
	if p > maxActiveProgress {
		return maxActiveProgress
	}
	return p
}
