package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testJob(status model.JobStatus, mods ...func(*model.Job)) *model.Job {
	j := &model.Job{
		ID:               "job-1",
		Title:            "Install shelving",
		Status:           status,
		ClientID:         "client-1",
		WorkerAcceptance: model.WorkerAcceptancePending,
		Deadline:         testNow.Add(72 * time.Hour),
		Version:          3,
	}
	if status != model.JobStatusPosted {
		j.WorkerID = strPtr("worker-1")
	}
	for _, mod := range mods {
		mod(j)
	}
	return j
}

func accepted(j *model.Job) { j.WorkerAcceptance = model.WorkerAcceptanceAccepted }

var (
	theClient = actor.Actor{ID: "client-1", Role: actor.RoleClient}
	theWorker = actor.Actor{ID: "worker-1", Role: actor.RoleWorker}
	otherUser = actor.Actor{ID: "someone-else", Role: actor.RoleWorker}
	admin     = actor.Actor{ID: "admin-1", Role: actor.RoleAdmin}
)

func TestForJob_AcceptAssignment(t *testing.T) {
	tests := []struct {
		name    string
		job     *model.Job
		actor   actor.Actor
		allowed bool
		reason  Reason
	}{
		{
			name:    "assigned worker accepts pending assignment",
			job:     testJob(model.JobStatusAssigned),
			actor:   theWorker,
			allowed: true,
		},
		{
			name:   "other worker denied",
			job:    testJob(model.JobStatusAssigned),
			actor:  otherUser,
			reason: ReasonNotAssignedWorker,
		},
		{
			name:   "admin does not pass worker guard",
			job:    testJob(model.JobStatusAssigned),
			actor:  admin,
			reason: ReasonNotAssignedWorker,
		},
		{
			name:   "already accepted",
			job:    testJob(model.JobStatusAssigned, accepted),
			actor:  theWorker,
			reason: ReasonWrongState,
		},
		{
			name:   "not assigned yet",
			job:    testJob(model.JobStatusPosted, func(j *model.Job) { j.WorkerID = strPtr("worker-1") }),
			actor:  theWorker,
			reason: ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForJob(JobInput{Job: tt.job, Actor: tt.actor, Transition: JobAcceptAssignment, Now: testNow})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				require.NotNil(t, d.Job)
				assert.Equal(t, model.JobStatusAssigned, d.Job.Status)
				assert.Equal(t, model.WorkerAcceptanceAccepted, d.Job.WorkerAcceptance)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForJob_DeclineAssignmentReopensJob(t *testing.T) {
	d := ForJob(JobInput{
		Job:        testJob(model.JobStatusAssigned),
		Actor:      theWorker,
		Transition: JobDeclineAssignment,
		Now:        testNow,
	})

	require.True(t, d.Allowed)
	require.NotNil(t, d.Job)
	assert.Equal(t, model.JobStatusPosted, d.Job.Status)
	assert.True(t, d.Job.ClearWorker)
	assert.Equal(t, 0, d.Job.Progress)
	assert.Equal(t, model.WorkerAcceptancePending, d.Job.WorkerAcceptance)
}

func TestForJob_StartWork(t *testing.T) {
	tests := []struct {
		name     string
		job      *model.Job
		progress int
		allowed  bool
		reason   Reason
		want     int
	}{
		{
			name:     "accepted worker starts work",
			job:      testJob(model.JobStatusAssigned, accepted),
			progress: 25,
			allowed:  true,
			want:     25,
		},
		{
			name:     "progress clamped to floor",
			job:      testJob(model.JobStatusAssigned, accepted),
			progress: 0,
			allowed:  true,
			want:     10,
		},
		{
			name:     "progress clamped below completion",
			job:      testJob(model.JobStatusAssigned, accepted),
			progress: 100,
			allowed:  true,
			want:     99,
		},
		{
			name:   "acceptance still pending",
			job:    testJob(model.JobStatusAssigned),
			reason: ReasonWorkerNotAccepted,
		},
		{
			name:   "job already in progress",
			job:    testJob(model.JobStatusInProgress, accepted),
			reason: ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForJob(JobInput{Job: tt.job, Actor: theWorker, Transition: JobStartWork, Progress: tt.progress, Now: testNow})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				require.NotNil(t, d.Job)
				assert.Equal(t, model.JobStatusInProgress, d.Job.Status)
				assert.Equal(t, tt.want, d.Job.Progress)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForJob_SubmitWorkSetsFullProgress(t *testing.T) {
	job := testJob(model.JobStatusInProgress, accepted, func(j *model.Job) { j.Progress = 60 })

	d := ForJob(JobInput{Job: job, Actor: theWorker, Transition: JobSubmitWork, Now: testNow})

	require.True(t, d.Allowed)
	assert.Equal(t, model.JobStatusSubmitted, d.Job.Status)
	assert.Equal(t, 100, d.Job.Progress)
}

func TestForJob_RevisionRoundTrip(t *testing.T) {
	job := testJob(model.JobStatusSubmitted, accepted, func(j *model.Job) { j.Progress = 100 })

	d := ForJob(JobInput{Job: job, Actor: theClient, Transition: JobRequestRevision, Now: testNow})
	require.True(t, d.Allowed)
	assert.Equal(t, model.JobStatusRevisionRequested, d.Job.Status)

	back := testJob(model.JobStatusRevisionRequested, accepted, func(j *model.Job) { j.Progress = 100 })
	d = ForJob(JobInput{Job: back, Actor: theWorker, Transition: JobResumeWork, Now: testNow})
	require.True(t, d.Allowed)
	assert.Equal(t, model.JobStatusInProgress, d.Job.Status)
	assert.Equal(t, maxActiveProgress, d.Job.Progress)
}

func TestForJob_Complete(t *testing.T) {
	tests := []struct {
		name    string
		job     *model.Job
		actor   actor.Actor
		allowed bool
		reason  Reason
	}{
		{
			name:    "owning client completes submitted work",
			job:     testJob(model.JobStatusSubmitted, accepted),
			actor:   theClient,
			allowed: true,
		},
		{
			name:    "admin passes client guard",
			job:     testJob(model.JobStatusSubmitted, accepted),
			actor:   admin,
			allowed: true,
		},
		{
			name:   "worker cannot complete",
			job:    testJob(model.JobStatusSubmitted, accepted),
			actor:  theWorker,
			reason: ReasonNotOwner,
		},
		{
			name:   "different client denied",
			job:    testJob(model.JobStatusSubmitted, accepted),
			actor:  actor.Actor{ID: "client-2", Role: actor.RoleClient},
			reason: ReasonNotOwner,
		},
		{
			name:   "cannot complete before submission",
			job:    testJob(model.JobStatusInProgress, accepted),
			actor:  theClient,
			reason: ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForJob(JobInput{Job: tt.job, Actor: tt.actor, Transition: JobComplete, Now: testNow})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Equal(t, model.JobStatusCompleted, d.Job.Status)
				assert.Equal(t, 100, d.Job.Progress)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForJob_Cancel(t *testing.T) {
	cancellable := []model.JobStatus{
		model.JobStatusPosted,
		model.JobStatusAssigned,
		model.JobStatusInProgress,
		model.JobStatusRevisionRequested,
	}
	for _, status := range cancellable {
		t.Run(string(status), func(t *testing.T) {
			d := ForJob(JobInput{Job: testJob(status), Actor: theClient, Transition: JobCancel, Now: testNow})
			require.True(t, d.Allowed)
			assert.Equal(t, model.JobStatusCancelled, d.Job.Status)
		})
	}

	t.Run("submitted work cannot be cancelled", func(t *testing.T) {
		d := ForJob(JobInput{Job: testJob(model.JobStatusSubmitted), Actor: theClient, Transition: JobCancel, Now: testNow})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonWrongState, d.Reason)
	})
}

func TestForJob_TerminalStatusDeniesEverything(t *testing.T) {
	transitions := []Transition{
		JobAcceptAssignment, JobDeclineAssignment, JobStartWork, JobUpdateProgress,
		JobSubmitWork, JobResumeWork, JobRequestRevision, JobComplete, JobCancel,
	}
	for _, status := range []model.JobStatus{model.JobStatusCompleted, model.JobStatusCancelled} {
		for _, tr := range transitions {
			d := ForJob(JobInput{Job: testJob(status, accepted), Actor: admin, Transition: tr, Now: testNow})
			assert.False(t, d.Allowed, "%s must be denied on %s", tr, status)
			assert.Equal(t, ReasonWrongState, d.Reason)
		}
	}
}

func TestForJob_UnknownTransition(t *testing.T) {
	d := ForJob(JobInput{Job: testJob(model.JobStatusPosted), Actor: admin, Transition: Transition("teleport"), Now: testNow})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnknownTransition, d.Reason)
}
