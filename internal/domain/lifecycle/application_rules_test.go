package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

func testApplication(status model.ApplicationStatus) *model.Application {
	return &model.Application{
		ID:       "app-1",
		JobID:    "job-1",
		WorkerID: "worker-1",
		Status:   status,
		Version:  1,
	}
}

func TestForApplication_Shortlist(t *testing.T) {
	tests := []struct {
		name    string
		app     *model.Application
		job     *model.Job
		actor   actor.Actor
		allowed bool
		reason  Reason
	}{
		{
			name:    "owning client shortlists pending application",
			app:     testApplication(model.ApplicationStatusPending),
			job:     testJob(model.JobStatusPosted),
			actor:   theClient,
			allowed: true,
		},
		{
			name:    "reviewed application can be shortlisted",
			app:     testApplication(model.ApplicationStatusReviewed),
			job:     testJob(model.JobStatusPosted),
			actor:   theClient,
			allowed: true,
		},
		{
			name:    "admin passes owner guard",
			app:     testApplication(model.ApplicationStatusPending),
			job:     testJob(model.JobStatusPosted),
			actor:   admin,
			allowed: true,
		},
		{
			name:   "non-owner denied",
			app:    testApplication(model.ApplicationStatusPending),
			job:    testJob(model.JobStatusPosted),
			actor:  actor.Actor{ID: "client-2", Role: actor.RoleClient},
			reason: ReasonNotOwner,
		},
		{
			name:   "assigned job is no longer postable",
			app:    testApplication(model.ApplicationStatusPending),
			job:    testJob(model.JobStatusAssigned),
			actor:  theClient,
			reason: ReasonJobNotPostable,
		},
		{
			name: "expired deadline",
			app:  testApplication(model.ApplicationStatusPending),
			job: testJob(model.JobStatusPosted, func(j *model.Job) {
				j.Deadline = testNow.Add(-time.Hour)
			}),
			actor:  theClient,
			reason: ReasonJobExpired,
		},
		{
			name: "status restriction reported before expiry",
			app:  testApplication(model.ApplicationStatusPending),
			job: testJob(model.JobStatusAssigned, func(j *model.Job) {
				j.Deadline = testNow.Add(-time.Hour)
			}),
			actor:  theClient,
			reason: ReasonJobNotPostable,
		},
		{
			name: "deadline boundary is inclusive",
			app:  testApplication(model.ApplicationStatusPending),
			job: testJob(model.JobStatusPosted, func(j *model.Job) {
				j.Deadline = testNow
			}),
			actor:   theClient,
			allowed: true,
		},
		{
			name:   "withdrawn application cannot be shortlisted",
			app:    testApplication(model.ApplicationStatusWithdrawn),
			job:    testJob(model.JobStatusPosted),
			actor:  theClient,
			reason: ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForApplication(ApplicationInput{
				Application: tt.app,
				Job:         tt.job,
				Actor:       tt.actor,
				Transition:  ApplicationShortlist,
				Now:         testNow,
			})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				require.NotNil(t, d.Application)
				assert.Equal(t, model.ApplicationStatusShortlisted, d.Application.Status)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForApplication_Accept(t *testing.T) {
	tests := []struct {
		name            string
		app             *model.Application
		job             *model.Job
		siblingAccepted bool
		allowed         bool
		idempotent      bool
		reason          Reason
	}{
		{
			name:    "accept pending application assigns the job",
			app:     testApplication(model.ApplicationStatusPending),
			job:     testJob(model.JobStatusPosted),
			allowed: true,
		},
		{
			name:    "accept shortlisted application",
			app:     testApplication(model.ApplicationStatusShortlisted),
			job:     testJob(model.JobStatusPosted),
			allowed: true,
		},
		{
			name:       "accept is idempotent on accepted application",
			app:        testApplication(model.ApplicationStatusAccepted),
			job:        testJob(model.JobStatusAssigned),
			allowed:    true,
			idempotent: true,
		},
		{
			name:            "sibling already accepted",
			app:             testApplication(model.ApplicationStatusPending),
			job:             testJob(model.JobStatusPosted),
			siblingAccepted: true,
			reason:          ReasonAlreadyAccepted,
		},
		{
			name:   "rejected application cannot be accepted",
			app:    testApplication(model.ApplicationStatusRejected),
			job:    testJob(model.JobStatusPosted),
			reason: ReasonWrongState,
		},
		{
			name:   "job already left posted",
			app:    testApplication(model.ApplicationStatusPending),
			job:    testJob(model.JobStatusInProgress),
			reason: ReasonJobNotPostable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForApplication(ApplicationInput{
				Application:     tt.app,
				Job:             tt.job,
				Actor:           theClient,
				Transition:      ApplicationAccept,
				SiblingAccepted: tt.siblingAccepted,
				Now:             testNow,
			})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				require.NotNil(t, d.Application)
				assert.Equal(t, model.ApplicationStatusAccepted, d.Application.Status)
				assert.Equal(t, tt.idempotent, d.Application.Idempotent)
				assert.Equal(t, !tt.idempotent, d.Application.AssignJob)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForApplication_Withdraw(t *testing.T) {
	tests := []struct {
		name    string
		app     *model.Application
		actor   actor.Actor
		allowed bool
		reason  Reason
	}{
		{
			name:    "applicant withdraws pending application",
			app:     testApplication(model.ApplicationStatusPending),
			actor:   theWorker,
			allowed: true,
		},
		{
			name:    "applicant withdraws shortlisted application",
			app:     testApplication(model.ApplicationStatusShortlisted),
			actor:   theWorker,
			allowed: true,
		},
		{
			name:   "other worker denied",
			app:    testApplication(model.ApplicationStatusPending),
			actor:  otherUser,
			reason: ReasonNotAssignedWorker,
		},
		{
			name:   "admin does not pass applicant guard",
			app:    testApplication(model.ApplicationStatusPending),
			actor:  admin,
			reason: ReasonNotAssignedWorker,
		},
		{
			name:   "accepted application cannot be withdrawn",
			app:    testApplication(model.ApplicationStatusAccepted),
			actor:  theWorker,
			reason: ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForApplication(ApplicationInput{
				Application: tt.app,
				Job:         testJob(model.JobStatusPosted),
				Actor:       tt.actor,
				Transition:  ApplicationWithdraw,
				Now:         testNow,
			})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Equal(t, model.ApplicationStatusWithdrawn, d.Application.Status)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForApplication_ReviewAndUnshortlist(t *testing.T) {
	d := ForApplication(ApplicationInput{
		Application: testApplication(model.ApplicationStatusPending),
		Job:         testJob(model.JobStatusPosted),
		Actor:       theClient,
		Transition:  ApplicationReview,
		Now:         testNow,
	})
	require.True(t, d.Allowed)
	assert.Equal(t, model.ApplicationStatusReviewed, d.Application.Status)

	d = ForApplication(ApplicationInput{
		Application: testApplication(model.ApplicationStatusShortlisted),
		Job:         testJob(model.JobStatusPosted),
		Actor:       theClient,
		Transition:  ApplicationUnshortlist,
		Now:         testNow,
	})
	require.True(t, d.Allowed)
	assert.Equal(t, model.ApplicationStatusPending, d.Application.Status)

	d = ForApplication(ApplicationInput{
		Application: testApplication(model.ApplicationStatusPending),
		Job:         testJob(model.JobStatusPosted),
		Actor:       theClient,
		Transition:  ApplicationUnshortlist,
		Now:         testNow,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonWrongState, d.Reason)
}

func TestForApplication_Reject(t *testing.T) {
	for _, status := range []model.ApplicationStatus{
		model.ApplicationStatusPending,
		model.ApplicationStatusReviewed,
		model.ApplicationStatusShortlisted,
	} {
		d := ForApplication(ApplicationInput{
			Application: testApplication(status),
			Job:         testJob(model.JobStatusPosted),
			Actor:       theClient,
			Transition:  ApplicationReject,
			Now:         testNow,
		})
		require.True(t, d.Allowed, "reject from %s", status)
		assert.Equal(t, model.ApplicationStatusRejected, d.Application.Status)
	}

	d := ForApplication(ApplicationInput{
		Application: testApplication(model.ApplicationStatusWithdrawn),
		Job:         testJob(model.JobStatusPosted),
		Actor:       theClient,
		Transition:  ApplicationReject,
		Now:         testNow,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonWrongState, d.Reason)
}
