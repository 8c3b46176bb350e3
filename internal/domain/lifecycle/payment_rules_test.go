package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

func testPayment(status model.PaymentStatus) *model.Payment {
	return &model.Payment{
		ID:       "pay-1",
		JobID:    "job-1",
		Amount:   500,
		Currency: "ETB",
		Status:   status,
		Version:  1,
	}
}

func TestForPayment_AttachProof(t *testing.T) {
	tests := []struct {
		name    string
		payment *model.Payment
		actor   actor.Actor
		allowed bool
		reason  Reason
	}{
		{
			name:    "owning client attaches proof to pending payment",
			payment: testPayment(model.PaymentStatusPending),
			actor:   theClient,
			allowed: true,
		},
		{
			name:    "proof can be replaced while processing",
			payment: testPayment(model.PaymentStatusProcessing),
			actor:   theClient,
			allowed: true,
		},
		{
			name:    "worker denied",
			payment: testPayment(model.PaymentStatusPending),
			actor:   theWorker,
			reason:  ReasonNotOwner,
		},
		{
			name:    "completed payment is settled",
			payment: testPayment(model.PaymentStatusCompleted),
			actor:   theClient,
			reason:  ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForPayment(PaymentInput{
				Payment:    tt.payment,
				Job:        testJob(model.JobStatusCompleted),
				Actor:      tt.actor,
				Transition: PaymentAttachProof,
			})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				require.NotNil(t, d.Payment)
				assert.Equal(t, model.PaymentStatusProcessing, d.Payment.Status)
				assert.True(t, d.Payment.SetProof)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForPayment_Review(t *testing.T) {
	tests := []struct {
		name    string
		payment *model.Payment
		actor   actor.Actor
		approve bool
		allowed bool
		want    model.PaymentStatus
		reason  Reason
	}{
		{
			name:    "approve completes payment",
			payment: testPayment(model.PaymentStatusProcessing),
			actor:   admin,
			approve: true,
			allowed: true,
			want:    model.PaymentStatusCompleted,
		},
		{
			name:    "decline fails payment",
			payment: testPayment(model.PaymentStatusProcessing),
			actor:   admin,
			allowed: true,
			want:    model.PaymentStatusFailed,
		},
		{
			name:    "pending payment can be reviewed without proof resubmission",
			payment: testPayment(model.PaymentStatusPending),
			actor:   admin,
			approve: true,
			allowed: true,
			want:    model.PaymentStatusCompleted,
		},
		{
			name:    "client cannot review",
			payment: testPayment(model.PaymentStatusProcessing),
			actor:   theClient,
			reason:  ReasonNotOwner,
		},
		{
			name:    "settled payment cannot be re-reviewed",
			payment: testPayment(model.PaymentStatusCompleted),
			actor:   admin,
			reason:  ReasonWrongState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ForPayment(PaymentInput{
				Payment:    tt.payment,
				Job:        testJob(model.JobStatusCompleted),
				Actor:      tt.actor,
				Transition: PaymentReview,
				Approve:    tt.approve,
			})
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				require.NotNil(t, d.Payment)
				assert.Equal(t, tt.want, d.Payment.Status)
				assert.False(t, d.Payment.SetProof)
			} else {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestForPayment_CancelAndRefund(t *testing.T) {
	d := ForPayment(PaymentInput{
		Payment:    testPayment(model.PaymentStatusPending),
		Job:        testJob(model.JobStatusCompleted),
		Actor:      theClient,
		Transition: PaymentCancel,
	})
	require.True(t, d.Allowed)
	assert.Equal(t, model.PaymentStatusCancelled, d.Payment.Status)

	d = ForPayment(PaymentInput{
		Payment:    testPayment(model.PaymentStatusProcessing),
		Job:        testJob(model.JobStatusCompleted),
		Actor:      theClient,
		Transition: PaymentCancel,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonWrongState, d.Reason)

	d = ForPayment(PaymentInput{
		Payment:    testPayment(model.PaymentStatusCompleted),
		Job:        testJob(model.JobStatusCompleted),
		Actor:      admin,
		Transition: PaymentRefund,
	})
	require.True(t, d.Allowed)
	assert.Equal(t, model.PaymentStatusRefunded, d.Payment.Status)

	d = ForPayment(PaymentInput{
		Payment:    testPayment(model.PaymentStatusCompleted),
		Job:        testJob(model.JobStatusCompleted),
		Actor:      theClient,
		Transition: PaymentRefund,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)
}
