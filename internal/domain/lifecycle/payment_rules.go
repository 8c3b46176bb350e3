package lifecycle

import (
	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/model"
)

// PaymentInput groups the arguments for a payment transition decision.
type PaymentInput struct {
	Payment *model.Payment
	// Job is the parent job snapshot, used for ownership checks.
	Job        *model.Job
	Actor      actor.Actor
	Transition Transition
	// Approve carries the reviewer's verdict for payment-review.
	Approve bool
}

// ForPayment decides a payment transition. It never mutates the snapshots.
func ForPayment(in PaymentInput) Decision {
	switch in.Transition {
	case PaymentAttachProof:
		return paymentAttachProof(in)
	case PaymentReview:
		return paymentReview(in)
	case PaymentCancel:
		return paymentCancel(in)
	case PaymentRefund:
		return paymentRefund(in)
	}
	return deny(ReasonUnknownTransition)
}

func paymentAttachProof(in PaymentInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	if !in.Payment.Status.Active() {
		return deny(ReasonWrongState)
	}
	// Re-uploading proof keeps the payment in processing for another review.
	return allowPayment(PaymentNext{
		Status:   model.PaymentStatusProcessing,
		SetProof: true,
	})
}

func paymentReview(in PaymentInput) Decision {
	if !in.Actor.IsAdmin() {
		return deny(ReasonNotOwner)
	}
	if !in.Payment.Status.Active() {
		return deny(ReasonWrongState)
	}
	next := model.PaymentStatusFailed
	if in.Approve {
		next = model.PaymentStatusCompleted
	}
	return allowPayment(PaymentNext{Status: next})
}

func paymentCancel(in PaymentInput) Decision {
	if !owningClient(in.Job, in.Actor) {
		return deny(ReasonNotOwner)
	}
	if in.Payment.Status != model.PaymentStatusPending {
		return deny(ReasonWrongState)
	}
	return allowPayment(PaymentNext{Status: model.PaymentStatusCancelled})
}

func paymentRefund(in PaymentInput) Decision {
	if !in.Actor.IsAdmin() {
		return deny(ReasonNotOwner)
	}
	if in.Payment.Status != model.PaymentStatusCompleted {
		return deny(ReasonWrongState)
	}
	return allowPayment(PaymentNext{Status: model.PaymentStatusRefunded})
}
