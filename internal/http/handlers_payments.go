package httpx

import (
	"net/http"

	"github.com/belimuno/workhub/internal/domain/lifecycle"
	"github.com/belimuno/workhub/internal/domain/model"
	"github.com/belimuno/workhub/internal/service"
)

func (rs *RouterServices) handleListJobPayments(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	payments, err := rs.Payments.ListByJob(r.Context(), act, r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, payments)
}

func (rs *RouterServices) handleAttachPaymentProof(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	var req model.AttachProofRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := rs.Payments.Transition(r.Context(), act, service.PaymentTransitionParams{
		JobID:      r.PathValue("jobID"),
		PaymentID:  r.PathValue("id"),
		Transition: lifecycle.PaymentAttachProof,
		Proof:      &req,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, payment)
}

func (rs *RouterServices) handleCancelPayment(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	payment, err := rs.Payments.Transition(r.Context(), act, service.PaymentTransitionParams{
		JobID:      r.PathValue("jobID"),
		PaymentID:  r.PathValue("id"),
		Transition: lifecycle.PaymentCancel,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, payment)
}

func (rs *RouterServices) handleReviewPayment(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	var req model.ReviewPaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := rs.Payments.Transition(r.Context(), act, service.PaymentTransitionParams{
		PaymentID:  r.PathValue("id"),
		Transition: lifecycle.PaymentReview,
		Approve:    req.Approve,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, payment)
}

func (rs *RouterServices) handleRefundPayment(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	payment, err := rs.Payments.Transition(r.Context(), act, service.PaymentTransitionParams{
		PaymentID:  r.PathValue("id"),
		Transition: lifecycle.PaymentRefund,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, payment)
}
