package model

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// PaymentStatus represents the current status of a payment record.
type PaymentStatus string

const (
	// PaymentStatusPending indicates a payment was created and awaits proof.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusProcessing indicates payment proof was submitted and awaits review.
	PaymentStatusProcessing PaymentStatus = "processing"
	// PaymentStatusCompleted indicates the payment was confirmed.
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusFailed indicates the payment was declined on review.
	PaymentStatusFailed PaymentStatus = "failed"
	// PaymentStatusCancelled indicates the payment was withdrawn.
	PaymentStatusCancelled PaymentStatus = "cancelled"
	// PaymentStatusRefunded indicates a completed payment was returned.
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid returns true if the PaymentStatus is valid.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// Active returns true while the payment still occupies the job's single
// active-payment slot.
func (s PaymentStatus) Active() bool {
	return s == PaymentStatusPending || s == PaymentStatusProcessing
}

// Terminal returns true once the payment can no longer change status.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusCancelled || s == PaymentStatusRefunded
}

// Payment is a monetary record created when a job reaches a payable milestone.
// Proof fields hold the client-supplied transfer evidence (inline base64 image
// plus a free-form note), nullable until uploaded.
type Payment struct {
	ID              string        `json:"id"                          db:"id"`
	JobID           string        `json:"job_id"                      db:"job_id"`
	Amount          float64       `json:"amount"                      db:"amount"`
	Currency        string        `json:"currency"                    db:"currency"`
	Status          PaymentStatus `json:"status"                      db:"status"`
	ProofImage      *string       `json:"proof_image,omitempty"       db:"proof_image"`
	ProofNote       *string       `json:"proof_note,omitempty"        db:"proof_note"`
	ProofUploadedAt *time.Time    `json:"proof_uploaded_at,omitempty" db:"proof_uploaded_at"`
	Version         int           `json:"version"                     db:"version"`
	CreatedAt       time.Time     `json:"created_at"                  db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"                  db:"updated_at"`
}

// HasProof reports whether transfer evidence has been attached.
func (p *Payment) HasProof() bool {
	return p.ProofImage != nil && *p.ProofImage != ""
}

// AttachProofRequest carries the client-supplied payment evidence.
type AttachProofRequest struct {
	Image string `json:"image"` // base64-encoded image blob
	Note  string `json:"note"`
}

// maxProofImageBytes bounds the decoded proof image size (8 MiB); the source
// platform stores proof blobs inline, so oversized uploads must be rejected
// before they reach the row.
const maxProofImageBytes = 8 << 20

// Validate validates the AttachProofRequest fields.
func (r *AttachProofRequest) Validate() error {
	if strings.TrimSpace(r.Image) == "" {
		return errors.New("proof image is required")
	}
	decoded, err := base64.StdEncoding.DecodeString(r.Image)
	if err != nil {
		return errors.New("proof image must be valid base64")
	}
	if len(decoded) > maxProofImageBytes {
		return errors.New("proof image exceeds maximum size")
	}
	return nil
}

// ReviewPaymentRequest carries an administrative reviewer's decision.
type ReviewPaymentRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}
