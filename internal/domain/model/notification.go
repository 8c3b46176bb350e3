package model

import "time"

// NotificationKind identifies what happened to the entity a notification is about.
type NotificationKind string

const (
	NotificationJobPosted          NotificationKind = "job.posted"
	NotificationJobAssigned        NotificationKind = "job.assigned"
	NotificationJobStatusChanged   NotificationKind = "job.status_changed"
	NotificationJobCancelled       NotificationKind = "job.cancelled"
	NotificationApplicationCreated NotificationKind = "application.created"
	NotificationApplicationUpdated NotificationKind = "application.updated"
	NotificationPaymentCreated     NotificationKind = "payment.created"
	NotificationPaymentUpdated     NotificationKind = "payment.updated"
)

// Notification is a best-effort event published after a state change commits.
// Delivery failures never roll back the transition that produced them.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	JobID       string           `json:"job_id"`
	EntityID    string           `json:"entity_id"`
	RecipientID string           `json:"recipient_id,omitempty"`
	Message     string           `json:"message"`
	// Link is an absolute URL to the job the event is about, filled in by the
	// publishing adapter from the configured base URL.
	Link       string    `json:"link,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
