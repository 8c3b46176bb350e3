package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/belimuno/workhub/internal/domain/model"
)

func TestNotifier_WithLink(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		notification model.Notification
		wantLink     string
	}{
		{
			name:         "builds absolute job link",
			baseURL:      "https://app.belimuno.example",
			notification: model.Notification{Kind: model.NotificationJobAssigned, JobID: "job-1"},
			wantLink:     "https://app.belimuno.example/jobs/job-1",
		},
		{
			name:         "trailing slash on base url is normalized",
			baseURL:      "http://localhost:8080/",
			notification: model.Notification{Kind: model.NotificationPaymentCreated, JobID: "job-2"},
			wantLink:     "http://localhost:8080/jobs/job-2",
		},
		{
			name:         "empty base url leaves link unset",
			baseURL:      "",
			notification: model.Notification{Kind: model.NotificationJobPosted, JobID: "job-3"},
			wantLink:     "",
		},
		{
			name:         "caller-provided link is preserved",
			baseURL:      "http://localhost:8080",
			notification: model.Notification{Kind: model.NotificationJobPosted, JobID: "job-4", Link: "https://other.example/j/4"},
			wantLink:     "https://other.example/j/4",
		},
		{
			name:         "no job id means no link",
			baseURL:      "http://localhost:8080",
			notification: model.Notification{Kind: model.NotificationJobPosted},
			wantLink:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotifier(NotifierOptions{Channel: "events", BaseURL: tt.baseURL})
			got := n.withLink(tt.notification)
			assert.Equal(t, tt.wantLink, got.Link)
		})
	}
}
