// Package httpx provides the HTTP surface of the marketplace: routing,
// middleware, and JSON handlers over the lifecycle services.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/belimuno/workhub/internal/core"
	"github.com/belimuno/workhub/internal/domain/actor"
	"github.com/belimuno/workhub/internal/domain/lifecycle"
	"github.com/belimuno/workhub/internal/service"
)

// RouterServices holds the services and shared dependencies the router needs.
type RouterServices struct {
	Jobs         *service.JobService
	Applications *service.ApplicationService
	Payments     *service.PaymentService
	Sessions     core.SessionStore
	Logger       *slog.Logger
}

// NewRouter builds the HTTP handler with all routes and middleware wired.
func NewRouter(rs *RouterServices) http.Handler {
	logger := rs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("HEAD /healthz", handleHealth)

	authed := Authenticate(rs.Sessions)
	clientOnly := RequireRole(actor.RoleClient)
	workerOnly := RequireRole(actor.RoleWorker)
	adminOnly := RequireRole(actor.RoleAdmin)

	rs.registerJobRoutes(mux, authed)
	rs.registerClientRoutes(mux, authed, clientOnly)
	rs.registerWorkerRoutes(mux, authed, workerOnly)
	rs.registerAdminRoutes(mux, authed, adminOnly)

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

type middleware func(http.Handler) http.Handler

func wrap(h http.HandlerFunc, mws ...middleware) http.Handler {
	var handler http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

// registerJobRoutes wires the shared job and application reads plus job
// creation and the worker's apply route. Finer access rules live in the
// services and the lifecycle validator.
func (rs *RouterServices) registerJobRoutes(mux *http.ServeMux, authed middleware) {
	mux.Handle("POST /api/jobs", wrap(rs.handleCreateJob, authed, RequireRole(actor.RoleClient)))
	mux.Handle("GET /api/jobs", wrap(rs.handleListJobs, authed))
	mux.Handle("GET /api/jobs/{id}", wrap(rs.handleGetJob, authed))
	mux.Handle("POST /api/jobs/{id}/apply", wrap(rs.handleApply, authed, RequireRole(actor.RoleWorker)))
	mux.Handle("GET /api/jobs/{id}/applications", wrap(rs.handleListJobApplications, authed))
	mux.Handle("GET /api/jobs/{id}/payments", wrap(rs.handleListJobPayments, authed))
}

// registerClientRoutes wires the owning client's moderation and review surface.
func (rs *RouterServices) registerClientRoutes(mux *http.ServeMux, authed, clientOnly middleware) {
	transitions := map[string]lifecycle.Transition{
		"shortlist":   lifecycle.ApplicationShortlist,
		"unshortlist": lifecycle.ApplicationUnshortlist,
		"review":      lifecycle.ApplicationReview,
		"accept":      lifecycle.ApplicationAccept,
		"reject":      lifecycle.ApplicationReject,
	}
	for action, tr := range transitions {
		mux.Handle("PUT /api/client/jobs/{jobID}/applications/{id}/"+action,
			wrap(rs.applicationTransitionHandler(tr), authed, clientOnly))
	}

	mux.Handle("PUT /api/client/jobs/{id}/revision",
		wrap(rs.jobTransitionHandler(lifecycle.JobRequestRevision), authed, clientOnly))
	mux.Handle("PUT /api/client/jobs/{id}/complete",
		wrap(rs.jobTransitionHandler(lifecycle.JobComplete), authed, clientOnly))
	mux.Handle("PUT /api/client/jobs/{id}/cancel",
		wrap(rs.jobTransitionHandler(lifecycle.JobCancel), authed, clientOnly))

	mux.Handle("POST /api/client/jobs/{jobID}/payments/{id}/proof",
		wrap(rs.handleAttachPaymentProof, authed, clientOnly))
	mux.Handle("PUT /api/client/jobs/{jobID}/payments/{id}/cancel",
		wrap(rs.handleCancelPayment, authed, clientOnly))
}

// registerWorkerRoutes wires the assigned worker's responses and progress.
func (rs *RouterServices) registerWorkerRoutes(mux *http.ServeMux, authed, workerOnly middleware) {
	mux.Handle("GET /api/worker/applications",
		wrap(rs.handleListOwnApplications, authed, workerOnly))
	mux.Handle("PUT /api/worker/applications/{id}/withdraw",
		wrap(rs.applicationTransitionHandler(lifecycle.ApplicationWithdraw), authed, workerOnly))

	mux.Handle("PUT /api/worker/jobs/{id}/accept",
		wrap(rs.jobTransitionHandler(lifecycle.JobAcceptAssignment), authed, workerOnly))
	mux.Handle("PUT /api/worker/jobs/{id}/decline",
		wrap(rs.jobTransitionHandler(lifecycle.JobDeclineAssignment), authed, workerOnly))
	mux.Handle("PUT /api/worker/jobs/{id}/status",
		wrap(rs.handleWorkerJobStatus, authed, workerOnly))
}

// registerAdminRoutes wires payment review and operational stats.
func (rs *RouterServices) registerAdminRoutes(mux *http.ServeMux, authed, adminOnly middleware) {
	mux.Handle("PUT /api/admin/payments/{id}/review",
		wrap(rs.handleReviewPayment, authed, adminOnly))
	mux.Handle("PUT /api/admin/payments/{id}/refund",
		wrap(rs.handleRefundPayment, authed, adminOnly))
	mux.Handle("GET /api/admin/jobs/stats",
		wrap(rs.handleJobStats, authed, adminOnly))
}
