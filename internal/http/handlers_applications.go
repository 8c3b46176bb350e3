package httpx

import (
	"net/http"

	"github.com/belimuno/workhub/internal/domain/lifecycle"
	"github.com/belimuno/workhub/internal/domain/model"
	"github.com/belimuno/workhub/internal/service"
)

func (rs *RouterServices) handleApply(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.JobID = r.PathValue("id")

	app, err := rs.Applications.Apply(r.Context(), act, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, app)
}

func (rs *RouterServices) handleListJobApplications(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	apps, err := rs.Applications.ListByJob(r.Context(), act, r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, apps)
}

func (rs *RouterServices) handleListOwnApplications(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	apps, err := rs.Applications.ListByWorker(r.Context(), act)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, apps)
}

// applicationTransitionHandler builds a handler that applies one fixed
// application transition. Client moderation routes carry the parent job in the
// path; the worker withdraw route does not.
func (rs *RouterServices) applicationTransitionHandler(tr lifecycle.Transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, _ := ActorFromContext(r.Context())

		app, err := rs.Applications.Transition(r.Context(), act, service.ApplicationTransitionParams{
			JobID:         r.PathValue("jobID"),
			ApplicationID: r.PathValue("id"),
			Transition:    tr,
		})
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteData(w, http.StatusOK, app)
	}
}
