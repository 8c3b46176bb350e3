package httpx

import (
	"net/http"
	"strconv"

	"github.com/belimuno/workhub/internal/domain/lifecycle"
	"github.com/belimuno/workhub/internal/domain/model"
	apperrors "github.com/belimuno/workhub/internal/errors"
	"github.com/belimuno/workhub/internal/service"
)

func (rs *RouterServices) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := rs.Jobs.Create(r.Context(), act, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, job)
}

func (rs *RouterServices) handleListJobs(w http.ResponseWriter, r *http.Request) {
	opts, err := jobListOptionsFromQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	jobs, err := rs.Jobs.List(r.Context(), opts)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, jobs)
}

func jobListOptionsFromQuery(r *http.Request) (*model.JobListOptions, error) {
	opts := &model.JobListOptions{}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := model.JobStatus(raw)
		if !status.Valid() {
			return nil, apperrors.ValidationField("status", "unknown job status")
		}
		opts.Status = &status
	}
	if clientID := q.Get("client_id"); clientID != "" {
		opts.ClientID = &clientID
	}
	if workerID := q.Get("worker_id"); workerID != "" {
		opts.WorkerID = &workerID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, apperrors.ValidationField("limit", "must be a non-negative integer")
		}
		opts.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return nil, apperrors.ValidationField("offset", "must be a non-negative integer")
		}
		opts.Offset = offset
	}
	return opts, nil
}

func (rs *RouterServices) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := rs.Jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, job)
}

func (rs *RouterServices) handleJobStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rs.Jobs.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, stats)
}

// jobTransitionHandler builds a handler that applies one fixed job transition
// to the job named in the path.
func (rs *RouterServices) jobTransitionHandler(tr lifecycle.Transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, _ := ActorFromContext(r.Context())

		job, err := rs.Jobs.Transition(r.Context(), act, service.TransitionParams{
			JobID:      r.PathValue("id"),
			Transition: tr,
		})
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteData(w, http.StatusOK, job)
	}
}

// workerStatusRequest is the body for the worker's status route. The requested
// status picks the transition; progress applies to in-progress updates.
type workerStatusRequest struct {
	Status   model.JobStatus `json:"status"`
	Progress int             `json:"progress"`
}

func (rs *RouterServices) handleWorkerJobStatus(w http.ResponseWriter, r *http.Request) {
	act, _ := ActorFromContext(r.Context())

	var req workerStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	jobID := r.PathValue("id")
	job, err := rs.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		WriteError(w, err)
		return
	}

	tr, err := workerTransitionFor(job, req.Status)
	if err != nil {
		WriteError(w, err)
		return
	}

	updated, err := rs.Jobs.Transition(r.Context(), act, service.TransitionParams{
		JobID:      jobID,
		Transition: tr,
		Progress:   req.Progress,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, updated)
}

// workerTransitionFor maps the requested status onto the matching transition
// given the job's current status. An impossible pairing still produces a
// transition so the validator can report the precise wrong-state denial.
func workerTransitionFor(job *model.Job, requested model.JobStatus) (lifecycle.Transition, error) {
	switch requested {
	case model.JobStatusInProgress:
		switch job.Status {
		case model.JobStatusRevisionRequested:
			return lifecycle.JobResumeWork, nil
		case model.JobStatusInProgress:
			return lifecycle.JobUpdateProgress, nil
		default:
			return lifecycle.JobStartWork, nil
		}
	case model.JobStatusSubmitted:
		return lifecycle.JobSubmitWork, nil
	default:
		return "", apperrors.ValidationField("status", "must be in_progress or submitted")
	}
}
