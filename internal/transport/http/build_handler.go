package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "callcast/internal/errors"
	"callcast/internal/operations"
	apiv1 "callcast/pkg/contracts/api/v1"
)

// BuildService is the slice of the operations manager the handlers need.
type BuildService interface {
	StartBuild(ctx context.Context) (string, error)
	GetJob(id string) (*operations.Job, bool)
	ListJobs() []*operations.Job
}

// BuildHandler serves the build trigger and status endpoints.
type BuildHandler struct {
	manager BuildService
	logger  *slog.Logger
}

// NewBuildHandler creates a build handler backed by manager.
func NewBuildHandler(manager BuildService, logger *slog.Logger) *BuildHandler {
	return &BuildHandler{
		manager: manager,
		logger:  logger.With(slog.String("handler", "build")),
	}
}

// Start handles POST /api/builds.
func (h *BuildHandler) Start(w http.ResponseWriter, r *http.Request) {
	jobID, err := h.manager.StartBuild(r.Context())
	if err != nil {
		if errors.Is(err, operations.ErrBuildInProgress) {
			apperrors.WriteError(w, r, apperrors.ErrBuildInProgress)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to start build",
			slog.String("error", err.Error()))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			apperrors.WriteError(w, r, apperrors.FromAppError(appErr))
			return
		}
		apperrors.WriteError(w, r, apperrors.BuildFailedError(err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, apiv1.BuildResponse{
		JobID:  jobID,
		Status: string(operations.StatusRunning),
	})
}

// Get handles GET /api/builds/{id}.
func (h *BuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := h.manager.GetJob(id)
	if !ok {
		apperrors.WriteError(w, r, apperrors.ErrJobNotFound)
		return
	}
	render.JSON(w, r, jobResponse(job))
}

// List handles GET /api/builds, most recent job first.
func (h *BuildHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.manager.ListJobs()
	resp := make([]apiv1.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, jobResponse(job))
	}
	render.JSON(w, r, resp)
}

func jobResponse(job *operations.Job) apiv1.JobResponse {
	resp := apiv1.JobResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
		Error:      job.Error,
	}
	if job.Result != nil {
		skipped := 0
		for _, g := range job.Result.Groups {
			if g.Skipped {
				skipped++
			}
		}
		resp.Manifest = &apiv1.ManifestSummary{
			RunID:      job.Result.RunID,
			Rows:       job.Result.Rows,
			Cols:       job.Result.Cols,
			OutputPath: job.Result.OutputPath,
			Groups:     len(job.Result.Groups),
			Skipped:    skipped,
		}
	}
	return resp
}
