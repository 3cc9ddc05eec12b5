package http

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/render"

	apperrors "callcast/internal/errors"
	"callcast/internal/pipeline"
)

// ManifestHandler serves the manifest of the most recent finished run from
// the output directory.
type ManifestHandler struct {
	outputDir string
	logger    *slog.Logger
}

// NewManifestHandler creates a manifest handler reading from outputDir.
func NewManifestHandler(outputDir string, logger *slog.Logger) *ManifestHandler {
	return &ManifestHandler{
		outputDir: outputDir,
		logger:    logger.With(slog.String("handler", "manifest")),
	}
}

// Latest handles GET /api/manifest.
func (h *ManifestHandler) Latest(w http.ResponseWriter, r *http.Request) {
	m, err := pipeline.LoadManifest(filepath.Join(h.outputDir, pipeline.ManifestFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			apperrors.WriteError(w, r, apperrors.ErrManifestNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load manifest",
			slog.String("error", err.Error()))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			apperrors.WriteError(w, r, apperrors.FromAppError(appErr))
			return
		}
		apperrors.WriteError(w, r, apperrors.ErrInternalServer)
		return
	}
	render.JSON(w, r, m)
}
