package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"recipe-importer/internal/notify"
	"recipe-importer/internal/recipes"
	"recipe-importer/pkg/api"
	"recipe-importer/pkg/models"

	"github.com/go-chi/chi/v5"
)

const maxRecipeBytes = 10 << 20

type ImportHistory interface {
	ListImports(ctx context.Context, limit int, status string) ([]api.ImportRecord, error)
}

type ModelConfigSource interface {
	ModelConfig(ctx context.Context, modelId string) (map[string]any, error)
}

// ImportService exposes the import workflow to a local renderer.
type ImportService struct {
	uploader *recipes.Uploader
	files    *recipes.FileIntake
	gallery  *recipes.Gallery
	picks    *recipes.GalleryIntake
	notices  *notify.QueueNotifier

	history ImportHistory
	models  ModelConfigSource
}

func NewImportService(uploader *recipes.Uploader, files *recipes.FileIntake, gallery *recipes.Gallery, notices *notify.QueueNotifier) *ImportService {
	return &ImportService{
		uploader: uploader,
		files:    files,
		gallery:  gallery,
		picks:    recipes.NewGalleryIntake(uploader),
		notices:  notices,
	}
}

// WithHistory enables the journal listing. Without it /imports returns 404.
func (s *ImportService) WithHistory(history ImportHistory) *ImportService {
	s.history = history
	return s
}

func (s *ImportService) WithModelConfig(source ModelConfigSource) *ImportService {
	s.models = source
	return s
}

func (s *ImportService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Get("/status", RestHandler(s.Status))

	r.Route("/imports", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListImports))
		r.Post("/files", RestHandler(s.ImportFiles))
		r.Post("/text", RestHandler(s.ImportText))
	})

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", RestHandler(s.Gallery))
		r.Post("/{name}/import", RestHandler(s.ImportFromGallery))
	})

	r.Get("/models/details", RestHandler(s.ModelDetails))
}

// AddStreamRoutes registers long-lived routes, which must not sit behind a
// request timeout.
func (s *ImportService) AddStreamRoutes(r chi.Router) {
	r.Get("/notices", RestStreamHandler(s.StreamNotices))
}

func (s *ImportService) Status(r *http.Request) (any, error) {
	busy := s.uploader.Busy()
	return api.StatusResponse{Busy: busy.Busy(), InFlight: busy.InFlight()}, nil
}

func (s *ImportService) ImportFiles(r *http.Request) (any, error) {
	req, err := ParseRequest[api.FileImportRequest](r)
	if err != nil {
		return nil, err
	}

	if len(req.Paths) == 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "no recipe files provided")
	}

	report := s.files.ImportFiles(r.Context(), req.Paths, recipes.FileImportOptions{FilterExtension: req.FilterExtension})
	slog.Info("file import finished", "attempted", report.Attempted, "succeeded", report.Succeeded, "skipped", report.Skipped, "failed", len(report.Failed))

	return report, nil
}

func (s *ImportService) ImportText(r *http.Request) (any, error) {
	name, err := QueryParam(r, "name")
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxRecipeBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, CodedErrorf(http.StatusRequestEntityTooLarge, "recipe exceeds %d bytes", maxErr.Limit)
		}
		return nil, CodedErrorf(http.StatusBadRequest, "unable to read request body")
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "recipe text is empty")
	}

	outcome, err := s.uploader.Upload(r.Context(), name, string(body))
	if err != nil {
		return nil, importError(err)
	}

	return importResponse(name, outcome), nil
}

func (s *ImportService) Gallery(r *http.Request) (any, error) {
	gallery, err := s.gallery.List(r.Context())
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error fetching recipe gallery: %v", err)
	}
	return gallery, nil
}

func (s *ImportService) ImportFromGallery(r *http.Request) (any, error) {
	name, err := URLParam(r, "name")
	if err != nil {
		return nil, err
	}

	gallery, err := s.gallery.List(r.Context())
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error fetching recipe gallery: %v", err)
	}

	outcome, err := s.picks.ImportByName(r.Context(), gallery, name)
	if err != nil {
		return nil, importError(err)
	}

	return importResponse(name, outcome), nil
}

func (s *ImportService) ListImports(r *http.Request) (any, error) {
	if s.history == nil {
		return nil, CodedErrorf(http.StatusNotFound, "import journal is disabled")
	}

	params, err := ParseRequestQueryParams[api.ListImportsParams](r)
	if err != nil {
		return nil, err
	}

	if params.Limit < 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "limit must not be negative")
	}

	records, err := s.history.ListImports(r.Context(), params.Limit, params.Status)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing imports")
	}
	return records, nil
}

func (s *ImportService) ModelDetails(r *http.Request) (any, error) {
	if s.models == nil {
		return nil, CodedErrorf(http.StatusNotFound, "model details are not available")
	}

	modelId, err := QueryParam(r, "model_id")
	if err != nil {
		return nil, err
	}

	if !models.IsHuggingFaceID(modelId) {
		return nil, CodedErrorf(http.StatusBadRequest, "model '%s' is not a huggingface model id", modelId)
	}

	cfg, err := s.models.ModelConfig(r.Context(), modelId)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error fetching model config: %v", err)
	}

	return models.TranslateConfig(cfg), nil
}

// StreamNotices relays queued notices until the client disconnects. Each
// notice is delivered to one stream only.
func (s *ImportService) StreamNotices(r *http.Request) (StreamResponse, error) {
	if s.notices == nil {
		return nil, CodedErrorf(http.StatusNotFound, "notice stream is disabled")
	}

	ctx := r.Context()
	return func(yield func(any, error) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case notice, ok := <-s.notices.Notices():
				if !ok || !yield(notice, nil) {
					return
				}
			}
		}
	}, nil
}

func importResponse(name string, outcome recipes.Outcome) api.ImportResponse {
	return api.ImportResponse{Name: name, Warnings: outcome.Warnings(), Advisory: outcome.Advisory()}
}

// importError maps the import error taxonomy to status codes.
func importError(err error) error {
	var (
		fileErr *recipes.FileReadError
		appErr  *recipes.ApplicationError
	)
	switch {
	case errors.Is(err, recipes.ErrRecipeNotFound):
		return CodedError(http.StatusNotFound, err)
	case errors.Is(err, recipes.ErrEmptyName), errors.As(err, &fileErr):
		return CodedError(http.StatusBadRequest, err)
	case errors.As(err, &appErr):
		return CodedError(http.StatusConflict, err)
	default:
		return CodedError(http.StatusInternalServerError, err)
	}
}
