package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"recipe-importer/internal/notify"
	"recipe-importer/internal/storage"
	"recipe-importer/pkg/api"
)

// FileIntake imports recipe files one at a time, in input order. A file that
// fails never stops the rest of the batch.
type FileIntake struct {
	uploader  *Uploader
	source    storage.Provider
	extension string
}

func NewFileIntake(uploader *Uploader, source storage.Provider, extension string) *FileIntake {
	return &FileIntake{uploader: uploader, source: source, extension: extension}
}

type FileImportOptions struct {
	// Reject files whose extension differs from the intake's extension, as
	// the file picker does. Dropped files are not filtered.
	FilterExtension bool

	// Called after each file with its error, if any.
	OnFileDone func(ref string, err error)
}

func (f *FileIntake) ImportFiles(ctx context.Context, refs []string, opts FileImportOptions) api.BatchReport {
	var report api.BatchReport

	for i, ref := range refs {
		if ctx.Err() != nil {
			for _, rest := range refs[i:] {
				report.Failed = append(report.Failed, api.FileImportFailure{Ref: rest, Error: ctx.Err().Error()})
			}
			slog.Warn("file import batch cancelled", "remaining", len(refs)-i)
			break
		}

		skipped, err := f.importFile(ctx, ref, opts.FilterExtension)
		switch {
		case err != nil:
			report.Attempted++
			report.Failed = append(report.Failed, api.FileImportFailure{Ref: ref, Error: err.Error()})
		case skipped:
			report.Skipped++
		default:
			report.Attempted++
			report.Succeeded++
		}

		if opts.OnFileDone != nil {
			opts.OnFileDone(ref, err)
		}
	}

	return report
}

func (f *FileIntake) importFile(ctx context.Context, ref string, filter bool) (bool, error) {
	base := storage.BaseName(ref)

	if filter && f.extension != "" && !strings.EqualFold(filepath.Ext(base), f.extension) {
		return false, f.readFailed(ctx, ref, fmt.Errorf("%w: expected %s", ErrUnsupportedExtension, f.extension))
	}

	data, err := f.source.ReadFile(ctx, ref)
	if err != nil {
		return false, f.readFailed(ctx, ref, err)
	}

	if len(data) == 0 {
		slog.Info("recipe file is empty, skipping", "ref", ref)
		f.uploader.record(ctx, origin{source: SourceFile, ref: ref}, DeriveName(base), ImportSkipped, nil, Outcome{})
		f.uploader.finalize()
		return true, nil
	}

	name := DeriveName(base)
	if name == "" {
		return false, f.readFailed(ctx, ref, ErrEmptyName)
	}

	_, err = f.uploader.upload(ctx, origin{source: SourceFile, ref: ref}, name, string(data))
	return false, err
}

func (f *FileIntake) readFailed(ctx context.Context, ref string, cause error) error {
	err := &FileReadError{Path: ref, Err: cause}
	slog.Error("error reading recipe file", "ref", ref, "error", cause)
	f.uploader.notifier.Notify(notify.NewNotice(notify.LevelError, "", err.Error()))

	f.uploader.record(ctx, origin{source: SourceFile, ref: ref}, DeriveName(storage.BaseName(ref)), ImportFailed, err, Outcome{})
	f.uploader.finalize()
	return err
}

// GalleryIntake imports a single recipe picked from the gallery.
type GalleryIntake struct {
	uploader *Uploader
}

func NewGalleryIntake(uploader *Uploader) *GalleryIntake {
	return &GalleryIntake{uploader: uploader}
}

// ImportByName selects name from a previously fetched gallery and imports it.
func (g *GalleryIntake) ImportByName(ctx context.Context, gallery []api.RecipeDescriptor, name string) (Outcome, error) {
	desc, ok := Find(gallery, name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	return g.Import(ctx, desc)
}

func (g *GalleryIntake) Import(ctx context.Context, desc api.RecipeDescriptor) (Outcome, error) {
	text, err := MarshalRecipe(desc)
	if err != nil {
		return Outcome{}, err
	}
	return g.uploader.upload(ctx, origin{source: SourceGallery, ref: desc.Name}, desc.Name, text)
}
