package recipes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"recipe-importer/internal/client"
	"recipe-importer/internal/notify"
	"recipe-importer/pkg/api"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	SourceFile    = "file"
	SourceGallery = "gallery"
	SourceText    = "text"

	ImportSucceeded = "SUCCEEDED"
	ImportFailed    = "FAILED"
	ImportSkipped   = "SKIPPED"
)

type Importer interface {
	ImportRecipe(ctx context.Context, name, text string) ([]byte, error)
}

// Journal records import attempts. Recording failures are logged and never
// fail the import.
type Journal interface {
	RecordImport(ctx context.Context, record api.ImportRecord) error
}

type origin struct {
	source string
	ref    string
}

type Uploader struct {
	importer Importer
	notifier notify.Notifier
	busy     *BusyState
	policy   OutcomePolicy
	journal  Journal

	onRefresh []func()
	onClose   []func()

	flight singleflight.Group
}

type UploaderOption func(*Uploader)

func WithOutcomePolicy(policy OutcomePolicy) UploaderOption {
	return func(u *Uploader) { u.policy = policy }
}

func WithJournal(journal Journal) UploaderOption {
	return func(u *Uploader) { u.journal = journal }
}

func WithBusyState(busy *BusyState) UploaderOption {
	return func(u *Uploader) { u.busy = busy }
}

// OnRefresh registers a callback run after every upload to invalidate
// listings that may now be stale.
func OnRefresh(fn func()) UploaderOption {
	return func(u *Uploader) { u.onRefresh = append(u.onRefresh, fn) }
}

// OnClose registers a callback run after every upload to dismiss the view
// that started it.
func OnClose(fn func()) UploaderOption {
	return func(u *Uploader) { u.onClose = append(u.onClose, fn) }
}

func NewUploader(importer Importer, notifier notify.Notifier, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		importer: importer,
		notifier: notifier,
		busy:     NewBusyState(),
		policy:   IndependentChecks,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Uploader) Busy() *BusyState {
	return u.busy
}

// Upload sends already-read recipe text to the backend. Errors are reported
// through the notifier and also returned. Cleanup runs regardless of outcome.
func (u *Uploader) Upload(ctx context.Context, name, text string) (Outcome, error) {
	return u.upload(ctx, origin{source: SourceText, ref: name}, name, text)
}

// upload coalesces concurrent uploads of the same recipe name and text: only
// the first caller sends a request, later callers share its result. The first
// caller's context governs the request. Same name with different text is sent
// separately.
func (u *Uploader) upload(ctx context.Context, from origin, name, text string) (Outcome, error) {
	res, err, shared := u.flight.Do(flightKey(name, text), func() (any, error) {
		return u.doUpload(ctx, from, name, text)
	})
	if shared {
		slog.Debug("joined in-flight upload", "recipe", name)
	}

	outcome, _ := res.(Outcome)
	return outcome, err
}

func flightKey(name, text string) string {
	sum := sha256.Sum256([]byte(text))
	return name + "\x00" + hex.EncodeToString(sum[:])
}

func (u *Uploader) doUpload(ctx context.Context, from origin, name, text string) (Outcome, error) {
	release := u.busy.Acquire(name)
	defer u.finalize()
	defer release()

	slog.Info("uploading recipe", "recipe", name, "source", from.source, "bytes", len(text))

	outcome, err := u.send(ctx, name, text)
	if err != nil {
		slog.Error("recipe upload failed", "recipe", name, "error", err)
		u.notifier.Notify(notify.NewNotice(notify.LevelError, name, err.Error()))
		u.record(ctx, from, name, ImportFailed, err, Outcome{})
		return Outcome{}, err
	}

	if warnings := outcome.Warnings(); len(warnings) > 0 {
		u.notifier.Notify(notify.NewNotice(notify.LevelWarning, name, strings.Join(warnings, ", ")))
	}
	if advisory := outcome.Advisory(); advisory != "" {
		u.notifier.Notify(notify.NewNotice(notify.LevelInfo, name, advisory))
	}

	slog.Info("recipe uploaded", "recipe", name, "warnings", outcome.Warnings(), "advisory", outcome.Advisory())
	u.record(ctx, from, name, ImportSucceeded, nil, outcome)
	return outcome, nil
}

// send runs transport, decode and validation, stopping at the first failure.
func (u *Uploader) send(ctx context.Context, name, text string) (Outcome, error) {
	body, err := u.importer.ImportRecipe(ctx, name, text)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			return Outcome{}, &TransportError{StatusCode: statusErr.StatusCode, Status: statusErr.Status, Err: err}
		}
		return Outcome{}, &TransportError{Status: err.Error(), Err: err}
	}

	result, err := DecodeResult(body)
	if err != nil {
		return Outcome{}, err
	}

	data, err := Interpret(result)
	if err != nil {
		return Outcome{}, err
	}

	return ComputeOutcome(data, u.policy), nil
}

func (u *Uploader) finalize() {
	for _, fn := range u.onRefresh {
		fn()
	}
	for _, fn := range u.onClose {
		fn()
	}
}

func (u *Uploader) record(ctx context.Context, from origin, name, status string, err error, outcome Outcome) {
	if u.journal == nil {
		return
	}

	record := api.ImportRecord{
		Id:        uuid.New(),
		Name:      name,
		Source:    from.source,
		Ref:       from.ref,
		Status:    status,
		ErrorKind: ErrorKind(err),
		Warnings:  outcome.Warnings(),
		Advisory:  outcome.Advisory(),
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		record.Error = err.Error()
	}

	// Record even if the request context was cancelled.
	if rerr := u.journal.RecordImport(context.WithoutCancel(ctx), record); rerr != nil {
		slog.Error("error recording import", "recipe", name, "error", rerr)
	}
}
