package recipes_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"recipe-importer/internal/client"
	"recipe-importer/pkg/api"
)

type noticeRecorder struct {
	mu      sync.Mutex
	notices []api.Notice
}

func (r *noticeRecorder) Notify(notice api.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *noticeRecorder) messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []string
	for _, n := range r.notices {
		if n.Level == level {
			msgs = append(msgs, n.Message)
		}
	}
	return msgs
}

type journalRecorder struct {
	mu      sync.Mutex
	records []api.ImportRecord
}

func (j *journalRecorder) RecordImport(ctx context.Context, record api.ImportRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, record)
	return nil
}

type uploadCall struct {
	Name string
	Text string
}

// fakeBackend serves the import endpoint with a fixed status and body and
// records every call it receives.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []uploadCall
	status int
	body   string
}

func newFakeBackend(t *testing.T, status int, body string) (*fakeBackend, *client.LabClient) {
	backend := &fakeBackend{status: status, body: body}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)

		backend.mu.Lock()
		backend.calls = append(backend.calls, uploadCall{Name: r.URL.Query().Get("name"), Text: string(buf)})
		backend.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(backend.status)
		w.Write([]byte(backend.body))
	}))
	t.Cleanup(server.Close)

	return backend, client.NewLabClient(server.URL, 5*time.Second)
}

func (b *fakeBackend) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var names []string
	for _, c := range b.calls {
		names = append(names, c.Name)
	}
	return names
}

// blockingImporter blocks each call until it is released.
type blockingImporter struct {
	mu      sync.Mutex
	calls   int
	texts   []string
	started chan string
	release map[string]chan struct{}
}

func newBlockingImporter(names ...string) *blockingImporter {
	b := &blockingImporter{
		started: make(chan string, 10),
		release: make(map[string]chan struct{}),
	}
	for _, name := range names {
		b.release[name] = make(chan struct{})
	}
	return b
}

func (b *blockingImporter) ImportRecipe(ctx context.Context, name, text string) ([]byte, error) {
	b.mu.Lock()
	b.calls++
	b.texts = append(b.texts, text)
	ch := b.release[name]
	b.mu.Unlock()

	b.started <- name
	<-ch
	return []byte(`{"status":"success","data":{"model":{"path":"m","downloaded":true},"dataset":{"path":"d","downloaded":true}}}`), nil
}

func (b *blockingImporter) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func (b *blockingImporter) sentTexts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}
