package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"recipe-importer/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLab struct {
	mu       sync.Mutex
	imported []string
	settings map[string]string
}

func newFakeLab(t *testing.T) *fakeLab {
	lab := &fakeLab{settings: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/recipes/import", func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		lab.mu.Lock()
		lab.imported = append(lab.imported, r.URL.Query().Get("name"))
		lab.mu.Unlock()
		w.Write([]byte(`{"status":"success","data":{"model":{"path":"m1","downloaded":false},"dataset":{"path":"d1","downloaded":true}}}`))
	})
	mux.HandleFunc("/recipes/gallery", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"plain","plugin":"p"},{"name":"top","plugin":"p","zOrder":1,"model":{"name":"phi-2","path":"microsoft/phi-2"}}]`))
	})
	mux.HandleFunc("/config/get/{key}", func(w http.ResponseWriter, r *http.Request) {
		lab.mu.Lock()
		defer lab.mu.Unlock()
		v, ok := lab.settings[r.PathValue("key")]
		if !ok {
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(v)
	})
	mux.HandleFunc("/config/set", func(w http.ResponseWriter, r *http.Request) {
		lab.mu.Lock()
		lab.settings[r.URL.Query().Get("k")] = r.URL.Query().Get("v")
		lab.mu.Unlock()
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/model/get_local_hfconfig", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"vocab_size":32000,"model_type":"phi"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("LAB_API_URL", server.URL)
	t.Setenv("JOURNAL_URL", filepath.Join(t.TempDir(), "journal.db"))
	t.Setenv("LOG_LEVEL", "error")

	return lab
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "****"},
		{"exactly10c", "****"},
		{"hf_abcdefghijklmnop", "hf_a****mnop"},
		{"ключ_абвгдеёжзий", "ключ****жзий"},
		{"ключ_абвгд", "****"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			masked := maskSecret(tt.input)
			assert.Equal(t, tt.expected, masked)
			assert.True(t, utf8.ValidString(masked))
		})
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	newFakeLab(t)

	_, err := run(t, "--output", "yaml", "gallery", "list")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestImportCommand(t *testing.T) {
	lab := newFakeLab(t)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	third := filepath.Join(dir, "third.yaml")
	require.NoError(t, os.WriteFile(first, []byte("name: first\n"), 0644))
	require.NoError(t, os.WriteFile(third, []byte("name: third\n"), 0644))

	out, err := run(t, "-o", "json", "import", first, filepath.Join(dir, "second.yaml"), third)
	assert.ErrorContains(t, err, "1 of 3 recipe files failed")

	var report api.BatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, []string{"first", "third"}, lab.imported)

	out, err = run(t, "-o", "json", "history", "--status", "failed")
	require.NoError(t, err)

	var records []api.ImportRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0].Name)
	assert.Equal(t, "file_read", records[0].ErrorKind)
}

func TestGalleryCommands(t *testing.T) {
	lab := newFakeLab(t)

	out, err := run(t, "gallery", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Less(t, strings.Index(out, "top"), strings.Index(out, "plain"))

	out, err = run(t, "-o", "json", "gallery", "import", "top")
	require.NoError(t, err)

	var res api.ImportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "top", res.Name)
	assert.Equal(t, "download model m1", res.Advisory)
	assert.Equal(t, []string{"top"}, lab.imported)

	_, err = run(t, "gallery", "import", "missing")
	assert.ErrorContains(t, err, "recipe not found")
}

func TestSettingsCommands(t *testing.T) {
	newFakeLab(t)

	_, err := run(t, "settings", "set", "HuggingfaceUserAccessToken", "hf_abcdefghijklmnop")
	require.NoError(t, err)

	out, err := run(t, "settings", "get", "HuggingfaceUserAccessToken")
	require.NoError(t, err)
	assert.Equal(t, "hf_a****mnop\n", out)

	out, err = run(t, "settings", "get", "HuggingfaceUserAccessToken", "--reveal")
	require.NoError(t, err)
	assert.Equal(t, "hf_abcdefghijklmnop\n", out)
}

func TestModelConfigCommand(t *testing.T) {
	newFakeLab(t)

	out, err := run(t, "model", "config", "microsoft/phi-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Vocabulary Size")
	assert.Contains(t, out, "32000")
	assert.NotContains(t, out, "model_type")

	_, err = run(t, "model", "config", "phi-2")
	assert.ErrorContains(t, err, "not a huggingface model id")
}
