package recipes_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"recipe-importer/internal/notify"
	"recipe-importer/internal/recipes"
	"recipe-importer/internal/storage"
	"recipe-importer/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullyDownloaded = `{"status":"success","data":{"model":{"path":"m","downloaded":true},"dataset":{"path":"d","downloaded":true}}}`

func setupFileIntake(t *testing.T, files map[string]string) (*recipes.FileIntake, *fakeBackend, *noticeRecorder, *cleanupCounter, *journalRecorder, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	local, err := storage.NewLocalProvider(dir)
	require.NoError(t, err)

	backend, lab := newFakeBackend(t, http.StatusOK, fullyDownloaded)
	notices := &noticeRecorder{}
	cleanup := &cleanupCounter{}
	journal := &journalRecorder{}
	uploader := recipes.NewUploader(lab, notices, append(cleanup.options(), recipes.WithJournal(journal))...)

	return recipes.NewFileIntake(uploader, local, ".yaml"), backend, notices, cleanup, journal, dir
}

func TestImportFilesContinuesPastUnreadableFile(t *testing.T) {
	intake, backend, notices, cleanup, _, _ := setupFileIntake(t, map[string]string{
		"first.yaml": "name: first\n",
		"third.yaml": "name: third\n",
	})

	var done []string
	report := intake.ImportFiles(context.Background(), []string{"first.yaml", "second.yaml", "third.yaml"}, recipes.FileImportOptions{
		OnFileDone: func(ref string, err error) { done = append(done, ref) },
	})

	assert.Equal(t, []string{"first", "third"}, backend.names())
	assert.Equal(t, []string{"first.yaml", "second.yaml", "third.yaml"}, done)

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "second.yaml", report.Failed[0].Ref)

	errs := notices.messages(notify.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "second.yaml")

	cleanup.assertRan(t, 3)
}

func TestImportFilesReadErrorType(t *testing.T) {
	intake, _, _, _, journal, _ := setupFileIntake(t, nil)

	report := intake.ImportFiles(context.Background(), []string{"missing.yaml"}, recipes.FileImportOptions{})
	require.Len(t, report.Failed, 1)

	require.Len(t, journal.records, 1)
	assert.Equal(t, recipes.ImportFailed, journal.records[0].Status)
	assert.Equal(t, "file_read", journal.records[0].ErrorKind)
	assert.Equal(t, "missing", journal.records[0].Name)
}

func TestImportFilesEmptyFileSkipped(t *testing.T) {
	intake, backend, notices, cleanup, journal, _ := setupFileIntake(t, map[string]string{
		"empty.yaml": "",
	})

	report := intake.ImportFiles(context.Background(), []string{"empty.yaml"}, recipes.FileImportOptions{})

	assert.Equal(t, api.BatchReport{Skipped: 1}, report)
	assert.Empty(t, backend.names())
	assert.Empty(t, notices.messages(notify.LevelError))
	cleanup.assertRan(t, 1)

	require.Len(t, journal.records, 1)
	assert.Equal(t, recipes.ImportSkipped, journal.records[0].Status)
}

func TestImportFilesDerivesNameFromLastDot(t *testing.T) {
	intake, backend, _, _, _, _ := setupFileIntake(t, map[string]string{
		"llama-recipe.v2.yaml": "name: llama\n",
		"README":               "name: readme\n",
	})

	intake.ImportFiles(context.Background(), []string{"llama-recipe.v2.yaml", "README"}, recipes.FileImportOptions{})

	assert.Equal(t, []string{"llama-recipe.v2", "README"}, backend.names())
	assert.Equal(t, "name: llama\n", backend.calls[0].Text)
}

func TestImportFilesExtensionFilter(t *testing.T) {
	intake, backend, _, _, _, _ := setupFileIntake(t, map[string]string{
		"keep.YAML": "name: keep\n",
		"skip.json": "{}",
	})

	report := intake.ImportFiles(context.Background(), []string{"keep.YAML", "skip.json"}, recipes.FileImportOptions{FilterExtension: true})

	assert.Equal(t, []string{"keep"}, backend.names())
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "skip.json", report.Failed[0].Ref)
	assert.Contains(t, report.Failed[0].Error, recipes.ErrUnsupportedExtension.Error())
}

func TestImportFilesCancelled(t *testing.T) {
	intake, backend, _, _, _, _ := setupFileIntake(t, map[string]string{
		"a.yaml": "name: a\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := intake.ImportFiles(ctx, []string{"a.yaml", "b.yaml"}, recipes.FileImportOptions{})

	assert.Empty(t, backend.names())
	assert.Equal(t, 0, report.Attempted)
	assert.Len(t, report.Failed, 2)
}

func TestGalleryImportByName(t *testing.T) {
	backend, lab := newFakeBackend(t, http.StatusOK, fullyDownloaded)
	journal := &journalRecorder{}
	uploader := recipes.NewUploader(lab, &noticeRecorder{}, recipes.WithJournal(journal))
	intake := recipes.NewGalleryIntake(uploader)

	gallery := []api.RecipeDescriptor{
		{Name: "phi", Plugin: "llama_trainer", Model: &api.ModelRef{Name: "phi-2", Path: "microsoft/phi-2"}},
		{Name: "gpt2", Plugin: "llama_trainer"},
	}

	_, err := intake.ImportByName(context.Background(), gallery, "phi")
	require.NoError(t, err)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, "phi", backend.calls[0].Name)
	assert.Contains(t, backend.calls[0].Text, "name: phi\n")
	assert.Contains(t, backend.calls[0].Text, "plugin: llama_trainer")
	assert.Contains(t, backend.calls[0].Text, "path: microsoft/phi-2")

	require.Len(t, journal.records, 1)
	assert.Equal(t, recipes.SourceGallery, journal.records[0].Source)

	_, err = intake.ImportByName(context.Background(), gallery, "missing")
	assert.True(t, errors.Is(err, recipes.ErrRecipeNotFound))
	assert.Len(t, backend.calls, 1)
}
