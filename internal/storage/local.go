package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

type LocalProvider struct {
	baseDir string
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider resolves relative paths against dir. An empty dir means the
// working directory.
func NewLocalProvider(dir string) (*LocalProvider, error) {
	if dir == "" {
		dir = "."
	}
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}

	return &LocalProvider{baseDir: baseDir}, nil
}

func (p *LocalProvider) fullpath(ref string) (string, error) {
	path := ref
	if Scheme(ref) == "file" {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid file url %s: %w", ref, err)
		}
		path = filepath.FromSlash(u.Path)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, path)
	}
	return path, nil
}

func (p *LocalProvider) ReadFile(ctx context.Context, ref string) ([]byte, error) {
	path, err := p.fullpath(ref)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}
