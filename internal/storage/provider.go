package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
	ErrS3NotConfigured   = errors.New("s3 source is not configured")
)

// Provider reads the full contents of a recipe source.
type Provider interface {
	ReadFile(ctx context.Context, ref string) ([]byte, error)
}

// Router dispatches a reference to the provider that owns its scheme: s3://
// goes to S3, file:// and bare paths go to the local filesystem.
type Router struct {
	Local Provider
	S3    Provider
}

var _ Provider = (*Router)(nil)

func NewRouter(local, s3 Provider) *Router {
	return &Router{Local: local, S3: s3}
}

func (r *Router) ReadFile(ctx context.Context, ref string) ([]byte, error) {
	switch Scheme(ref) {
	case "s3":
		if r.S3 == nil {
			return nil, ErrS3NotConfigured
		}
		return r.S3.ReadFile(ctx, ref)
	case "", "file":
		return r.Local.ReadFile(ctx, ref)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, ref)
	}
}

// Scheme returns the lowercased url scheme of ref, or "" for plain paths.
// Windows drive letters are treated as plain paths.
func Scheme(ref string) string {
	scheme, _, found := strings.Cut(ref, "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}

// BaseName returns the final path element of a reference regardless of its
// scheme.
func BaseName(ref string) string {
	switch Scheme(ref) {
	case "":
		return filepath.Base(ref)
	default:
		u, err := url.Parse(ref)
		if err != nil || u.Path == "" {
			return path.Base(strings.TrimRight(ref, "/"))
		}
		return path.Base(u.Path)
	}
}

func splitS3Ref(ref string) (string, string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 reference %s: %w", ref, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 reference %s: expected s3://bucket/key", ref)
	}
	return u.Host, key, nil
}
