package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Source returns the raw body of a filing given its address
type Source interface {
	Open(ctx context.Context, address string) (string, error)
}

// FileSource reads filings from the local filesystem
type FileSource struct {
	root     string
	maxBytes int64
}

// NewFileSource creates a file source. Relative addresses resolve against root.
func NewFileSource(root string, maxBytes int64) *FileSource {
	return &FileSource{root: root, maxBytes: maxBytes}
}

// Open reads the filing at address
func (s *FileSource) Open(ctx context.Context, address string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := address
	if s.root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", model.ErrSourceUnavailable, address)
		}
		return "", fmt.Errorf("stat filing: %w", err)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes", model.ErrFilingTooLarge, address, info.Size())
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read filing: %w", err)
	}
	return string(body), nil
}

// Router dispatches http(s) addresses to a remote source and everything else
// to a local one
type Router struct {
	local  Source
	remote Source
}

// NewRouter creates a router. remote may be nil when only local files are used.
func NewRouter(local, remote Source) *Router {
	return &Router{local: local, remote: remote}
}

// Open reads the filing from the source matching its address
func (r *Router) Open(ctx context.Context, address string) (string, error) {
	if IsRemote(address) {
		if r.remote == nil {
			return "", fmt.Errorf("%w: no remote source configured for %s", model.ErrSourceUnavailable, address)
		}
		return r.remote.Open(ctx, address)
	}
	return r.local.Open(ctx, address)
}

// IsRemote reports whether address is an http(s) URL
func IsRemote(address string) bool {
	lower := strings.ToLower(address)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
