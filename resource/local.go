package resource

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalLoader reads resources from a base directory. Paths that resolve
// outside the base are rejected.
type LocalLoader struct {
	base string
}

// NewLocalLoader creates a loader rooted at base. An empty base means
// the current directory.
func NewLocalLoader(base string) *LocalLoader {
	if base == "" {
		base = "."
	}
	return &LocalLoader{base: base}
}

// Load reads the file at the URI's path, relative to the base directory.
func (l *LocalLoader) Load(ctx context.Context, uri *url.URL) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// file://models/x.onnx parses with Host "models"; treat the host as
	// the first path segment so relative URIs work as written.
	rel := uri.Path
	if uri.Host != "" {
		rel = uri.Host + rel
	}
	if rel == "" {
		rel = uri.Opaque
	}
	full := filepath.Join(l.base, filepath.FromSlash(rel))

	absBase, err := filepath.Abs(l.base)
	if err != nil {
		return nil, err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return nil, err
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return nil, fmt.Errorf("resource path %q escapes base directory", rel)
	}

	data, err := os.ReadFile(absFull)
	if err != nil {
		return nil, fmt.Errorf("read resource: %w", err)
	}
	return data, nil
}
