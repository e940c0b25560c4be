// Package formats recognizes the mod file formats the installer accepts.
package formats

import (
	"path/filepath"
	"strings"
)

// Format is a named family of mod files.
type Format struct {
	Name       string
	Extensions []string // Lowercase, with leading dot
}

// Registry maps file extensions to formats.
type Registry struct {
	formats []Format
	byExt   map[string]Format
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Format)}
}

// DefaultRegistry returns a registry with the standard mod formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Format{Name: "archive", Extensions: []string{".zip", ".7z", ".rar"}})
	r.Register(Format{Name: "plugin", Extensions: []string{".esp", ".esm", ".esl"}})
	r.Register(Format{Name: "fomod", Extensions: []string{".fomod"}})
	return r
}

// Register adds a format. A later format claims extensions already taken.
func (r *Registry) Register(f Format) {
	for i, ext := range f.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.Extensions[i] = ext
		r.byExt[ext] = f
	}
	r.formats = append(r.formats, f)
}

// Detect returns the format of the file at path by its extension.
func (r *Registry) Detect(path string) (Format, bool) {
	f, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Formats returns the registered formats in registration order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}
