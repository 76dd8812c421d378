// Package artifact persists a rendered dashboard and its metadata record
// as a deterministic pair of companion files.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-dashgen/pkg/params"
)

// GeneratedBy identifies this generator in metadata records.
const GeneratedBy = "go-dashgen dashboard generator"

// Metadata is the companion record written next to every generated
// dashboard: enough to reproduce the artifact exactly.
type Metadata struct {
	TemplateName    string      `json:"template_used"`
	TemplateVersion string      `json:"template_version"`
	GeneratedAt     time.Time   `json:"generated_at"`
	GeneratedBy     string      `json:"generated_by"`
	Environment     string      `json:"environment"`
	Parameters      *params.Set `json:"parameters"`
	SplunkVersion   string      `json:"splunk_version"`
	DashboardType   string      `json:"dashboard_type"`
}

// Paths locates the two files one write produced.
type Paths struct {
	Document string
	Metadata string
}

// WriteErrorKind classifies persistence failures.
type WriteErrorKind string

const (
	PathConflict     WriteErrorKind = "path-conflict"
	PermissionDenied WriteErrorKind = "permission-denied"
)

// WriteError reports a failed artifact write with the attempted path.
type WriteError struct {
	Kind WriteErrorKind
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("artifact: %s writing %s: %v", e.Kind, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Slug normalises a dashboard title into a file name: lower-cased, with
// runs of characters outside [a-z0-9_-] collapsed to single underscores.
func Slug(title string) string {
	lower := strings.ToLower(title)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	collapsed := b.String()
	for strings.Contains(collapsed, "__") {
		collapsed = strings.ReplaceAll(collapsed, "__", "_")
	}
	return strings.Trim(collapsed, "_")
}

// Write persists the rendered document and its metadata record under dir,
// creating the directory if absent. Regeneration overwrites prior output:
// at most one live artifact per name. Only external permission constraints
// or a directory squatting on the target path fail the write.
func Write(dir, title string, rendered []byte, meta Metadata) (Paths, error) {
	if meta.GeneratedBy == "" {
		meta.GeneratedBy = GeneratedBy
	}

	slug := Slug(title)
	if slug == "" {
		slug = "dashboard"
	}
	paths := Paths{
		Document: filepath.Join(dir, slug+".json"),
		Metadata: filepath.Join(dir, slug+"_metadata.json"),
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, wrapWriteError(dir, err)
	}
	if err := writeFile(paths.Document, rendered); err != nil {
		return Paths{}, err
	}

	record, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("artifact: encode metadata: %w", err)
	}
	if err := writeFile(paths.Metadata, append(record, '\n')); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &WriteError{
			Kind: PathConflict,
			Path: path,
			Err:  errors.New("target path is a directory"),
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapWriteError(path, err)
	}
	return nil
}

func wrapWriteError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &WriteError{Kind: PermissionDenied, Path: path, Err: err}
	}
	return &WriteError{Kind: PathConflict, Path: path, Err: err}
}
