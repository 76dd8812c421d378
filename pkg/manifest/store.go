package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// templatePatterns are the file shapes the store recognises, in match
// order. Metadata companions from earlier generations are never templates.
var templatePatterns = []string{"*.json", "*.json.hbs", "*.hbs", "*.yaml", "*.yml"}

// Store discovers and loads template documents from a directory tree.
type Store struct {
	fsys fs.FS
	root string
}

// NewStore returns a store over an on-disk template directory.
func NewStore(dir string) *Store {
	return &Store{fsys: os.DirFS(dir), root: dir}
}

// NewStoreFS returns a store over an fs.FS, typically an embed.FS.
func NewStoreFS(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Entry pairs a discovered template name with its source location.
type Entry struct {
	Name string
	Path string
}

// Discover walks the store's tree and lists the templates it can see,
// sorted by name. The template name is the file stem with generation
// suffixes stripped; when two files claim the same name the earlier
// pattern wins, then the lexicographically smaller path.
func (s *Store) Discover() ([]Entry, error) {
	type candidate struct {
		path     string
		priority int
	}
	byName := make(map[string]candidate)

	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := path.Base(p)
		if strings.HasSuffix(base, "_metadata.json") {
			return nil
		}
		priority, ok := templatePriority(base)
		if !ok {
			return nil
		}
		name := templateName(base)
		cur, taken := byName[name]
		if !taken || priority < cur.priority || (priority == cur.priority && p < cur.path) {
			byName[name] = candidate{path: p, priority: priority}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: discover templates: %w", err)
	}

	entries := make([]Entry, 0, len(byName))
	for name, c := range byName {
		entries = append(entries, Entry{Name: name, Path: c.path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Load finds a template by name and parses it into a Definition.
func (s *Store) Load(name string) (*Definition, error) {
	entries, err := s.Discover()
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Name != name {
			continue
		}
		data, err := fs.ReadFile(s.fsys, entry.Path)
		if err != nil {
			return nil, fmt.Errorf("manifest: read template %q: %w", name, err)
		}
		return Load(name, data)
	}

	available := make([]string, len(entries))
	for i, entry := range entries {
		available[i] = entry.Name
	}
	return nil, fmt.Errorf("manifest: template %q not found, available: %s",
		name, strings.Join(available, ", "))
}

// LoadSource reads and parses a template from an explicit source,
// bypassing discovery.
func LoadSource(src Source) (*Definition, error) {
	data, err := readSource(src)
	if err != nil {
		return nil, fmt.Errorf("manifest: read template %s: %w", src.Location(), err)
	}
	return Load(templateName(path.Base(src.Location())), data)
}

func templatePriority(base string) (int, bool) {
	for i, pattern := range templatePatterns {
		if ok, _ := path.Match(pattern, base); ok {
			return i, true
		}
	}
	return 0, false
}

func templateName(base string) string {
	name := strings.TrimSuffix(base, path.Ext(base))
	return strings.TrimSuffix(name, ".json")
}
