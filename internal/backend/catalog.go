package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dsaview/internal/domain"
)

// ManifestName is the optional catalogue override file at the root
const ManifestName = "catalog.yaml"

const maxDepth = 5

// Entry is one solution file known to the catalogue.
type Entry struct {
	Name     string
	Path     string // slash separated, rooted at "/"
	Category string
}

// Item converts the entry to its wire form.
func (e Entry) Item() domain.SearchResultItem {
	return domain.SearchResultItem{Name: e.Name, Path: e.Path}
}

type manifest struct {
	Entries []manifestEntry `yaml:"entries"`
}

type manifestEntry struct {
	Path     string `yaml:"path"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Hidden   bool   `yaml:"hidden"`
}

// Catalog is an immutable index of solution files under a root directory.
type Catalog struct {
	fs      afero.Fs
	root    string
	entries []Entry
	byPath  map[string]Entry
}

// Load walks root and builds the catalogue. Files inside a directory named
// after a category (Arrays/, linked_lists/, binary-search/) inherit it;
// catalog.yaml may rename, recategorise or hide entries.
func Load(ctx context.Context, fsys afero.Fs, root string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root = filepath.Clean(root)
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalogue root %s is not a directory", root)
	}

	c := &Catalog{fs: fsys, root: root, byPath: make(map[string]Entry)}

	err = afero.Walk(fsys, root, func(p string, fi fs.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logger.Warn("error walking path", zap.String("path", p), zap.Error(err))
			return nil
		}

		rel := relSlash(root, p)
		if fi.IsDir() {
			if rel == "/" {
				return nil
			}
			if skipDir(fi.Name()) || strings.Count(rel, "/") > maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if rel == "/"+ManifestName || strings.HasPrefix(fi.Name(), ".") {
			return nil
		}
		c.add(Entry{Name: displayName(fi.Name()), Path: rel, Category: categoryOf(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	if err := c.applyManifest(logger); err != nil {
		return nil, err
	}

	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Path < c.entries[j].Path })
	logger.Info("catalogue loaded", zap.String("root", root), zap.Int("entries", len(c.entries)))
	return c, nil
}

func (c *Catalog) add(e Entry) {
	if _, ok := c.byPath[e.Path]; ok {
		return
	}
	c.byPath[e.Path] = e
	c.entries = append(c.entries, e)
}

func (c *Catalog) applyManifest(logger *zap.Logger) error {
	data, err := afero.ReadFile(c.fs, filepath.Join(c.root, ManifestName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", ManifestName, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}

	hidden := make(map[string]bool)
	for _, me := range m.Entries {
		p := "/" + strings.TrimPrefix(path.Clean("/"+me.Path), "/")
		e, ok := c.byPath[p]
		if !ok {
			logger.Warn("manifest entry has no file", zap.String("path", me.Path))
			continue
		}
		if me.Hidden {
			hidden[p] = true
			continue
		}
		if me.Name != "" {
			e.Name = me.Name
		}
		if me.Category != "" {
			cat, ok := domain.NormalizeCategory(me.Category)
			if !ok {
				return fmt.Errorf("%s: unknown category %q for %s", ManifestName, me.Category, me.Path)
			}
			e.Category = cat
		}
		c.byPath[p] = e
	}

	kept := c.entries[:0]
	for _, e := range c.entries {
		if hidden[e.Path] {
			delete(c.byPath, e.Path)
			continue
		}
		kept = append(kept, c.byPath[e.Path])
	}
	c.entries = kept
	return nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Search returns entries whose name or path contains query, ignoring case,
// ordered by path.
func (c *Catalog) Search(query string) []domain.SearchResultItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.SearchResultItem{}
	if q == "" {
		return out
	}
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Path), q) {
			out = append(out, e.Item())
		}
	}
	return out
}

// Filter returns entries in category, ordered by path.
func (c *Catalog) Filter(category string) []domain.SearchResultItem {
	out := []domain.SearchResultItem{}
	cat, ok := domain.NormalizeCategory(category)
	if !ok || cat == "" {
		return out
	}
	for _, e := range c.entries {
		if e.Category == cat {
			out = append(out, e.Item())
		}
	}
	return out
}

// ErrNotFound is returned by Read for paths outside the catalogue.
var ErrNotFound = errors.New("file not found")

// Read returns the content of a catalogued file. Only indexed paths are
// served, so traversal outside the root is impossible.
func (c *Catalog) Read(p string) (string, error) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if path.Clean(p) != p {
		return "", ErrNotFound
	}
	if _, ok := c.byPath[p]; !ok {
		return "", ErrNotFound
	}
	data, err := afero.ReadFile(c.fs, filepath.Join(c.root, filepath.FromSlash(p)))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(data), nil
}

func relSlash(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "__pycache__", "target", "build", "dist", "venv":
		return true
	}
	return false
}

// categoryOf maps the first path segment onto a category, if it names one.
func categoryOf(rel string) string {
	parts := strings.SplitN(strings.TrimPrefix(rel, "/"), "/", 2)
	if len(parts) < 2 {
		return ""
	}
	cat, ok := domain.NormalizeCategory(parts[0])
	if !ok {
		return ""
	}
	return cat
}

// displayName turns "two_sum.py" into "Two Sum".
func displayName(file string) string {
	base := strings.TrimSuffix(file, path.Ext(file))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	if len(words) == 0 {
		return file
	}
	return strings.Join(words, " ")
}
