package message

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrTemplateNotFound is returned when a named template does not exist in
// the collection.
var ErrTemplateNotFound = errors.New("template not found")

// Collection looks up raw outreach templates by name.
type Collection interface {
	// Lookup returns the raw template text, or ErrTemplateNotFound.
	Lookup(ctx context.Context, name string) (string, error)
	// Names lists the available template names, sorted.
	Names(ctx context.Context) ([]string, error)
}

// DirCollection serves templates from a directory of <name>.txt files.
type DirCollection struct {
	dir string
}

// NewDirCollection creates a collection over the given directory.
func NewDirCollection(dir string) *DirCollection {
	return &DirCollection{dir: dir}
}

func (c *DirCollection) Lookup(_ context.Context, name string) (string, error) {
	// Template names come from user input; keep them inside the directory.
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", ErrTemplateNotFound
	}
	data, err := os.ReadFile(filepath.Join(c.dir, name+".txt"))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrTemplateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read template %q: %w", name, err)
	}
	return string(data), nil
}

func (c *DirCollection) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}

// StaticCollection is an in-memory collection, used in tests and seeds.
type StaticCollection map[string]string

func (c StaticCollection) Lookup(_ context.Context, name string) (string, error) {
	raw, ok := c[name]
	if !ok {
		return "", ErrTemplateNotFound
	}
	return raw, nil
}

func (c StaticCollection) Names(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
