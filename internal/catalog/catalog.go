// Package catalog serves the project case studies and the tech stack shown on the site.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio-site/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

// ErrNotFound is returned when a project ID is not in the catalog.
var ErrNotFound = errors.New("project not found")

// Entry is a project resolved to a single language.
type Entry struct {
	ID     string   `json:"id"`
	Images []string `json:"images"`
	Tags   []string `json:"tags"`
	types.ProjectText
}

// Catalog is an immutable, ordered set of projects plus the stack list.
type Catalog struct {
	projects []types.Project
	index    map[string]int
	stack    []types.StackItem
}

type document struct {
	Stack    []types.StackItem `yaml:"stack" validate:"dive"`
	Projects []types.Project   `yaml:"projects" validate:"dive"`
}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(defaultData)
}

// MustLoad is Load for callers that cannot start without the catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load catalog: %v", err))
	}
	return c
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		projects: doc.Projects,
		index:    make(map[string]int, len(doc.Projects)),
		stack:    doc.Stack,
	}
	for i, p := range doc.Projects {
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate project id %q", p.ID)
		}
		if _, ok := p.Localized[types.DefaultLanguage]; !ok {
			return nil, fmt.Errorf("project %q has no %q text", p.ID, types.DefaultLanguage)
		}
		c.index[p.ID] = i
	}
	return c, nil
}

// Get returns the project with the given ID.
func (c *Catalog) Get(id string) (types.Project, error) {
	i, ok := c.index[id]
	if !ok {
		return types.Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.projects[i], nil
}

// Entry resolves one project to lang.
func (c *Catalog) Entry(id string, lang types.Language) (Entry, error) {
	p, err := c.Get(id)
	if err != nil {
		return Entry{}, err
	}
	return Localize(p, lang), nil
}

// List resolves every project to lang, in catalog order.
func (c *Catalog) List(lang types.Language) []Entry {
	entries := make([]Entry, len(c.projects))
	for i, p := range c.projects {
		entries[i] = Localize(p, lang)
	}
	return entries
}

// Stack returns the tech stack cards.
func (c *Catalog) Stack() []types.StackItem {
	return append([]types.StackItem(nil), c.stack...)
}

// Localize picks p's text for lang, falling back to the default language.
func Localize(p types.Project, lang types.Language) Entry {
	text, ok := p.Localized[lang]
	if !ok {
		text = p.Localized[types.DefaultLanguage]
	}
	return Entry{
		ID:          p.ID,
		Images:      p.Images,
		Tags:        p.Tags,
		ProjectText: text,
	}
}
