// Package artstyle holds the read-only catalog of art styles used to decorate
// prompts and to drive style pickers.
package artstyle

import (
	"fmt"
	"strings"
	"sync"

	"github.com/artisanhub/artisanhub-api/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// Style describes one selectable art style
type Style struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Thumbnail   string `yaml:"thumbnail" json:"thumbnail"`
}

// Catalog is an immutable, ordered set of styles
type Catalog struct {
	styles []Style
	byID   map[string]Style
}

type catalogFile struct {
	Styles []Style `yaml:"styles"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once per process
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embedded.ArtStylesYAML)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that cannot continue without the catalog
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from a YAML document
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse art style catalog: %w", err)
	}
	return New(file.Styles)
}

// New builds a catalog from styles. IDs must be unique and non-empty.
func New(styles []Style) (*Catalog, error) {
	c := &Catalog{
		styles: make([]Style, 0, len(styles)),
		byID:   make(map[string]Style, len(styles)),
	}
	for _, s := range styles {
		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("art style %q: id and name are required", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate art style id %q", s.ID)
		}
		c.styles = append(c.styles, s)
		c.byID[s.ID] = s
	}
	return c, nil
}

// All returns a copy of the styles in catalog order
func (c *Catalog) All() []Style {
	out := make([]Style, len(c.styles))
	copy(out, c.styles)
	return out
}

// Lookup finds a style by id
func (c *Catalog) Lookup(id string) (Style, bool) {
	s, ok := c.byID[strings.TrimSpace(id)]
	return s, ok
}

// DecoratePrompt appends the style suffix to prompt. Unknown ids leave the prompt unchanged.
func (c *Catalog) DecoratePrompt(prompt, styleID string) string {
	s, ok := c.Lookup(styleID)
	if !ok {
		return prompt
	}
	return fmt.Sprintf("%s, in %s style", prompt, s.Name)
}
