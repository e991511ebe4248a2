package catalog

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"gopkg.in/yaml.v3"
)

// Replacement substitutes every occurrence of Placeholder with the value of Field.
type Replacement struct {
	Placeholder string `yaml:"placeholder"`
	Field       string `yaml:"field"`
}

// Replacements are applied in order. A value that itself contains a later
// placeholder is substituted again by that later pair.
type Replacements []Replacement

// Apply replaces every occurrence of each placeholder with values[field].
func (r Replacements) Apply(text string, values map[string]string) string {
	for _, rep := range r {
		text = strings.ReplaceAll(text, rep.Placeholder, values[rep.Field])
	}
	return text
}

// Placeholders lists the placeholder tokens, without duplicates.
func (r Replacements) Placeholders() []string {
	seen := make(map[string]bool, len(r))
	var out []string
	for _, rep := range r {
		if !seen[rep.Placeholder] {
			seen[rep.Placeholder] = true
			out = append(out, rep.Placeholder)
		}
	}
	return out
}

// Descriptor maps a contract type to its template and substitutions.
type Descriptor struct {
	Type         domain.ContractType `yaml:"type"`
	Template     string              `yaml:"template"`
	Source       string              `yaml:"source"`
	AddressVar   string              `yaml:"address_var"`
	Required     []string            `yaml:"required"`
	Replacements Replacements        `yaml:"replacements"`
	Success      string              `yaml:"success"`
	Failure      string              `yaml:"failure"`
}

// Component is a building block of a visual deployment.
type Component struct {
	Template string `yaml:"template"`
	Source   string `yaml:"source"`
}

type Visual struct {
	Module      string               `yaml:"module"`
	AddressVar  string               `yaml:"address_var"`
	DefaultName string               `yaml:"default_name"`
	Success     string               `yaml:"success"`
	Failure     string               `yaml:"failure"`
	Components  map[string]Component `yaml:"components"`
	Aliases     map[string]string    `yaml:"aliases"`
}

// FrontendTemplate is an exportable UI component for a contract type.
type FrontendTemplate struct {
	Path         string       `yaml:"path"`
	Replacements Replacements `yaml:"replacements"`
}

// Catalog is the static template configuration.
type Catalog struct {
	Contracts []Descriptor                             `yaml:"contracts"`
	Visual    Visual                                   `yaml:"visual"`
	Frontend  map[domain.ContractType]FrontendTemplate `yaml:"frontend"`

	byType map[domain.ContractType]*Descriptor
}

// Load reads and indexes the catalog file from fsys.
func Load(fsys fs.FS, name string) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c.byType = make(map[domain.ContractType]*Descriptor, len(c.Contracts))
	for i := range c.Contracts {
		d := &c.Contracts[i]
		if d.Type == "" || d.Template == "" || d.Source == "" || d.AddressVar == "" {
			return nil, fmt.Errorf("catalog entry %d is incomplete", i)
		}
		if _, dup := c.byType[d.Type]; dup {
			return nil, fmt.Errorf("catalog declares %q twice", d.Type)
		}
		c.byType[d.Type] = d
	}
	if c.Visual.AddressVar == "" {
		c.Visual.AddressVar = "owner"
	}
	if c.Visual.Module == "" {
		c.Visual.Module = "my_module"
	}
	return &c, nil
}

// Descriptor returns the descriptor for t or an UnknownTypeError.
func (c *Catalog) Descriptor(t domain.ContractType) (*Descriptor, error) {
	d, ok := c.byType[t]
	if !ok {
		return nil, &domain.UnknownTypeError{Type: string(t)}
	}
	return d, nil
}

// Types lists the contract types in catalog order.
func (c *Catalog) Types() []domain.ContractType {
	out := make([]domain.ContractType, 0, len(c.Contracts))
	for _, d := range c.Contracts {
		out = append(out, d.Type)
	}
	return out
}

// Component resolves a visual component label such as "Fungible Token".
func (c *Catalog) Component(label string) (string, Component, error) {
	key := NormalizeLabel(label)
	if alias, ok := c.Visual.Aliases[key]; ok {
		key = alias
	}
	comp, ok := c.Visual.Components[key]
	if !ok {
		return key, Component{}, &domain.UnknownTypeError{Type: key}
	}
	return key, comp, nil
}

// FrontendTemplate returns the export template for t, if any.
func (c *Catalog) FrontendTemplate(t domain.ContractType) (FrontendTemplate, bool) {
	ft, ok := c.Frontend[t]
	return ft, ok
}

// NormalizeLabel lower-cases a label and joins words with underscores.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// Missing returns the required fields that are absent or blank.
func (d *Descriptor) Missing(fields domain.Fields) []string {
	var missing []string
	for _, f := range d.Required {
		if strings.TrimSpace(fields[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate checks owner and required fields before any work is done.
func (d *Descriptor) Validate(owner string, fields domain.Fields) error {
	var missing []string
	if strings.TrimSpace(owner) == "" {
		missing = append(missing, "ownerAddress")
	}
	missing = append(missing, d.Missing(fields)...)
	if len(missing) > 0 {
		return &domain.MissingFieldError{Fields: missing}
	}
	return nil
}
