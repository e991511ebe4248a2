package composer

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dappforge/dappforge-backend/internal/deployments/catalog"
	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/pelletier/go-toml/v2"
)

type visualPackage struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Authors []string `toml:"authors"`
}

type visualManifest struct {
	Package      visualPackage     `toml:"package"`
	Addresses    map[string]string `toml:"addresses"`
	Dependencies map[string]any    `toml:"dependencies"`
}

type componentManifest struct {
	Dependencies map[string]any `toml:"dependencies"`
}

// ComposeVisual splices the bodies of the selected components into a single
// module owned by owner. Bodies are concatenated as text: conflicting
// declarations between components are not detected, and component
// placeholders are left as they are.
func (c *TemplateComposer) ComposeVisual(owner string, components []string, dst string) error {
	var missing []string
	if strings.TrimSpace(owner) == "" {
		missing = append(missing, "ownerAddress")
	}
	if len(components) == 0 {
		missing = append(missing, "components")
	}
	if len(missing) > 0 {
		return &domain.MissingFieldError{Fields: missing}
	}

	resolved := make([]catalog.Component, 0, len(components))
	for _, label := range components {
		_, comp, err := c.catalog.Component(label)
		if err != nil {
			return err
		}
		resolved = append(resolved, comp)
	}

	visual := c.catalog.Visual
	var code strings.Builder
	fmt.Fprintf(&code, "module %s::%s {\n", owner, visual.Module)

	deps := make(map[string]any)
	for _, comp := range resolved {
		src, err := c.readSource(comp)
		if err != nil {
			return err
		}
		body, err := InnerBody(src)
		if err != nil {
			return fmt.Errorf("%s: %w", comp.Template, err)
		}
		code.WriteString(body)

		compDeps, err := c.readDependencies(comp)
		if err != nil {
			return err
		}
		for name, dep := range compDeps {
			if _, ok := deps[name]; !ok {
				deps[name] = dep
			}
		}
	}
	code.WriteString("\n}")

	manifest, err := toml.Marshal(visualManifest{
		Package: visualPackage{
			Name:    "MyModule",
			Version: "1.0.0",
			Authors: []string{"dApp Builder"},
		},
		Addresses:    map[string]string{visual.AddressVar: owner},
		Dependencies: deps,
	})
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(dst, sourcesDir), 0o755); err != nil {
		return fmt.Errorf("create sources dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dst, sourcesDir, visual.Module+".move"), []byte(code.String()), 0o644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dst, manifestFile), manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// InnerBody returns the text strictly between the first '{' and the last '}'.
func InnerBody(src string) (string, error) {
	open := strings.Index(src, "{")
	closing := strings.LastIndex(src, "}")
	if open < 0 || closing <= open {
		return "", fmt.Errorf("source has no module body")
	}
	return src[open+1 : closing], nil
}

func (c *TemplateComposer) readDependencies(comp catalog.Component) (map[string]any, error) {
	raw, err := fs.ReadFile(c.fsys, path.Join(comp.Template, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("read %s manifest: %w", comp.Template, err)
	}
	var m componentManifest
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s manifest: %w", comp.Template, err)
	}
	return m.Dependencies, nil
}
