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
)

const (
	manifestFile = "Move.toml"
	sourcesDir   = "sources"
)

// TemplateComposer builds Move packages by literal find/replace over the
// template store. It does not parse Move or TOML source beyond that.
type TemplateComposer struct {
	fsys    fs.FS
	catalog *catalog.Catalog
}

func New(fsys fs.FS, cat *catalog.Catalog) *TemplateComposer {
	return &TemplateComposer{fsys: fsys, catalog: cat}
}

// Compose copies the descriptor's template into dst, fills the placeholders
// from fields and points the manifest's named address at owner.
func (c *TemplateComposer) Compose(d *catalog.Descriptor, owner string, fields domain.Fields, dst string) error {
	if err := d.Validate(owner, fields); err != nil {
		return err
	}

	tmpl, err := fs.Sub(c.fsys, d.Template)
	if err != nil {
		return fmt.Errorf("open template %s: %w", d.Template, err)
	}
	if err := os.CopyFS(dst, tmpl); err != nil {
		return fmt.Errorf("copy template %s: %w", d.Template, err)
	}

	srcPath := filepath.Join(dst, sourcesDir, d.Source)
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(srcPath, []byte(d.Replacements.Apply(string(src), fields)), 0o644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}

	manifestPath := filepath.Join(dst, manifestFile)
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	rewritten, err := SetNamedAddress(string(manifest), d.AddressVar, owner)
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, []byte(rewritten), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// SetNamedAddress replaces the `<name> = "0x0"` default assignment with owner.
func SetNamedAddress(manifest, name, owner string) (string, error) {
	placeholder := fmt.Sprintf("%s = \"0x0\"", name)
	if !strings.Contains(manifest, placeholder) {
		return "", fmt.Errorf("manifest has no default address for %s", name)
	}
	return strings.ReplaceAll(manifest, placeholder, fmt.Sprintf("%s = \"%s\"", name, owner)), nil
}

func (c *TemplateComposer) readSource(comp catalog.Component) (string, error) {
	raw, err := fs.ReadFile(c.fsys, path.Join(comp.Template, sourcesDir, comp.Source))
	if err != nil {
		return "", fmt.Errorf("read %s source: %w", comp.Template, err)
	}
	return string(raw), nil
}
