package bootstrap

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/dappforge/dappforge-backend/internal/deployments/catalog"
	"github.com/dappforge/dappforge-backend/templates"
)

// LoadTemplates returns the template tree and its catalog. An empty dir selects
// the copy embedded in the binary.
func LoadTemplates(dir string) (fs.FS, *catalog.Catalog, error) {
	var fsys fs.FS = templates.FS
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("templates dir: %w", err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("templates dir %s is not a directory", dir)
		}
		fsys = os.DirFS(dir)
	}

	cat, err := catalog.Load(fsys, templates.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	return fsys, cat, nil
}
