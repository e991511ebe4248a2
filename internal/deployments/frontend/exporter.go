package frontend

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"

	"github.com/dappforge/dappforge-backend/internal/deployments/catalog"
	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/klauspost/compress/zip"
)

const (
	ArchiveName = "frontend-components.zip"
	templateDir = "frontend"
)

// File is a rendered front-end component.
type File struct {
	Name    string
	Content []byte
}

// Exporter renders the UI component matching a project's contract type.
type Exporter struct {
	fsys    fs.FS
	catalog *catalog.Catalog
}

func NewExporter(fsys fs.FS, cat *catalog.Catalog) *Exporter {
	return &Exporter{fsys: fsys, catalog: cat}
}

// Render fills the template for p. Types without a front-end template yield an
// UnknownTypeError.
func (e *Exporter) Render(p *domain.Project) (*File, error) {
	tmpl, ok := e.catalog.FrontendTemplate(p.Type)
	if !ok {
		return nil, &domain.UnknownTypeError{Type: string(p.Type)}
	}

	raw, err := fs.ReadFile(e.fsys, path.Join(templateDir, tmpl.Path))
	if err != nil {
		return nil, fmt.Errorf("read frontend template: %w", err)
	}

	values := map[string]string{
		"id":              strconv.FormatInt(p.ID, 10),
		"ownerAddress":    p.OwnerAddress,
		"type":            string(p.Type),
		"name":            p.Name,
		"transactionHash": p.TransactionHash,
	}
	return &File{
		Name:    path.Base(tmpl.Path),
		Content: []byte(tmpl.Replacements.Apply(string(raw), values)),
	}, nil
}

// WriteArchive writes a zip holding only f.
func WriteArchive(w io.Writer, f *File) error {
	zw := zip.NewWriter(w)
	fw, err := zw.Create(f.Name)
	if err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := fw.Write(f.Content); err != nil {
		return fmt.Errorf("write archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
