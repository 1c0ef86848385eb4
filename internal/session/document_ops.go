package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/docx"
	"github.com/docforge-io/docforge/internal/locate"
)

// DocumentInfo is the payload of GetDocumentInfo.
type DocumentInfo struct {
	Path       string      `json:"path"`
	Paragraphs int         `json:"paragraphs"`
	Tables     int         `json:"tables"`
	Blocks     int         `json:"blocks"`
	Margins    doc.Margins `json:"margins"`
	Revision   uint64      `json:"revision"`
}

// ParagraphInfo is one entry of the GetParagraphs payload.
type ParagraphInfo struct {
	Index int                `json:"index"`
	Text  string             `json:"text"`
	Style doc.ParagraphStyle `json:"style"`
}

// TableInfo is one entry of the GetTables payload.
type TableInfo struct {
	Index int    `json:"index"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Style string `json:"style,omitempty"`
}

// CreateDocument starts a new empty document and saves it to path.
func (p *Processor) CreateDocument(path string) Result {
	return p.run("create_document", func() (interface{}, []locate.Address, error) {
		d := doc.NewDocument()
		if err := docx.Write(d, path); err != nil {
			return nil, nil, err
		}
		p.current = d
		p.currentPath = path
		p.documents[path] = d
		p.updateOpenGauge()
		return path, nil, nil
	})
}

// OpenDocument loads an existing document and makes it current.
func (p *Processor) OpenDocument(path string) Result {
	return p.run("open_document", func() (interface{}, []locate.Address, error) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file does not exist: %s", path)
		}
		d, err := docx.Read(path)
		if err != nil {
			return nil, nil, err
		}
		p.current = d
		p.currentPath = path
		p.documents[path] = d
		p.updateOpenGauge()
		return path, nil, nil
	})
}

// SaveDocument writes the current document back to its original file.
func (p *Processor) SaveDocument() Result {
	return p.run("save_document", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if p.currentPath == "" {
			return nil, nil, fmt.Errorf("%w: document has no path, use save_as_document", doc.ErrNoDocument)
		}
		if err := docx.Write(d, p.currentPath); err != nil {
			return nil, nil, err
		}
		if p.met != nil {
			p.met.DocumentsSaved.Inc()
		}
		return p.currentPath, nil, nil
	})
}

// SaveAsDocument writes the current document to a new path, which becomes
// its path from now on.
func (p *Processor) SaveAsDocument(newPath string) Result {
	return p.run("save_as_document", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if err := docx.Write(d, newPath); err != nil {
			return nil, nil, err
		}
		p.currentPath = newPath
		p.documents[newPath] = d
		p.updateOpenGauge()
		if p.met != nil {
			p.met.DocumentsSaved.Inc()
		}
		return newPath, nil, nil
	})
}

// CreateDocumentCopy saves a copy of the current document next to the
// original, with the suffix appended to the base name.
func (p *Processor) CreateDocumentCopy(suffix string) Result {
	return p.run("create_document_copy", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if p.currentPath == "" {
			return nil, nil, fmt.Errorf("%w: document has no path, cannot create a copy", doc.ErrNoDocument)
		}
		if suffix == "" {
			suffix = "-copy"
		}
		dir := filepath.Dir(p.currentPath)
		base := filepath.Base(p.currentPath)
		ext := filepath.Ext(base)
		name := strings.TrimSuffix(base, ext)
		copyPath := filepath.Join(dir, name+suffix+ext)
		if err := docx.Write(d, copyPath); err != nil {
			return nil, nil, err
		}
		return copyPath, nil, nil
	})
}

// GetDocumentInfo reports paragraph, table and block counts plus layout.
func (p *Processor) GetDocumentInfo() Result {
	return p.run("get_document_info", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		return DocumentInfo{
			Path:       p.currentPath,
			Paragraphs: len(d.Paragraphs()),
			Tables:     len(d.Tables()),
			Blocks:     len(d.Blocks),
			Margins:    d.Margins,
			Revision:   d.Revision(),
		}, nil, nil
	})
}

// GetParagraphs lists the body paragraphs with their styles.
func (p *Processor) GetParagraphs() Result {
	return p.run("get_paragraphs", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		out := make([]ParagraphInfo, 0)
		for i, para := range d.Paragraphs() {
			out = append(out, ParagraphInfo{Index: i, Text: para.Text(), Style: para.Style})
		}
		return out, nil, nil
	})
}

// GetTables lists the body tables with their dimensions.
func (p *Processor) GetTables() Result {
	return p.run("get_tables", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		out := make([]TableInfo, 0)
		for i, t := range d.Tables() {
			out = append(out, TableInfo{Index: i, Rows: t.RowCount(), Cols: t.Cols, Style: t.Style})
		}
		return out, nil, nil
	})
}

func (p *Processor) updateOpenGauge() {
	if p.met != nil {
		p.met.DocumentsOpen.Set(float64(len(p.documents)))
	}
}
