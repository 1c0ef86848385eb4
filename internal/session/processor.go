// Package session implements the command façade: a processor owning the
// open documents and exposing one method per editing or query operation.
// Each method validates, delegates to the editing engines, and returns a
// structured result envelope. The processor itself is not safe for
// concurrent use; the transport serializes requests per process.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docforge-io/docforge/internal/config"
	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/docx"
	"github.com/docforge-io/docforge/internal/locate"
	"github.com/docforge-io/docforge/internal/logger"
	"github.com/docforge-io/docforge/internal/metrics"
)

// StateFileName is the file recording the current document path so a
// restarted server can pick up where it left off.
const StateFileName = "docforge_current_doc.txt"

// Result is the structured outcome of one operation.
type Result struct {
	Status    string           `json:"status"` // "ok" or "error"
	ErrorKind string           `json:"error_kind,omitempty"`
	Error     string           `json:"error,omitempty"`
	Affected  []locate.Address `json:"affected,omitempty"`
	Payload   interface{}      `json:"payload,omitempty"`
}

// Processor holds the open documents and the current editing target.
type Processor struct {
	cfg *config.Config
	log *logger.Logger
	met *metrics.Metrics // nil when metrics are disabled

	documents   map[string]*doc.Document
	current     *doc.Document
	currentPath string
}

// New creates a processor. The metrics handle may be nil.
func New(cfg *config.Config, log *logger.Logger, met *metrics.Metrics) *Processor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{
		cfg:       cfg,
		log:       log.Component("facade"),
		met:       met,
		documents: make(map[string]*doc.Document),
	}
}

// Current returns the current document, or ErrNoDocument when none is open.
func (p *Processor) Current() (*doc.Document, error) {
	if p.current == nil {
		return nil, doc.ErrNoDocument
	}
	return p.current, nil
}

// CurrentPath returns the path of the current document, if any.
func (p *Processor) CurrentPath() string {
	return p.currentPath
}

// run instruments one operation with logging and metrics and folds its
// outcome into the result envelope.
func (p *Processor) run(op string, fn func() (interface{}, []locate.Address, error)) Result {
	started := time.Now()
	payload, affected, err := fn()
	elapsed := time.Since(started)

	p.log.LogOperation(op, elapsed, err)
	if p.met != nil {
		p.met.RecordOperation(op, elapsed, err)
	}
	if err != nil {
		return Result{
			Status:    "error",
			ErrorKind: doc.ErrorKind(err),
			Error:     err.Error(),
		}
	}
	return Result{Status: "ok", Affected: affected, Payload: payload}
}

func (p *Processor) statePath() string {
	dir := p.cfg.State.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, StateFileName)
}

// ClearState removes the restart state file so the next start is clean.
func (p *Processor) ClearState() {
	if err := os.Remove(p.statePath()); err == nil {
		p.log.Info("removed existing state file for clean startup").Send()
	}
}

// SaveState saves the current document to its file and records its path for
// the next start. A processor with no open document saves nothing.
func (p *Processor) SaveState() error {
	if p.current == nil || p.currentPath == "" {
		p.log.Info("no document open, not saving state").Send()
		return nil
	}
	if err := docx.Write(p.current, p.currentPath); err != nil {
		return fmt.Errorf("failed to save current document: %w", err)
	}
	if err := os.WriteFile(p.statePath(), []byte(p.currentPath), 0644); err != nil {
		return fmt.Errorf("failed to save current document path: %w", err)
	}
	return nil
}

// LoadState restores the current document from the state file, if present.
// A stale or unreadable state file is removed rather than retried forever.
func (p *Processor) LoadState() bool {
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return false
	}
	path := string(data)
	d, err := docx.Read(path)
	if err != nil {
		p.log.Error("failed to load document from state file").Str("path", path).Err(err).Send()
		os.Remove(p.statePath())
		return false
	}
	p.current = d
	p.currentPath = path
	p.documents[path] = d
	if p.met != nil {
		p.met.DocumentsOpen.Set(float64(len(p.documents)))
	}
	return true
}
