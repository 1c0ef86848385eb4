// Package server exposes the editing operations over a newline-delimited
// JSON-RPC 2.0 stream, normally stdin/stdout. One request line in, one
// response line out; requests are handled strictly in order.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/docforge-io/docforge/internal/edit"
	"github.com/docforge-io/docforge/internal/logger"
	"github.com/docforge-io/docforge/internal/metrics"
	"github.com/docforge-io/docforge/internal/session"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// maxLineBytes bounds a single request line. Section replacements carry
// whole document bodies, so the bound is generous.
const maxLineBytes = 16 << 20

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handler decodes params and runs one operation.
type handler func(params json.RawMessage) (session.Result, error)

// Server reads requests from a stream and answers them against a single
// processor.
type Server struct {
	proc    *session.Processor
	log     *logger.Logger
	met     *metrics.Metrics // nil when disabled
	methods map[string]handler
}

// New creates a server around the processor. The metrics handle may be nil.
func New(proc *session.Processor, log *logger.Logger, met *metrics.Metrics) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		proc: proc,
		log:  log.Component("server"),
		met:  met,
	}
	s.methods = s.buildMethods()
	return s
}

// Methods returns the sorted-insensitive set of registered method names.
func (s *Server) Methods() []string {
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	return names
}

// Run serves requests from r, writing one response line per request to w,
// until r is drained or ctx is cancelled. On return the current document
// is saved so a restart can resume.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	// Stale state from a crashed predecessor must not leak into this
	// session.
	s.proc.ClearState()

	s.log.Info("server started").Int("methods", len(s.methods)).Send()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	out := bufio.NewWriter(w)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if len(line) == 0 {
				continue
			}
			resp := s.handleLine(line)
			if err := s.writeResponse(out, resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}

	if err := s.proc.SaveState(); err != nil {
		s.log.Error("failed to save state on shutdown").Err(err).Send()
	}
	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("failed to read request stream: %w", err)
		}
	default:
	}
	s.log.Info("server stopped").Send()
	return nil
}

func (s *Server) writeResponse(out *bufio.Writer, resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if err := out.WriteByte('\n'); err != nil {
		return err
	}
	return out.Flush()
}

// handleLine parses and dispatches a single request line.
func (s *Server) handleLine(line []byte) response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.recordRequest("", "parse_error")
		return errorResponse(nil, codeParseError, "invalid JSON: "+err.Error())
	}
	if req.Method == "" {
		s.recordRequest("", "invalid_request")
		return errorResponse(req.ID, codeInvalidRequest, "method is required")
	}
	return s.dispatch(req)
}

// Dispatch runs a single named method with raw JSON params. It backs both
// the stream loop and the tests.
func (s *Server) Dispatch(method string, params json.RawMessage) response {
	return s.dispatch(request{JSONRPC: "2.0", Method: method, Params: params})
}

func (s *Server) dispatch(req request) response {
	started := time.Now()
	h, ok := s.methods[req.Method]
	if !ok {
		s.recordRequest(req.Method, "method_not_found")
		return errorResponse(req.ID, codeMethodNotFound, "unknown method "+req.Method)
	}

	result, err := h(req.Params)
	elapsed := time.Since(started)
	if err != nil {
		s.recordRequest(req.Method, "invalid_params")
		s.log.Warn("bad request").Str("method", req.Method).Err(err).Send()
		return errorResponse(req.ID, codeInvalidParams, err.Error())
	}

	s.recordRequest(req.Method, result.Status)
	s.log.Debug("request handled").
		Str("method", req.Method).
		Str("status", result.Status).
		Dur("duration", elapsed).
		Send()
	return response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) recordRequest(method, status string) {
	if s.met == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	s.met.RequestsTotal.WithLabelValues(method, status).Inc()
}

func errorResponse(id json.RawMessage, code int, msg string) response {
	return response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}}
}

// decode unmarshals params into args, treating absent params as the zero
// value.
func decode(params json.RawMessage, args interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, args); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func (s *Server) buildMethods() map[string]handler {
	return map[string]handler{
		// Document management.
		"create_document": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Path string `json:"path"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.CreateDocument(args.Path), nil
		},
		"open_document": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Path string `json:"path"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.OpenDocument(args.Path), nil
		},
		"save_document": func(params json.RawMessage) (session.Result, error) {
			return s.proc.SaveDocument(), nil
		},
		"save_as_document": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				NewPath string `json:"new_path"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.SaveAsDocument(args.NewPath), nil
		},
		"create_document_copy": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Suffix string `json:"suffix"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.CreateDocumentCopy(args.Suffix), nil
		},
		"get_document_info": func(params json.RawMessage) (session.Result, error) {
			return s.proc.GetDocumentInfo(), nil
		},
		"get_paragraphs": func(params json.RawMessage) (session.Result, error) {
			return s.proc.GetParagraphs(), nil
		},
		"get_tables": func(params json.RawMessage) (session.Result, error) {
			return s.proc.GetTables(), nil
		},

		// Content.
		"add_paragraph": func(params json.RawMessage) (session.Result, error) {
			var args session.ParagraphArgs
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.AddParagraph(args), nil
		},
		"add_heading": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Text  string `json:"text"`
				Level int    `json:"level"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.AddHeading(args.Text, args.Level), nil
		},
		"delete_paragraph": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Index int `json:"index"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.DeleteParagraph(args.Index), nil
		},
		"delete_text": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				ParagraphIndex int `json:"paragraph_index"`
				Start          int `json:"start"`
				End            int `json:"end"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.DeleteText(args.ParagraphIndex, args.Start, args.End), nil
		},
		"search_text": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Keyword string `json:"keyword"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.SearchText(args.Keyword), nil
		},
		"search_and_replace": func(params json.RawMessage) (session.Result, error) {
			var args session.ReplaceArgs
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.SearchAndReplace(args), nil
		},
		"find_and_replace": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Find    string `json:"find"`
				Replace string `json:"replace"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.FindAndReplace(args.Find, args.Replace), nil
		},
		"replace_section": func(params json.RawMessage) (session.Result, error) {
			var args session.SectionArgs
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.ReplaceSection(args), nil
		},
		"edit_section_by_keyword": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				Keyword string `json:"keyword"`
				NewText string `json:"new_text"`
				Mode    string `json:"mode"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.EditSectionByKeyword(args.Keyword, args.NewText, edit.MatchMode(args.Mode)), nil
		},

		// Tables.
		"add_table": func(params json.RawMessage) (session.Result, error) {
			var args session.TableArgs
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.AddTable(args), nil
		},
		"add_table_row": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				TableIndex int      `json:"table_index"`
				Data       []string `json:"data"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.AddTableRow(args.TableIndex, args.Data), nil
		},
		"delete_table_row": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				TableIndex int `json:"table_index"`
				RowIndex   int `json:"row_index"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.DeleteTableRow(args.TableIndex, args.RowIndex), nil
		},
		"edit_table_cell": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				TableIndex int    `json:"table_index"`
				Row        int    `json:"row"`
				Col        int    `json:"col"`
				Text       string `json:"text"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.EditTableCell(args.TableIndex, args.Row, args.Col, args.Text), nil
		},
		"merge_table_cells": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				TableIndex int `json:"table_index"`
				StartRow   int `json:"start_row"`
				StartCol   int `json:"start_col"`
				EndRow     int `json:"end_row"`
				EndCol     int `json:"end_col"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.MergeTableCells(args.TableIndex, args.StartRow, args.StartCol, args.EndRow, args.EndCol), nil
		},
		"split_table": func(params json.RawMessage) (session.Result, error) {
			var args struct {
				TableIndex int `json:"table_index"`
				AfterRow   int `json:"after_row"`
			}
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.SplitTable(args.TableIndex, args.AfterRow), nil
		},

		// Layout.
		"add_page_break": func(params json.RawMessage) (session.Result, error) {
			return s.proc.AddPageBreak(), nil
		},
		"set_page_margins": func(params json.RawMessage) (session.Result, error) {
			var args session.MarginArgs
			if err := decode(params, &args); err != nil {
				return session.Result{}, err
			}
			return s.proc.SetPageMargins(args), nil
		},
	}
}
