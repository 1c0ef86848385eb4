package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/docforge-io/docforge/internal/config"
	"github.com/docforge-io/docforge/internal/session"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.State.Dir = t.TempDir()
	proc := session.New(cfg, nil, nil)
	return New(proc, nil, nil)
}

func rawParams(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return data
}

func TestServer_DispatchUnknownMethod(t *testing.T) {
	s := testServer(t)

	resp := s.Dispatch("no_such_method", nil)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("expected method-not-found error, got %+v", resp)
	}
}

func TestServer_DispatchBadParams(t *testing.T) {
	s := testServer(t)

	resp := s.Dispatch("add_heading", json.RawMessage(`{"level": "two"}`))
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("expected invalid-params error, got %+v", resp)
	}
}

func TestServer_DispatchOperationError(t *testing.T) {
	s := testServer(t)

	// No document open: the request is well-formed, so the error travels
	// inside the result envelope, not as a protocol error.
	resp := s.Dispatch("add_paragraph", rawParams(t, map[string]string{"text": "x"}))
	if resp.Error != nil {
		t.Fatalf("expected result envelope, got protocol error %+v", resp.Error)
	}
	res, ok := resp.Result.(session.Result)
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	if res.Status != "error" || res.ErrorKind != "NoDocument" {
		t.Errorf("expected NoDocument, got %+v", res)
	}
}

func TestServer_DispatchEditFlow(t *testing.T) {
	s := testServer(t)
	path := filepath.Join(t.TempDir(), "flow.docx")

	steps := []struct {
		method string
		params interface{}
	}{
		{"create_document", map[string]string{"path": path}},
		{"add_heading", map[string]interface{}{"text": "Title", "level": 1}},
		{"add_paragraph", map[string]interface{}{"text": "hello world", "bold": true}},
		{"search_and_replace", map[string]interface{}{"pattern": "world", "replacement": "there"}},
		{"save_document", nil},
	}
	for _, step := range steps {
		var params json.RawMessage
		if step.params != nil {
			params = rawParams(t, step.params)
		}
		resp := s.Dispatch(step.method, params)
		if resp.Error != nil {
			t.Fatalf("%s: protocol error %+v", step.method, resp.Error)
		}
		if res := resp.Result.(session.Result); res.Status != "ok" {
			t.Fatalf("%s: %+v", step.method, res)
		}
	}

	resp := s.Dispatch("get_paragraphs", nil)
	res := resp.Result.(session.Result)
	paras := res.Payload.([]session.ParagraphInfo)
	if len(paras) != 2 || paras[1].Text != "hello there" {
		t.Errorf("unexpected paragraphs %+v", paras)
	}
}

func TestServer_MethodsCoverAllOperations(t *testing.T) {
	s := testServer(t)

	required := []string{
		"create_document", "open_document", "save_document", "save_as_document",
		"create_document_copy", "get_document_info", "get_paragraphs", "get_tables",
		"add_paragraph", "add_heading", "delete_paragraph", "delete_text",
		"search_text", "search_and_replace", "find_and_replace",
		"replace_section", "edit_section_by_keyword",
		"add_table", "add_table_row", "delete_table_row", "edit_table_cell",
		"merge_table_cells", "split_table",
		"add_page_break", "set_page_margins",
	}
	have := make(map[string]bool)
	for _, name := range s.Methods() {
		have[name] = true
	}
	for _, name := range required {
		if !have[name] {
			t.Errorf("method %s not registered", name)
		}
	}
}

func TestServer_HandleLine(t *testing.T) {
	s := testServer(t)

	resp := s.handleLine([]byte(`{not json`))
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Errorf("expected parse error, got %+v", resp)
	}

	resp = s.handleLine([]byte(`{"jsonrpc":"2.0","id":1}`))
	if resp.Error == nil || resp.Error.Code != codeInvalidRequest {
		t.Errorf("expected invalid-request error, got %+v", resp)
	}
}

func TestServer_RunStream(t *testing.T) {
	s := testServer(t)
	path := filepath.Join(t.TempDir(), "stream.docx")

	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"create_document","params":{"path":"` + path + `"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"add_paragraph","params":{"text":"streamed"}}`,
		``,
		`{"jsonrpc":"2.0","id":3,"method":"get_document_info"}`,
	}
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	var out bytes.Buffer

	if err := s.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 response lines (blank line ignored), got %d: %q", len(lines), out.String())
	}
	for i, line := range lines {
		var resp struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Result  session.Result  `json:"result"`
		}
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d is not valid JSON: %v", i, err)
		}
		if resp.JSONRPC != "2.0" {
			t.Errorf("response %d: expected jsonrpc 2.0, got %q", i, resp.JSONRPC)
		}
		if resp.Result.Status != "ok" {
			t.Errorf("response %d: expected ok, got %+v", i, resp.Result)
		}
	}

	var last struct {
		ID     int `json:"id"`
		Result struct {
			Payload struct {
				Paragraphs int `json:"paragraphs"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.ID != 3 {
		t.Errorf("expected id 3, got %d", last.ID)
	}
	if last.Result.Payload.Paragraphs != 1 {
		t.Errorf("expected 1 paragraph, got %d", last.Result.Payload.Paragraphs)
	}
}

func TestServer_RunCancelReleasesReader(t *testing.T) {
	s := testServer(t)
	before := runtime.NumGoroutine()

	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, pr, &out) }()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A line arriving after shutdown must not leave the reader goroutine
	// blocked forever on its handoff.
	if _, err := pw.Write([]byte(`{"jsonrpc":"2.0","id":1,"method":"get_document_info"}` + "\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pw.Close()

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > before {
		t.Errorf("expected reader goroutine to exit after cancel, %d goroutines remain (started with %d)", n, before)
	}
}
