package codebase

import (
	"strings"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/pyfront/config"
	"github.com/dhamidi/pyfront/python/parser"
)

type notification struct {
	method string
	params any
}

func newTestServer(t *testing.T) (*LSPServer, *glsp.Context, *[]notification) {
	t.Helper()
	ls := NewLSPServer("test")
	ls.load = func(dir string) (*config.Config, error) { return config.Default(dir), nil }
	var sent []notification
	ctx := &glsp.Context{Notify: func(method string, params any) {
		sent = append(sent, notification{method, params})
	}}
	root := t.TempDir()
	if _, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &root}); err != nil {
		t.Fatalf("initialize() error = %v", err)
	}
	return ls, ctx, &sent
}

func lastDiagnostics(t *testing.T, sent []notification) []protocol.Diagnostic {
	t.Helper()
	if len(sent) == 0 {
		t.Fatalf("no notification sent")
	}
	n := sent[len(sent)-1]
	if n.method != protocol.ServerTextDocumentPublishDiagnostics {
		t.Fatalf("method = %s", n.method)
	}
	return n.params.(protocol.PublishDiagnosticsParams).Diagnostics
}

func TestLSPInitializeCapabilities(t *testing.T) {
	ls := NewLSPServer("1.2.3")
	ls.load = func(dir string) (*config.Config, error) { return config.Default(dir), nil }
	root := t.TempDir()
	res, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{RootPath: &root})
	if err != nil {
		t.Fatalf("initialize() error = %v", err)
	}
	result := res.(protocol.InitializeResult)
	sync := result.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	if sync.Change == nil || *sync.Change != protocol.TextDocumentSyncKindIncremental {
		t.Errorf("TextDocumentSync.Change = %v, want incremental", sync.Change)
	}
	if result.Capabilities.DocumentSymbolProvider == nil {
		t.Errorf("document symbols not advertised")
	}
	if *result.ServerInfo.Version != "1.2.3" {
		t.Errorf("version = %s", *result.ServerInfo.Version)
	}
}

func TestLSPIncrementalChangePublishesDiagnostics(t *testing.T) {
	ls, ctx, sent := newTestServer(t)
	uri := "file:///work/a.py"

	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "python", Version: 1, Text: "x = 1\ny = 2\n"},
	})
	if err != nil {
		t.Fatalf("didOpen error = %v", err)
	}
	if diags := lastDiagnostics(t, *sent); len(diags) != 0 {
		t.Errorf("clean file has diagnostics %v", diags)
	}

	// Replace "2" on the second line with "= 2".
	change := protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: 1, Character: 4},
			End:   protocol.Position{Line: 1, Character: 5},
		},
		Text: "= 2",
	}
	err = ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}, Version: 2},
		ContentChanges: []any{change},
	})
	if err != nil {
		t.Fatalf("didChange error = %v", err)
	}
	f := ls.codebase.GetFile("/work/a.py")
	if got := string(f.Content); got != "x = 1\ny = = 2\n" {
		t.Fatalf("content = %q", got)
	}
	diags := lastDiagnostics(t, *sent)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if r := diags[0].Range; r.Start.Line != 1 || r.Start.Character != 4 {
		t.Errorf("diagnostic range = %+v, want it on line 1 column 4", r)
	}
	if !strings.Contains(diags[0].Message, `"="`) {
		t.Errorf("message = %q", diags[0].Message)
	}

	err = ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}, Version: 3},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "z = 3\n"}},
	})
	if err != nil {
		t.Fatalf("didChange error = %v", err)
	}
	if diags := lastDiagnostics(t, *sent); len(diags) != 0 {
		t.Errorf("diagnostics after full replacement = %v", diags)
	}
}

func TestLSPDocumentSymbols(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	uri := "file:///work/b.py"
	src := "class A:\n    def m(self):\n        pass\n\ndef f():\n    pass\n"
	if err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: src},
	}); err != nil {
		t.Fatal(err)
	}
	res, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("documentSymbol error = %v", err)
	}
	syms := res.([]protocol.DocumentSymbol)
	if len(syms) != 2 || syms[0].Name != "A" || syms[1].Name != "f" {
		t.Fatalf("symbols = %+v", syms)
	}
	if syms[0].Kind != protocol.SymbolKindClass || len(syms[0].Children) != 1 || syms[0].Children[0].Kind != protocol.SymbolKindMethod {
		t.Errorf("class symbol = %+v", syms[0])
	}
	if sel := syms[1].SelectionRange; sel.Start.Line != 4 || sel.Start.Character != 4 || sel.End.Character != 5 {
		t.Errorf("f selection range = %+v", sel)
	}
}

func TestProtocolPositions(t *testing.T) {
	src := []byte("s = 'é😀'\nx\n")
	lines := parser.NewLineIndex(src)
	tests := []struct {
		offset int
		pos    protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{5, protocol.Position{Line: 0, Character: 5}},
		{7, protocol.Position{Line: 0, Character: 6}},
		{11, protocol.Position{Line: 0, Character: 8}},
		{13, protocol.Position{Line: 1, Character: 0}},
	}
	for _, tt := range tests {
		if got := toProtocolPosition(src, lines, tt.offset); got != tt.pos {
			t.Errorf("toProtocolPosition(%d) = %+v, want %+v", tt.offset, got, tt.pos)
		}
		if got := fromProtocolPosition(src, lines, tt.pos); got != tt.offset {
			t.Errorf("fromProtocolPosition(%+v) = %d, want %d", tt.pos, got, tt.offset)
		}
	}
	if got := fromProtocolPosition(src, lines, protocol.Position{Line: 0, Character: 99}); got != 12 {
		t.Errorf("position past line end = %d, want 12", got)
	}
	if got := fromProtocolPosition(src, lines, protocol.Position{Line: 9}); got != len(src) {
		t.Errorf("position past last line = %d, want %d", got, len(src))
	}
}

func TestApplyChange(t *testing.T) {
	src := []byte("ab\ncd\n")
	out, edit, ok := applyChange(src, protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 1}, End: protocol.Position{Line: 1, Character: 1}},
		Text:  "X",
	})
	if !ok || string(out) != "aXd\n" {
		t.Fatalf("applyChange() = %q, %v", out, ok)
	}
	if want := (parser.Edit{Start: 1, OldLength: 3, NewLength: 1}); edit != want {
		t.Errorf("edit = %+v, want %+v", edit, want)
	}
	if _, _, ok := applyChange(src, "bogus"); ok {
		t.Errorf("applyChange accepted an unknown change type")
	}
}
