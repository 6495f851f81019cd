package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/pyfront/config"
	"github.com/dhamidi/pyfront/python/parser"
)

const lsName = "pyfront"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	// load resolves the settings for the workspace root sent by the editor.
	load func(rootDir string) (*config.Config, error)
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
		load:    config.LoadFrom,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg, err := ls.load(rootDir)
	if err != nil {
		log.Errorf("config: %s, using defaults", err)
		cfg = config.Default(rootDir)
	}
	ls.codebase = New(cfg)
	log.Infof("initialize: root %s", cfg.RootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.watcher = NewFileWatcher(ls.codebase, time.Second)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	log.Info("shutdown")
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f, _ := ls.codebase.OpenFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil
	}

	content := f.Content
	var edits []parser.Edit
	for _, change := range params.ContentChanges {
		next, edit, ok := applyChange(content, change)
		if !ok {
			log.Warningf("didChange %s: unsupported change %T", path, change)
			continue
		}
		content = next
		edits = append(edits, edit)
	}
	if len(edits) == 0 {
		return nil
	}

	f, _ = ls.codebase.EditFile(path, content, edits)
	ls.publishDiagnostics(ctx, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.CloseFile(path)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text == nil {
		return nil
	}
	if f := ls.codebase.GetFile(path); f != nil && string(f.Content) == *params.Text {
		return nil
	}
	f, _ := ls.codebase.UpdateFile(path, []byte(*params.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil || f.Tree == nil {
		return nil, nil
	}
	return documentSymbols(f, f.Symbols), nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, f *FileInfo) {
	if f == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: protocolDiagnostics(f),
	})
}

func protocolDiagnostics(f *FileInfo) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	if f.Tree == nil {
		if f.ParseErr != nil {
			out = append(out, protocol.Diagnostic{
				Severity: &severity,
				Source:   &source,
				Message:  f.ParseErr.Error(),
			})
		}
		return out
	}
	src, lines := f.Tree.Source(), f.Tree.Lines()
	for _, d := range f.Tree.Diagnostics() {
		code := protocol.IntegerOrString{Value: d.Kind.String()}
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(src, lines, d.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Error.Error(),
		})
	}
	return out
}

func documentSymbols(f *FileInfo, syms []Symbol) []protocol.DocumentSymbol {
	src, lines := f.Tree.Source(), f.Tree.Lines()
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, s := range syms {
		out = append(out, protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           protocolSymbolKind(s.Kind),
			Range:          toProtocolRange(src, lines, s.Span),
			SelectionRange: toProtocolRange(src, lines, s.NameSpan),
			Children:       documentSymbols(f, s.Children),
		})
	}
	return out
}

func protocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolClass:
		return protocol.SymbolKindClass
	case SymbolMethod:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindFunction
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
