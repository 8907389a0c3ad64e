// Package lsp serves syntax diagnostics for documents written in a
// compiled grammar over the language server protocol.
package lsp

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/grammar"
	"github.com/dhamidi/abnfcst/stream"
)

const lsName = "abnfcst"

var log = commonlog.GetLogger("abnfcst.lsp")

// Server checks every opened document against one start rule and
// publishes the furthest failure as a diagnostic.
type Server struct {
	grammar *grammar.Compiled
	start   string
	version string
	handler protocol.Handler
	server  *server.Server
}

func NewServer(g *grammar.Compiled, start, version string) *Server {
	ls := &Server{
		grammar: g,
		start:   start,
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
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

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("checking documents with start rule %s", ls.start)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		ls.update(ctx, uri, *params.Text)
		return nil
	}
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("read %s: %s", path, err)
		return nil
	}
	ls.update(ctx, uri, string(content))
	return nil
}

func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnose(ls.grammar, ls.start, uri, text),
	})
}

// Diagnose parses text with the start rule and reports at most one
// diagnostic. A document that parses yields an empty, non-nil slice so
// that publishing it clears earlier diagnostics.
func Diagnose(g *grammar.Compiled, start string, uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	_, err := g.ParseString(start, uri, text)
	if err == nil {
		return []protocol.Diagnostic{}
	}
	log.Debugf("%s: %s", uri, err)

	var se *cst.SyntaxError
	if !errors.As(err, &se) {
		return []protocol.Diagnostic{diagnostic(protocol.Range{}, err.Error())}
	}
	runes := []rune(text)
	at := position(runes, se.Pos)
	end := at
	if o := se.Pos.Offset; o < len(runes) && runes[o] != '\n' && runes[o] != '\r' {
		end.Character += protocol.UInteger(utf16.RuneLen(runes[o]))
	}
	return []protocol.Diagnostic{diagnostic(protocol.Range{Start: at, End: end}, message(se))}
}

func diagnostic(r protocol.Range, msg string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    r,
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

// message drops the location prefix of a syntax error, which the
// diagnostic range already carries.
func message(se *cst.SyntaxError) string {
	msg := se.Error()
	if _, rest, ok := strings.Cut(msg, se.Pos.String()+": "); ok {
		return rest
	}
	return msg
}

// position converts a rune position into a zero-based line and a UTF-16
// character index, as the protocol counts them.
func position(runes []rune, p stream.Position) protocol.Position {
	lineStart := p.Offset - (p.Column - 1)
	character := 0
	for _, r := range runes[lineStart:p.Offset] {
		character += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(character),
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
