package main

import (
	"slices"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsFor("print 1 + 2;\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithCompileError(t *testing.T) {
	diags := diagnosticsFor("print 1;\nprint (2 + ;\n")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Fatalf("expected error severity, got %#v", d.Severity)
	}
	if d.Message != "expect expression" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 11 {
		t.Fatalf("unexpected range start %+v", d.Range.Start)
	}
	if d.Range.End.Character != d.Range.Start.Character+1 {
		t.Fatalf("expected a one character range, got %+v", d.Range)
	}
	if d.Source == nil || *d.Source != lspName {
		t.Fatalf("unexpected source %#v", d.Source)
	}
}

func TestDiagnosticsForLexError(t *testing.T) {
	diags := diagnosticsFor("print \"abc")
	if len(diags) != 1 || diags[0].Message != "unterminated string" {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
	if diags[0].Range.Start.Character != 6 {
		t.Fatalf("expected the range at the opening quote, got %+v", diags[0].Range.Start)
	}
}

func TestKeywordCompletions(t *testing.T) {
	items := keywordCompletions("f")
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
		if item.Kind == nil || *item.Kind != protocol.CompletionItemKindKeyword {
			t.Fatalf("expected keyword kind for %q", item.Label)
		}
	}
	want := []string{"false", "for", "fun"}
	if !slices.Equal(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
	if items := keywordCompletions("zz"); len(items) != 0 {
		t.Fatalf("expected no completions, got %d", len(items))
	}
}

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		text string
		pos  protocol.Position
		want string
	}{
		{"print tr", protocol.Position{Line: 0, Character: 8}, "tr"},
		{"print tr", protocol.Position{Line: 0, Character: 6}, ""},
		{"1;\nwh", protocol.Position{Line: 1, Character: 2}, "wh"},
		{"nil", protocol.Position{Line: 0, Character: 99}, "nil"},
		{"nil", protocol.Position{Line: 3, Character: 0}, ""},
		{"(tru", protocol.Position{Line: 0, Character: 4}, "tru"},
	}
	for _, tt := range tests {
		if got := extractPrefix(tt.text, tt.pos); got != tt.want {
			t.Fatalf("extractPrefix(%q, %+v): expected %q, got %q", tt.text, tt.pos, tt.want, got)
		}
	}
}

func TestNewLSPServerRegistersHandlers(t *testing.T) {
	s := newLSPServer()
	if s.server == nil {
		t.Fatalf("expected glsp server")
	}
	if s.handler.TextDocumentDidOpen == nil || s.handler.TextDocumentCompletion == nil || s.handler.TextDocumentDidClose == nil {
		t.Fatalf("expected document handlers to be registered")
	}
	s.store("file:///a.lox", "print 1;")
	if text, ok := s.document("file:///a.lox"); !ok || text != "print 1;" {
		t.Fatalf("expected stored document, got %q %v", text, ok)
	}
}
