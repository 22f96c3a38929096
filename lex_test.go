package oliver

import "testing"

func TestTokenizeSplitsWordsAndBrackets(t *testing.T) {
	toks, err := Tokenize(`(x + '1')`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 5 {
		t.Fatalf("got %d tokens, want 5: %v", len(toks), toks)
	}
}

func TestTokenizeDropsComments(t *testing.T) {
	toks, err := Tokenize("x # comment\ny")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(toks), toks)
	}
}

func TestTokenizeReportsUnterminatedLiteral(t *testing.T) {
	if _, err := Tokenize(`"unterminated`); err == nil {
		t.Errorf("expected an error for an unterminated string literal")
	}
}

func TestTokenizeEscapedDelimiterDoesNotEndLiteral(t *testing.T) {
	toks, err := Tokenize(`"a\"b"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 1 {
		t.Fatalf("got %d tokens, want 1: %v", len(toks), toks)
	}
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks, err := Tokenize("x\ny")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(toks), toks)
	}
	if toks[0][:1] != "1" {
		t.Errorf("first token line prefix = %q, want to start with 1", toks[0])
	}
	if toks[1][:1] != "2" {
		t.Errorf("second token line prefix = %q, want to start with 2", toks[1])
	}
}
