package lexer

import (
	"errors"
	"testing"
)

func TestTokenizeMinimalWorkflow(t *testing.T) {
	src := "workflow Foo {\n    source: NATS(\"x\")\n}\n"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}

	want := []TokenType{
		TokenWorkflow, TokenIdent, TokenLBrace,
		TokenSource, TokenColon, TokenIdent, TokenLParen, TokenString, TokenRParen,
		TokenRBrace, TokenEOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("len(tokens) = %d, want %d", len(tokens), len(want))
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("tokens[%d].Type = %v, want %v", i, tokens[i].Type, tt)
		}
	}

	if tokens[1].Text != "Foo" {
		t.Errorf("tokens[1].Text = %q, want %q", tokens[1].Text, "Foo")
	}
	if tokens[7].Text != `"x"` {
		t.Errorf("tokens[7].Text = %q, want %q", tokens[7].Text, `"x"`)
	}
}

func TestLineAndColumnPositions(t *testing.T) {
	src := "workflow Foo {\n    source: NATS(\"x\")\n}\n"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}

	positions := []struct {
		idx  int
		line int
		col  int
	}{
		{0, 1, 1},   // workflow
		{1, 1, 10},  // Foo
		{2, 1, 14},  // {
		{3, 2, 5},   // source
		{4, 2, 11},  // :
		{5, 2, 13},  // NATS
		{6, 2, 17},  // (
		{7, 2, 18},  // "x"
		{8, 2, 21},  // )
		{9, 3, 1},   // }
	}
	for _, p := range positions {
		tok := tokens[p.idx]
		if tok.Line != p.line || tok.Column != p.col {
			t.Errorf("tokens[%d] (%s) at %d:%d, want %d:%d",
				p.idx, tok.Type, tok.Line, tok.Column, p.line, p.col)
		}
	}
}

func TestInvalidCharacterLocation(t *testing.T) {
	src := "workflow Foo {\n    @agents\n}"
	_, err := Tokenize(src)
	if err == nil {
		t.Fatal("Tokenize() succeeded on invalid input")
	}

	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if lexErr.Line != 2 || lexErr.Column != 5 {
		t.Errorf("error at %d:%d, want 2:5", lexErr.Line, lexErr.Column)
	}
	if lexErr.Text != "@" {
		t.Errorf("error text = %q, want %q", lexErr.Text, "@")
	}
}

func TestCommentsSkipped(t *testing.T) {
	src := "// a line comment\nworkflow /* inline */ Foo {}\n/* block\ncomment */\n"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}

	want := []TokenType{TokenWorkflow, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("len(tokens) = %d, want %d", len(tokens), len(want))
	}
	if tokens[0].Line != 2 {
		t.Errorf("workflow token on line %d, want 2", tokens[0].Line)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize("workflow Foo {} /* never closed")
	if err == nil {
		t.Fatal("Tokenize() succeeded on unterminated block comment")
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, err := Tokenize(`"line\nbreak \"quoted\" tab\t"`)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}
	if tokens[0].Type != TokenString {
		t.Fatalf("tokens[0].Type = %v, want %v", tokens[0].Type, TokenString)
	}
	got := Unquote(tokens[0].Text)
	want := "line\nbreak \"quoted\" tab\t"
	if got != want {
		t.Errorf("Unquote() = %q, want %q", got, want)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize("workflow Foo {\n    source: NATS(\"oops\n}")
	if err == nil {
		t.Fatal("Tokenize() succeeded on unterminated string")
	}
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if lexErr.Line != 2 {
		t.Errorf("error on line %d, want 2", lexErr.Line)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want TokenType
	}{
		{"42", TokenInt},
		{"0", TokenInt},
		{"3.14", TokenFloat},
		{"1.5e3", TokenFloat},
		{"2.5E-2", TokenFloat},
	}
	for _, tc := range tests {
		tokens, err := Tokenize(tc.src)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", tc.src, err)
		}
		if tokens[0].Type != tc.want {
			t.Errorf("Tokenize(%q)[0].Type = %v, want %v", tc.src, tokens[0].Type, tc.want)
		}
		if tokens[0].Text != tc.src {
			t.Errorf("Tokenize(%q)[0].Text = %q, want the whole literal", tc.src, tokens[0].Text)
		}
		if len(tokens) != 2 {
			t.Errorf("Tokenize(%q) produced %d tokens, want literal + EOF", tc.src, len(tokens))
		}
	}
}

func TestOperators(t *testing.T) {
	src := "== != <= >= && || = < > + - * / % ! ; ."
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}
	want := []TokenType{
		TokenEq, TokenNotEq, TokenLtEq, TokenGtEq, TokenAnd, TokenOr,
		TokenAssign, TokenLt, TokenGt, TokenPlus, TokenMinus, TokenStar,
		TokenSlash, TokenPercent, TokenBang, TokenSemi, TokenDot, TokenEOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("len(tokens) = %d, want %d", len(tokens), len(want))
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("tokens[%d].Type = %v, want %v", i, tokens[i].Type, tt)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	src := "workflow subworkflow integration mapping monitor deployment preprocessors workflowish _id x9"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}
	want := []TokenType{
		TokenWorkflow, TokenSubworkflow, TokenIntegration, TokenMapping,
		TokenMonitor, TokenDeployment, TokenPreprocessors,
		TokenIdent, TokenIdent, TokenIdent, TokenEOF,
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("tokens[%d].Type = %v, want %v", i, tokens[i].Type, tt)
		}
	}
}

func TestOffsetsMatchSource(t *testing.T) {
	src := "workflow Foo {\n    agents: []\n}"
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() returned error: %v", err)
	}
	for _, tok := range tokens {
		if tok.Type == TokenEOF {
			continue
		}
		if got := src[tok.Offset : tok.Offset+len(tok.Text)]; got != tok.Text {
			t.Errorf("offset %d: source slice %q != token text %q", tok.Offset, got, tok.Text)
		}
	}
}
