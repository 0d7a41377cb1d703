package lexer

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a lexical error: the first unrecognized character span in the
// input. Tokenization stops there; there is no recovery.
type Error struct {
	Line   int
	Column int
	Offset int
	Text   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s %q", e.Line, e.Column, e.Reason, e.Text)
}

// Lexer scans Weave source text. It is a pure function of the input:
// create one per source file, call Tokenize once.
type Lexer struct {
	src        string
	pos        int
	lineStarts []int
}

// New creates a lexer for the given source text. Line start offsets are
// computed up front so any byte offset maps to (line, column) with a
// binary search instead of a rescan.
func New(src string) *Lexer {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lexer{src: src, lineStarts: starts}
}

// Tokenize scans the whole input and returns the token sequence,
// terminated by a TokenEOF entry. Whitespace and comments are skipped.
// On the first unrecognized span it returns a single *Error.
func Tokenize(src string) ([]Token, error) {
	return New(src).Tokenize()
}

// Tokenize scans the whole input.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		if err := l.skipTrivia(); err != nil {
			return nil, err
		}
		if l.pos >= len(l.src) {
			tokens = append(tokens, l.token(TokenEOF, l.pos, l.pos))
			return tokens, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// Position maps an absolute byte offset to a 1-based (line, column).
func (l *Lexer) Position(offset int) (line, column int) {
	i := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
	return i + 1, offset - l.lineStarts[i] + 1
}

func (l *Lexer) token(tt TokenType, start, end int) Token {
	line, col := l.Position(start)
	return Token{Type: tt, Text: l.src[start:end], Offset: start, Line: line, Column: col}
}

func (l *Lexer) errorAt(offset int, reason, text string) *Error {
	line, col := l.Position(offset)
	return &Error{Line: line, Column: col, Offset: offset, Text: text, Reason: reason}
}

// skipTrivia consumes whitespace, line comments, and block comments.
func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			start := l.pos
			l.pos += 2
			for {
				if l.pos+1 >= len(l.src) {
					return l.errorAt(start, "unterminated block comment", "/*")
				}
				if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) next() (Token, error) {
	start := l.pos
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		l.pos++
		for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
			l.pos++
		}
		tok := l.token(TokenIdent, start, l.pos)
		tok.Type = LookupKeyword(tok.Text)
		return tok, nil

	case isDigit(c):
		return l.scanNumber(start)

	case c == '"':
		return l.scanString(start)
	}

	// Operators and punctuation, longest match first.
	two := ""
	if l.pos+2 <= len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "==", "!=", "<=", ">=", "&&", "||":
		l.pos += 2
		return l.token(twoCharTokens[two], start, l.pos), nil
	}
	if tt, ok := oneCharTokens[c]; ok {
		l.pos++
		return l.token(tt, start, l.pos), nil
	}

	return Token{}, l.errorAt(start, "unexpected character", string(c))
}

var twoCharTokens = map[string]TokenType{
	"==": TokenEq,
	"!=": TokenNotEq,
	"<=": TokenLtEq,
	">=": TokenGtEq,
	"&&": TokenAnd,
	"||": TokenOr,
}

var oneCharTokens = map[byte]TokenType{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
	':': TokenColon,
	',': TokenComma,
	'.': TokenDot,
	';': TokenSemi,
	'=': TokenAssign,
	'<': TokenLt,
	'>': TokenGt,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'!': TokenBang,
}

// scanNumber scans an integer, or a float when a fraction follows.
// Exponents are only accepted after a fraction: 1.5e3 but not 1e3.
func (l *Lexer) scanNumber(start int) (Token, error) {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			p := l.pos + 1
			if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
				p++
			}
			if p < len(l.src) && isDigit(l.src[p]) {
				l.pos = p
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			}
		}
		return l.token(TokenFloat, start, l.pos), nil
	}
	return l.token(TokenInt, start, l.pos), nil
}

// scanString scans a double-quoted literal with backslash escapes. The
// token text keeps the quotes and escapes; Unquote decodes them.
func (l *Lexer) scanString(start int) (Token, error) {
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case '"':
			l.pos++
			return l.token(TokenString, start, l.pos), nil
		case '\n':
			return Token{}, l.errorAt(start, "unterminated string literal", l.src[start:l.pos])
		default:
			l.pos++
		}
	}
	return Token{}, l.errorAt(start, "unterminated string literal", l.src[start:])
}

// Unquote decodes the text of a TokenString into its string value.
func Unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' || i+1 >= len(text) {
			b.WriteByte(text[i])
			continue
		}
		i++
		switch text[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
