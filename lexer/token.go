// Package lexer turns Weave source text into a stream of located tokens.
package lexer

import "fmt"

// TokenType classifies a lexical token.
type TokenType int

const (
	// Special
	TokenEOF TokenType = iota

	// Literals
	TokenIdent
	TokenString
	TokenInt
	TokenFloat

	// Keywords
	TokenWorkflow
	TokenSubworkflow
	TokenIntegration
	TokenSource
	TokenTarget
	TokenContext
	TokenAgents
	TokenPreprocessors
	TokenInput
	TokenOutput
	TokenMonitor
	TokenDeployment
	TokenMapping
	TokenTrue
	TokenFalse
	TokenNull

	// Delimiters
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenLParen   // (
	TokenRParen   // )
	TokenColon    // :
	TokenComma    // ,
	TokenDot      // .
	TokenSemi     // ;

	// Operators
	TokenAssign  // =
	TokenEq      // ==
	TokenNotEq   // !=
	TokenLt      // <
	TokenGt      // >
	TokenLtEq    // <=
	TokenGtEq    // >=
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenBang    // !
	TokenAnd     // &&
	TokenOr      // ||
)

var tokenNames = map[TokenType]string{
	TokenEOF:           "end of input",
	TokenIdent:         "identifier",
	TokenString:        "string literal",
	TokenInt:           "integer literal",
	TokenFloat:         "float literal",
	TokenWorkflow:      "workflow",
	TokenSubworkflow:   "subworkflow",
	TokenIntegration:   "integration",
	TokenSource:        "source",
	TokenTarget:        "target",
	TokenContext:       "context",
	TokenAgents:        "agents",
	TokenPreprocessors: "preprocessors",
	TokenInput:         "input",
	TokenOutput:        "output",
	TokenMonitor:       "monitor",
	TokenDeployment:    "deployment",
	TokenMapping:       "mapping",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenNull:          "null",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenColon:         ":",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenSemi:          ";",
	TokenAssign:        "=",
	TokenEq:            "==",
	TokenNotEq:         "!=",
	TokenLt:            "<",
	TokenGt:            ">",
	TokenLtEq:          "<=",
	TokenGtEq:          ">=",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenBang:          "!",
	TokenAnd:           "&&",
	TokenOr:            "||",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"workflow":      TokenWorkflow,
	"subworkflow":   TokenSubworkflow,
	"integration":   TokenIntegration,
	"source":        TokenSource,
	"target":        TokenTarget,
	"context":       TokenContext,
	"agents":        TokenAgents,
	"preprocessors": TokenPreprocessors,
	"input":         TokenInput,
	"output":        TokenOutput,
	"monitor":       TokenMonitor,
	"deployment":    TokenDeployment,
	"mapping":       TokenMapping,
	"true":          TokenTrue,
	"false":         TokenFalse,
	"null":          TokenNull,
}

// LookupKeyword returns the keyword token type for ident, or TokenIdent.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// Keyword reports whether the token type is one of the language keywords.
func (t TokenType) Keyword() bool {
	return t >= TokenWorkflow && t <= TokenNull
}

// Token is one lexical token with its exact source slice and position.
// Line and Column are 1-based; Offset is the absolute byte offset.
type Token struct {
	Type   TokenType
	Text   string
	Offset int
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Text, t.Line, t.Column)
	}
	return fmt.Sprintf("%s at %d:%d", t.Type, t.Line, t.Column)
}
