// Package parser builds the Weave AST from source text with a recursive
// descent parser over the lexer's token stream. Parsing stops at the
// first problem; no partial tree is ever returned.
package parser

import (
	"fmt"
	"strconv"

	"github.com/everydev1618/goweave/ast"
	"github.com/everydev1618/goweave/lexer"
)

// Error is a syntax error with the position of the offending token.
type Error struct {
	Line    int
	Column  int
	Message string
	Hint    string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	if e.Hint != "" {
		s += "\n  hint: " + e.Hint
	}
	return s
}

// Parser consumes a token sequence produced by the lexer.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses source text into a Program. Lexical errors
// propagate as *lexer.Error; syntax errors as *Error. Either way the
// first failure is the result.
func Parse(src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already-tokenized input.
func ParseTokens(tokens []lexer.Token) (*ast.Program, error) {
	p := &Parser{tokens: tokens}
	return p.parseProgram()
}

func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1] // EOF sentinel
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.check(tt) {
		return lexer.Token{}, p.errExpected(tt.String())
	}
	return p.advance(), nil
}

// errExpected builds an error naming what was acceptable at this point
// and the token actually found.
func (p *Parser) errExpected(want string) *Error {
	tok := p.current()
	got := tok.Type.String()
	if tok.Type != lexer.TokenEOF && tok.Text != "" && tok.Text != got {
		got = fmt.Sprintf("%s %q", got, tok.Text)
	}
	return &Error{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf("expected %s, found %s", want, got),
	}
}

func (p *Parser) errAt(tok lexer.Token, format string, args ...any) *Error {
	return &Error{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := ast.NewProgram()
	for !p.check(lexer.TokenEOF) {
		switch p.current().Type {
		case lexer.TokenWorkflow:
			wf, err := p.parseWorkflow()
			if err != nil {
				return nil, err
			}
			prog.Workflows = append(prog.Workflows, wf)
		case lexer.TokenSubworkflow:
			sw, err := p.parseSubworkflow()
			if err != nil {
				return nil, err
			}
			prog.Subworkflows = append(prog.Subworkflows, sw)
		case lexer.TokenIntegration:
			in, err := p.parseIntegration()
			if err != nil {
				return nil, err
			}
			prog.Integrations = append(prog.Integrations, in)
		default:
			return nil, p.errExpected("workflow, subworkflow, or integration")
		}
	}
	return prog, nil
}

func (p *Parser) parseWorkflow() (*ast.Workflow, error) {
	p.advance() // workflow
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	wf := &ast.Workflow{Name: name.Text}
	seen := make(map[string]bool)
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("} to close workflow " + wf.Name)
		}
		section := p.current()
		if section.Type.Keyword() {
			if err := p.sectionOnce(seen, section, "workflow "+wf.Name); err != nil {
				return nil, err
			}
		}
		switch section.Type {
		case lexer.TokenSource:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			src, err := p.parseSource()
			if err != nil {
				return nil, err
			}
			wf.Source = src
		case lexer.TokenTarget:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			tgt, err := p.parseTarget()
			if err != nil {
				return nil, err
			}
			wf.Target = tgt
		case lexer.TokenContext:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			ctx, err := p.parseContext()
			if err != nil {
				return nil, err
			}
			wf.Context = ctx
		case lexer.TokenPreprocessors:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			agents, err := p.parseAgentList()
			if err != nil {
				return nil, err
			}
			wf.Preprocessors = agents
		case lexer.TokenAgents:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			agents, err := p.parseAgentList()
			if err != nil {
				return nil, err
			}
			wf.Agents = agents
		case lexer.TokenMonitor:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			obj, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			wf.Monitor = obj
		case lexer.TokenDeployment:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			obj, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			wf.Deployment = obj
		default:
			return nil, p.errExpected("a workflow section (source, target, context, preprocessors, agents, monitor, or deployment)")
		}
	}
	p.advance() // }
	return wf, nil
}

func (p *Parser) parseSubworkflow() (*ast.Subworkflow, error) {
	p.advance() // subworkflow
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	sw := &ast.Subworkflow{Name: name.Text}
	seen := make(map[string]bool)
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("} to close subworkflow " + sw.Name)
		}
		section := p.current()
		if section.Type.Keyword() {
			if err := p.sectionOnce(seen, section, "subworkflow "+sw.Name); err != nil {
				return nil, err
			}
		}
		switch section.Type {
		case lexer.TokenInput:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			names, err := p.parseNameList()
			if err != nil {
				return nil, err
			}
			sw.Input = names
		case lexer.TokenOutput:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			names, err := p.parseNameList()
			if err != nil {
				return nil, err
			}
			sw.Output = names
		case lexer.TokenContext:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			ctx, err := p.parseContext()
			if err != nil {
				return nil, err
			}
			sw.Context = ctx
		case lexer.TokenAgents:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			agents, err := p.parseAgentList()
			if err != nil {
				return nil, err
			}
			sw.Agents = agents
		default:
			return nil, p.errExpected("a subworkflow section (input, output, context, or agents)")
		}
	}
	p.advance() // }
	return sw, nil
}

func (p *Parser) parseIntegration() (*ast.Integration, error) {
	p.advance() // integration
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	in := &ast.Integration{}
	seen := make(map[string]bool)
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("} to close integration")
		}
		section := p.current()
		if section.Type.Keyword() {
			if err := p.sectionOnce(seen, section, "integration"); err != nil {
				return nil, err
			}
		}
		switch section.Type {
		case lexer.TokenWorkflow:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			name, err := p.expect(lexer.TokenIdent)
			if err != nil {
				return nil, err
			}
			in.Workflow = name.Text
		case lexer.TokenSubworkflow:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			name, err := p.expect(lexer.TokenIdent)
			if err != nil {
				return nil, err
			}
			in.Subworkflow = name.Text
		case lexer.TokenMapping:
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return nil, err
			}
			mapping, err := p.parseMapping()
			if err != nil {
				return nil, err
			}
			in.Mapping = mapping
		default:
			return nil, p.errExpected("an integration section (workflow, subworkflow, or mapping)")
		}
	}
	p.advance() // }
	return in, nil
}

// parseMapping parses { input: { field: a.b }, output: { ... } }.
func (p *Parser) parseMapping() (ast.Mapping, error) {
	var m ast.Mapping
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return m, err
	}
	seen := make(map[string]bool)
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return m, p.errExpected("} to close mapping")
		}
		section := p.current()
		switch section.Type {
		case lexer.TokenInput:
			if err := p.sectionOnce(seen, section, "mapping"); err != nil {
				return m, err
			}
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return m, err
			}
			pm, err := p.parsePathMap()
			if err != nil {
				return m, err
			}
			m.Input = pm
		case lexer.TokenOutput:
			if err := p.sectionOnce(seen, section, "mapping"); err != nil {
				return m, err
			}
			p.advance()
			if _, err := p.expect(lexer.TokenColon); err != nil {
				return m, err
			}
			pm, err := p.parsePathMap()
			if err != nil {
				return m, err
			}
			m.Output = pm
		default:
			return m, p.errExpected("input or output inside mapping")
		}
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRBrace) {
			return m, p.errExpected(", or }")
		}
	}
	p.advance() // }
	return m, nil
}

// sectionOnce rejects a repeated section keyword within one block. The
// token text doubles as the section name.
func (p *Parser) sectionOnce(seen map[string]bool, tok lexer.Token, owner string) error {
	if seen[tok.Text] {
		return p.errAt(tok, "duplicate %s section in %s", tok.Text, owner)
	}
	seen[tok.Text] = true
	return nil
}

// parsePathMap parses { field: dotted.path, ... }.
func (p *Parser) parsePathMap() (map[string]ast.PathExpr, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	pm := make(map[string]ast.PathExpr)
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("} to close mapping entries")
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		path, err := p.parsePathExpr()
		if err != nil {
			return nil, err
		}
		pm[key] = path
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRBrace) {
			return nil, p.errExpected(", or }")
		}
	}
	p.advance() // }
	return pm, nil
}

func (p *Parser) parsePathExpr() (ast.PathExpr, error) {
	first, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return ast.PathExpr{}, err
	}
	components := []string{first.Text}
	for p.check(lexer.TokenDot) {
		p.advance()
		next, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return ast.PathExpr{}, err
		}
		components = append(components, next.Text)
	}
	return ast.PathExpr{Components: components}, nil
}

// parseNameList parses [ a, b, c ].
func (p *Parser) parseNameList() ([]string, error) {
	if _, err := p.expect(lexer.TokenLBracket); err != nil {
		return nil, err
	}
	var names []string
	for !p.check(lexer.TokenRBracket) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("] to close parameter list")
		}
		name, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Text)
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRBracket) {
			return nil, p.errExpected(", or ]")
		}
	}
	p.advance() // ]
	return names, nil
}

// parseAgentList parses [ Tag(...), Tag(...) ].
func (p *Parser) parseAgentList() ([]*ast.Agent, error) {
	if _, err := p.expect(lexer.TokenLBracket); err != nil {
		return nil, err
	}
	var agents []*ast.Agent
	for !p.check(lexer.TokenRBracket) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("] to close agent list")
		}
		agent, err := p.parseAgent()
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRBracket) {
			return nil, p.errExpected(", or ]")
		}
	}
	p.advance() // ]
	return agents, nil
}

// parseAgent parses one tag-call as an agent. A named id argument is
// lifted out of the config; everything else keeps its position.
func (p *Parser) parseAgent() (*ast.Agent, error) {
	tagTok := p.current()
	tag, args, err := p.parseTagCall()
	if err != nil {
		return nil, err
	}
	agent := &ast.Agent{Type: ast.AgentTypeFromTag(tag)}
	for _, arg := range args {
		if arg.Name == "id" {
			id, ok := arg.Value.AsString()
			if !ok {
				return nil, p.errAt(tagTok, "agent id must be a string, found %s", arg.Value.Kind)
			}
			agent.ID = id
			continue
		}
		agent.Config = append(agent.Config, arg)
	}
	return agent, nil
}

// sourceTags maps source tag names to transports. Timer is source-only.
var sourceTags = map[string]ast.TransportKind{
	"NATS":  ast.TransportNATS,
	"HTTP":  ast.TransportHTTP,
	"Kafka": ast.TransportKafka,
	"MQTT":  ast.TransportMQTT,
	"Timer": ast.TransportTimer,
	"File":  ast.TransportFile,
}

var targetTags = map[string]ast.TransportKind{
	"NATS":  ast.TransportNATS,
	"HTTP":  ast.TransportHTTP,
	"Kafka": ast.TransportKafka,
	"MQTT":  ast.TransportMQTT,
	"File":  ast.TransportFile,
}

func (p *Parser) parseSource() (*ast.Source, error) {
	tagTok := p.current()
	tag, args, err := p.parseTagCall()
	if err != nil {
		return nil, err
	}
	kind, ok := sourceTags[tag]
	if !ok {
		positional, named, err := splitArgs(args)
		if err != nil {
			return nil, p.errAt(tagTok, "custom source %s: %s", tag, err)
		}
		return &ast.Source{Kind: ast.TransportCustom, Tag: tag, Args: positional, Options: named}, nil
	}
	channel, options, err := channelAndOptions(args)
	if err != nil {
		return nil, p.errAt(tagTok, "%s source: %s", tag, err)
	}
	return &ast.Source{Kind: kind, Channel: channel, Options: options}, nil
}

func (p *Parser) parseTarget() (*ast.Target, error) {
	tagTok := p.current()
	tag, args, err := p.parseTagCall()
	if err != nil {
		return nil, err
	}
	kind, ok := targetTags[tag]
	if !ok {
		positional, named, err := splitArgs(args)
		if err != nil {
			return nil, p.errAt(tagTok, "custom target %s: %s", tag, err)
		}
		return &ast.Target{Kind: ast.TransportCustom, Tag: tag, Args: positional, Options: named}, nil
	}
	channel, options, err := channelAndOptions(args)
	if err != nil {
		return nil, p.errAt(tagTok, "%s target: %s", tag, err)
	}
	return &ast.Target{Kind: kind, Channel: channel, Options: options}, nil
}

func (p *Parser) parseContext() (*ast.Context, error) {
	tagTok := p.current()
	tag, args, err := p.parseTagCall()
	if err != nil {
		return nil, err
	}
	switch tag {
	case "KnowledgeBase", "BayesianNetwork":
		kind := ast.ContextKnowledgeBase
		if tag == "BayesianNetwork" {
			kind = ast.ContextBayesianNetwork
		}
		name, options, err := channelAndOptions(args)
		if err != nil {
			return nil, p.errAt(tagTok, "%s context: %s", tag, err)
		}
		return &ast.Context{Kind: kind, Name: name, Options: options}, nil
	case "Database":
		positional, named, err := splitArgs(args)
		if err != nil {
			return nil, p.errAt(tagTok, "Database context: %s", err)
		}
		if len(positional) != 2 {
			return nil, p.errAt(tagTok, "Database context requires a driver and a connection string")
		}
		driver, ok1 := positional[0].AsString()
		conn, ok2 := positional[1].AsString()
		if !ok1 || !ok2 {
			return nil, p.errAt(tagTok, "Database context arguments must be strings")
		}
		return &ast.Context{Kind: ast.ContextDatabase, Name: driver, Connection: conn, Options: named}, nil
	default:
		positional, named, err := splitArgs(args)
		if err != nil {
			return nil, p.errAt(tagTok, "custom context %s: %s", tag, err)
		}
		return &ast.Context{Kind: ast.ContextCustom, Tag: tag, Args: positional, Options: named}, nil
	}
}

// parseTagCall parses Tag(arg, key: value, ...), the one call shape every
// tagged variant in the language uses.
func (p *Parser) parseTagCall() (string, []ast.Argument, error) {
	tag, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return "", nil, err
	}
	var args []ast.Argument
	for !p.check(lexer.TokenRParen) {
		if p.check(lexer.TokenEOF) {
			return "", nil, p.errExpected(") to close " + tag.Text + " arguments")
		}
		arg, err := p.parseArgument()
		if err != nil {
			return "", nil, err
		}
		args = append(args, arg)
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRParen) {
			return "", nil, p.errExpected(", or )")
		}
	}
	p.advance() // )
	return tag.Text, args, nil
}

// parseArgument parses either key: value or a bare positional value.
// Keys may be identifiers or keywords.
func (p *Parser) parseArgument() (ast.Argument, error) {
	cur := p.current()
	if (cur.Type == lexer.TokenIdent || cur.Type.Keyword()) && p.peekIs(lexer.TokenColon) {
		p.advance() // key
		p.advance() // :
		val, err := p.parseValue()
		if err != nil {
			return ast.Argument{}, err
		}
		return ast.Argument{Name: cur.Text, Value: val}, nil
	}
	val, err := p.parseValue()
	if err != nil {
		return ast.Argument{}, err
	}
	return ast.Argument{Value: val}, nil
}

func (p *Parser) peekIs(tt lexer.TokenType) bool {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1].Type == tt
	}
	return false
}

// parseValue parses one literal: string, number, boolean, null, object,
// array, or dotted path. A bare identifier is a single-component path.
func (p *Parser) parseValue() (ast.Value, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.TokenString:
		p.advance()
		return ast.String(lexer.Unquote(tok.Text)), nil
	case lexer.TokenInt, lexer.TokenFloat:
		p.advance()
		return numberValue(p, tok, tok.Text)
	case lexer.TokenMinus:
		p.advance()
		num := p.current()
		if num.Type != lexer.TokenInt && num.Type != lexer.TokenFloat {
			return ast.Value{}, p.errExpected("a number after -")
		}
		p.advance()
		return numberValue(p, num, "-"+num.Text)
	case lexer.TokenTrue:
		p.advance()
		return ast.Bool(true), nil
	case lexer.TokenFalse:
		p.advance()
		return ast.Bool(false), nil
	case lexer.TokenNull:
		p.advance()
		return ast.Null(), nil
	case lexer.TokenLBrace:
		obj, err := p.parseObject()
		if err != nil {
			return ast.Value{}, err
		}
		return ast.Object(obj), nil
	case lexer.TokenLBracket:
		return p.parseArray()
	case lexer.TokenIdent:
		path, err := p.parsePathExpr()
		if err != nil {
			return ast.Value{}, err
		}
		return ast.Value{Kind: ast.PathKind, Path: path}, nil
	default:
		return ast.Value{}, p.errExpected("a value")
	}
}

func numberValue(p *Parser, tok lexer.Token, text string) (ast.Value, error) {
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return ast.Value{}, p.errAt(tok, "invalid number %q", text)
	}
	return ast.Number(n), nil
}

// parseObject parses { key: value, ... }.
func (p *Parser) parseObject() (map[string]ast.Value, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	obj := make(map[string]ast.Value)
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errExpected("} to close object")
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[key] = val
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRBrace) {
			return nil, p.errExpected(", or }")
		}
	}
	p.advance() // }
	return obj, nil
}

func (p *Parser) parseArray() (ast.Value, error) {
	p.advance() // [
	var elems []ast.Value
	for !p.check(lexer.TokenRBracket) {
		if p.check(lexer.TokenEOF) {
			return ast.Value{}, p.errExpected("] to close array")
		}
		val, err := p.parseValue()
		if err != nil {
			return ast.Value{}, err
		}
		elems = append(elems, val)
		if p.check(lexer.TokenComma) {
			p.advance()
		} else if !p.check(lexer.TokenRBracket) {
			return ast.Value{}, p.errExpected(", or ]")
		}
	}
	p.advance() // ]
	return ast.Array(elems...), nil
}

// parseKey accepts identifiers, keywords, and string literals as keys.
func (p *Parser) parseKey() (string, error) {
	tok := p.current()
	switch {
	case tok.Type == lexer.TokenIdent || tok.Type.Keyword():
		p.advance()
		return tok.Text, nil
	case tok.Type == lexer.TokenString:
		p.advance()
		return lexer.Unquote(tok.Text), nil
	default:
		return "", p.errExpected("a key")
	}
}

// channelAndOptions interprets tag-call arguments for transports and
// knowledge contexts: one positional string (the channel, topic, path,
// or schedule) plus named options.
func channelAndOptions(args []ast.Argument) (string, map[string]ast.Value, error) {
	positional, named, err := splitArgs(args)
	if err != nil {
		return "", nil, err
	}
	if len(positional) != 1 {
		return "", nil, fmt.Errorf("expected exactly one channel argument, found %d", len(positional))
	}
	channel, ok := positional[0].AsString()
	if !ok {
		return "", nil, fmt.Errorf("channel must be a string, found %s", positional[0].Kind)
	}
	return channel, named, nil
}

// splitArgs separates positional values from named options. Positional
// arguments may not follow named ones; that ordering is reserved so the
// call shape stays readable.
func splitArgs(args []ast.Argument) ([]ast.Value, map[string]ast.Value, error) {
	var positional []ast.Value
	var named map[string]ast.Value
	for _, arg := range args {
		if arg.Positional() {
			if named != nil {
				return nil, nil, fmt.Errorf("positional argument after named argument")
			}
			positional = append(positional, arg.Value)
			continue
		}
		if named == nil {
			named = make(map[string]ast.Value)
		}
		named[arg.Name] = arg.Value
	}
	return positional, named, nil
}
