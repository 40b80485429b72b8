package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/mgomes/vibetables/vibes"
)

// evaluator runs one-line expressions: literals, tables, variables and
// calls to registered builtins, e.g. `table.concat({1, 2, 3}, "-")`.
// A call in last argument position expands to all of its results.
type evaluator struct {
	engine *vibes.Engine
	env    map[string]vibes.Value
}

type token struct {
	kind rune
	text string
	pos  scanner.Position
}

type parser struct {
	ctx    context.Context
	ev     *evaluator
	tokens []token
	pos    int
}

var errUnexpectedEOF = errors.New("unexpected end of input")

func newEvaluator(engine *vibes.Engine) *evaluator {
	return &evaluator{engine: engine, env: make(map[string]vibes.Value)}
}

// Eval evaluates input and returns its values. `name = expr` also stores
// the first value in the environment.
func (ev *evaluator) Eval(ctx context.Context, input string) ([]vibes.Value, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	p := &parser{ctx: ctx, ev: ev, tokens: tokens}

	var target string
	if len(tokens) > 2 && tokens[0].kind == scanner.Ident && tokens[1].kind == '=' {
		target = tokens[0].text
		p.pos = 2
	}
	values, err := p.exprMulti()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		return nil, fmt.Errorf("%s: unexpected %q", tok.pos, tok.text)
	}
	if target != "" {
		first := vibes.NewNil()
		if len(values) > 0 {
			first = values[0]
		}
		ev.env[target] = first
	}
	return values, nil
}

func tokenize(input string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(input))
	s.Filename = "input"
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings | scanner.ScanRawStrings
	var scanErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%s: %s", s.Position, msg)
		}
	}
	var tokens []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		tokens = append(tokens, token{kind: tok, text: s.TokenText(), pos: s.Position})
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return tokens, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, error) {
	tok, ok := p.peek()
	if !ok {
		return token{}, errUnexpectedEOF
	}
	p.pos++
	return tok, nil
}

func (p *parser) accept(kind rune) bool {
	if tok, ok := p.peek(); ok && tok.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind rune) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.kind != kind {
		return fmt.Errorf("%s: expected %q, got %q", tok.pos, string(kind), tok.text)
	}
	return nil
}

// exprMulti evaluates an expression keeping every result of a call.
func (p *parser) exprMulti() ([]vibes.Value, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case scanner.Int, scanner.Float:
		return one(parseNumber(tok))
	case scanner.String, scanner.RawString:
		s, err := strconv.Unquote(tok.text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tok.pos, err)
		}
		return []vibes.Value{vibes.NewString(s)}, nil
	case '-':
		num, err := p.next()
		if err != nil {
			return nil, err
		}
		if num.kind != scanner.Int && num.kind != scanner.Float {
			return nil, fmt.Errorf("%s: expected number after '-'", num.pos)
		}
		num.text = "-" + num.text
		return one(parseNumber(num))
	case '{':
		return one(p.table())
	case scanner.Ident:
		return p.name(tok)
	default:
		return nil, fmt.Errorf("%s: unexpected %q", tok.pos, tok.text)
	}
}

// expr evaluates an expression truncated to its first value.
func (p *parser) expr() (vibes.Value, error) {
	values, err := p.exprMulti()
	if err != nil {
		return vibes.NewNil(), err
	}
	if len(values) == 0 {
		return vibes.NewNil(), nil
	}
	return values[0], nil
}

func (p *parser) name(tok token) ([]vibes.Value, error) {
	switch tok.text {
	case "nil":
		return []vibes.Value{vibes.NewNil()}, nil
	case "true":
		return []vibes.Value{vibes.NewBool(true)}, nil
	case "false":
		return []vibes.Value{vibes.NewBool(false)}, nil
	}
	path := tok.text
	for p.accept('.') {
		field, err := p.next()
		if err != nil {
			return nil, err
		}
		if field.kind != scanner.Ident {
			return nil, fmt.Errorf("%s: expected name after '.'", field.pos)
		}
		path += "." + field.text
	}
	if !p.accept('(') {
		v, ok := p.ev.resolve(path)
		if !ok {
			return nil, fmt.Errorf("%s: undefined name %q", tok.pos, path)
		}
		return []vibes.Value{v}, nil
	}
	args, err := p.args()
	if err != nil {
		return nil, err
	}
	fn, ok := p.ev.resolve(path)
	if !ok {
		return nil, fmt.Errorf("%s: undefined function %q", tok.pos, path)
	}
	return p.ev.engine.CallValue(p.ctx, fn, args...)
}

// resolve looks path up in the environment first, then among the engine
// globals. Fields of environment tables are read raw.
func (ev *evaluator) resolve(path string) (vibes.Value, bool) {
	head, rest, dotted := strings.Cut(path, ".")
	v, ok := ev.env[head]
	if !ok {
		v, err := ev.engine.Lookup(path)
		return v, err == nil
	}
	for dotted {
		var field string
		field, rest, dotted = strings.Cut(rest, ".")
		t := v.Table()
		if t == nil {
			return vibes.NewNil(), false
		}
		v = t.RawGetString(field)
	}
	return v, true
}

func (p *parser) args() ([]vibes.Value, error) {
	var args []vibes.Value
	if p.accept(')') {
		return args, nil
	}
	for {
		values, err := p.exprMulti()
		if err != nil {
			return nil, err
		}
		if p.accept(')') {
			return append(args, values...), nil
		}
		if len(values) == 0 {
			args = append(args, vibes.NewNil())
		} else {
			args = append(args, values[0])
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
}

func (p *parser) table() (vibes.Value, error) {
	t := vibes.NewTableSized(0, 0)
	var n int64
	for !p.accept('}') {
		if err := p.field(t, &n); err != nil {
			return vibes.NewNil(), err
		}
		if p.accept('}') {
			break
		}
		if !p.accept(',') && !p.accept(';') {
			tok, ok := p.peek()
			if !ok {
				return vibes.NewNil(), errUnexpectedEOF
			}
			return vibes.NewNil(), fmt.Errorf("%s: expected ',' or '}', got %q", tok.pos, tok.text)
		}
	}
	return vibes.NewTable(t), nil
}

func (p *parser) field(t *vibes.Table, n *int64) error {
	tok, ok := p.peek()
	if !ok {
		return errUnexpectedEOF
	}
	if tok.kind == '[' {
		p.pos++
		key, err := p.expr()
		if err != nil {
			return err
		}
		if err := p.expect(']'); err != nil {
			return err
		}
		if err := p.expect('='); err != nil {
			return err
		}
		val, err := p.expr()
		if err != nil {
			return err
		}
		return t.RawSet(key, val)
	}
	if tok.kind == scanner.Ident && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].kind == '=' {
		p.pos += 2
		val, err := p.expr()
		if err != nil {
			return err
		}
		t.RawSetString(tok.text, val)
		return nil
	}
	values, err := p.exprMulti()
	if err != nil {
		return err
	}
	// Only the last positional field keeps every result of a call.
	if !p.atFieldListEnd() {
		values = values[:min(len(values), 1)]
		if len(values) == 0 {
			values = []vibes.Value{vibes.NewNil()}
		}
	}
	for _, v := range values {
		*n++
		t.RawSetInt(*n, v)
	}
	return nil
}

// atFieldListEnd reports whether only an optional separator stands between
// the current position and the closing brace.
func (p *parser) atFieldListEnd() bool {
	i := p.pos
	if i < len(p.tokens) && (p.tokens[i].kind == ',' || p.tokens[i].kind == ';') {
		i++
	}
	return i < len(p.tokens) && p.tokens[i].kind == '}'
}

func parseNumber(tok token) (vibes.Value, error) {
	v, ok := vibes.StringToNumber(tok.text)
	if !ok {
		return vibes.NewNil(), fmt.Errorf("%s: malformed number %q", tok.pos, tok.text)
	}
	return v, nil
}

func one(v vibes.Value, err error) ([]vibes.Value, error) {
	if err != nil {
		return nil, err
	}
	return []vibes.Value{v}, nil
}
