package parser

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"parens/internal/ast"
	"parens/internal/diag"
	"parens/internal/token"
)

// DefaultMaxDepth bounds list nesting when no explicit limit is configured.
const DefaultMaxDepth = 512

type Options struct {
	// Reporter получает ошибку разбора как диагностику; может быть nil.
	Reporter diag.Reporter
	// MaxDepth ограничивает вложенность списков (0 — без ограничения).
	MaxDepth int
}

// state — позиция парсера на один вызов Parse; между вызовами ничего не хранится.
type state struct {
	toks  []token.Token
	pos   int
	depth int
	opts  *Options
}

// Parse builds exactly one expression from a complete token stream.
// The stream must end with a single EOF token and nothing may follow it.
func Parse(tokens []token.Token, opts Options) (ast.Expr, error) {
	p := state{toks: tokens, opts: &opts}
	expr, err := p.parseRoot()
	if err != nil {
		if opts.Reporter != nil {
			err.Diagnostic().Emit(opts.Reporter)
		}
		return nil, err
	}
	return expr, nil
}

func (p *state) parseRoot() (ast.Expr, *Error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.hasNext() && !p.at(token.EOF) {
		return nil, p.trailing()
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	if p.hasNext() {
		return nil, p.trailing()
	}
	return expr, nil
}

// trailing сообщает о токенах, оставшихся после корневого выражения;
// финальный EOF в счёт не входит.
func (p *state) trailing() *Error {
	next := p.peek()
	n := len(p.toks) - p.pos
	if last := p.toks[len(p.toks)-1]; last.Kind == token.EOF && n > 1 && next.Kind != token.EOF {
		n--
	}
	what := next.Kind.String()
	if next.HasValue {
		what = fmt.Sprintf("%s(%q)", next.Kind, next.Value)
	}
	// span допишет Error()
	return p.errorf(diag.SynTrailingTokens, next,
		"expected to consume all tokens in the input, but there are still %d remaining; next %s", n, what)
}

// parseExpr — expression := '(' expression* ')' | STRING | ATOM
func (p *state) parseExpr() (ast.Expr, *Error) {
	tok, err := p.current()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.LParen:
		return p.parseList()
	case token.StringLit:
		p.advance()
		if !tok.HasValue {
			return nil, p.errorf(diag.SynMalformedToken, tok, "string token must have a value")
		}
		return &ast.StringAtom{Loc: ast.Loc{Src: tok.Span}, Literal: tok.Value}, nil
	case token.Atom:
		p.advance()
		return p.parseAtom(tok)
	default:
		return nil, p.errorf(diag.SynExpectExpression, tok,
			"expected to find an expression, found unexpected token %s", tok.Kind)
	}
}

func (p *state) parseList() (ast.Expr, *Error) {
	open := p.advance()

	p.depth++
	defer func() { p.depth-- }()
	if limit := p.opts.MaxDepth; limit > 0 && p.depth > limit {
		return nil, p.errorf(diag.SynNestingTooDeep, open, "expression nesting exceeds limit of %d", limit)
	}

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	closing, err := p.expect(token.RParen)
	if err != nil {
		if err.Code == diag.SynUnclosedParen {
			err.Notes = append(err.Notes, diag.Note{Span: open.Span, Msg: "list opened here"})
		}
		return nil, err
	}
	return &ast.ListExpr{Loc: ast.Loc{Src: open.Span.Cover(closing.Span)}, Args: args}, nil
}

// parseArgs собирает элементы списка до ')' или EOF; закрывающую скобку
// проверяет вызывающий.
func (p *state) parseArgs() ([]ast.Expr, *Error) {
	var args []ast.Expr
	for p.hasNext() && !p.at(token.RParen) && !p.at(token.EOF) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// parseAtom: ведущая цифра означает целое (int32), иначе идентификатор.
func (p *state) parseAtom(tok token.Token) (ast.Expr, *Error) {
	if !tok.HasValue || isBlank(tok.Value) {
		return nil, p.errorf(diag.SynMalformedToken, tok, "atom token must have a value")
	}
	loc := ast.Loc{Src: tok.Span}
	first, _ := utf8.DecodeRuneInString(tok.Value)
	if !unicode.IsDigit(first) {
		return &ast.IdentAtom{Loc: loc, Name: tok.Value}, nil
	}
	n, err := strconv.ParseInt(tok.Value, 10, 32)
	if err != nil {
		return nil, p.errorf(diag.SynBadInteger, tok, "failed to parse '%s' as an integer", tok.Value)
	}
	return &ast.IntegerAtom{Loc: loc, Literal: int32(n)}, nil
}

func (p *state) errorf(code diag.Code, at token.Token, format string, args ...any) *Error {
	return &Error{Code: code, Span: at.Span, Msg: fmt.Sprintf(format, args...)}
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
