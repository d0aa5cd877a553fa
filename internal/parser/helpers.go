package parser

import (
	"parens/internal/diag"
	"parens/internal/source"
	"parens/internal/token"
)

func (p *state) hasNext() bool {
	return p.pos < len(p.toks)
}

// peek возвращает текущий токен; вызывать только при hasNext().
func (p *state) peek() token.Token {
	return p.toks[p.pos]
}

func (p *state) at(k token.Kind) bool {
	return p.hasNext() && p.toks[p.pos].Kind == k
}

// current возвращает текущий токен или ошибку, если поток исчерпан без EOF.
func (p *state) current() (token.Token, *Error) {
	if !p.hasNext() {
		return token.Token{}, &Error{
			Code: diag.SynUnexpectedToken,
			Span: p.endSpan(),
			Msg:  "tried to consume token past input length",
		}
	}
	return p.peek(), nil
}

// advance — съедает текущий токен
func (p *state) advance() token.Token {
	tok := p.toks[p.pos]
	p.pos++
	return tok
}

// expect — ожидаем конкретный токен; ')' против EOF даёт SynUnclosedParen.
func (p *state) expect(k token.Kind) (token.Token, *Error) {
	tok, err := p.current()
	if err != nil {
		return token.Token{}, err
	}
	p.advance()
	if tok.Kind == k {
		return tok, nil
	}
	code := diag.SynUnexpectedToken
	if k == token.RParen && tok.Kind == token.EOF {
		code = diag.SynUnclosedParen
	}
	return token.Token{}, p.errorf(code, tok, "expected %s but found %s", k, tok.Kind)
}

// endSpan — пустой span сразу после последнего токена.
func (p *state) endSpan() source.Span {
	if len(p.toks) == 0 {
		return source.Span{}
	}
	last := p.toks[len(p.toks)-1].Span
	return source.Span{File: last.File, Start: last.End, End: last.End}
}
