package format

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"parens/internal/ast"
	"parens/internal/lexer"
	"parens/internal/parser"
	"parens/internal/source"
)

type Options struct {
	// IndentWidth is the indent of wrapped arguments (default 2).
	IndentWidth int
	UseTabs     bool

	// MaxWidth is the line width a list may take before it is wrapped (default 80).
	MaxWidth int
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = 80
	}
	return o
}

type printer struct {
	sf  *source.File
	out *lineWriter
	opt Options
}

// Source tokenizes and parses sf and returns its formatted text. Lexical and
// syntax errors are returned unchanged; nothing is formatted then.
func Source(sf *source.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	toks, err := lexer.New(sf, lexer.Options{}).Tokenize()
	if err != nil {
		return nil, err
	}
	expr, err := parser.Parse(toks, parser.Options{})
	if err != nil {
		return nil, err
	}
	return FormatFile(sf, expr, opt)
}

// FormatFile prints expr, which must have been parsed from sf. The result
// ends with a newline and keeps the file's BOM and line ending style.
func FormatFile(sf *source.File, expr ast.Expr, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	if expr == nil {
		return nil, errors.New("format: nil expression")
	}
	opt = opt.withDefaults()
	out := &lineWriter{opt: opt, eol: "\n"}
	if sf.Flags&source.FileCRLF != 0 {
		out.eol = "\r\n"
	}
	out.buf.Write(sf.Content[:sf.BodyStart()])
	pr := printer{sf: sf, out: out, opt: opt}
	pr.printExpr(expr)
	pr.out.newline()
	return pr.out.buf.Bytes(), nil
}

func (p *printer) printExpr(e ast.Expr) {
	list, ok := e.(*ast.ListExpr)
	if !ok {
		p.out.write(p.sf.Text(e.Span()))
		return
	}
	flat := p.flat(list)
	if len(list.Args) < 2 || p.out.column()+runewidth.StringWidth(flat) <= p.opt.MaxWidth {
		p.out.write(flat)
		return
	}

	// (head arg
	//   arg
	//   arg)
	p.out.write("(")
	p.printExpr(list.Args[0])
	p.out.indent(+1)
	for _, arg := range list.Args[1:] {
		p.out.newline()
		p.printExpr(arg)
	}
	p.out.indent(-1)
	p.out.write(")")
}

// flat renders e on a single line with single spaces between elements.
func (p *printer) flat(e ast.Expr) string {
	var sb strings.Builder
	p.appendFlat(&sb, e)
	return sb.String()
}

func (p *printer) appendFlat(sb *strings.Builder, e ast.Expr) {
	list, ok := e.(*ast.ListExpr)
	if !ok {
		sb.WriteString(p.sf.Text(e.Span()))
		return
	}
	sb.WriteByte('(')
	for i, arg := range list.Args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		p.appendFlat(sb, arg)
	}
	sb.WriteByte(')')
}
