package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"parens/internal/ast"

	"github.com/mattn/go-runewidth"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatASTTree draws the expression top-down: each list is a "()" node
// with its elements below it.
func FormatASTTree(w io.Writer, expr ast.Expr) error {
	if expr == nil {
		return fmt.Errorf("nil expression")
	}
	block := renderTree(buildTreeNode(expr))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildTreeNode(expr ast.Expr) *treeNode {
	list, ok := expr.(*ast.ListExpr)
	if !ok {
		return &treeNode{label: expr.String()}
	}
	node := &treeNode{label: "()"}
	for _, arg := range list.Args {
		node.children = append(node.children, buildTreeNode(arg))
	}
	return node
}

func padRight(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// renderTree lays children side by side, three columns apart, centres the
// parent label over them and joins them with a row of / | \ connectors.
func renderTree(node *treeNode) treeBlock {
	labelWidth := runewidth.StringWidth(node.label)
	if len(node.children) == 0 {
		return treeBlock{lines: []string{node.label}, width: labelWidth, root: labelWidth / 2}
	}

	const spacing = 3

	blocks := make([]treeBlock, len(node.children))
	positions := make([]int, len(node.children))
	height, total := 0, 0
	for i, child := range node.children {
		blocks[i] = renderTree(child)
		height = max(height, len(blocks[i].lines))
		if i > 0 {
			total += spacing
		}
		positions[i] = total + blocks[i].root
		total += blocks[i].width
	}

	// сдвигаем либо родителя, либо детей так, чтобы корень оказался над центром детей
	center := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	labelShift, childShift := 0, 0
	if center >= rootPos {
		labelShift = center - rootPos
	} else {
		childShift = rootPos - center
	}
	rootPos += labelShift
	for i := range positions {
		positions[i] += childShift
	}
	width := max(total+childShift, labelShift+labelWidth)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		}
	}

	lines := make([]string, 0, height+2)
	lines = append(lines, padRight(strings.Repeat(" ", labelShift)+node.label, width), string(connector))
	for row := range height {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childShift))
		for i, block := range blocks {
			if i > 0 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padRight(line, block.width))
		}
		lines = append(lines, padRight(sb.String(), width))
	}

	return treeBlock{lines: lines, width: width, root: rootPos}
}
