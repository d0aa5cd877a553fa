// Package format prints a parsed program back in canonical layout.
//
// Назначение: `parens fmt` поверх уже разобранного AST. Короткие списки
// остаются на одной строке, длинные переносятся по аргументам с отступом.
// Атомы копируются из исходника как есть.
// Не делает: вычисления и IO.
// Зависимости: internal/ast, internal/lexer, internal/parser, internal/source.
package format
