// Package ast defines the expression tree produced by the parser.
//
// The tree is a closed sum type: every consumer switches over the four node
// types and panics on anything else. Children are owned by exactly one
// parent and no node is shared between trees.
package ast
