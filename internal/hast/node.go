// Package hast defines the typed-tree contract consumed from the external
// parser: a minimal node/visitor surface, modeled on funxy's internal/ast
// package (ast_core.go's Node/Statement/Expression interfaces and
// Accept(Visitor) dispatch), scoped down to what the analysis pipeline
// actually walks. The concrete-syntax parser itself is an external
// collaborator and is not implemented here.
package hast

import "github.com/hakana-go/hakana/internal/token"

// Node is the base interface every typed-tree node satisfies.
type Node interface {
	Pos() token.Position
	Accept(v Visitor)
}

// Statement is a Node that appears in a statement position.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a Node that appears in an expression position and has an
// inferred type once the flow analyzer has visited it.
type Expression interface {
	Node
	exprNode()
}

// NodeID is a small integer identity for an AST node, assigned by the
// parser or by the codebase index during signature extraction. It is
// distinct from intern.ID (symbol names); NodeID identifies *this
// occurrence* of a declaration/expression.
type NodeID uint64

// base embeds the position every concrete node carries.
type base struct {
	P token.Position
}

func (b base) Pos() token.Position { return b.P }
