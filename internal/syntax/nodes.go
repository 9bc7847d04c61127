package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// A Rage file is a flat list of statements. Every statement reports the
// grammar rule that produced it; expressions appear only as definition
// values and call arguments.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	Rule() Rule
}

// Rule identifies the grammar rule a statement was parsed from.
type Rule uint8

const (
	RuleDeclaration Rule = iota // var x: T;
	RuleDefinition              // x = e;
	RuleCall                    // f(args);
	RuleEOI                     // end of input
)

var ruleNames = [...]string{
	RuleDeclaration: "declaration",
	RuleDefinition:  "definition",
	RuleCall:        "call",
	RuleEOI:         "EOI",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "rule?"
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

// ----------------------------------------------------------------------------
// File

// File represents a complete source file.
// Stmts is in source order and always ends with an *EOIStmt.
type File struct {
	node
	Name  string
	Stmts []Stmt
}

// ----------------------------------------------------------------------------
// Statements

// VarDecl represents a declaration: var Name: Type
type VarDecl struct {
	node
	Name *Name
	Type *Name // primitive type keyword
}

// DefineStmt represents a definition: Name = Value
type DefineStmt struct {
	node
	Name  *Name
	Value Expr
}

// CallStmt represents a call used as a statement.
type CallStmt struct {
	node
	Call *CallExpr
}

// EOIStmt marks the end of input.
type EOIStmt struct {
	node
}

func (*VarDecl) Rule() Rule    { return RuleDeclaration }
func (*DefineStmt) Rule() Rule { return RuleDefinition }
func (*CallStmt) Rule() Rule   { return RuleCall }
func (*EOIStmt) Rule() Rule    { return RuleEOI }

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents a literal. Value holds the literal text as written
// (with a leading '-' for negative numbers), or the decoded content for
// character and string literals.
type BasicLit struct {
	expr
	Value string
	Kind  LitKind
}

// CallExpr represents a call: Fun(Args...)
type CallExpr struct {
	expr
	Fun  *Name
	Args []Expr
}

// ----------------------------------------------------------------------------
// Constructors

// NewName returns a Name node at pos.
func NewName(pos Pos, value string) *Name {
	n := &Name{Value: value}
	n.pos = pos
	return n
}

// NewBasicLit returns a literal node at pos.
func NewBasicLit(pos Pos, value string, kind LitKind) *BasicLit {
	l := &BasicLit{Value: value, Kind: kind}
	l.pos = pos
	return l
}
