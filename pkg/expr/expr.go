// Package expr is a small immutable SQL expression tree.
// Nodes are plain values. Rewrites never modify a node in place, they
// return a freshly built tree, so a tree can be shared between goroutines.
package expr

// Node is one of Column, Literal, Func, Concat, Cast, Collate, Raw, Alias or Select.
type Node interface {
	node()
}

// Column is a reference to a column by its name in the layer being queried.
// DataType is optional and only used by dialect rules that depend on it.
type Column struct {
	Name     string
	DataType string
}

// LiteralKind distinguishes how a literal is rendered.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
)

// Literal is a constant value.
type Literal struct {
	Value string
	Kind  LiteralKind
}

// Func is a function call such as SHA2(x, 256).
type Func struct {
	Name string
	Args []Node
}

// Concat joins its arguments into a single string value.
// How it is spelled (CONCAT(...) or ||) is decided by the dialect.
type Concat struct {
	Args []Node
}

// Cast converts Expr to Type.
type Cast struct {
	Expr Node
	Type string
}

// Collate applies a collation to Expr.
type Collate struct {
	Expr      Node
	Collation string
}

// Raw is SQL text supplied by the user. It is emitted verbatim.
type Raw struct {
	SQL string
}

// Alias names the output of Expr.
type Alias struct {
	Expr Node
	Name string
}

// Select is a single SELECT over a table reference with an optional predicate.
// From and Where are emitted verbatim.
type Select struct {
	Fields []Node
	From   string
	Where  string
}

func (Column) node()  {}
func (Literal) node() {}
func (Func) node()    {}
func (Concat) node()  {}
func (Cast) node()    {}
func (Collate) node() {}
func (Raw) node()     {}
func (Alias) node()   {}
func (Select) node()  {}

// Str returns a string literal.
func Str(v string) Literal {
	return Literal{Value: v, Kind: StringLiteral}
}

// Num returns a numeric literal.
func Num(v string) Literal {
	return Literal{Value: v, Kind: NumberLiteral}
}

// Call returns a function call node.
func Call(name string, args ...Node) Func {
	return Func{Name: name, Args: args}
}
