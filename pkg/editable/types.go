// Package editable computes structured descriptions of the editable
// arguments of a UI-component invocation at a cursor position. It operates
// on a resolved syntax tree supplied by a semantic model and produces
// renderable records for a property-panel style consumer.
package editable

// ValueKind tags the closed set of editable value kinds.
type ValueKind string

const (
	KindDouble ValueKind = "double"
	KindInt    ValueKind = "int"
	KindBool   ValueKind = "bool"
	KindString ValueKind = "string"
)

// TypeRef is a formal parameter's declared static type after
// canonicalization by the semantic model.
type TypeRef struct {
	// Name is the canonical type name, e.g. "string", "number", "int".
	Name string
	// Nullable is true when the declared type admits an explicit null.
	Nullable bool
}

// Expression is a node of the resolved syntax tree supplied as an argument
// or declared as a parameter default. Implementations are owned by the
// semantic model.
type Expression interface {
	// Text returns the expression's original source text.
	Text() string
	// Literal reports whether the expression is a literal node.
	Literal() bool
}

// FormalParameter is one declared input slot of a callee.
//
// Index is the parameter's declaration index and serves as its stable
// identity within one invocation candidate; argument-to-parameter links use
// it instead of pointer identity.
type FormalParameter struct {
	Index    int
	Name     string
	Type     TypeRef
	Required bool
	Nullable bool
	// Default is the declared default-value expression, nil when absent.
	Default Expression
}

// CallArgument is one supplied argument at a call site. Expr is the
// effective expression: for named-argument forms the semantic model has
// already unwrapped the wrapper so that constant evaluation sees the inner
// expression.
type CallArgument struct {
	Expr Expression
	// Name is the targeted parameter name for named arguments, "" for
	// positional ones.
	Name string
	// ParamIndex is the declaration index of the parameter this argument
	// resolves to, as determined by semantic analysis. -1 when unresolved.
	ParamIndex int
}

// InvocationShape enumerates the closed set of call-site forms that can
// qualify for editable-argument extraction.
type InvocationShape int

const (
	// ShapeConstruction is a direct construction of a UI component.
	ShapeConstruction InvocationShape = iota
	// ShapeFactoryCall is a call to a free function carrying the
	// component-factory marker.
	ShapeFactoryCall
)

// String returns the shape name.
func (s InvocationShape) String() string {
	switch s {
	case ShapeConstruction:
		return "construction"
	case ShapeFactoryCall:
		return "factoryCall"
	default:
		return "unknown"
	}
}

// CallSite is the semantic model's view of one construction or call
// expression node, queried by the locator while walking ancestors.
type CallSite struct {
	Shape InvocationShape
	// Name is the component or callee name.
	Name string
	// ResultIsComponent is true when the static result type is assignable
	// to the UI-component base type.
	ResultIsComponent bool
	// Resolved is true when the callee was statically resolved and its
	// declared parameters are available.
	Resolved bool
	// FactoryMarker is true when the resolved callee carries the
	// component-factory marker in its declared metadata.
	FactoryMarker bool
	// FreeFunction is true when the resolved callee is a free or extension
	// function rather than an instance method.
	FreeFunction bool
	Params       []FormalParameter
	Args         []CallArgument
}

// Node is one node of the resolved syntax tree.
type Node interface {
	// Parent returns the enclosing node, nil at the root.
	Parent() Node
	// CallSite classifies the node as a construction or call expression.
	// ok is false for every other node kind.
	CallSite() (*CallSite, bool)
}

// ResolvedTree is the query surface of a parsed and semantically resolved
// source file.
type ResolvedTree interface {
	ConstEvaluator
	// NodeCovering returns the innermost node whose source span covers the
	// byte offset, or nil when the offset is outside the tree.
	NodeCovering(offset uint32) Node
}

// ConstEvaluator computes the statically known value of an expression.
type ConstEvaluator interface {
	// Constant returns Known/KnownNil for statically determinable values
	// and Unknown otherwise. It never fails.
	Constant(expr Expression) ConstValue
}

// Invocation is the candidate extracted from one qualifying call site:
// the callee's declared parameters and the supplied arguments in source
// order. Transient, built per request.
type Invocation struct {
	Shape  InvocationShape
	Name   string
	Params []FormalParameter
	Args   []CallArgument
}

// Binding pairs a formal parameter with the argument bound to it.
// Arg is nil for unbound parameters.
type Binding struct {
	Param FormalParameter
	Arg   *CallArgument
}

// ValuePair holds the constant values resolved for one binding.
type ValuePair struct {
	// Default is the constant value of the parameter's declared default.
	Default ConstValue
	// Argument is the constant value of the supplied expression.
	Argument ConstValue
	// IsDefault is true when no argument was supplied, or when both
	// constant values are known and equal.
	IsDefault bool
}

// EditableArgument is the projected, renderable record for one parameter.
type EditableArgument struct {
	Name string    `json:"name"`
	Type ValueKind `json:"type"`
	// Value is the typed current value (float64, int64, bool or string),
	// absent when no constant value of the right kind is known.
	Value any `json:"value,omitempty"`
	// DisplayValue is the original source text of a supplied non-literal
	// expression, for renderers that cannot derive a structured value.
	DisplayValue string `json:"displayValue,omitempty"`
	// Options is a placeholder for future enumeration support.
	Options     []string `json:"options,omitempty"`
	HasArgument bool     `json:"hasArgument"`
	IsDefault   bool     `json:"isDefault"`
	IsRequired  bool     `json:"isRequired"`
	IsNullable  bool     `json:"isNullable"`
}

// DocumentID stamps a result with the identity and version of the document
// the resolved tree was produced from.
type DocumentID struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// Result is the ordered editable-argument list for one invocation.
type Result struct {
	Document DocumentID `json:"textDocument"`
	// Name is the invoked component or factory name.
	Name string `json:"name"`
	// Arguments is never nil: an invocation whose parameters all have
	// unsupported types still marshals as an empty list, keeping the wire
	// shape distinct from the null that signals no invocation at all.
	Arguments []EditableArgument `json:"arguments"`
}
