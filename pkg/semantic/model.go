package semantic

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/proplens/pkg/editable"
	"github.com/gnana997/proplens/pkg/parser"
)

// Model is the resolved view of one parsed source file. It owns the parse
// tree and must be closed via Close() when no longer needed.
//
// Model implements editable.ResolvedTree: node lookup by byte offset,
// call-site classification and constant evaluation.
type Model struct {
	path   string
	source []byte
	tree   *ts.Tree
	decls  *FileDecls
	lookup DeclSource // cross-file declarations, may be nil
}

// Resolve parses a file and builds its semantic model. lookup resolves
// component/factory names declared in other files and may be nil.
func Resolve(pm *parser.ParserManager, path string, source []byte, lookup DeclSource) (*Model, error) {
	tree, err := pm.ParseFile(source, path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &Model{
		path:   path,
		source: source,
		tree:   tree,
		decls:  extractDecls(tree.RootNode(), source, path),
		lookup: lookup,
	}, nil
}

// Close releases the underlying parse tree.
func (m *Model) Close() {
	if m.tree != nil {
		m.tree.Close()
		m.tree = nil
	}
}

// Decls returns the declarations extracted from this file.
func (m *Model) Decls() *FileDecls { return m.decls }

// Expr is a live expression node of this model's tree.
type Expr struct {
	node   *ts.Node
	source []byte
}

func (e *Expr) Text() string  { return e.node.Utf8Text(e.source) }
func (e *Expr) Literal() bool { return isLiteralKind(e.node.Kind()) }

// Constant evaluates an expression's statically known value.
func (m *Model) Constant(expr editable.Expression) editable.ConstValue {
	switch v := expr.(type) {
	case *CapturedExpr:
		return v.Value
	case *Expr:
		return evalConst(v.node, v.source, m.decls.Consts)
	default:
		return editable.Unknown()
	}
}

// NodeCovering returns the innermost node whose span covers the byte
// offset, or nil when the offset lies outside the file.
func (m *Model) NodeCovering(offset uint32) editable.Node {
	found := deepestCovering(m.tree.RootNode(), offset)
	if found == nil {
		return nil
	}
	return &node{m: m, ts: found}
}

// deepestCovering walks down the tree to the deepest node whose byte range
// contains the offset.
func deepestCovering(n *ts.Node, offset uint32) *ts.Node {
	if n == nil || uint32(n.StartByte()) > offset || uint32(n.EndByte()) < offset {
		return nil
	}
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		child := n.Child(i)
		if uint32(child.StartByte()) <= offset && uint32(child.EndByte()) >= offset {
			return deepestCovering(child, offset)
		}
	}
	return n
}

// node adapts a tree-sitter node to the editable.Node interface.
type node struct {
	m  *Model
	ts *ts.Node
}

func (n *node) Parent() editable.Node {
	p := n.ts.Parent()
	if p == nil {
		return nil
	}
	return &node{m: n.m, ts: p}
}

func (n *node) CallSite() (*editable.CallSite, bool) {
	return n.m.callSite(n.ts)
}

// callSite classifies one tree node over the closed set of invocation
// shapes: JSX elements are constructions, call expressions are factory
// calls, everything else is not a call site.
func (m *Model) callSite(n *ts.Node) (*editable.CallSite, bool) {
	switch n.Kind() {
	case "jsx_self_closing_element":
		return m.constructionSite(n), true
	case "jsx_element":
		open := findChildByKind(n, "jsx_opening_element")
		if open == nil {
			return nil, false
		}
		return m.constructionSite(open), true
	case "call_expression":
		return m.factorySite(n), true
	default:
		return nil, false
	}
}

// constructionSite builds the call-site view of a JSX element. Lowercase
// intrinsic tags are host primitives, not components, and never qualify.
func (m *Model) constructionSite(tag *ts.Node) *editable.CallSite {
	name := jsxTagName(tag, m.source)
	cs := &editable.CallSite{
		Shape:             editable.ShapeConstruction,
		Name:              name,
		ResultIsComponent: isComponentName(name),
	}
	if !cs.ResultIsComponent {
		return cs
	}

	decl := m.component(name)
	if decl == nil {
		return cs
	}
	cs.Resolved = true
	cs.Params = decl.Params
	cs.Args = m.jsxArguments(tag, decl.Params)
	return cs
}

// factorySite builds the call-site view of a call expression. Only plain
// identifier callees can resolve to a free factory function; method calls
// never qualify.
func (m *Model) factorySite(call *ts.Node) *editable.CallSite {
	cs := &editable.CallSite{Shape: editable.ShapeFactoryCall}

	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" {
		return cs
	}
	cs.Name = callee.Utf8Text(m.source)

	decl := m.factory(cs.Name)
	if decl == nil {
		return cs
	}
	cs.Resolved = true
	cs.FactoryMarker = decl.Marker
	cs.FreeFunction = decl.Free
	cs.ResultIsComponent = decl.ReturnsComponent
	cs.Params = decl.Params
	cs.Args = m.positionalArguments(call, decl.Params)
	return cs
}

// jsxArguments extracts a JSX element's attributes as named call arguments
// in source order. Spread attributes carry no parameter link. A bare
// attribute (<Button disabled>) is JSX boolean shorthand and becomes a
// synthesized true literal.
func (m *Model) jsxArguments(tag *ts.Node, params []editable.FormalParameter) []editable.CallArgument {
	var args []editable.CallArgument
	for i := uint(0); i < uint(tag.ChildCount()); i++ {
		child := tag.Child(i)
		switch child.Kind() {
		case "jsx_attribute":
			name, expr := m.jsxAttribute(child)
			if name == "" {
				continue
			}
			args = append(args, editable.CallArgument{
				Expr:       expr,
				Name:       name,
				ParamIndex: paramIndexByName(params, name),
			})
		case "jsx_expression":
			// {...spread}: present at the call site but unresolvable.
			args = append(args, editable.CallArgument{
				Expr:       &Expr{node: child, source: m.source},
				ParamIndex: -1,
			})
		}
	}
	return args
}

// jsxAttribute returns an attribute's name and its effective value
// expression, unwrapped from the jsx_expression container so constant
// evaluation sees the inner expression.
func (m *Model) jsxAttribute(attr *ts.Node) (string, editable.Expression) {
	var name string
	var expr editable.Expression

	for i := uint(0); i < uint(attr.ChildCount()); i++ {
		child := attr.Child(i)
		switch child.Kind() {
		case "property_identifier":
			name = child.Utf8Text(m.source)
		case "string":
			expr = &Expr{node: child, source: m.source}
		case "jsx_expression":
			if inner := jsxExpressionInner(child); inner != nil {
				expr = &Expr{node: inner, source: m.source}
			}
		}
	}

	if expr == nil {
		expr = &CapturedExpr{Src: "true", IsLit: true, Value: editable.Known(true)}
	}
	return name, expr
}

// positionalArguments extracts a call expression's arguments; the
// parameter link is the argument's position.
func (m *Model) positionalArguments(call *ts.Node, params []editable.FormalParameter) []editable.CallArgument {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}

	var args []editable.CallArgument
	pos := 0
	for i := uint(0); i < uint(argsNode.ChildCount()); i++ {
		child := argsNode.Child(i)
		switch child.Kind() {
		case "(", ")", ",", "comment":
			continue
		case "spread_element":
			args = append(args, editable.CallArgument{
				Expr:       &Expr{node: child, source: m.source},
				ParamIndex: -1,
			})
		default:
			idx := -1
			if pos < len(params) {
				idx = pos
			}
			args = append(args, editable.CallArgument{
				Expr:       &Expr{node: child, source: m.source},
				ParamIndex: idx,
			})
			pos++
		}
	}
	return args
}

func (m *Model) component(name string) *ComponentDecl {
	if decl, ok := m.decls.Components[name]; ok {
		return decl
	}
	if m.lookup != nil {
		if decl, ok := m.lookup.LookupComponent(name); ok {
			return decl
		}
	}
	return nil
}

func (m *Model) factory(name string) *FactoryDecl {
	if decl, ok := m.decls.Factories[name]; ok {
		return decl
	}
	if m.lookup != nil {
		if decl, ok := m.lookup.LookupFactory(name); ok {
			return decl
		}
	}
	return nil
}

// jsxTagName returns the tag name of an opening or self-closing element.
func jsxTagName(tag *ts.Node, source []byte) string {
	for i := uint(0); i < uint(tag.ChildCount()); i++ {
		child := tag.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier":
			return child.Utf8Text(source)
		}
	}
	return ""
}

// jsxExpressionInner returns the expression inside a { ... } container.
func jsxExpressionInner(node *ts.Node) *ts.Node {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() != "{" && child.Kind() != "}" && child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

func paramIndexByName(params []editable.FormalParameter, name string) int {
	for i := range params {
		if params[i].Name == name {
			return params[i].Index
		}
	}
	return -1
}
