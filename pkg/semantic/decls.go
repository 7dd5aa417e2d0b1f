// Package semantic builds a resolved view of one JSX/TSX source file: the
// component and factory declarations it contains, and a query surface over
// its syntax tree that the editable-arguments engine consumes.
package semantic

import (
	"fmt"
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/proplens/pkg/editable"
	"github.com/gnana997/proplens/pkg/parser"
)

// FactoryMarkerTag is the JSDoc tag that marks a free function as a
// component factory.
const FactoryMarkerTag = "@componentFactory"

// ComponentDecl is a component declaration: a capitalized function or arrow
// component together with its formal parameters (props) in declaration
// order.
type ComponentDecl struct {
	Name   string
	File   string
	Params []editable.FormalParameter
}

// FactoryDecl is a function declaration carrying the component-factory
// marker. Its parameters are positional.
type FactoryDecl struct {
	Name             string
	File             string
	Params           []editable.FormalParameter
	Marker           bool
	Free             bool
	ReturnsComponent bool
}

// FileDecls holds everything extracted from one file.
type FileDecls struct {
	Path       string
	Components map[string]*ComponentDecl
	Factories  map[string]*FactoryDecl
	// Consts maps top-level const names to their constant initializer
	// values, for identifier references in constant evaluation.
	Consts map[string]editable.ConstValue
}

// DeclSource resolves component and factory names declared outside the
// current file, typically backed by a workspace index.
type DeclSource interface {
	LookupComponent(name string) (*ComponentDecl, bool)
	LookupFactory(name string) (*FactoryDecl, bool)
}

// CapturedExpr is a self-contained expression snapshot: source text,
// literal-ness and pre-computed constant value. Declarations keep captured
// expressions instead of live tree nodes so they can outlive the tree they
// were extracted from.
type CapturedExpr struct {
	Src   string
	IsLit bool
	Value editable.ConstValue
}

func (e *CapturedExpr) Text() string  { return e.Src }
func (e *CapturedExpr) Literal() bool { return e.IsLit }

// capture snapshots a tree node as a CapturedExpr.
func capture(node *ts.Node, source []byte, consts map[string]editable.ConstValue) *CapturedExpr {
	return &CapturedExpr{
		Src:   node.Utf8Text(source),
		IsLit: isLiteralKind(node.Kind()),
		Value: evalConst(node, source, consts),
	}
}

// ExtractDecls parses a file and extracts its declarations. The parse tree
// is closed before returning; all extracted data is self-contained.
func ExtractDecls(pm *parser.ParserManager, path string, source []byte) (*FileDecls, error) {
	tree, err := pm.ParseFile(source, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	return extractDecls(tree.RootNode(), source, path), nil
}

// extractDecls walks the top-level statements of a file and collects props
// types, constants, component declarations and factory declarations.
func extractDecls(root *ts.Node, source []byte, path string) *FileDecls {
	decls := &FileDecls{
		Path:       path,
		Components: make(map[string]*ComponentDecl),
		Factories:  make(map[string]*FactoryDecl),
		Consts:     make(map[string]editable.ConstValue),
	}

	// First pass: props interfaces/type aliases and top-level constants.
	propsTypes := make(map[string][]editable.FormalParameter)
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		stmt := unwrapExport(root.Child(i))
		switch stmt.Kind() {
		case "interface_declaration", "type_alias_declaration":
			name, params := extractPropsType(stmt, source)
			if name != "" {
				propsTypes[name] = params
			}
		case "lexical_declaration":
			collectConsts(stmt, source, decls.Consts)
		}
	}

	// Second pass: functions and arrow components, with their preceding
	// JSDoc comment.
	var doc string
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Kind() == "comment" {
			doc = child.Utf8Text(source)
			continue
		}
		stmt := unwrapExport(child)
		switch stmt.Kind() {
		case "function_declaration":
			name := nodeText(stmt.ChildByFieldName("name"), source)
			registerFunction(decls, propsTypes, stmt, name, doc, source, path)
		case "lexical_declaration":
			for j := uint(0); j < uint(stmt.ChildCount()); j++ {
				vd := stmt.Child(j)
				if vd.Kind() != "variable_declarator" {
					continue
				}
				value := vd.ChildByFieldName("value")
				if value == nil || value.Kind() != "arrow_function" {
					continue
				}
				name := nodeText(vd.ChildByFieldName("name"), source)
				registerFunction(decls, propsTypes, value, name, doc, source, path)
			}
		}
		doc = ""
	}

	return decls
}

// registerFunction classifies one function-like node as a factory, a
// component, or neither.
func registerFunction(
	decls *FileDecls,
	propsTypes map[string][]editable.FormalParameter,
	fn *ts.Node,
	name, doc string,
	source []byte,
	path string,
) {
	if name == "" {
		return
	}

	if strings.Contains(doc, FactoryMarkerTag) {
		decls.Factories[name] = &FactoryDecl{
			Name:             name,
			File:             path,
			Params:           extractPositionalParams(fn, source, decls.Consts),
			Marker:           true,
			Free:             true, // only top-level declarations reach here
			ReturnsComponent: returnsComponent(fn, source),
		}
		return
	}

	if !isComponentName(name) || !containsJSX(fn) {
		return
	}

	decls.Components[name] = &ComponentDecl{
		Name:   name,
		File:   path,
		Params: extractComponentParams(fn, propsTypes, source, decls.Consts),
	}
}

// extractPropsType extracts the formal parameters declared by a props
// interface or type alias.
func extractPropsType(decl *ts.Node, source []byte) (string, []editable.FormalParameter) {
	name := nodeText(decl.ChildByFieldName("name"), source)

	var body *ts.Node
	switch decl.Kind() {
	case "interface_declaration":
		body = findChildByKind(decl, "interface_body")
		if body == nil {
			body = findChildByKind(decl, "object_type")
		}
	case "type_alias_declaration":
		value := decl.ChildByFieldName("value")
		if value == nil {
			return name, nil
		}
		if value.Kind() == "object_type" {
			body = value
		} else if value.Kind() == "intersection_type" {
			body = findChildByKind(value, "object_type")
		}
	}
	if body == nil {
		return name, nil
	}

	var params []editable.FormalParameter
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		sig := body.Child(i)
		if sig.Kind() != "property_signature" {
			continue
		}
		propName := nodeText(sig.ChildByFieldName("name"), source)
		if propName == "" {
			continue
		}

		optional := findChildByKind(sig, "?") != nil
		typeRef := editable.TypeRef{Name: "unknown"}
		if anno := sig.ChildByFieldName("type"); anno != nil {
			typeRef = normalizeTypeAnnotation(anno, source)
		}

		params = append(params, editable.FormalParameter{
			Index:    len(params),
			Name:     propName,
			Type:     typeRef,
			Required: !optional,
			Nullable: typeRef.Nullable,
		})
	}
	return name, params
}

// extractComponentParams resolves a component function's props: the props
// type referenced (or declared inline) by its first parameter, with
// destructuring defaults merged in by name.
func extractComponentParams(
	fn *ts.Node,
	propsTypes map[string][]editable.FormalParameter,
	source []byte,
	consts map[string]editable.ConstValue,
) []editable.FormalParameter {
	firstParam := firstFormalParameter(fn)

	var params []editable.FormalParameter
	if firstParam != nil {
		if anno := firstParam.ChildByFieldName("type"); anno != nil {
			if typeName := firstTypeIdentifier(anno, source); typeName != "" {
				if declared, ok := propsTypes[typeName]; ok {
					params = append(params, declared...)
				}
			}
			if len(params) == 0 {
				// Inline object type: ({ size }: { size?: number }).
				if obj := findDescendantByKind(anno, "object_type"); obj != nil {
					params = extractObjectTypeParams(obj, source)
				}
			}
		}
	}

	// Merge destructuring defaults: { size = 10 }.
	defaults := extractDestructureDefaults(firstParam, source, consts)
	byName := make(map[string]int, len(params))
	for i := range params {
		byName[params[i].Name] = i
	}
	for _, d := range defaults {
		if idx, ok := byName[d.name]; ok {
			params[idx].Default = d.expr
			continue
		}
		params = append(params, editable.FormalParameter{
			Index:   len(params),
			Name:    d.name,
			Type:    editable.TypeRef{Name: "unknown"},
			Default: d.expr,
		})
	}

	for i := range params {
		params[i].Index = i
	}
	return params
}

// extractObjectTypeParams reads property signatures straight off an
// object_type node.
func extractObjectTypeParams(obj *ts.Node, source []byte) []editable.FormalParameter {
	var params []editable.FormalParameter
	for i := uint(0); i < uint(obj.ChildCount()); i++ {
		sig := obj.Child(i)
		if sig.Kind() != "property_signature" {
			continue
		}
		name := nodeText(sig.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		optional := findChildByKind(sig, "?") != nil
		typeRef := editable.TypeRef{Name: "unknown"}
		if anno := sig.ChildByFieldName("type"); anno != nil {
			typeRef = normalizeTypeAnnotation(anno, source)
		}
		params = append(params, editable.FormalParameter{
			Index:    len(params),
			Name:     name,
			Type:     typeRef,
			Required: !optional,
			Nullable: typeRef.Nullable,
		})
	}
	return params
}

type destructureDefault struct {
	name string
	expr *CapturedExpr
}

// extractDestructureDefaults pulls default values from a destructuring
// first parameter: ({ variant = "default", size = 10 }).
func extractDestructureDefaults(param *ts.Node, source []byte, consts map[string]editable.ConstValue) []destructureDefault {
	if param == nil {
		return nil
	}
	pattern := param.ChildByFieldName("pattern")
	if pattern == nil {
		pattern = findChildByKind(param, "object_pattern")
	}
	if pattern == nil || pattern.Kind() != "object_pattern" {
		return nil
	}

	var defaults []destructureDefault
	for i := uint(0); i < uint(pattern.ChildCount()); i++ {
		child := pattern.Child(i)
		switch child.Kind() {
		case "assignment_pattern", "object_assignment_pattern":
			left := child.ChildByFieldName("left")
			right := child.ChildByFieldName("right")
			if left != nil && right != nil {
				defaults = append(defaults, destructureDefault{
					name: left.Utf8Text(source),
					expr: capture(right, source, consts),
				})
			}
		case "pair_pattern":
			key := child.ChildByFieldName("key")
			value := child.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			if value.Kind() == "assignment_pattern" || value.Kind() == "object_assignment_pattern" {
				if right := value.ChildByFieldName("right"); right != nil {
					defaults = append(defaults, destructureDefault{
						name: key.Utf8Text(source),
						expr: capture(right, source, consts),
					})
				}
			}
		}
	}
	return defaults
}

// extractPositionalParams extracts a factory function's declared
// parameters in declaration order.
func extractPositionalParams(fn *ts.Node, source []byte, consts map[string]editable.ConstValue) []editable.FormalParameter {
	formals := fn.ChildByFieldName("parameters")
	if formals == nil {
		return nil
	}

	var params []editable.FormalParameter
	for i := uint(0); i < uint(formals.ChildCount()); i++ {
		p := formals.Child(i)
		kind := p.Kind()
		if kind != "required_parameter" && kind != "optional_parameter" {
			continue
		}

		pattern := p.ChildByFieldName("pattern")
		if pattern == nil || pattern.Kind() != "identifier" {
			continue // destructured factory params are not editable slots
		}

		typeRef := editable.TypeRef{Name: "unknown"}
		if anno := p.ChildByFieldName("type"); anno != nil {
			typeRef = normalizeTypeAnnotation(anno, source)
		}

		param := editable.FormalParameter{
			Index:    len(params),
			Name:     pattern.Utf8Text(source),
			Type:     typeRef,
			Required: kind == "required_parameter",
			Nullable: typeRef.Nullable,
		}
		if def := p.ChildByFieldName("value"); def != nil {
			param.Default = capture(def, source, consts)
			param.Required = false
		}
		params = append(params, param)
	}
	return params
}

// collectConsts records top-level const declarations with statically known
// initializers.
func collectConsts(decl *ts.Node, source []byte, consts map[string]editable.ConstValue) {
	if first := decl.Child(0); first == nil || first.Kind() != "const" {
		return
	}
	for i := uint(0); i < uint(decl.ChildCount()); i++ {
		vd := decl.Child(i)
		if vd.Kind() != "variable_declarator" {
			continue
		}
		name := nodeText(vd.ChildByFieldName("name"), source)
		value := vd.ChildByFieldName("value")
		if name == "" || value == nil {
			continue
		}
		if v := evalConst(value, source, consts); v.IsKnown() {
			consts[name] = v
		}
	}
}

// returnsComponent reports whether a function's result is a component: a
// JSX-typed return annotation or a JSX-producing body.
func returnsComponent(fn *ts.Node, source []byte) bool {
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		text := ret.Utf8Text(source)
		for _, marker := range []string{"JSX.Element", "ReactElement", "ReactNode", "Element"} {
			if strings.Contains(text, marker) {
				return true
			}
		}
	}
	return containsJSX(fn)
}

// containsJSX recursively checks for a JSX descendant.
func containsJSX(node *ts.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if containsJSX(node.Child(i)) {
			return true
		}
	}
	return false
}

// --- shared node helpers ---

func unwrapExport(node *ts.Node) *ts.Node {
	if node.Kind() != "export_statement" {
		return node
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_declaration", "lexical_declaration",
			"interface_declaration", "type_alias_declaration", "class_declaration":
			return child
		}
	}
	return node
}

func firstFormalParameter(fn *ts.Node) *ts.Node {
	formals := fn.ChildByFieldName("parameters")
	if formals == nil {
		return nil
	}
	for i := uint(0); i < uint(formals.ChildCount()); i++ {
		child := formals.Child(i)
		if child.Kind() == "required_parameter" || child.Kind() == "optional_parameter" {
			return child
		}
	}
	return nil
}

func findChildByKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func findDescendantByKind(node *ts.Node, kind string) *ts.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if found := findDescendantByKind(node.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func firstTypeIdentifier(node *ts.Node, source []byte) string {
	if found := findDescendantByKind(node, "type_identifier"); found != nil {
		return found.Utf8Text(source)
	}
	return ""
}

func nodeText(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(source)
}

// isComponentName follows the JSX convention: component tags start with an
// uppercase letter, intrinsic host tags do not.
func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
