package semantic

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/proplens/pkg/editable"
)

// integer-like alias names accepted by design-system codebases where plain
// "number" is too wide. Matching is case-insensitive.
var canonicalAliases = map[string]string{
	"int":     "int",
	"integer": "integer",
	"float":   "float",
	"double":  "double",
}

// normalizeTypeAnnotation unwraps a type_annotation node (": T") and
// normalizes the inner type.
func normalizeTypeAnnotation(anno *ts.Node, source []byte) editable.TypeRef {
	for i := uint(0); i < uint(anno.ChildCount()); i++ {
		child := anno.Child(i)
		if child.Kind() == ":" {
			continue
		}
		return normalizeType(child, source)
	}
	return editable.TypeRef{Name: "unknown"}
}

// normalizeType maps a type AST node to the canonical TypeRef the editable
// classifier understands. Union members null/undefined mark the type
// nullable; every shape the classifier does not support keeps a descriptive
// name so it is dropped at projection time.
func normalizeType(node *ts.Node, source []byte) editable.TypeRef {
	if node == nil {
		return editable.TypeRef{Name: "unknown"}
	}

	switch node.Kind() {
	case "predefined_type":
		return editable.TypeRef{Name: node.Utf8Text(source)}

	case "type_identifier":
		name := node.Utf8Text(source)
		if canonical, ok := canonicalAliases[strings.ToLower(name)]; ok {
			return editable.TypeRef{Name: canonical}
		}
		return editable.TypeRef{Name: name}

	case "union_type":
		return normalizeUnion(node, source)

	case "parenthesized_type":
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Kind() != "(" && child.Kind() != ")" {
				return normalizeType(child, source)
			}
		}
		return editable.TypeRef{Name: "unknown"}

	case "literal_type":
		// A bare literal member ("default", 42, null) is handled by
		// normalizeUnion; standalone it is not an editable kind.
		return editable.TypeRef{Name: "literal"}

	case "function_type":
		return editable.TypeRef{Name: "function"}

	case "array_type":
		return editable.TypeRef{Name: "array"}

	case "object_type":
		return editable.TypeRef{Name: "object"}

	case "tuple_type":
		return editable.TypeRef{Name: "tuple"}

	case "generic_type":
		if name := node.ChildByFieldName("name"); name != nil {
			return editable.TypeRef{Name: name.Utf8Text(source)}
		}
		return editable.TypeRef{Name: node.Utf8Text(source)}

	case "member_expression", "nested_type_identifier":
		return editable.TypeRef{Name: node.Utf8Text(source)}

	default:
		return editable.TypeRef{Name: node.Utf8Text(source)}
	}
}

// normalizeUnion flattens a union type. null/undefined members set the
// nullable flag; a union that reduces to one remaining member takes that
// member's canonical name, anything else stays an unsupported "union".
func normalizeUnion(node *ts.Node, source []byte) editable.TypeRef {
	var members []*ts.Node
	flattenUnion(node, &members)

	nullable := false
	var rest []*ts.Node
	for _, m := range members {
		text := m.Utf8Text(source)
		if text == "null" || text == "undefined" {
			nullable = true
			continue
		}
		rest = append(rest, m)
	}

	if len(rest) == 1 {
		ref := normalizeType(rest[0], source)
		ref.Nullable = ref.Nullable || nullable
		return ref
	}
	return editable.TypeRef{Name: "union", Nullable: nullable}
}

// flattenUnion collects the leaf members of a left-recursive union tree.
func flattenUnion(node *ts.Node, out *[]*ts.Node) {
	if node.Kind() != "union_type" {
		*out = append(*out, node)
		return
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == "|" {
			continue
		}
		flattenUnion(child, out)
	}
}
