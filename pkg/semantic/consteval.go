package semantic

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/proplens/pkg/editable"
)

// evalConst computes the statically known value of an expression node.
// It handles literals, substitution-free template strings, parenthesized
// and unary expressions, numeric and string arithmetic, and references to
// top-level constants. Everything else is unknown, never an error.
func evalConst(node *ts.Node, source []byte, consts map[string]editable.ConstValue) editable.ConstValue {
	if node == nil {
		return editable.Unknown()
	}

	switch node.Kind() {
	case "string":
		return editable.Known(stringContent(node, source))

	case "number":
		return evalNumber(node.Utf8Text(source))

	case "true":
		return editable.Known(true)

	case "false":
		return editable.Known(false)

	case "null", "undefined":
		return editable.KnownNil()

	case "template_string":
		if findChildByKind(node, "template_substitution") != nil {
			return editable.Unknown()
		}
		return editable.Known(stringContent(node, source))

	case "parenthesized_expression":
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Kind() != "(" && child.Kind() != ")" {
				return evalConst(child, source, consts)
			}
		}
		return editable.Unknown()

	case "jsx_expression":
		// { expr } attribute value wrapper.
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Kind() != "{" && child.Kind() != "}" {
				return evalConst(child, source, consts)
			}
		}
		return editable.Unknown()

	case "unary_expression":
		return evalUnary(node, source, consts)

	case "binary_expression":
		return evalBinary(node, source, consts)

	case "identifier":
		if consts != nil {
			if v, ok := consts[node.Utf8Text(source)]; ok {
				return v
			}
		}
		return editable.Unknown()

	default:
		return editable.Unknown()
	}
}

// evalNumber parses a JS numeric literal, keeping integral values integral.
// Radix prefixes (0x, 0b, 0o) are honored; a bare leading zero is decimal,
// since legacy octal literals are a syntax error in module code.
func evalNumber(text string) editable.ConstValue {
	text = strings.ReplaceAll(text, "_", "")
	if hasRadixPrefix(text) {
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			return editable.Known(i)
		}
		return editable.Unknown()
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return editable.Known(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return editable.Known(f)
	}
	return editable.Unknown()
}

func hasRadixPrefix(text string) bool {
	if len(text) < 3 || text[0] != '0' {
		return false
	}
	switch text[1] {
	case 'x', 'X', 'b', 'B', 'o', 'O':
		return true
	}
	return false
}

func evalUnary(node *ts.Node, source []byte, consts map[string]editable.ConstValue) editable.ConstValue {
	arg := node.ChildByFieldName("argument")
	op := nodeText(node.ChildByFieldName("operator"), source)
	inner := evalConst(arg, source, consts)
	if !inner.IsKnown() || inner.IsNil() {
		return editable.Unknown()
	}

	switch op {
	case "-":
		if i, ok := inner.Int(); ok {
			return editable.Known(-i)
		}
		if f, ok := inner.Float(); ok {
			return editable.Known(-f)
		}
	case "+":
		if _, ok := inner.Float(); ok {
			return inner
		}
	case "!":
		if b, ok := inner.Bool(); ok {
			return editable.Known(!b)
		}
	}
	return editable.Unknown()
}

func evalBinary(node *ts.Node, source []byte, consts map[string]editable.ConstValue) editable.ConstValue {
	left := evalConst(node.ChildByFieldName("left"), source, consts)
	right := evalConst(node.ChildByFieldName("right"), source, consts)
	op := nodeText(node.ChildByFieldName("operator"), source)
	if !left.IsKnown() || !right.IsKnown() || left.IsNil() || right.IsNil() {
		return editable.Unknown()
	}

	// String concatenation.
	if ls, ok := left.Str(); ok {
		if rs, rok := right.Str(); rok && op == "+" {
			return editable.Known(ls + rs)
		}
		return editable.Unknown()
	}

	// Integer arithmetic stays integral except for division.
	if li, ok := left.Int(); ok {
		if ri, rok := right.Int(); rok {
			switch op {
			case "+":
				return editable.Known(li + ri)
			case "-":
				return editable.Known(li - ri)
			case "*":
				return editable.Known(li * ri)
			case "/":
				if ri == 0 {
					return editable.Unknown()
				}
				if li%ri == 0 {
					return editable.Known(li / ri)
				}
				return editable.Known(float64(li) / float64(ri))
			}
			return editable.Unknown()
		}
	}

	lf, lok := left.Float()
	rf, rok := right.Float()
	if !lok || !rok {
		return editable.Unknown()
	}
	switch op {
	case "+":
		return editable.Known(lf + rf)
	case "-":
		return editable.Known(lf - rf)
	case "*":
		return editable.Known(lf * rf)
	case "/":
		if rf == 0 {
			return editable.Unknown()
		}
		return editable.Known(lf / rf)
	}
	return editable.Unknown()
}

// stringContent returns the text inside a string or template literal,
// with simple escape sequences decoded.
func stringContent(node *ts.Node, source []byte) string {
	var sb strings.Builder
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_fragment":
			sb.WriteString(child.Utf8Text(source))
		case "escape_sequence":
			sb.WriteString(decodeEscape(child.Utf8Text(source)))
		}
	}
	if sb.Len() > 0 {
		return sb.String()
	}
	// Empty string literal or grammar without fragments: strip the quotes.
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func decodeEscape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\', '\'', '"', '`':
		return string(seq[1])
	default:
		return seq[1:]
	}
}

// isLiteralKind reports whether a node kind is a literal for displayValue
// purposes: literal arguments never carry display text.
func isLiteralKind(kind string) bool {
	switch kind {
	case "string", "number", "true", "false", "null", "undefined", "template_string":
		return true
	}
	return false
}
