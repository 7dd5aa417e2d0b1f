package editable

// ClassifyType maps a canonical declared type to one of the supported
// editable value kinds. ok is false for every unsupported kind, including
// enumerations and component types.
func ClassifyType(t TypeRef) (ValueKind, bool) {
	switch t.Name {
	case "double", "float", "number":
		return KindDouble, true
	case "int", "integer":
		return KindInt, true
	case "bool", "boolean":
		return KindBool, true
	case "string":
		return KindString, true
	}
	return "", false
}

// Project turns one binding and its resolved values into a renderable
// record. Returns nil for unsupported parameter types; the parameter is
// dropped from the result without affecting its siblings.
func Project(param FormalParameter, arg *CallArgument, pair ValuePair) *EditableArgument {
	kind, ok := ClassifyType(param.Type)
	if !ok {
		return nil
	}

	ea := &EditableArgument{
		Name:        param.Name,
		Type:        kind,
		HasArgument: arg != nil,
		IsDefault:   pair.IsDefault,
		IsRequired:  param.Required,
		IsNullable:  param.Nullable,
	}

	// Effective value: the argument's known value wins, then the declared
	// default's known value, else absent.
	switch {
	case arg != nil && pair.Argument.IsKnown():
		ea.Value = typedValue(kind, pair.Argument)
	case pair.Default.IsKnown():
		ea.Value = typedValue(kind, pair.Default)
	}

	// Non-literal supplied expressions keep their source text so the
	// renderer has something to show when no structured value exists.
	if arg != nil && arg.Expr != nil && !arg.Expr.Literal() {
		ea.DisplayValue = arg.Expr.Text()
	}

	return ea
}

// typedValue narrows a known constant to the record's value kind.
// Integral values widen for double parameters. Mismatched kinds and known
// nulls yield nil, leaving the record's value absent.
func typedValue(kind ValueKind, c ConstValue) any {
	if c.IsNil() {
		return nil
	}
	switch kind {
	case KindDouble:
		if f, ok := c.Float(); ok {
			return f
		}
	case KindInt:
		if i, ok := c.Int(); ok {
			return i
		}
	case KindBool:
		if b, ok := c.Bool(); ok {
			return b
		}
	case KindString:
		if s, ok := c.Str(); ok {
			return s
		}
	}
	return nil
}
