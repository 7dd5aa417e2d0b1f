package editable

// ResolveValues computes the constant values behind one binding: the
// parameter's declared default and the supplied argument's statically
// known value.
//
// IsDefault is true when no argument was supplied; when one was, it is
// true only if both values are known and equal. An argument that matches
// an unknown default is therefore not "default"; equality requires both
// sides to be statically determined.
func ResolveValues(ev ConstEvaluator, param FormalParameter, arg *CallArgument) ValuePair {
	pair := ValuePair{Default: Unknown(), Argument: Unknown()}

	if param.Default != nil {
		pair.Default = ev.Constant(param.Default)
	}

	if arg == nil {
		pair.IsDefault = true
		return pair
	}

	if arg.Expr != nil {
		pair.Argument = ev.Constant(arg.Expr)
	}
	pair.IsDefault = pair.Default.Equal(pair.Argument)
	return pair
}
