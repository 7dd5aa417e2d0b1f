package editable

// Bind reconciles an invocation's declared parameters with its supplied
// arguments. Each argument already carries its resolved parameter link
// (ParamIndex) from semantic analysis; binding groups by that link rather
// than re-deriving positional matching.
//
// Output ordering: one entry per bound parameter in the order its argument
// appears at the call site, then one entry per unbound parameter in
// declaration order. A parameter appears at most once; arguments with no
// valid parameter link are skipped.
func Bind(inv *Invocation) []Binding {
	bindings := make([]Binding, 0, len(inv.Params))
	claimed := make(map[int]bool, len(inv.Args))

	for i := range inv.Args {
		arg := &inv.Args[i]
		if arg.ParamIndex < 0 || arg.ParamIndex >= len(inv.Params) {
			continue
		}
		if claimed[arg.ParamIndex] {
			continue
		}
		claimed[arg.ParamIndex] = true
		bindings = append(bindings, Binding{Param: inv.Params[arg.ParamIndex], Arg: arg})
	}

	for i := range inv.Params {
		if !claimed[i] {
			bindings = append(bindings, Binding{Param: inv.Params[i]})
		}
	}

	return bindings
}
