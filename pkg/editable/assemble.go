package editable

// ComputeEditableArguments runs the full pipeline for one position: locate
// the qualifying invocation, bind parameters to arguments, resolve constant
// values and project each binding into a record.
//
// Returns nil when no qualifying invocation covers the offset. The function
// is pure: calling it twice with an unchanged tree and offset yields
// identical output.
func ComputeEditableArguments(tree ResolvedTree, offset uint32, doc DocumentID) *Result {
	inv := Locate(tree, offset)
	if inv == nil {
		return nil
	}

	result := &Result{Document: doc, Name: inv.Name, Arguments: []EditableArgument{}}
	for _, b := range Bind(inv) {
		pair := ResolveValues(tree, b.Param, b.Arg)
		if ea := Project(b.Param, b.Arg, pair); ea != nil {
			result.Arguments = append(result.Arguments, *ea)
		}
	}
	return result
}
