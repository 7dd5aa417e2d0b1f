package editable

// Locate finds the innermost qualifying invocation covering the byte
// offset. It walks ancestors outward from the covering node and stops at
// the first construction whose result is a component, or the first call to
// a marked, free component factory.
//
// Returns nil when no ancestor qualifies, and also when a qualifying
// construction's callee could not be statically resolved; the caller
// surfaces both as an absence value.
func Locate(tree ResolvedTree, offset uint32) *Invocation {
	for n := tree.NodeCovering(offset); n != nil; n = n.Parent() {
		cs, ok := n.CallSite()
		if !ok {
			continue
		}

		switch cs.Shape {
		case ShapeConstruction:
			if !cs.ResultIsComponent {
				continue
			}
		case ShapeFactoryCall:
			// The marker lives on the resolved callee, so an unresolved
			// call can never qualify as a factory.
			if !cs.Resolved || !cs.FactoryMarker || !cs.FreeFunction || !cs.ResultIsComponent {
				continue
			}
		default:
			continue
		}

		if !cs.Resolved {
			return nil
		}
		return &Invocation{
			Shape:  cs.Shape,
			Name:   cs.Name,
			Params: cs.Params,
			Args:   cs.Args,
		}
	}
	return nil
}
