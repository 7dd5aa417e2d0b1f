package editable

// constState distinguishes the three outcomes of constant evaluation.
// "known nil" (an explicit constant null) is not the same thing as
// "unresolvable" (not statically determinable), so both get a state.
type constState int

const (
	stateUnknown constState = iota
	stateKnownNil
	stateKnown
)

// ConstValue is the result of constant-evaluating an expression.
// The zero value is Unknown.
type ConstValue struct {
	state constState
	val   any // float64, int64, bool or string when state == stateKnown
}

// Known wraps a statically determined value. v must be one of
// float64, int64, bool or string.
func Known(v any) ConstValue {
	return ConstValue{state: stateKnown, val: v}
}

// KnownNil represents a constant that evaluates to an explicit null.
func KnownNil() ConstValue {
	return ConstValue{state: stateKnownNil}
}

// Unknown represents a value that could not be statically determined.
func Unknown() ConstValue {
	return ConstValue{state: stateUnknown}
}

// IsKnown reports whether the value was statically determined,
// including a known null.
func (c ConstValue) IsKnown() bool {
	return c.state != stateUnknown
}

// IsNil reports whether the value is a known null.
func (c ConstValue) IsNil() bool {
	return c.state == stateKnownNil
}

// Value returns the underlying value, or nil for unknown/known-nil.
func (c ConstValue) Value() any {
	if c.state != stateKnown {
		return nil
	}
	return c.val
}

// Float narrows to a float value. Integral values widen.
func (c ConstValue) Float() (float64, bool) {
	switch v := c.val.(type) {
	case float64:
		return v, c.state == stateKnown
	case int64:
		return float64(v), c.state == stateKnown
	}
	return 0, false
}

// Int narrows to an integer value.
func (c ConstValue) Int() (int64, bool) {
	v, ok := c.val.(int64)
	return v, ok && c.state == stateKnown
}

// Bool narrows to a boolean value.
func (c ConstValue) Bool() (bool, bool) {
	v, ok := c.val.(bool)
	return v, ok && c.state == stateKnown
}

// Str narrows to a string value.
func (c ConstValue) Str() (string, bool) {
	v, ok := c.val.(string)
	return v, ok && c.state == stateKnown
}

// Equal reports whether two constant values are both known and equal.
// Numeric values compare numerically, so an integral 10 equals 10.0.
func (c ConstValue) Equal(o ConstValue) bool {
	if !c.IsKnown() || !o.IsKnown() {
		return false
	}
	if c.IsNil() || o.IsNil() {
		return c.IsNil() && o.IsNil()
	}
	if cf, ok := c.numeric(); ok {
		of, ook := o.numeric()
		return ook && cf == of
	}
	return c.val == o.val
}

func (c ConstValue) numeric() (float64, bool) {
	switch v := c.val.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}
