package types

import "errors"

// Sentinel errors for regosift operations.
var (
	// ErrBindingNotFound indicates a condition references an input binding
	// absent from the supplied bindings map. Compilation aborts; no partial
	// query tree is produced.
	ErrBindingNotFound = errors.New("input binding not found")

	// ErrUnsupportedOperator indicates a condition carries an operator
	// outside the compiler's clause table. Unreachable for conditions
	// produced by the extractor; kept as an invariant check at the
	// compiler boundary.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrPolicyTooLarge indicates policy text exceeds MaxPolicySize.
	ErrPolicyTooLarge = errors.New("policy text exceeds maximum size")

	// ErrTooManyBindings indicates more than MaxBindings input bindings.
	ErrTooManyBindings = errors.New("too many input bindings")

	// ErrBindingValueTooLong indicates a binding value exceeds
	// MaxBindingValueLength.
	ErrBindingValueTooLong = errors.New("binding value too long")
)
