package expr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNullOperation is returned when a tree, or any node within it, is nil.
var ErrNullOperation = errors.New("operation is nil")

// UnsupportedOperationError reports a node whose kind is outside the
// supported set.
type UnsupportedOperationError struct {
	Kind string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("Unsupported operation %q.", e.Kind)
}

// UnsupportedFunctionError reports a FunctionNode with an unknown kind.
type UnsupportedFunctionError struct {
	Kind FunctionKind
}

func (e *UnsupportedFunctionError) Error() string {
	return fmt.Sprintf("Unsupported function %q.", e.Kind.String())
}

// ArityError reports a FunctionNode whose argument count does not match its
// kind.
type ArityError struct {
	Kind FunctionKind
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("Function %q takes %d argument(s), got %d.", e.Kind.String(), e.Want, e.Got)
}

// VariableNotDefinedError is raised at evaluation time when a referenced
// variable is absent from the binding.
type VariableNotDefinedError struct {
	Name string
}

func (e *VariableNotDefinedError) Error() string {
	return fmt.Sprintf("The variable %q used is not defined.", e.Name)
}
