package core

import (
	"fmt"
	"strings"
)

// Operation represents the kind of change an event describes.
// OperationAny is the zero value and stands for "any operation" in patterns.
type Operation int

const (
	OperationAny Operation = iota
	OperationCreation
	OperationUpdate
	OperationDeletion
	OperationSubmission
)

var operationNames = [...]string{
	OperationAny:        "",
	OperationCreation:   "CREATION",
	OperationUpdate:     "UPDATE",
	OperationDeletion:   "DELETION",
	OperationSubmission: "SUBMISSION",
}

// Operations lists every concrete operation.
func Operations() []Operation {
	return []Operation{OperationCreation, OperationUpdate, OperationDeletion, OperationSubmission}
}

// Valid reports whether o is OperationAny or one of the concrete operations.
func (o Operation) Valid() bool {
	return o >= OperationAny && o <= OperationSubmission
}

func (o Operation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operation(%d)", int(o))
	}
	if o == OperationAny {
		return "*"
	}
	return operationNames[o]
}

// ParseOperation converts a name such as "UPDATE" (case-insensitive) to an Operation.
// The empty string and "*" yield OperationAny.
func ParseOperation(s string) (Operation, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "*" {
		return OperationAny, nil
	}
	for i, name := range operationNames {
		if i != int(OperationAny) && name == s {
			return Operation(i), nil
		}
	}
	return OperationAny, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// MarshalText encodes the operation name; OperationAny encodes as empty text.
func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(o))
	}
	return []byte(operationNames[o]), nil
}

func (o *Operation) UnmarshalText(b []byte) error {
	op, err := ParseOperation(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ValidateDimensions checks the combination of operation and attribute name.
// An attribute name only makes sense for updates, or when the operation is left open.
func ValidateDimensions(op Operation, attributeName string) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
	}
	if attributeName != "" && op != OperationAny && op != OperationUpdate {
		return fmt.Errorf("%w: %q with %s", ErrUnexpectedAttribute, attributeName, op)
	}
	return nil
}
