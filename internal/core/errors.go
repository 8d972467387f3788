package core

import "errors"

var (
	// ErrUnknownOperation is returned for operation values outside the Operation enum.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrUnexpectedAttribute is returned when an attribute name accompanies a non-update operation.
	ErrUnexpectedAttribute = errors.New("attribute name is only allowed for updates")
)
