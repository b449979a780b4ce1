package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for document deserialization.
var (
	// ErrDecode is returned when input text is not valid extended JSON.
	ErrDecode = errors.New("malformed document JSON")
	// ErrMissingID is returned when deserialization input lacks the _id key.
	ErrMissingID = errors.New("document is missing the _id key")
)

// FieldTypeError reports a declared document key whose input value has a type
// the field cannot hold.
type FieldTypeError struct {
	Key   string
	Value any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("document field %q: unexpected type %T", e.Key, e.Value)
}
