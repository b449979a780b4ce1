// Package model defines the document types persisted by the kernelci backend
// and their mapping (de)serialization contract.
package model

// Document is the contract every persisted collection document satisfies.
type Document interface {
	// Collection names the store collection the document belongs to.
	Collection() string
	// ToMap renders the document as the generic mapping handed to the
	// persistence layer or serialized for wire transfer.
	ToMap() map[string]any
}

// BaseDocument carries the identity shared by every collection document.
//
// The identity is assigned once at construction. Document types whose
// identity is derived from other fields do not rewrite it when those fields
// are mutated afterwards; callers must treat ID as fixed once set.
type BaseDocument struct {
	ID string
}

// NewBaseDocument creates the base identity for a document named name.
func NewBaseDocument(name string) BaseDocument {
	return BaseDocument{ID: name}
}

// ToMap renders the mapping entries common to all documents.
func (d *BaseDocument) ToMap() map[string]any {
	return map[string]any{IDKey: d.ID}
}
