package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobDocument represents a job as seen on the build file system.
//
// Each job on the file system is composed of a real job name (usually who
// triggered the build) and a kernel directory. The document is the pairing of
// the two, and its derived identity has the form "job-kernel".
type JobDocument struct {
	BaseDocument

	// Job is the real job name as found on the file system.
	Job *string
	// Kernel is the real kernel directory name as found on the file system.
	Kernel *string
	// Private marks the job as not publicly visible.
	Private bool
	// Status is the build status. No value set is enforced at this layer;
	// validation, if any, belongs to the callers.
	Status *string
	// Updated is the ISO-8601 UTC timestamp of the last update, kept as text
	// rather than a native time value.
	Updated *string
	// Metadata holds free-form build metadata, see MetadataKeys for the
	// recognized entries. Never nil once constructed.
	Metadata map[string]any
	// Extra preserves input keys that have no declared field, so documents
	// written by newer producers round-trip without loss.
	Extra map[string]any
}

// JobID derives the identity for a job/kernel pairing.
func JobID(job, kernel string) string {
	return fmt.Sprintf("%s-%s", job, kernel)
}

// NewJobDocument creates a job document with an explicit identity.
func NewJobDocument(name string) *JobDocument {
	return &JobDocument{
		BaseDocument: NewBaseDocument(name),
		Metadata:     map[string]any{},
		Extra:        map[string]any{},
	}
}

// NewJobDocumentFor creates a job document whose identity is derived from the
// job and kernel names. The identity is computed once here; mutating Job or
// Kernel afterwards does not rewrite it.
func NewJobDocumentFor(job, kernel string) *JobDocument {
	doc := NewJobDocument(JobID(job, kernel))
	doc.Job = &job
	doc.Kernel = &kernel
	return doc
}

// Collection names the store collection job documents belong to.
func (d *JobDocument) Collection() string {
	return JobCollection
}

// MarkUpdated stamps the document with t as its last-update time.
func (d *JobDocument) MarkUpdated(t time.Time) {
	updated := t.UTC().Format(time.RFC3339)
	d.Updated = &updated
}

// ToMap renders the document as its generic mapping form. The result is a
// pure function of the current state and is suitable for direct handoff to
// the persistence layer.
func (d *JobDocument) ToMap() map[string]any {
	m := d.BaseDocument.ToMap()
	m[PrivateKey] = d.Private
	m[JobKey] = stringOrNil(d.Job)
	m[KernelKey] = stringOrNil(d.Kernel)
	m[UpdatedKey] = stringOrNil(d.Updated)
	m[StatusKey] = stringOrNil(d.Status)
	m[MetadataKey] = d.Metadata
	for k, v := range d.Extra {
		m[k] = v
	}
	return m
}

// JobFromMap builds a job document from its generic mapping form. The _id
// entry becomes the document identity; every other entry is assigned to its
// declared field, or preserved in Extra when no field matches.
func JobFromMap(m map[string]any) (*JobDocument, error) {
	raw, ok := m[IDKey]
	if !ok {
		return nil, ErrMissingID
	}
	name, ok := raw.(string)
	if !ok {
		return nil, &FieldTypeError{Key: IDKey, Value: raw}
	}

	doc := NewJobDocument(name)
	for key, value := range m {
		if key == IDKey {
			continue
		}
		if err := doc.setField(key, value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// JobFromJSON builds a job document from extended JSON text, the encoding
// used on the wire and by mongodump-style tooling.
func JobFromJSON(data []byte) (*JobDocument, error) {
	var m map[string]any
	if err := bson.UnmarshalExtJSON(data, false, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return JobFromMap(m)
}

func (d *JobDocument) setField(key string, value any) error {
	switch key {
	case PrivateKey:
		if value == nil {
			d.Private = false
			return nil
		}
		b, ok := value.(bool)
		if !ok {
			return &FieldTypeError{Key: key, Value: value}
		}
		d.Private = b
	case JobKey:
		return setString(&d.Job, key, value)
	case KernelKey:
		return setString(&d.Kernel, key, value)
	case StatusKey:
		return setString(&d.Status, key, value)
	case UpdatedKey:
		return setString(&d.Updated, key, value)
	case MetadataKey:
		m, ok := asMap(value)
		if !ok {
			return &FieldTypeError{Key: key, Value: value}
		}
		if m == nil {
			m = map[string]any{}
		}
		d.Metadata = m
	default:
		d.Extra[key] = value
	}
	return nil
}

func setString(dst **string, key string, value any) error {
	if value == nil {
		*dst = nil
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return &FieldTypeError{Key: key, Value: value}
	}
	*dst = &s
	return nil
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// asMap converts the document shapes the bson codecs produce for embedded
// documents into a plain mapping. A nil value converts to a nil map.
func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case map[string]any:
		return v, true
	case primitive.M:
		return map[string]any(v), true
	case primitive.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}
