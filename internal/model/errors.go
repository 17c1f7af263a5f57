package model

import "errors"

// ErrorKind names a failure class. Kinds appear as node markers in
// snapshots and as the error of a failed MutationResult.
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	NoDescriptor         ErrorKind = "NoDescriptor"
	StructuralCycle      ErrorKind = "StructuralCycle"
	GeometryUnavailable  ErrorKind = "GeometryUnavailable"
	StaleReference       ErrorKind = "StaleReference"
	InvalidAttribute     ErrorKind = "InvalidAttribute"
	TypeMismatch         ErrorKind = "TypeMismatch"
	RegistrationConflict ErrorKind = "RegistrationConflict"
	ReadOnly             ErrorKind = "ReadOnly"
	Rejected             ErrorKind = "Rejected"
	MutatorFailed        ErrorKind = "MutatorFailed"
	DescriptorFailed     ErrorKind = "DescriptorFailed"
	DepthLimit           ErrorKind = "DepthLimit"
	NodeLimit            ErrorKind = "NodeLimit"
	Cancelled            ErrorKind = "Cancelled"
)

// kindError is a sentinel error tagged with its kind.
type kindError struct {
	kind ErrorKind
	msg  string
}

func (e *kindError) Error() string { return e.msg }

var (
	ErrNoDescriptor         error = &kindError{NoDescriptor, "no descriptor registered for node type"}
	ErrStructuralCycle      error = &kindError{StructuralCycle, "node visited twice in one traversal"}
	ErrGeometryUnavailable  error = &kindError{GeometryUnavailable, "node geometry unavailable"}
	ErrStaleReference       error = &kindError{StaleReference, "node id no longer refers to a live node"}
	ErrInvalidAttribute     error = &kindError{InvalidAttribute, "attribute not declared by node descriptor"}
	ErrTypeMismatch         error = &kindError{TypeMismatch, "value does not match attribute type"}
	ErrRegistrationConflict error = &kindError{RegistrationConflict, "descriptor already registered for type"}
	ErrReadOnly             error = &kindError{ReadOnly, "attribute is not mutable"}
	ErrRejected             error = &kindError{Rejected, "descriptor rejected the mutation"}
	ErrMutatorFailed        error = &kindError{MutatorFailed, "descriptor mutator failed"}
	ErrDescriptorFailed     error = &kindError{DescriptorFailed, "descriptor failed while reading node"}
	ErrDepthLimit           error = &kindError{DepthLimit, "maximum traversal depth reached"}
	ErrNodeLimit            error = &kindError{NodeLimit, "maximum traversal node count reached"}
	ErrCancelled            error = &kindError{Cancelled, "request cancelled before dispatch"}
)

// KindOf returns the kind carried by err or any error it wraps.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindNone
}
