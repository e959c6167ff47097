package fault

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures into a stable, user-reportable taxonomy.
type Kind string

const (
	// KindTransport indicates the model gateway call could not complete.
	KindTransport Kind = "transport"
	// KindNormalization indicates model output could not be parsed into the expected schema.
	KindNormalization Kind = "normalization"
	// KindSchemaMismatch indicates a batch response disagreed in length or shape with the request.
	KindSchemaMismatch Kind = "schema_mismatch"
	// KindPersistence indicates the history write failed after a valid evaluation.
	KindPersistence Kind = "persistence"
)

// Fault is a structured failure carrying a stable kind and a human-readable message.
// Detail holds debugging context that must not be exposed for transport failures.
type Fault struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (f *Fault) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", f.Kind, f.Message, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Transport wraps a gateway error with the fixed retry hint shown to callers.
func Transport(err error) *Fault {
	return &Fault{
		Kind:    KindTransport,
		Message: "the grading service is temporarily unavailable, please try again",
		Err:     err,
	}
}

// Normalization reports unparsable or schema-violating model output.
func Normalization(detail string, err error) *Fault {
	return &Fault{
		Kind:    KindNormalization,
		Message: "model output did not match the expected schema",
		Detail:  detail,
		Err:     err,
	}
}

// SchemaMismatch reports a batch result whose shape disagrees with the request.
func SchemaMismatch(detail string) *Fault {
	return &Fault{
		Kind:    KindSchemaMismatch,
		Message: "batch result shape does not match the submitted answers",
		Detail:  detail,
	}
}

// Persistence reports a failed history write.
func Persistence(err error) *Fault {
	return &Fault{
		Kind:    KindPersistence,
		Message: "evaluation succeeded but could not be recorded",
		Err:     err,
	}
}

// KindOf extracts the fault kind, or an empty kind for foreign errors.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsKind reports whether err carries the given fault kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
