// Package result models the outcome of store reads as a tagged union: a
// success carrying a value, or a failure carrying a non-empty, ordered list
// of typed error descriptors.
package result

import (
	"encoding/json"
	"fmt"
)

// Error describes one failure. Type is a short machine-readable kind.
type Error[E ~string] struct {
	Type    E      `json:"type"`
	Message string `json:"message,omitempty"`
}

// Result is either Ok(value) or Fail(errors...). Build one with Ok or Fail;
// the zero value reads as a failure of UnknownKind.
type Result[T any, E ~string] struct {
	ok     bool
	value  T
	errors []Error[E]
}

// Ok wraps a successful value.
func Ok[E ~string, T any](value T) Result[T, E] {
	return Result[T, E]{ok: true, value: value}
}

// Fail builds a failure. At least one descriptor is always present.
func Fail[T any, E ~string](first Error[E], rest ...Error[E]) Result[T, E] {
	errs := make([]Error[E], 0, 1+len(rest))
	errs = append(errs, first)
	errs = append(errs, rest...)
	return Result[T, E]{errors: errs}
}

// FailWith is a shorthand for a single descriptor.
func FailWith[T any, E ~string](kind E, message string) Result[T, E] {
	return Fail[T](Error[E]{Type: kind, Message: message})
}

// OK reports whether r is a success.
func (r Result[T, E]) OK() bool {
	return r.ok
}

// Value returns the success value. It panics on a failure.
func (r Result[T, E]) Value() T {
	if !r.ok {
		panic("result: Value called on a failed result")
	}
	return r.value
}

// UnknownKind is reported for a zero-value Result, which is neither a
// success nor a failure built with Fail.
const UnknownKind = "unknown"

// Errors returns the failure descriptors, or nil on success. A zero-value
// Result yields a single UnknownKind descriptor.
func (r Result[T, E]) Errors() []Error[E] {
	if r.ok {
		return nil
	}
	if len(r.errors) == 0 {
		return []Error[E]{{Type: E(UnknownKind), Message: "uninitialised result"}}
	}
	out := make([]Error[E], len(r.errors))
	copy(out, r.errors)
	return out
}

// Get returns the value and whether r is a success.
func (r Result[T, E]) Get() (T, bool) {
	return r.value, r.ok
}

// Err converts a failure into an error whose message is the JSON encoding of
// the descriptor list. It returns nil on success.
func (r Result[T, E]) Err() error {
	if r.ok {
		return nil
	}
	return &FailureError[E]{Errors: r.Errors()}
}

// HasError reports whether a failure contains a descriptor of the given kind.
func (r Result[T, E]) HasError(kind E) bool {
	for _, e := range r.errors {
		if e.Type == kind {
			return true
		}
	}
	return false
}

// FailureError carries the descriptors of a failed Result through error
// returns.
type FailureError[E ~string] struct {
	Errors []Error[E]
}

func (e *FailureError[E]) Error() string {
	b, err := json.Marshal(e.Errors)
	if err != nil {
		return fmt.Sprintf("%v", e.Errors)
	}
	return string(b)
}
