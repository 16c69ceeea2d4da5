/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package problem

import (
	"fmt"
	"maps"
	"slices"

	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/reason"
)

// Violation is one failed constraint of a validation error. It is rendered
// as an element of the "errors" extension.
type Violation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error is a domain error that classifies itself.
//
// Handlers return it instead of hand-building problems: the classifier reads
// the Kind (and Reason) to pick a status through the mapper, turns Message
// into the detail, Violations into "errors" and Extensions into extension
// members. The WithX helpers return shallow copies, so an Error declared at
// package level can be refined per request.
type Error struct {
	// Kind is the error category, e.g. kind.NotFound. Required.
	Kind kind.Kind

	// Reason optionally refines Kind, e.g. "order.payment.declined".
	Reason reason.Reason

	// Message is the human-readable explanation.
	Message string

	// Violations lists failed field constraints, if any.
	Violations []Violation

	// Extensions are copied into the problem as extension members.
	Extensions map[string]any

	// Cause is the wrapped underlying error.
	Cause error
}

// E builds an Error and applies opts in order.
//
//	return problem.E(kind.Conflict, "email already registered",
//	    problem.WithReason("user.email.taken"),
//	    problem.WithField("email", "must be unique"),
//	)
func E(k kind.Kind, msg string, opts ...ErrorOption) *Error {
	e := &Error{Kind: k, Message: msg}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Error renders "<kind>: <message>" or "<kind>:<reason>: <message>".
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reason != reason.Empty {
		return fmt.Sprintf("%s:%s: %s", e.Kind, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorKind reports the kind for classification.
func (e *Error) ErrorKind() string { return string(e.Kind) }

// ErrorReason reports the reason for classification. May be empty.
func (e *Error) ErrorReason() string { return string(e.Reason) }

// ErrorMessage reports the message without the kind prefix.
func (e *Error) ErrorMessage() string { return e.Message }

// ErrorViolations reports a copy of the violations.
func (e *Error) ErrorViolations() []Violation { return slices.Clone(e.Violations) }

// ErrorExtensions reports a copy of the extensions.
func (e *Error) ErrorExtensions() map[string]any { return maps.Clone(e.Extensions) }

// WithReason returns a copy of e with r set.
func (e *Error) WithReason(r reason.Reason) *Error {
	cp := *e
	cp.Reason = r
	return &cp
}

// WithMessage returns a copy of e with msg set.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithViolation returns a copy of e with one more violation.
func (e *Error) WithViolation(field, msg string) *Error {
	cp := *e
	cp.Violations = append(slices.Clip(e.Violations), Violation{Field: field, Message: msg})
	return &cp
}

// WithExtension returns a copy of e with one more extension member.
func (e *Error) WithExtension(k string, v any) *Error {
	return e.WithExtensions(map[string]any{k: v})
}

// WithExtensions returns a copy of e with kv merged into its extensions;
// kv wins on conflicts. The original map is never written to.
func (e *Error) WithExtensions(kv map[string]any) *Error {
	if len(kv) == 0 {
		return e
	}
	cp := *e
	m := make(map[string]any, len(e.Extensions)+len(kv))
	maps.Copy(m, e.Extensions)
	maps.Copy(m, kv)
	cp.Extensions = m
	return &cp
}

// WithCause returns a copy of e wrapping err. A nil err returns e.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.Cause = err
	return &cp
}
