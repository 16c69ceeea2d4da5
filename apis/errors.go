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

package apis

import "dirpx.dev/problem"

// KindedError is an error that reports its category.
//
// The classifier resolves the kind through the Mapper to pick a status, so an
// error type gets the right response just by implementing this method; it
// does not need to be registered anywhere. Kinds are plain strings so that
// packages can implement the interface without importing this module. An
// empty or unparseable kind is treated as unclassified.
type KindedError interface {
	error

	// ErrorKind returns the kind, e.g. "invalid" or "not_found".
	ErrorKind() string
}

// ReasonedError refines a KindedError with a dot-separated reason such as
// "order.payment.declined". The reason takes part in status mapping and is
// exposed as the "reason" extension.
type ReasonedError interface {
	error

	// ErrorReason returns the reason. May be empty.
	ErrorReason() string
}

// MessagedError exposes the human message without any kind or reason prefix
// that Error() may add. When present it becomes the problem detail instead
// of Error().
type MessagedError interface {
	error

	ErrorMessage() string
}

// Violation is one failed field constraint.
type Violation = problem.Violation

// ViolationsError reports field-level validation failures. A non-empty list
// classifies the error as a validation failure; the list is rendered as the
// "errors" extension.
type ViolationsError interface {
	error

	// ErrorViolations returns the violations. Callers must not modify it.
	ErrorViolations() []Violation
}

// ExtendedError contributes extension members to the problem.
type ExtendedError interface {
	error

	// ErrorExtensions returns extra members. Keys that collide with RFC 7807
	// member names are dropped.
	ErrorExtensions() map[string]any
}

// StatusError knows its own HTTP status. It takes precedence over kind
// mapping.
type StatusError interface {
	error

	// HTTPStatus returns a status in [100, 599].
	HTTPStatus() int
}
