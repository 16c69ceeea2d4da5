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

import "dirpx.dev/problem/reason"

// ErrorOption transforms an Error under construction. See E.
type ErrorOption func(*Error) *Error

// WithReason sets the reason. Invalid input panics, since reasons are
// compile-time constants of the calling code.
func WithReason(r string) ErrorOption {
	parsed := reason.MustParse(r)
	return func(e *Error) *Error { return e.WithReason(parsed) }
}

// WithField adds a field violation.
func WithField(field, msg string) ErrorOption {
	return func(e *Error) *Error { return e.WithViolation(field, msg) }
}

// WithExtra adds one extension member.
func WithExtra(k string, v any) ErrorOption {
	return func(e *Error) *Error { return e.WithExtension(k, v) }
}

// WithExtras merges extension members.
func WithExtras(kv map[string]any) ErrorOption {
	return func(e *Error) *Error { return e.WithExtensions(kv) }
}

// WithCause wraps an underlying error.
func WithCause(err error) ErrorOption {
	return func(e *Error) *Error { return e.WithCause(err) }
}
