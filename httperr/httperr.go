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

// Package httperr holds the protocol-level errors a router or handler raises
// before any business logic runs: wrong method, wrong media type, missing or
// malformed parameters, unreadable bodies and unknown routes. The classify
// package has a dedicated rule for each.
package httperr

import (
	"fmt"
	"strings"
)

// MethodNotAllowedError: the route exists but not for Method. Becomes 405.
type MethodNotAllowedError struct {
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not supported", e.Method)
}

// UnsupportedMediaTypeError: the request body has a media type the handler
// cannot read. Becomes 415.
type UnsupportedMediaTypeError struct {
	ContentType string
	Supported   []string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("media type %s not supported", e.ContentType)
}

// NotAcceptableError: no representation matches the Accept header.
// Becomes 406.
type NotAcceptableError struct {
	Accept    string
	Supported []string
}

func (e *NotAcceptableError) Error() string {
	return fmt.Sprintf("no acceptable representation for %q", e.Accept)
}

// Location says where a parameter was expected.
type Location string

const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InHeader Location = "header"
	InPart   Location = "part"
)

// MissingParameterError: a required parameter was absent. Becomes 400.
type MissingParameterError struct {
	Name string
	In   Location
	// Type is the expected type name, e.g. "int". Optional.
	Type string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing %s parameter %q", e.In, e.Name)
}

// NoRouteError: nothing is mounted at Path. Becomes 404.
type NoRouteError struct {
	Method string
	Path   string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// TypeMismatchError: a parameter could not be converted to Type.
// Becomes 400.
type TypeMismatchError struct {
	Param string
	Type  string
	Value string
	Err   error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: cannot convert %q to %s", e.Param, e.Value, e.Type)
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// UnreadableBodyError: the request body could not be decoded. Becomes 400.
type UnreadableBodyError struct {
	Err error
}

func (e *UnreadableBodyError) Error() string {
	if e.Err == nil {
		return "unreadable request body"
	}
	return "unreadable request body: " + e.Err.Error()
}

func (e *UnreadableBodyError) Unwrap() error { return e.Err }

// normalizeMethods upper-cases and de-duplicates methods, keeping order.
func normalizeMethods(methods []string) []string {
	out := make([]string, 0, len(methods))
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
