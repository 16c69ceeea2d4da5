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

package classify

import (
	"errors"
	"fmt"
	"net/http"

	"dirpx.dev/problem"
	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/kind"
)

// Request is the request context handed to rules and hooks.
type Request = apis.Request

// RequestFrom captures the parts of r that classification may read.
func RequestFrom(r *http.Request) Request {
	if r == nil {
		return Request{}
	}
	req := Request{Method: r.Method, Header: r.Header}
	if r.URL != nil {
		req.Path = r.URL.Path
		req.RawQuery = r.URL.RawQuery
	}
	return req
}

// CatchAllName names the mandatory last rule.
const CatchAllName = "catch-all"

// Rule maps one category of errors to a problem template.
//
// Match decides whether the rule applies; it should test capabilities with
// errors.As rather than concrete types. Status, Title and Type form the
// template. Extract, when set, pulls occurrence data out of the error; its
// non-zero fields win over the template.
type Rule struct {
	Name    string
	Match   func(err error) bool
	Status  int
	Title   string
	Type    string
	Extract func(err error, req Request) Extraction

	catchAll bool
}

// IsCatchAll reports whether r is the rule returned by CatchAll.
func (r Rule) IsCatchAll() bool { return r.catchAll }

// Extraction is what a rule learned from one error.
type Extraction struct {
	// Status replaces the rule status when non-zero.
	Status int
	// Title replaces the rule title when non-empty.
	Title string
	// Type replaces every other type source when non-empty.
	Type string
	// Instance identifies the occurrence.
	Instance string

	// Detail is the explanation. RawDetail marks text taken from the error
	// itself; raw details are only sent when Defaults.ExposeErrorDetails is
	// set. Other details are library templates and pass through
	// Defaults.DetailFormat.
	Detail    string
	RawDetail bool

	// Kind, with Defaults.TypeBase set, yields the type TypeBase+Kind.
	Kind kind.Kind

	// Violations are rendered as the "errors" extension with field names
	// formatted by Defaults.FieldNaming.
	Violations []problem.Violation

	// Extensions are added as extension members. Reserved and empty keys are
	// dropped.
	Extensions map[string]any

	// Problem, when set, is sent as is and everything else is ignored.
	Problem *problem.Problem
}

// ErrInvalidRule is matched by Rule.Validate failures.
var ErrInvalidRule = errors.New("classify: invalid rule")

// Validate checks that r can be evaluated.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRule)
	}
	if r.Match == nil {
		return fmt.Errorf("%w: rule %q has no matcher", ErrInvalidRule, r.Name)
	}
	if r.Status < problem.MinStatus || r.Status > problem.MaxStatus {
		return fmt.Errorf("%w: rule %q status %d out of range", ErrInvalidRule, r.Name, r.Status)
	}
	return nil
}

// CatchAll returns the generic 500 rule. Every rule table must end with it.
func CatchAll() Rule {
	return Rule{
		Name:   CatchAllName,
		Match:  func(err error) bool { return err != nil },
		Status: http.StatusInternalServerError,
		Extract: func(err error, _ Request) Extraction {
			return Extraction{Detail: err.Error(), RawDetail: true}
		},
		catchAll: true,
	}
}

// Matching helpers for custom rules.

// As matches errors that have a T in their chain.
func As[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// Is matches errors equal to or wrapping target.
func Is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// OfKind matches apis.KindedError values reporting k.
func OfKind(k kind.Kind) func(error) bool {
	return func(err error) bool {
		var ke apis.KindedError
		if !errors.As(err, &ke) {
			return false
		}
		got, perr := kind.Parse(ke.ErrorKind())
		return perr == nil && got == k
	}
}
