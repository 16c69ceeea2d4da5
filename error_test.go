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
	"errors"
	"strings"
	"testing"

	"dirpx.dev/problem/kind"
)

func TestError_Basics(t *testing.T) {
	e := E(kind.Conflict, "email already registered",
		WithReason("user.email.taken"),
		WithField("email", "must be unique"),
		WithExtra("email", "a@b.c"),
	)

	if e.ErrorKind() != "conflict" {
		t.Fatalf("ErrorKind = %q", e.ErrorKind())
	}
	if e.ErrorReason() != "user.email.taken" {
		t.Fatalf("ErrorReason = %q", e.ErrorReason())
	}
	if e.ErrorMessage() != "email already registered" {
		t.Fatalf("ErrorMessage = %q", e.ErrorMessage())
	}
	if v := e.ErrorViolations(); len(v) != 1 || v[0].Field != "email" {
		t.Fatalf("ErrorViolations = %+v", v)
	}
	if e.ErrorExtensions()["email"] != "a@b.c" {
		t.Fatalf("extension missing")
	}

	s := e.Error()
	for _, sub := range []string{"conflict", "user.email.taken", "email already registered"} {
		if !strings.Contains(s, sub) {
			t.Fatalf("Error() missing %q in %q", sub, s)
		}
	}
	if got := E(kind.NotFound, "no such order").Error(); got != "not_found: no such order" {
		t.Fatalf("Error() without reason = %q", got)
	}
}

func TestError_CopyOnWrite(t *testing.T) {
	e1 := E(kind.Invalid, "bad").WithExtension("k1", 1)
	e2 := e1.WithExtension("k2", 2)
	if len(e1.Extensions) != 1 || len(e2.Extensions) != 2 {
		t.Fatalf("extensions size mismatch")
	}

	v1 := E(kind.Invalid, "bad").WithViolation("a", "required")
	v2 := v1.WithViolation("b", "required")
	v3 := v1.WithViolation("c", "required")
	if len(v1.Violations) != 1 {
		t.Fatalf("original violations mutated")
	}
	if v2.Violations[1].Field != "b" || v3.Violations[1].Field != "c" {
		t.Fatalf("siblings share backing array: %+v %+v", v2.Violations, v3.Violations)
	}

	ext := e2.ErrorExtensions()
	ext["k1"] = "changed"
	if e2.Extensions["k1"] != 1 {
		t.Fatalf("ErrorExtensions must return a copy")
	}
}

func TestError_WithCause_Unwrap(t *testing.T) {
	root := errors.New("root")
	e := E(kind.Internal, "x", WithCause(root))
	if !errors.Is(e, root) {
		t.Fatalf("errors.Is failed")
	}
	if e.WithCause(nil) != e {
		t.Fatalf("WithCause(nil) must return the receiver")
	}
}

func TestError_WithExtras_Merge(t *testing.T) {
	e := E(kind.Invalid, "x", WithExtras(map[string]any{"a": 1}))
	e2 := e.WithExtensions(map[string]any{"b": 2, "a": 3})
	if e.Extensions["a"] != 1 {
		t.Fatalf("original mutated")
	}
	if e2.Extensions["a"] != 3 || e2.Extensions["b"] != 2 {
		t.Fatalf("merge failed: %v", e2.Extensions)
	}
}

func TestWithReason_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("WithReason must panic on invalid reasons")
		}
	}()
	_ = WithReason("Bad..Reason")
}

func TestThrow(t *testing.T) {
	p := MustNew(402, "Payment Required", WithDetail("card declined"))
	cause := errors.New("gateway said no")

	err := Wrap(p, cause)
	var pv Provider
	if !errors.As(err, &pv) {
		t.Fatalf("Wrap result must be a Provider")
	}
	if pv.Problem().Status() != 402 {
		t.Fatalf("carried status = %d", pv.Problem().Status())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable")
	}
	if !strings.Contains(Throw(p).Error(), "402 Payment Required") {
		t.Fatalf("Throw().Error() = %q", Throw(p).Error())
	}
}
