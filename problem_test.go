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
	"encoding/json"
	"errors"
	"testing"
)

func TestNew_RoundTrip(t *testing.T) {
	ext := map[string]any{"balance": 30, "accounts": []string{"/account/12345"}}
	p, err := New(403, "You do not have enough credit.",
		WithType("https://example.com/probs/out-of-credit"),
		WithDetail("Your current balance is 30, but that costs 50."),
		WithInstance("/account/12345/msgs/abc"),
		WithExtensions(ext),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if p.Status() != 403 ||
		p.Title() != "You do not have enough credit." ||
		p.Type() != "https://example.com/probs/out-of-credit" ||
		p.Detail() != "Your current balance is 30, but that costs 50." ||
		p.Instance() != "/account/12345/msgs/abc" {
		t.Fatalf("fields do not round-trip: %+v", p)
	}
	if v, ok := p.Extension("balance"); !ok || v != 30 {
		t.Fatalf("Extension(balance) = %v, %v", v, ok)
	}

	ext["balance"] = 0
	if v, _ := p.Extension("balance"); v != 30 {
		t.Fatalf("problem shares the caller's extension map")
	}
	got := p.Extensions()
	got["balance"] = -1
	if v, _ := p.Extension("balance"); v != 30 {
		t.Fatalf("Extensions must return a copy")
	}
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(404, "Not Found")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Type() != BlankType {
		t.Fatalf("Type = %q, want %q", p.Type(), BlankType)
	}
	if p.Detail() != "" || p.Instance() != "" || p.Extensions() != nil {
		t.Fatalf("optional members must be empty: %+v", p)
	}
	if p.IsZero() {
		t.Fatalf("built problem must not be zero")
	}
	if !(Problem{}).IsZero() {
		t.Fatalf("zero value must be zero")
	}
}

func TestNew_StatusRange(t *testing.T) {
	for _, status := range []int{100, 200, 404, 599} {
		if _, err := New(status, ""); err != nil {
			t.Fatalf("New(%d) unexpected error: %v", status, err)
		}
	}
	for _, status := range []int{-1, 0, 99, 600, 1000} {
		_, err := New(status, "")
		if !errors.Is(err, ErrInvalidProblem) {
			t.Fatalf("New(%d) error = %v, want ErrInvalidProblem", status, err)
		}
		var ipe *InvalidProblemError
		if !errors.As(err, &ipe) || ipe.Field != MemberStatus {
			t.Fatalf("New(%d) error = %#v, want field status", status, err)
		}
	}
}

func TestNew_URIs(t *testing.T) {
	valid := []string{
		"https://example.com/probs/out-of-credit",
		"urn:uuid:0b7c4f3e-9f40-4c41-8c1b-8f5d1f1f2a10",
		"/orders/42",
		"about:blank",
		"tag:example.com,2025:problem",
	}
	for _, u := range valid {
		if _, err := New(400, "", WithType(u), WithInstance(u)); err != nil {
			t.Fatalf("URI %q rejected: %v", u, err)
		}
	}

	invalid := []string{
		"has space",
		"line\nbreak",
		"http://[::1",
		"%zz",
	}
	for _, u := range invalid {
		_, err := New(400, "", WithType(u))
		var ipe *InvalidProblemError
		if !errors.As(err, &ipe) || ipe.Field != MemberType {
			t.Fatalf("type %q: error = %v, want invalid type", u, err)
		}
		_, err = New(400, "", WithInstance(u))
		if !errors.As(err, &ipe) || ipe.Field != MemberInstance {
			t.Fatalf("instance %q: error = %v, want invalid instance", u, err)
		}
	}
}

func TestNew_ExtensionKeys(t *testing.T) {
	for _, key := range []string{"", "type", "title", "status", "detail", "instance"} {
		if _, err := New(400, "", WithExtension(key, 1)); !errors.Is(err, ErrInvalidProblem) {
			t.Fatalf("extension key %q: error = %v, want ErrInvalidProblem", key, err)
		}
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustNew must panic on invalid status")
		}
	}()
	_ = MustNew(42, "nope")
}

func TestDerive(t *testing.T) {
	base := MustNew(500, "Internal Server Error",
		WithDetail("db down"),
		WithExtension("traceId", "abc"),
	)
	d, err := Derive(base, WithoutDetail(), WithInstance("urn:uuid:1"), WithoutExtension("traceId"))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.Detail() != "" || d.Instance() != "urn:uuid:1" || d.Extensions() != nil {
		t.Fatalf("derived problem = %+v", d)
	}
	if base.Detail() != "db down" {
		t.Fatalf("Derive mutated its input")
	}
	if _, ok := base.Extension("traceId"); !ok {
		t.Fatalf("Derive mutated the input's extensions")
	}
}

func TestMarshalJSON(t *testing.T) {
	p := MustNew(400, "Bad Request",
		WithDetail("validation failed"),
		WithExtension("errors", []Violation{{Field: "age", Message: "must be >= 0"}}),
	)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"about:blank","title":"Bad Request","status":400,"detail":"validation failed","errors":[{"field":"age","message":"must be >= 0"}]}`
	if string(b) != want {
		t.Fatalf("Marshal =\n%s\nwant\n%s", b, want)
	}

	bare, _ := json.Marshal(MustNew(204, ""))
	if string(bare) != `{"type":"about:blank","status":204}` {
		t.Fatalf("bare Marshal = %s", bare)
	}
}

func TestMarshalJSON_UnencodableExtension(t *testing.T) {
	p := MustNew(500, "x", WithExtension("ch", make(chan int)))
	if _, err := json.Marshal(p); err == nil {
		t.Fatalf("Marshal must fail on unencodable extensions")
	}
}

func TestUnmarshalJSON(t *testing.T) {
	in := `{"type":"https://example.com/probs/x","title":"T","status":409,"detail":"d","instance":"/i","reason":"user.email.taken"}`
	var p Problem
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Status() != 409 || p.Type() != "https://example.com/probs/x" || p.Title() != "T" || p.Detail() != "d" || p.Instance() != "/i" {
		t.Fatalf("Unmarshal = %+v", p)
	}
	if v, _ := p.Extension("reason"); v != "user.email.taken" {
		t.Fatalf("reason extension = %v", v)
	}

	if err := json.Unmarshal([]byte(`{"status":42}`), &p); !errors.Is(err, ErrInvalidProblem) {
		t.Fatalf("Unmarshal out-of-range status error = %v", err)
	}
	if err := json.Unmarshal([]byte(`{"status":"x"}`), &p); err == nil {
		t.Fatalf("Unmarshal must reject a string status")
	}
}

func TestString(t *testing.T) {
	p := MustNew(404, "Not Found", WithDetail("no such order"), WithType("https://example.com/not-found"))
	if got := p.String(); got != "404 Not Found: no such order (https://example.com/not-found)" {
		t.Fatalf("String = %q", got)
	}
}
