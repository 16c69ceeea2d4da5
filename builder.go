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
	"maps"
	"net/url"
	"unicode"
)

// Status bounds accepted by New.
const (
	MinStatus = 100
	MaxStatus = 599
)

// Option sets an optional member while a Problem is being built.
type Option func(*draft)

// draft is the mutable state New works on before it freezes a Problem.
type draft struct {
	typ      string
	detail   string
	instance string
	ext      map[string]any
}

// WithType sets the problem type URI. Empty keeps BlankType.
func WithType(uri string) Option {
	return func(d *draft) { d.typ = uri }
}

// WithDetail sets the occurrence-specific explanation.
func WithDetail(detail string) Option {
	return func(d *draft) { d.detail = detail }
}

// WithInstance sets the URI reference identifying this occurrence.
func WithInstance(uri string) Option {
	return func(d *draft) { d.instance = uri }
}

// WithExtension adds one extension member. Later values win.
func WithExtension(key string, value any) Option {
	return func(d *draft) {
		if d.ext == nil {
			d.ext = make(map[string]any, 1)
		}
		d.ext[key] = value
	}
}

// WithExtensions merges kv into the extension members. Later values win.
func WithExtensions(kv map[string]any) Option {
	return func(d *draft) {
		if len(kv) == 0 {
			return
		}
		if d.ext == nil {
			d.ext = make(map[string]any, len(kv))
		}
		maps.Copy(d.ext, kv)
	}
}

// New validates its inputs and returns an immutable Problem.
//
// It fails with an *InvalidProblemError (matching ErrInvalidProblem) when
// status is outside [MinStatus, MaxStatus], when a non-empty type or instance
// is not a well-formed URI reference, or when an extension key is empty or
// one of the RFC 7807 member names. The title is kept as given.
func New(status int, title string, opts ...Option) (Problem, error) {
	var d draft
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	return freeze(status, title, d)
}

// MustNew is like New but panics on invalid input. Intended for package-level
// problem templates.
func MustNew(status int, title string, opts ...Option) Problem {
	p, err := New(status, title, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Derive rebuilds p with opts applied on top of its current members.
// Status and title are kept; use New for a different status.
func Derive(p Problem, opts ...Option) (Problem, error) {
	d := draft{
		typ:      p.typ,
		detail:   p.detail,
		instance: p.instance,
		ext:      maps.Clone(p.ext),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}
	return freeze(p.status, p.title, d)
}

// WithoutDetail drops the detail member. Used by Derive callers that hide
// internals.
func WithoutDetail() Option {
	return func(d *draft) { d.detail = "" }
}

// WithoutExtension removes one extension member.
func WithoutExtension(key string) Option {
	return func(d *draft) { delete(d.ext, key) }
}

func freeze(status int, title string, d draft) (Problem, error) {
	if status < MinStatus || status > MaxStatus {
		return Problem{}, &InvalidProblemError{Field: MemberStatus, Value: status}
	}
	if d.typ == "" {
		d.typ = BlankType
	} else if !wellFormedURI(d.typ) {
		return Problem{}, &InvalidProblemError{Field: MemberType, Value: d.typ}
	}
	if d.instance != "" && !wellFormedURI(d.instance) {
		return Problem{}, &InvalidProblemError{Field: MemberInstance, Value: d.instance}
	}
	for k := range d.ext {
		if k == "" || reserved(k) {
			return Problem{}, &InvalidProblemError{Field: "extension", Value: k}
		}
	}

	p := Problem{
		typ:      d.typ,
		title:    title,
		status:   status,
		detail:   d.detail,
		instance: d.instance,
	}
	if len(d.ext) > 0 {
		p.ext = maps.Clone(d.ext)
	}
	return p, nil
}

func reserved(key string) bool {
	switch key {
	case MemberType, MemberTitle, MemberStatus, MemberDetail, MemberInstance:
		return true
	}
	return false
}

// wellFormedURI accepts absolute URIs and relative references. Whitespace and
// control characters are rejected even where url.Parse would tolerate them.
func wellFormedURI(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	_, err := url.Parse(s)
	return err == nil
}
