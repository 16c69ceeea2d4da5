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
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ContentType is the media type of a problem document.
const ContentType = "application/problem+json"

// BlankType is the type of a problem that carries no semantics beyond its
// HTTP status.
const BlankType = "about:blank"

// RFC 7807 member names. Extensions may not reuse them.
const (
	MemberType     = "type"
	MemberTitle    = "title"
	MemberStatus   = "status"
	MemberDetail   = "detail"
	MemberInstance = "instance"
)

// Problem is an immutable RFC 7807 problem document.
//
// Values are built with New (or Derive) and never change afterwards: every
// accessor returns a copy, so one Problem can be written by any number of
// concurrent requests.
type Problem struct {
	typ      string
	title    string
	status   int
	detail   string
	instance string
	ext      map[string]any
}

// Type returns the problem type URI, BlankType when none was set.
func (p Problem) Type() string {
	if p.typ == "" {
		return BlankType
	}
	return p.typ
}

// Title returns the short, human-readable summary.
func (p Problem) Title() string { return p.title }

// Status returns the HTTP status code.
func (p Problem) Status() int { return p.status }

// Detail returns the occurrence-specific explanation, if any.
func (p Problem) Detail() string { return p.detail }

// Instance returns the URI reference of this occurrence, if any.
func (p Problem) Instance() string { return p.instance }

// Extensions returns a copy of the extension members. Nil when there are none.
func (p Problem) Extensions() map[string]any {
	if len(p.ext) == 0 {
		return nil
	}
	return maps.Clone(p.ext)
}

// Extension returns a single extension member.
func (p Problem) Extension(key string) (any, bool) {
	v, ok := p.ext[key]
	return v, ok
}

// IsZero reports whether p was never built.
func (p Problem) IsZero() bool { return p.status == 0 }

// String renders p for logs: "<status> <title>: <detail> (<type>)".
func (p Problem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", p.status)
	if p.title != "" {
		b.WriteString(" ")
		b.WriteString(p.title)
	}
	if p.detail != "" {
		b.WriteString(": ")
		b.WriteString(p.detail)
	}
	if t := p.Type(); t != BlankType {
		fmt.Fprintf(&b, " (%s)", t)
	}
	return b.String()
}

// MarshalJSON writes the standard members first, then the extensions in key
// order. Empty title, detail and instance are omitted.
func (p Problem) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	member := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("problem: encode %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
		return nil
	}

	if err := member(MemberType, p.Type()); err != nil {
		return nil, err
	}
	if p.title != "" {
		if err := member(MemberTitle, p.title); err != nil {
			return nil, err
		}
	}
	if err := member(MemberStatus, p.status); err != nil {
		return nil, err
	}
	if p.detail != "" {
		if err := member(MemberDetail, p.detail); err != nil {
			return nil, err
		}
	}
	if p.instance != "" {
		if err := member(MemberInstance, p.instance); err != nil {
			return nil, err
		}
	}
	for _, k := range slices.Sorted(maps.Keys(p.ext)) {
		if err := member(k, p.ext[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a problem document. Unknown members become extensions.
// The result is validated like New does.
func (p *Problem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var (
		status                        int
		typ, title, detail, instance string
	)
	fields := []struct {
		key string
		dst any
	}{
		{MemberType, &typ},
		{MemberTitle, &title},
		{MemberStatus, &status},
		{MemberDetail, &detail},
		{MemberInstance, &instance},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return fmt.Errorf("problem: decode %q: %w", f.key, err)
		}
		delete(raw, f.key)
	}

	opts := []Option{WithType(typ), WithDetail(detail), WithInstance(instance)}
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("problem: decode %q: %w", k, err)
		}
		opts = append(opts, WithExtension(k, val))
	}

	built, err := New(status, title, opts...)
	if err != nil {
		return err
	}
	*p = built
	return nil
}
