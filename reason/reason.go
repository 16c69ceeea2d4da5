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

package reason

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Reason is an optional, dot-separated refinement of an error kind.
//
// Where the kind says what went wrong in general ("conflict"), the reason
// names the concrete business rule that failed, for example:
//
//   - "user.email.taken"
//   - "order.payment.declined"
//   - "upload.quota.exceeded"
//
// Reasons are rendered as the "reason" extension of a problem and are the
// keys the mapper matches prefixes against, so "order.payment" can map every
// payment failure to 402 while the rest of "order" stays at 409.
type Reason string

// Length bounds of a non-empty reason.
const (
	MinLength = 3
	MaxLength = 128
)

// MaxSegments is the deepest reason accepted.
const MaxSegments = 4

// Separator splits a reason into segments.
const Separator = "."

// Segment: [a-z][a-z0-9_]*, 1..MaxSegments of them.
var reasonRe = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*){0,3}$`)

var (
	// ErrInvalidFormat is returned when a reason is not dot-separated
	// lowercase identifiers.
	ErrInvalidFormat = errors.New("problem: invalid reason format")
	// ErrInvalidLength is returned when a reason is too short or too long.
	ErrInvalidLength = errors.New("problem: invalid reason length")
)

var (
	_ encoding.TextMarshaler   = Reason("")
	_ encoding.TextUnmarshaler = (*Reason)(nil)
)

// Empty means "no reason". It is always valid.
const Empty Reason = ""

// Normalize trims and lowercases s, turns "/" into "." and "-" into "_".
// The result still has to be validated.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.NewReplacer("/", ".", "-", "_").Replace(s)
}

// Parse normalizes and validates s. The empty string yields Empty.
func Parse(s string) (Reason, error) {
	s = Normalize(s)
	if s == "" {
		return Empty, nil
	}
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Reason(s), nil
}

// MustParse is like Parse but panics on invalid or empty input.
func MustParse(s string) Reason {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	if r == Empty {
		panic("problem: empty reason in MustParse")
	}
	return r
}

// Validate checks r. Empty is valid.
func Validate(r Reason) error {
	if r == Empty {
		return nil
	}
	return validate(string(r))
}

func (r Reason) String() string { return string(r) }

// IsZero reports whether r is Empty.
func (r Reason) IsZero() bool { return r == Empty }

// Segments splits r on the separator. Empty has no segments.
func (r Reason) Segments() []string {
	if r == Empty {
		return nil
	}
	return strings.Split(string(r), Separator)
}

// HasPrefix reports whether prefix matches r segment-wise, so "order.pay"
// is not a prefix of "order.payment". Empty is a prefix of every reason.
func (r Reason) HasPrefix(prefix Reason) bool {
	if prefix == Empty {
		return true
	}
	s, p := string(r), string(prefix)
	if !strings.HasPrefix(s, p) {
		return false
	}
	return len(s) == len(p) || s[len(p)] == '.'
}

// Parent drops the last segment; the parent of a one-segment reason is Empty.
func (r Reason) Parent() Reason {
	i := strings.LastIndex(string(r), Separator)
	if i < 0 {
		return Empty
	}
	return r[:i]
}

// MarshalText implements encoding.TextMarshaler. Empty marshals to no bytes.
func (r Reason) MarshalText() ([]byte, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Blank input yields Empty.
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func validate(s string) error {
	if len(s) < MinLength || len(s) > MaxLength {
		return ErrInvalidLength
	}
	if !reasonRe.MatchString(s) {
		return ErrInvalidFormat
	}
	return nil
}
