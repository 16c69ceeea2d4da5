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

package kind

import (
	"encoding"
	"errors"
	"strings"
)

// Kind is the canonical, validated name of an error category, such as
// "invalid" or "not_found".
//
// A Kind is what the classifier asks an error for when it has to pick an HTTP
// status: errors that implement apis.KindedError are resolved through the
// mapper by their Kind, so new error types pick up the right status just by
// reporting one of the kinds below (or a custom one with a mapper rule).
type Kind string

// Length bounds of a canonical kind.
const (
	MinLength = 3
	MaxLength = 64
)

// ErrInvalid is returned when a value cannot be parsed as a kind.
var ErrInvalid = errors.New("problem: invalid kind")

var (
	_ encoding.TextMarshaler   = Kind("")
	_ encoding.TextUnmarshaler = (*Kind)(nil)
)

// Empty is the zero kind. Errors reporting it are treated as unclassified.
const Empty Kind = ""

// Parse normalizes s and validates the result.
func Parse(s string) (Kind, error) {
	n := Normalize(s)
	if !valid(n) {
		return Empty, ErrInvalid
	}
	return Kind(n), nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// package-level declarations of custom kinds.
func MustParse(s string) Kind {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Normalize trims s, lowercases it and turns dashes and spaces into
// underscores, so "Not-Found" and "not found" both become "not_found".
// The result still has to be validated.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}
		return r
	}, s)
}

// Validate reports ErrInvalid when k is not canonical. Empty is invalid.
func Validate(k Kind) error {
	if !valid(string(k)) {
		return ErrInvalid
	}
	return nil
}

// String returns the kind as a plain string.
func (k Kind) String() string { return string(k) }

// IsZero reports whether k is Empty.
func (k Kind) IsZero() bool { return k == Empty }

// MarshalText implements encoding.TextMarshaler. Only canonical kinds marshal.
func (k Kind) MarshalText() ([]byte, error) {
	if err := Validate(k); err != nil {
		return nil, err
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so kinds can be read
// straight from YAML or JSON configuration.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// valid checks the canonical form [a-z][a-z0-9_]{2,63}.
func valid(s string) bool {
	if len(s) < MinLength || len(s) > MaxLength {
		return false
	}
	if s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}
