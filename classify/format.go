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
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DetailFormat is the letter case applied to library detail templates such
// as "validation failed". Raw error messages are never reformatted.
type DetailFormat string

const (
	DetailLowercase   DetailFormat = "lowercase"
	DetailCapitalized DetailFormat = "capitalized"
	DetailUppercase   DetailFormat = "uppercase"
)

// ParseDetailFormat accepts the names above in any case. Empty means
// DetailLowercase.
func ParseDetailFormat(s string) (DetailFormat, error) {
	switch f := DetailFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DetailLowercase, nil
	case DetailLowercase, DetailCapitalized, DetailUppercase:
		return f, nil
	default:
		return "", fmt.Errorf("classify: unknown detail format %q", s)
	}
}

// Apply formats s. Unknown formats leave s unchanged.
func (f DetailFormat) Apply(s string) string {
	switch f {
	case DetailLowercase, "":
		return cases.Lower(language.Und).String(s)
	case DetailUppercase:
		return cases.Upper(language.Und).String(s)
	case DetailCapitalized:
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return cases.Upper(language.Und).String(string(r)) + s[size:]
	default:
		return s
	}
}

// FieldNaming is the naming strategy applied to violation field names.
// The zero value keeps names as reported.
type FieldNaming string

const (
	FieldAsIs           FieldNaming = ""
	FieldSnakeCase      FieldNaming = "SNAKE_CASE"
	FieldKebabCase      FieldNaming = "KEBAB_CASE"
	FieldUpperCamelCase FieldNaming = "UPPER_CAMEL_CASE"
	FieldLowerCamelCase FieldNaming = "LOWER_CAMEL_CASE"
	FieldLowerCase      FieldNaming = "LOWER_CASE"
)

// ParseFieldNaming accepts the names above in any case, with "-" or "_".
func ParseFieldNaming(s string) (FieldNaming, error) {
	n := FieldNaming(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	switch n {
	case FieldAsIs, FieldSnakeCase, FieldKebabCase, FieldUpperCamelCase, FieldLowerCamelCase, FieldLowerCase:
		return n, nil
	default:
		return "", fmt.Errorf("classify: unknown field naming %q", s)
	}
}

// Apply renames every dot-separated segment of a field path. Index
// suffixes such as "[0]" are kept.
func (n FieldNaming) Apply(path string) string {
	if n == FieldAsIs || path == "" {
		return path
	}
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		base, suffix := seg, ""
		if j := strings.IndexByte(seg, '['); j >= 0 {
			base, suffix = seg[:j], seg[j:]
		}
		segs[i] = n.word(splitWords(base)) + suffix
	}
	return strings.Join(segs, ".")
}

func (n FieldNaming) word(words []string) string {
	// Casers keep state; build them per call.
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	switch n {
	case FieldSnakeCase:
		return lower.String(strings.Join(words, "_"))
	case FieldKebabCase:
		return lower.String(strings.Join(words, "-"))
	case FieldLowerCase:
		return lower.String(strings.Join(words, ""))
	case FieldUpperCamelCase, FieldLowerCamelCase:
		var b strings.Builder
		for i, w := range words {
			if i == 0 && n == FieldLowerCamelCase {
				b.WriteString(lower.String(w))
				continue
			}
			b.WriteString(title.String(w))
		}
		return b.String()
	default:
		return strings.Join(words, "")
	}
}

// splitWords breaks an identifier at separators and case changes:
// "firstName", "first_name" and "FirstName" all give [first Name]-like
// word lists; "HTTPServer" gives [HTTP Server].
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
