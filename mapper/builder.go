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

package mapper

import (
	"fmt"
	"maps"
	"net/http"
	"strings"

	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/mapper/internal/segmenttrie"
	"dirpx.dev/problem/reason"
	"google.golang.org/grpc/codes"
)

type prefixRule[V any] struct {
	// prefix is the raw reason prefix; normalized when the trie is built.
	prefix string
	val    V
}

// table collects the rules of one transport while options are applied.
type table[V any] struct {
	defaults  map[kind.Kind]V
	overrides map[kind.Kind]V
	prefixes  map[kind.Kind][]prefixRule[V]
}

func newTable[V any](seed map[kind.Kind]V) table[V] {
	return table[V]{
		defaults:  maps.Clone(seed),
		overrides: make(map[kind.Kind]V),
		prefixes:  make(map[kind.Kind][]prefixRule[V]),
	}
}

type builder struct {
	http table[int]
	grpc table[codes.Code]

	fallbackHTTP int
	fallbackGRPC codes.Code

	// errs collects option misuse; New reports the first one.
	errs []error
}

func newBuilder() *builder {
	return &builder{
		http:         newTable(defaultHTTP),
		grpc:         newTable(defaultGRPC),
		fallbackHTTP: http.StatusInternalServerError,
		fallbackGRPC: codes.Internal,
	}
}

// checkHTTP records an error for statuses outside [100, 599].
func (b *builder) checkHTTP(k kind.Kind, status int) bool {
	if status < 100 || status > 599 {
		b.errs = append(b.errs, fmt.Errorf("mapper: HTTP status %d for kind %q out of range", status, k))
		return false
	}
	return true
}

// frozen is the immutable per-transport view built from a table.
type frozen[V any] struct {
	defaults  map[kind.Kind]V
	overrides map[kind.Kind]V
	tries     map[kind.Kind]*segmenttrie.Trie[V]
}

func (t table[V]) freeze(transport string) (frozen[V], error) {
	f := frozen[V]{
		defaults:  maps.Clone(t.defaults),
		overrides: maps.Clone(t.overrides),
		tries:     make(map[kind.Kind]*segmenttrie.Trie[V], len(t.prefixes)),
	}
	for k, rules := range t.prefixes {
		if len(rules) == 0 {
			continue
		}
		tr := segmenttrie.New[V]()
		for _, r := range rules {
			p, err := normalizePrefix(r.prefix)
			if err != nil {
				return frozen[V]{}, fmt.Errorf("mapper: invalid %s reason prefix %q for kind %q: %w", transport, r.prefix, k, err)
			}
			if err := tr.Insert(p, r.val); err != nil {
				return frozen[V]{}, fmt.Errorf("mapper: cannot insert %s prefix %q for kind %q: %w", transport, p, k, err)
			}
		}
		f.tries[k] = tr
	}
	return f, nil
}

// normalizePrefix canonicalizes a reason prefix. "*" segments are kept;
// segment syntax is left to the trie.
func normalizePrefix(raw string) (string, error) {
	p := reason.Normalize(raw)
	if p == "" {
		return "", fmt.Errorf("empty prefix")
	}
	if strings.Count(p, reason.Separator) >= reason.MaxSegments {
		return "", fmt.Errorf("prefix deeper than %d segments", reason.MaxSegments)
	}
	return p, nil
}
