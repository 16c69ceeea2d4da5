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

package segmenttrie

import (
	"errors"
	"reflect"
	"testing"
)

func TestLookup_LongestPrefix(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("order", 409))
	must(t, tr.Insert("order.payment", 402))
	must(t, tr.Insert("user.email.taken", 409))

	tests := []struct {
		reason  string
		want    int
		pattern string
		ok      bool
	}{
		{"order.payment.declined", 402, "order.payment", true},
		{"order.shipping.late", 409, "order", true},
		{"order", 409, "order", true},
		{"user.email.taken", 409, "user.email.taken", true},
		{"user.email", 0, "", false},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			h, ok := tr.Lookup(tt.reason)
			if ok != tt.ok || h.Value != tt.want || h.Pattern != tt.pattern {
				t.Fatalf("Lookup(%q) = %+v, %v; want %d %q %v", tt.reason, h, ok, tt.want, tt.pattern, tt.ok)
			}
		})
	}
}

func TestWildcard_OneSegment(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("order.*.declined", 402))
	must(t, tr.Insert("order.card.declined", 400))

	if h, ok := tr.Lookup("order.card.declined"); !ok || h.Value != 400 || h.Pattern != "order.card.declined" {
		t.Fatalf("literal must beat wildcard at equal depth, got %+v %v", h, ok)
	}
	if h, ok := tr.Lookup("order.wallet.declined.twice"); !ok || h.Value != 402 || h.Pattern != "order.*.declined" {
		t.Fatalf("wildcard lookup = %+v %v", h, ok)
	}
	if _, ok := tr.Lookup("order.declined"); ok {
		t.Fatalf("wildcard must not match zero segments")
	}
}

func TestLookup_DeeperWildcardBeatsShallowLiteral(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("a.*.c", 7))
	must(t, tr.Insert("a.b", 1))

	if h, ok := tr.Lookup("a.b.c"); !ok || h.Value != 7 || h.Depth != 3 {
		t.Fatalf("Lookup = %+v %v, want the wildcard path", h, ok)
	}
	if v, ok := tr.Match("a.b.x"); !ok || v != 1 {
		t.Fatalf("Match = %d %v, want 1", v, ok)
	}
}

func TestInsert_Invalid(t *testing.T) {
	tr := New[int]()
	for _, p := range []string{"", "UPPER.case", "a..b", "*", "*.*", "a.", "1abc"} {
		if err := tr.Insert(p, 1); !errors.Is(err, ErrInvalidPrefix) {
			t.Fatalf("Insert(%q) error = %v, want ErrInvalidPrefix", p, err)
		}
	}
	if tr.Len() != 0 {
		t.Fatalf("Len = %d after rejected inserts", tr.Len())
	}

	var nilTrie *Trie[int]
	if err := nilTrie.Insert("a.b", 1); err == nil {
		t.Fatalf("nil trie must reject inserts")
	}
	if _, ok := nilTrie.Lookup("a.b"); ok {
		t.Fatalf("nil trie must not match")
	}
}

func TestLookup_MalformedReason(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("upper", 1))
	must(t, tr.Insert("a.b", 2))
	for _, r := range []string{"UPPER.case", "a..b", ".a", "a.b."} {
		if h, ok := tr.Lookup(r); ok && h.Depth > 1 {
			t.Fatalf("Lookup(%q) = %+v, must stop at the malformed segment", r, h)
		}
	}
	if _, ok := tr.Lookup("UPPER.case"); ok {
		t.Fatalf("uppercase reason must not match")
	}
}

func TestReplaceAndPatterns(t *testing.T) {
	tr := New[int]()
	must(t, tr.Insert("b.x", 1))
	must(t, tr.Insert("a.*", 2))
	must(t, tr.Insert("b.x", 3))

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	if v, _ := tr.Match("b.x"); v != 3 {
		t.Fatalf("re-insert must replace the value, got %d", v)
	}
	if got := tr.Patterns(); !reflect.DeepEqual(got, []string{"a.*", "b.x"}) {
		t.Fatalf("Patterns = %v", got)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
