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

// Package segmenttrie indexes dot-separated reason prefixes for
// longest-prefix matching.
package segmenttrie

import (
	"errors"
	"sort"
	"strings"
)

// Wildcard matches exactly one segment.
const Wildcard = "*"

// ErrInvalidPrefix is returned for empty prefixes, empty or malformed
// segments, and prefixes made only of wildcards.
var ErrInvalidPrefix = errors.New("segmenttrie: invalid prefix")

// Trie maps reason prefixes such as "order.payment" or "order.*.declined" to
// values. Lookups pick the deepest matching prefix; at equal depth a literal
// segment beats the wildcard. A Trie is not safe for concurrent Insert, but
// any number of goroutines may match against it once it is built.
type Trie[T any] struct {
	root node[T]
	size int
}

type node[T any] struct {
	children map[string]*node[T]
	set      bool
	val      T
	// pattern is the prefix as inserted, kept for diagnostics.
	pattern string
}

// Hit is a successful lookup.
type Hit[T any] struct {
	Value   T
	Pattern string
	Depth   int
}

// New returns an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{}
}

// Insert stores val under prefix. Re-inserting a prefix replaces its value.
func (t *Trie[T]) Insert(prefix string, val T) error {
	if t == nil {
		return ErrInvalidPrefix
	}
	segs, ok := split(prefix)
	if !ok || len(segs) == 0 || onlyWildcards(segs) {
		return ErrInvalidPrefix
	}

	cur := &t.root
	for _, s := range segs {
		if cur.children == nil {
			cur.children = make(map[string]*node[T])
		}
		next := cur.children[s]
		if next == nil {
			next = &node[T]{}
			cur.children[s] = next
		}
		cur = next
	}
	if !cur.set {
		t.size++
	}
	cur.set = true
	cur.val = val
	cur.pattern = prefix
	return nil
}

// Len returns the number of stored prefixes.
func (t *Trie[T]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Lookup returns the deepest prefix of reason that has a value. Reasons with
// malformed segments stop matching at the first bad segment.
func (t *Trie[T]) Lookup(reason string) (Hit[T], bool) {
	var best Hit[T]
	if t == nil {
		return best, false
	}
	found := false
	var walk func(n *node[T], rest string, depth int)
	walk = func(n *node[T], rest string, depth int) {
		if n.set && (!found || depth > best.Depth) {
			best = Hit[T]{Value: n.val, Pattern: n.pattern, Depth: depth}
			found = true
		}
		if rest == "" || n.children == nil {
			return
		}
		seg, tail, ok := nextSegment(rest)
		if !ok {
			return
		}
		// Literal first so it keeps the slot on equal depth.
		if c := n.children[seg]; c != nil {
			walk(c, tail, depth+1)
		}
		if c := n.children[Wildcard]; c != nil {
			walk(c, tail, depth+1)
		}
	}
	walk(&t.root, reason, 0)
	return best, found
}

// Match is Lookup without the diagnostics.
func (t *Trie[T]) Match(reason string) (T, bool) {
	h, ok := t.Lookup(reason)
	return h.Value, ok
}

// Patterns lists stored prefixes in lexical order.
func (t *Trie[T]) Patterns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, t.size)
	var collect func(n *node[T])
	collect = func(n *node[T]) {
		if n.set {
			out = append(out, n.pattern)
		}
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(&t.root)
	sort.Strings(out)
	return out
}

// nextSegment cuts the leading segment off s. It fails on an empty segment
// or a segment outside [a-z][a-z0-9_]*.
func nextSegment(s string) (seg, rest string, ok bool) {
	seg, rest, cut := strings.Cut(s, ".")
	if !validSegment(seg, false) || (cut && rest == "") {
		return "", "", false
	}
	return seg, rest, true
}

func split(prefix string) ([]string, bool) {
	if prefix == "" {
		return nil, false
	}
	segs := strings.Split(prefix, ".")
	for _, s := range segs {
		if !validSegment(s, true) {
			return nil, false
		}
	}
	return segs, true
}

func onlyWildcards(segs []string) bool {
	for _, s := range segs {
		if s != Wildcard {
			return false
		}
	}
	return true
}

func validSegment(seg string, allowWildcard bool) bool {
	if seg == "" {
		return false
	}
	if seg == Wildcard {
		return allowWildcard
	}
	if seg[0] < 'a' || seg[0] > 'z' {
		return false
	}
	for i := 1; i < len(seg); i++ {
		c := seg[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}
