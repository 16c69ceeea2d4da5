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
	"strings"

	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/reason"
	"google.golang.org/grpc/codes"
)

// New builds an immutable apis.Mapper.
//
// The library defaults are seeded first, then opts are applied in order, then
// every reason prefix is normalized and compiled into a per-kind segment
// trie. The snapshot owns all of its maps; nothing the caller passed in is
// referenced afterwards, so one Mapper can serve every request concurrently.
//
// New fails on out-of-range HTTP statuses and malformed reason prefixes.
func New(opts ...Option) (apis.Mapper, error) {
	b := newBuilder()
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	h, err := b.http.freeze("HTTP")
	if err != nil {
		return nil, err
	}
	g, err := b.grpc.freeze("gRPC")
	if err != nil {
		return nil, err
	}
	return &mapper{
		http:         h,
		grpc:         g,
		fallbackHTTP: b.fallbackHTTP,
		fallbackGRPC: b.fallbackGRPC,
	}, nil
}

// mapper combines per-kind overrides, reason-prefix tries and defaults.
type mapper struct {
	http frozen[int]
	grpc frozen[codes.Code]

	fallbackHTTP int
	fallbackGRPC codes.Code
}

// source names the tier a resolution came from.
type source string

const (
	fromOverride source = "override"
	fromPrefix   source = "prefix"
	fromDefault  source = "default"
	fromFallback source = "fallback"
)

// resolve walks override, longest reason prefix, default, fallback.
// pattern is set for prefix hits only.
func resolve[V any](f frozen[V], fallback V, k kind.Kind, r reason.Reason) (v V, src source, pattern string) {
	if v, ok := f.overrides[k]; ok {
		return v, fromOverride, ""
	}
	if r != reason.Empty {
		if t := f.tries[k]; t != nil {
			if h, ok := t.Lookup(string(r)); ok {
				return h.Value, fromPrefix, h.Pattern
			}
		}
	}
	if v, ok := f.defaults[k]; ok {
		return v, fromDefault, ""
	}
	return fallback, fromFallback, ""
}

// HTTPStatus resolves the HTTP status of k and r. It is never zero.
func (m *mapper) HTTPStatus(k kind.Kind, r reason.Reason) int {
	v, _, _ := resolve(m.http, m.fallbackHTTP, k, r)
	return v
}

// GRPCStatus resolves the gRPC code of k and r.
func (m *mapper) GRPCStatus(k kind.Kind, r reason.Reason) codes.Code {
	v, _, _ := resolve(m.grpc, m.fallbackGRPC, k, r)
	return v
}

func (m *mapper) Status(k kind.Kind, r reason.Reason) apis.Status {
	return apis.Status{
		HTTP: m.HTTPStatus(k, r),
		GRPC: m.GRPCStatus(k, r),
	}
}

// Explain traces the resolution of k and r:
//
//	kind="conflict" reason="order.payment.declined"
//	http: source=prefix pattern="order.payment" -> 402
//	grpc: source=default -> ABORTED(10)
func (m *mapper) Explain(k kind.Kind, r reason.Reason) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "kind=%q reason=%q\n", k, r)

	hv, hsrc, hpat := resolve(m.http, m.fallbackHTTP, k, r)
	_, _ = fmt.Fprintf(&b, "http: source=%s%s -> %d\n", hsrc, patternPart(hpat), hv)

	gv, gsrc, gpat := resolve(m.grpc, m.fallbackGRPC, k, r)
	_, _ = fmt.Fprintf(&b, "grpc: source=%s%s -> %s", gsrc, patternPart(gpat), grpcName(gv))

	return b.String()
}

func patternPart(p string) string {
	if p == "" {
		return ""
	}
	return fmt.Sprintf(" pattern=%q", p)
}

// grpcName renders a code as "NOT_FOUND(5)".
func grpcName(c codes.Code) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range c.String() {
		if r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return fmt.Sprintf("%s(%d)", strings.ToUpper(b.String()), int(c))
}
