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
	"dirpx.dev/problem/kind"
	"google.golang.org/grpc/codes"
)

// Option configures a Mapper at build time.
type Option func(*builder)

// WithHTTPDefault sets the HTTP status used for k when no override or reason
// prefix applies.
func WithHTTPDefault(k kind.Kind, status int) Option {
	return func(b *builder) {
		if b.checkHTTP(k, status) {
			b.http.defaults[k] = status
		}
	}
}

// WithGRPCDefault sets the gRPC code used for k when no override or reason
// prefix applies.
func WithGRPCDefault(k kind.Kind, c codes.Code) Option {
	return func(b *builder) { b.grpc.defaults[k] = c }
}

// WithHTTPOverride pins the HTTP status of k regardless of the reason.
func WithHTTPOverride(k kind.Kind, status int) Option {
	return func(b *builder) {
		if b.checkHTTP(k, status) {
			b.http.overrides[k] = status
		}
	}
}

// WithGRPCOverride pins the gRPC code of k regardless of the reason.
func WithGRPCOverride(k kind.Kind, c codes.Code) Option {
	return func(b *builder) { b.grpc.overrides[k] = c }
}

// WithHTTPPrefix maps reasons of k starting with prefix to status. The
// longest matching prefix wins; "*" matches one segment.
func WithHTTPPrefix(k kind.Kind, prefix string, status int) Option {
	return func(b *builder) {
		if b.checkHTTP(k, status) {
			b.http.prefixes[k] = append(b.http.prefixes[k], prefixRule[int]{prefix, status})
		}
	}
}

// WithGRPCPrefix is the gRPC counterpart of WithHTTPPrefix.
func WithGRPCPrefix(k kind.Kind, prefix string, c codes.Code) Option {
	return func(b *builder) {
		b.grpc.prefixes[k] = append(b.grpc.prefixes[k], prefixRule[codes.Code]{prefix, c})
	}
}

// WithFallback replaces the statuses used for kinds the mapper knows nothing
// about (500 and codes.Internal by default).
func WithFallback(status int, c codes.Code) Option {
	return func(b *builder) {
		if b.checkHTTP(kind.Internal, status) {
			b.fallbackHTTP = status
		}
		b.fallbackGRPC = c
	}
}

// WithoutDefaults drops the built-in kind table, leaving only what later
// options add.
func WithoutDefaults() Option {
	return func(b *builder) {
		clear(b.http.defaults)
		clear(b.grpc.defaults)
	}
}
