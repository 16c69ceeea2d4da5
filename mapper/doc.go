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

// Package mapper resolves error kinds (dirpx.dev/problem/kind) and optional
// reasons (dirpx.dev/problem/reason) to HTTP statuses and gRPC codes.
//
// # Resolution model
//
// A Mapper resolves in this order:
//
//  1. exact override for the kind;
//  2. per-kind longest-prefix match on the reason;
//  3. per-kind default (library or user-adjusted);
//  4. fallback (500 / codes.Internal).
//
// Prefix rules are segment-aware: "order.pay" never matches
// "order.payment", and "*" matches exactly one segment:
//
//	mapper.WithHTTPPrefix(kind.Conflict, "order.payment", http.StatusPaymentRequired)
//	mapper.WithHTTPPrefix(kind.Conflict, "order.*.locked", http.StatusLocked)
//
// # Library defaults
//
// Every kind in the kind package has a default: invalid 400,
// unauthenticated 401, permission_denied 403, not_found 404, conflict 409,
// internal 500 and so on, each with the matching gRPC code. Default returns a
// shared mapper with only these.
//
// # Building a mapper
//
//	m, err := mapper.New(
//	    mapper.WithHTTPOverride(kind.Canceled, 499),
//	    mapper.WithHTTPPrefix(kind.Conflict, "order.payment", 402),
//	)
//	if err != nil {
//	    // invalid status or prefix
//	}
//	st := m.Status(kind.Conflict, reason.MustParse("order.payment.declined"))
//	// st.HTTP == 402, st.GRPC == codes.Aborted
//
// # Diagnostics
//
// Explain returns a short trace naming the tier that matched and, for prefix
// hits, the pattern. problemctl explain prints it. The format is for people,
// not for parsing.
package mapper
