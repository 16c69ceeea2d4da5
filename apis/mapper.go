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

package apis

import (
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/reason"
	"google.golang.org/grpc/codes"
)

// Mapper is an immutable, concurrency-safe view of the status rules.
// It resolves an error kind (and optionally a reason) into transport statuses
// for HTTP and gRPC.
type Mapper interface {
	// HTTPStatus returns the HTTP status for the kind and reason.
	// Without a reason-specific rule the kind-level rule applies.
	HTTPStatus(k kind.Kind, r reason.Reason) int

	// GRPCStatus returns the gRPC code for the kind and reason.
	GRPCStatus(k kind.Kind, r reason.Reason) codes.Code

	// Status resolves both in a single call.
	Status(k kind.Kind, r reason.Reason) Status

	// Explain describes which rule matched, one line per transport.
	Explain(k kind.Kind, r reason.Reason) string
}

// Status is a resolved pair of transport statuses.
type Status struct {
	HTTP int        // net/http status code.
	GRPC codes.Code // gRPC status code.
}
