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
	"net/http"
	"sync"

	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/kind"
	"google.golang.org/grpc/codes"
)

// defaultHTTP follows the usual problem+json conventions: validation 400,
// missing credentials 401, denied 403, absent 404, conflict 409.
var defaultHTTP = map[kind.Kind]int{
	kind.Invalid:     http.StatusBadRequest,
	kind.Missing:     http.StatusBadRequest,
	kind.Unsupported: http.StatusBadRequest,
	kind.TooLarge:    http.StatusRequestEntityTooLarge,

	kind.Unauthenticated:  http.StatusUnauthorized,
	kind.PermissionDenied: http.StatusForbidden,

	kind.NotFound:           http.StatusNotFound,
	kind.Gone:               http.StatusGone,
	kind.Conflict:           http.StatusConflict,
	kind.AlreadyExists:      http.StatusConflict,
	kind.PreconditionFailed: http.StatusPreconditionFailed,

	kind.RateLimited: http.StatusTooManyRequests,

	kind.Internal:         http.StatusInternalServerError,
	kind.NotImplemented:   http.StatusNotImplemented,
	kind.DependencyFailed: http.StatusBadGateway,
	kind.Unavailable:      http.StatusServiceUnavailable,
	kind.Timeout:          http.StatusGatewayTimeout,
	// 499 (nginx) is common for this but not registered.
	kind.Canceled: http.StatusRequestTimeout,
}

var defaultGRPC = map[kind.Kind]codes.Code{
	kind.Invalid:     codes.InvalidArgument,
	kind.Missing:     codes.InvalidArgument,
	kind.Unsupported: codes.InvalidArgument,
	kind.TooLarge:    codes.ResourceExhausted,

	kind.Unauthenticated:  codes.Unauthenticated,
	kind.PermissionDenied: codes.PermissionDenied,

	kind.NotFound: codes.NotFound,
	// gRPC has no 410.
	kind.Gone:               codes.NotFound,
	kind.Conflict:           codes.Aborted,
	kind.AlreadyExists:      codes.AlreadyExists,
	kind.PreconditionFailed: codes.FailedPrecondition,

	kind.RateLimited: codes.ResourceExhausted,

	kind.Internal:         codes.Internal,
	kind.NotImplemented:   codes.Unimplemented,
	kind.DependencyFailed: codes.FailedPrecondition,
	kind.Unavailable:      codes.Unavailable,
	kind.Timeout:          codes.DeadlineExceeded,
	kind.Canceled:         codes.Canceled,
}

var defaultMapper = sync.OnceValue(func() apis.Mapper {
	m, err := New()
	if err != nil {
		// The built-in tables are static.
		panic(err)
	}
	return m
})

// Default returns the shared mapper built from the library defaults only.
func Default() apis.Mapper { return defaultMapper() }
