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

package grpcx

import (
	"net/http"

	gcodes "google.golang.org/grpc/codes"
)

var httpToCode = map[int]gcodes.Code{
	http.StatusBadRequest:            gcodes.InvalidArgument,
	http.StatusUnauthorized:          gcodes.Unauthenticated,
	http.StatusForbidden:             gcodes.PermissionDenied,
	http.StatusNotFound:              gcodes.NotFound,
	http.StatusMethodNotAllowed:      gcodes.Unimplemented,
	http.StatusNotAcceptable:         gcodes.InvalidArgument,
	http.StatusRequestTimeout:        gcodes.DeadlineExceeded,
	http.StatusConflict:              gcodes.Aborted,
	http.StatusGone:                  gcodes.NotFound,
	http.StatusPreconditionFailed:    gcodes.FailedPrecondition,
	http.StatusRequestEntityTooLarge: gcodes.ResourceExhausted,
	http.StatusUnsupportedMediaType:  gcodes.InvalidArgument,
	http.StatusUnprocessableEntity:   gcodes.InvalidArgument,
	http.StatusTooManyRequests:       gcodes.ResourceExhausted,
	499:                              gcodes.Canceled,
	http.StatusNotImplemented:        gcodes.Unimplemented,
	http.StatusBadGateway:            gcodes.Unavailable,
	http.StatusServiceUnavailable:    gcodes.Unavailable,
	http.StatusGatewayTimeout:        gcodes.DeadlineExceeded,
}

// CodeFromHTTP maps an HTTP status to the closest gRPC code. Unlisted 4xx
// statuses give FailedPrecondition, everything else Internal.
func CodeFromHTTP(status int) gcodes.Code {
	if c, ok := httpToCode[status]; ok {
		return c
	}
	if status >= 400 && status < 500 {
		return gcodes.FailedPrecondition
	}
	return gcodes.Internal
}
