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

package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/httperr"
)

// PanicError carries a value recovered from a handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Middleware recovers panics in next and answers them with a problem.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func (ic *Interceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := NewSink(w)
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			ic.Handle(r.Context(), s, classify.RequestFrom(r), &PanicError{Value: v, Stack: debug.Stack()})
		}()
		next.ServeHTTP(s, r)
	})
}

// Handler adapts fn to http.Handler. Returned errors and panics are turned
// into problem responses.
func (ic *Interceptor) Handler(fn HandlerFunc) http.Handler {
	return ic.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			ic.Handle(r.Context(), NewSink(w), classify.RequestFrom(r), err)
		}
	}))
}

// NotFound answers every request with the no-route problem. Register it
// as the catch-all route of a mux.
func (ic *Interceptor) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ic.Handle(r.Context(), NewSink(w), classify.RequestFrom(r),
			&httperr.NoRouteError{Method: r.Method, Path: r.URL.Path})
	})
}
