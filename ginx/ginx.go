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

// Package ginx plugs the problem interceptor into gin.
//
//	r := gin.New()
//	r.HandleMethodNotAllowed = true
//	r.Use(ginx.Middleware(ic))
//	r.NoRoute(ginx.NoRoute(ic))
//	r.NoMethod(ginx.NoMethod(ic))
//
// Handlers report failures with c.Error(err) and return; the middleware
// answers with the problem for the last error. Request bodies are bound
// with Bind so that decode failures become client problems. Raw errors from
// c.ShouldBind* are left to the catch-all, and c.Bind* must not be used: it
// writes a bare 400 before the middleware can answer.
package ginx

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/httperr"
	"dirpx.dev/problem/httpx"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// sink adapts gin's writer, which already tracks whether it was written.
type sink struct {
	gin.ResponseWriter
}

func (s sink) Committed() bool { return s.Written() }

// Sink returns the response of c as an httpx.Sink.
func Sink(c *gin.Context) httpx.Sink { return sink{c.Writer} }

// Middleware recovers panics and turns the last error recorded with
// c.Error into a problem response. http.ErrAbortHandler is re-panicked.
func Middleware(ic *httpx.Interceptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			c.Abort()
			ic.Handle(c.Request.Context(), Sink(c), classify.RequestFrom(c.Request),
				&httpx.PanicError{Value: v, Stack: debug.Stack()})
		}()

		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		ic.Handle(c.Request.Context(), Sink(c), classify.RequestFrom(c.Request), last.Err)
	}
}

// Bind binds the request into obj like c.ShouldBind. Validation failures
// are returned as is; decode failures are translated with
// httperr.BodyError.
func Bind(c *gin.Context, obj any) error {
	return bindError(c.ShouldBind(obj))
}

func bindError(err error) error {
	var ve validator.ValidationErrors
	if err == nil || errors.As(err, &ve) {
		return err
	}
	return httperr.BodyError(err)
}

// NoRoute answers unmatched paths with the no-route problem.
func NoRoute(ic *httpx.Interceptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ic.Handle(c.Request.Context(), Sink(c), classify.RequestFrom(c.Request),
			&httperr.NoRouteError{Method: c.Request.Method, Path: c.Request.URL.Path})
	}
}

// NoMethod answers known paths requested with an unsupported method. The
// engine must have HandleMethodNotAllowed set.
func NoMethod(ic *httpx.Interceptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ic.Handle(c.Request.Context(), Sink(c), classify.RequestFrom(c.Request),
			&httperr.MethodNotAllowedError{Method: c.Request.Method, Allowed: allowed(c)})
	}
}

func allowed(c *gin.Context) []string {
	h := c.Writer.Header().Get("Allow")
	if h == "" {
		return nil
	}
	var out []string
	for m := range strings.SplitSeq(h, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
