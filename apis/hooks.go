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
	"context"
	"net/http"

	"dirpx.dev/problem"
)

// Request is the part of an inbound request that classification and hooks
// may look at.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
}

// URI returns the path with the query string, if any.
func (r Request) URI() string {
	if r.RawQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.RawQuery
}

// Event describes one handled error after the write attempt.
type Event struct {
	// Err is the error the handler failed with.
	Err error
	// Request is the request that failed.
	Request Request
	// Rule names the classification rule that produced Problem.
	Rule string
	// Problem is what was (or would have been) sent.
	Problem problem.Problem
	// WriteErr is nil when the problem reached the client.
	WriteErr error
}

// Enricher adjusts a classified problem before it is written. Enrichers run
// in registration order; returning p unchanged is always allowed.
type Enricher interface {
	Enrich(ctx context.Context, req Request, p problem.Problem) problem.Problem
}

// EnricherFunc adapts a function to Enricher.
type EnricherFunc func(ctx context.Context, req Request, p problem.Problem) problem.Problem

func (f EnricherFunc) Enrich(ctx context.Context, req Request, p problem.Problem) problem.Problem {
	return f(ctx, req, p)
}

// Observer is notified after every write attempt. Observers must not block.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }
