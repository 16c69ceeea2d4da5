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

package observe

import (
	"context"
	"log/slog"

	"dirpx.dev/problem"
	"dirpx.dev/problem/apis"
)

// Enrich passes p through es in order. An enricher that panics or returns
// the zero problem is skipped and p is kept as it was before it.
func Enrich(ctx context.Context, log *slog.Logger, es []apis.Enricher, req apis.Request, p problem.Problem) problem.Problem {
	for _, e := range es {
		if next, ok := safeEnrich(ctx, log, e, req, p); ok && !next.IsZero() {
			p = next
		}
	}
	return p
}

func safeEnrich(ctx context.Context, log *slog.Logger, e apis.Enricher, req apis.Request, p problem.Problem) (out problem.Problem, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			logger(log).ErrorContext(ctx, "problem enricher panicked", "panic", v)
			ok = false
		}
	}()
	return e.Enrich(ctx, req, p), true
}

// Notify hands ev to every observer. A panicking observer is logged and
// the rest still run.
func Notify(ctx context.Context, log *slog.Logger, obs []apis.Observer, ev apis.Event) {
	for _, o := range obs {
		func() {
			defer func() {
				if v := recover(); v != nil {
					logger(log).ErrorContext(ctx, "problem observer panicked", "panic", v)
				}
			}()
			o.Observe(ctx, ev)
		}()
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
