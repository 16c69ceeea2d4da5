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

// Package observe provides the stock enrichers and observers: structured
// logging of handled errors, trace correlation and error ids.
package observe

import (
	"context"
	"fmt"
	"log/slog"

	"dirpx.dev/problem"
	"dirpx.dev/problem/apis"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Extension members added by the enrichers.
const (
	TraceIDMember = "traceId"
	SpanIDMember  = "spanId"
)

// Logging logs every handled error. Server errors are logged at Error,
// client errors at Info. A nil l means slog.Default().
func Logging(l *slog.Logger) apis.Observer {
	return apis.ObserverFunc(func(ctx context.Context, ev apis.Event) {
		log := l
		if log == nil {
			log = slog.Default()
		}
		level := slog.LevelInfo
		if ev.Problem.Status() >= 500 {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String("error_type", errorType(ev.Err)),
			slog.String("error", errorText(ev.Err)),
			slog.String("method", ev.Request.Method),
			slog.String("uri", ev.Request.URI()),
			slog.Int("status", ev.Problem.Status()),
			slog.String("rule", ev.Rule),
		}
		if inst := ev.Problem.Instance(); inst != "" {
			attrs = append(attrs, slog.String("instance", inst))
		}
		if ev.WriteErr != nil {
			attrs = append(attrs, slog.String("write_error", ev.WriteErr.Error()))
		}
		log.LogAttrs(ctx, level, "unhandled error", attrs...)
	})
}

// Span records handled errors on the span in ctx. Server errors also set
// the span status to Error.
func Span() apis.Observer {
	return apis.ObserverFunc(func(ctx context.Context, ev apis.Event) {
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		span.RecordError(ev.Err, trace.WithAttributes(
			attribute.Int("problem.status", ev.Problem.Status()),
			attribute.String("problem.type", ev.Problem.Type()),
			attribute.String("problem.rule", ev.Rule),
		))
		if ev.Problem.Status() >= 500 {
			span.SetStatus(otelcodes.Error, ev.Problem.Title())
		}
	})
}

// TraceID adds the trace and span ids of the span in ctx as extension
// members. Problems are left unchanged when ctx carries no valid span.
func TraceID() apis.Enricher {
	return apis.EnricherFunc(func(ctx context.Context, _ apis.Request, p problem.Problem) problem.Problem {
		sc := trace.SpanContextFromContext(ctx)
		if !sc.IsValid() {
			return p
		}
		out, err := problem.Derive(p,
			problem.WithExtension(TraceIDMember, sc.TraceID().String()),
			problem.WithExtension(SpanIDMember, sc.SpanID().String()),
		)
		if err != nil {
			return p
		}
		return out
	})
}

// ErrorID sets the instance of server errors that have none to a fresh
// "urn:uuid:" URI, so a response can be matched with its log line.
func ErrorID() apis.Enricher {
	return errorID(uuid.New)
}

func errorID(gen func() uuid.UUID) apis.Enricher {
	return apis.EnricherFunc(func(_ context.Context, _ apis.Request, p problem.Problem) problem.Problem {
		if p.Status() < 500 || p.Instance() != "" {
			return p
		}
		out, err := problem.Derive(p, problem.WithInstance(gen().URN()))
		if err != nil {
			return p
		}
		return out
	})
}

func errorType(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T", err)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
