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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"dirpx.dev/problem"
	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/kind"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

var req = apis.Request{Method: "GET", Path: "/orders/7", RawQuery: "expand=items"}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	obs := Logging(log)

	obs.Observe(context.Background(), apis.Event{
		Err:     problem.E(kind.NotFound, "order 7 not found"),
		Request: req,
		Rule:    "kinded",
		Problem: problem.MustNew(404, "Not Found"),
	})
	obs.Observe(context.Background(), apis.Event{
		Err:      errors.New("boom"),
		Request:  req,
		Rule:     "catch-all",
		Problem:  problem.MustNew(500, "Internal Server Error", problem.WithInstance("urn:uuid:x")),
		WriteErr: errors.New("broken pipe"),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "unhandled error", first["msg"])
	assert.Equal(t, "*problem.Error", first["error_type"])
	assert.Equal(t, "not_found: order 7 not found", first["error"])
	assert.Equal(t, "/orders/7?expand=items", first["uri"])
	assert.Equal(t, float64(404), first["status"])
	assert.NotContains(t, first, "instance")

	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "urn:uuid:x", second["instance"])
	assert.Equal(t, "broken pipe", second["write_error"])
}

func TestTraceID(t *testing.T) {
	p := problem.MustNew(502, "Bad Gateway")

	assert.Equal(t, p, TraceID().Enrich(context.Background(), req, p), "no span, no change")

	tid, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	sid, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	}))

	out := TraceID().Enrich(ctx, req, p)
	assert.Equal(t, map[string]any{
		TraceIDMember: "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanIDMember:  "00f067aa0ba902b7",
	}, out.Extensions())
	assert.Equal(t, 502, out.Status())
}

func TestErrorID(t *testing.T) {
	fixed := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	e := errorID(func() uuid.UUID { return fixed })

	p := e.Enrich(context.Background(), req, problem.MustNew(500, "Internal Server Error"))
	assert.Equal(t, "urn:uuid:7d444840-9dc0-11d1-b245-5ffdce74fad2", p.Instance())

	client := problem.MustNew(404, "Not Found")
	assert.Equal(t, client, e.Enrich(context.Background(), req, client))

	kept := problem.MustNew(503, "Service Unavailable", problem.WithInstance("/incidents/9"))
	assert.Equal(t, kept, e.Enrich(context.Background(), req, kept))

	random := ErrorID().Enrich(context.Background(), req, problem.MustNew(500, ""))
	_, err := uuid.Parse(strings.TrimPrefix(random.Instance(), "urn:uuid:"))
	assert.NoError(t, err)
}

func TestSpan_NoRecordingSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		Span().Observe(context.Background(), apis.Event{Err: errors.New("x"), Problem: problem.MustNew(500, "")})
	})
}

func TestEnrichAndNotify_RecoverPanics(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	req := apis.Request{Method: "GET", Path: "/orders/7"}
	p := problem.MustNew(404, "Not Found")

	out := Enrich(context.Background(), log, []apis.Enricher{
		apis.EnricherFunc(func(context.Context, apis.Request, problem.Problem) problem.Problem { panic("bug") }),
		apis.EnricherFunc(func(context.Context, apis.Request, problem.Problem) problem.Problem { return problem.Problem{} }),
		apis.EnricherFunc(func(_ context.Context, r apis.Request, p problem.Problem) problem.Problem {
			next, _ := problem.Derive(p, problem.WithInstance(r.URI()))
			return next
		}),
	}, req, p)
	assert.Equal(t, "/orders/7", out.Instance())
	assert.Equal(t, 404, out.Status())

	calls := 0
	Notify(context.Background(), log, []apis.Observer{
		apis.ObserverFunc(func(context.Context, apis.Event) { panic("bug") }),
		apis.ObserverFunc(func(context.Context, apis.Event) { calls++ }),
	}, apis.Event{Problem: out})
	assert.Equal(t, 1, calls)

	assert.Contains(t, buf.String(), "problem enricher panicked")
	assert.Contains(t, buf.String(), "problem observer panicked")
}
