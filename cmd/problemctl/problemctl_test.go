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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/config"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/mapper"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExplain(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mappings:
  - kind: conflict
    reason: order.payment
    http: 402
`), 0o600))

	out, err := execute(t, "explain", "conflict", "order.payment.declined", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, `kind="conflict" reason="order.payment.declined"
http: source=prefix pattern="order.payment" -> 402
grpc: source=default -> ABORTED(10)
`, out)

	out, err = execute(t, "explain", "not_found")
	require.NoError(t, err)
	assert.Contains(t, out, "http: source=default -> 404")
}

func TestExplain_BadArgs(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "explain")
	assert.Error(t, err)
	_, err = execute(t, "explain", "bad/kind")
	assert.Error(t, err)
	_, err = execute(t, "explain", "conflict", "Bad Reason!")
	assert.Error(t, err)
}

func newTestHandler(t *testing.T) (http.Handler, *prom.Registry) {
	t.Helper()
	m, err := mapper.New(mapper.WithHTTPPrefix(kind.Conflict, "order.payment", http.StatusPaymentRequired))
	require.NoError(t, err)
	cfg, err := config.Build(classify.DefaultRules(m), classify.Defaults{ExposeErrorDetails: true})
	require.NoError(t, err)
	reg := prom.NewRegistry()
	h, err := newDemoHandler(cfg, reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return h, reg
}

func TestDemoHandler(t *testing.T) {
	h, reg := newTestHandler(t)

	tests := []struct {
		method, path, body string
		status             int
		want               map[string]any
	}{
		{"GET", "/orders/7", "", 404, map[string]any{"detail": "order 7 not found", "reason": "order.lookup"}},
		{"POST", "/orders", `{"sku":"book-42","quantity":0}`, 400, map[string]any{"detail": "validation failed"}},
		{"POST", "/orders", `{"sku":"book-42","quantity":50}`, 409, map[string]any{"available": float64(10)}},
		{"POST", "/orders/1/pay", "", 402, map[string]any{"title": "Payment Required"}},
		{"GET", "/limited", "", 429, map[string]any{"retryAfter": float64(30)}},
		{"GET", "/slow", "", 504, map[string]any{"title": "Gateway Timeout"}},
		{"GET", "/panic", "", 500, map[string]any{"title": "Internal Server Error"}},
		{"PUT", "/healthz", "", 405, map[string]any{"detail": "method put not supported"}},
		{"GET", "/nowhere", "", 404, map[string]any{"type": "about:blank"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			var doc map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
			for k, v := range tt.want {
				assert.Equal(t, v, doc[k], k)
			}
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/panic", nil))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.True(t, strings.HasPrefix(doc["instance"].(string), "urn:uuid:"), "server errors get an error id")

	n, err := testutil.GatherAndCount(reg, "problem_responses_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- run(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), srv) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
