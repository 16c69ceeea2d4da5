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

package metrics

import (
	"context"
	"errors"
	"testing"

	"dirpx.dev/problem"
	"dirpx.dev/problem/apis"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestObserver(t *testing.T) {
	reg := prom.NewRegistry()
	o, err := NewObserver(reg)
	require.NoError(t, err)

	notFound := apis.Event{Rule: "kinded", Problem: problem.MustNew(404, "Not Found")}
	o.Observe(context.Background(), notFound)
	o.Observe(context.Background(), notFound)
	o.Observe(context.Background(), apis.Event{
		Rule:     "catch-all",
		Problem:  problem.MustNew(500, "Internal Server Error"),
		WriteErr: errors.New("already committed"),
	})

	assert.Equal(t, 2, testutil.CollectAndCount(o.responses))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.responses.WithLabelValues("404", "about:blank", "kinded", ResultWritten)))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.responses.WithLabelValues("500", "about:blank", "catch-all", ResultFailed)))

	_, err = NewObserver(reg)
	assert.Error(t, err, "second registration collides")
}

func TestOTelObserver(t *testing.T) {
	o, err := NewOTelObserver(noop.NewMeterProvider().Meter("problem"))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		o.Observe(context.Background(), apis.Event{Rule: "kinded", Problem: problem.MustNew(409, "Conflict")})
	})
}
