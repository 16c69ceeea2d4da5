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

// Package metrics counts problem responses.
package metrics

import (
	"context"
	"strconv"

	"dirpx.dev/problem/apis"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Label names shared by both observers.
const (
	LabelStatus = "status"
	LabelType   = "type"
	LabelRule   = "rule"
	LabelResult = "result"
)

// Values of LabelResult.
const (
	ResultWritten = "written"
	ResultFailed  = "write_failed"
)

// Observer increments problem_responses_total for every handled error.
type Observer struct {
	responses *prom.CounterVec
}

// NewObserver registers the counter with reg. A nil reg means
// prometheus.DefaultRegisterer.
func NewObserver(reg prom.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	cv := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "problem",
		Name:      "responses_total",
		Help:      "Problem responses by status, type, classification rule and write result.",
	}, []string{LabelStatus, LabelType, LabelRule, LabelResult})
	if err := reg.Register(cv); err != nil {
		return nil, err
	}
	return &Observer{responses: cv}, nil
}

// Observe implements apis.Observer.
func (o *Observer) Observe(_ context.Context, ev apis.Event) {
	o.responses.WithLabelValues(
		strconv.Itoa(ev.Problem.Status()),
		ev.Problem.Type(),
		ev.Rule,
		result(ev),
	).Inc()
}

// OTelObserver counts problem responses through an OpenTelemetry meter.
type OTelObserver struct {
	responses metric.Int64Counter
}

// NewOTelObserver creates the problem.responses counter on m.
func NewOTelObserver(m metric.Meter) (*OTelObserver, error) {
	c, err := m.Int64Counter("problem.responses",
		metric.WithDescription("Problem responses by status, type, classification rule and write result."),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}
	return &OTelObserver{responses: c}, nil
}

// Observe implements apis.Observer.
func (o *OTelObserver) Observe(ctx context.Context, ev apis.Event) {
	o.responses.Add(ctx, 1, metric.WithAttributes(
		attribute.Int(LabelStatus, ev.Problem.Status()),
		attribute.String(LabelType, ev.Problem.Type()),
		attribute.String(LabelRule, ev.Rule),
		attribute.String(LabelResult, result(ev)),
	))
}

func result(ev apis.Event) string {
	if ev.WriteErr != nil {
		return ResultFailed
	}
	return ResultWritten
}
