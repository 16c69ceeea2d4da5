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

// Package grpcx converts handler errors of gRPC servers into statuses that
// carry the classified problem as a google.protobuf.Struct detail.
package grpcx

import (
	"context"
	"errors"
	"log/slog"

	"dirpx.dev/problem"
	"dirpx.dev/problem/adapter"
	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/mapper"
	"dirpx.dev/problem/observe"
	"dirpx.dev/problem/reason"
	"google.golang.org/grpc"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Option configures the interceptors.
type Option func(*converter)

// WithMapper sets the mapper used for the gRPC code of kinded errors.
// Nil keeps mapper.Default().
func WithMapper(m apis.Mapper) Option {
	return func(c *converter) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithLogger sets the logger for handled errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEnrichers appends enrichers run after classification.
func WithEnrichers(es ...apis.Enricher) Option {
	return func(c *converter) { c.enrichers = append(c.enrichers, es...) }
}

// WithObservers appends observers run after conversion.
func WithObservers(obs ...apis.Observer) Option {
	return func(c *converter) { c.observers = append(c.observers, obs...) }
}

type converter struct {
	cls       *classify.Classifier
	mapper    apis.Mapper
	log       *slog.Logger
	enrichers []apis.Enricher
	observers []apis.Observer
}

func newConverter(cls *classify.Classifier, opts []Option) *converter {
	c := &converter{cls: cls, mapper: mapper.Default(), log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if !cls.Defaults().DisableLogging {
		c.observers = append([]apis.Observer{observe.Logging(c.log)}, c.observers...)
	}
	return c
}

// UnaryServerInterceptor returns an interceptor that replaces handler
// errors with problem statuses. Errors that already are gRPC statuses pass
// through unchanged.
func UnaryServerInterceptor(cls *classify.Classifier, opts ...Option) grpc.UnaryServerInterceptor {
	c := newConverter(cls, opts)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		return nil, c.convert(ctx, info.FullMethod, err)
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor.
func StreamServerInterceptor(cls *classify.Classifier, opts ...Option) grpc.StreamServerInterceptor {
	c := newConverter(cls, opts)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		err := handler(srv, ss)
		if err == nil {
			return nil
		}
		return c.convert(ss.Context(), info.FullMethod, err)
	}
}

func (c *converter) convert(ctx context.Context, fullMethod string, err error) error {
	if _, ok := gstatus.FromError(err); ok {
		return err
	}

	req := apis.Request{Method: "POST", Path: fullMethod}
	res := c.cls.Resolve(err, req)
	p := observe.Enrich(ctx, c.log, c.enrichers, req, res.Problem)

	msg := p.Detail()
	if msg == "" {
		msg = p.Title()
	}
	st := gstatus.New(c.code(err, p), msg)
	out := st.Err()
	if s, serr := adapter.ToStruct(p); serr == nil {
		if with, werr := st.WithDetails(s); werr == nil {
			out = with.Err()
		}
	}

	observe.Notify(ctx, c.log, c.observers, apis.Event{Err: err, Request: req, Rule: res.Rule, Problem: p})
	return out
}

// code prefers the mapper for kinded and context errors and falls back to
// the HTTP status of the problem.
func (c *converter) code(err error, p problem.Problem) gcodes.Code {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return c.mapper.GRPCStatus(kind.Timeout, reason.Empty)
	case errors.Is(err, context.Canceled):
		return c.mapper.GRPCStatus(kind.Canceled, reason.Empty)
	}
	var (
		pv problem.Provider
		ke apis.KindedError
	)
	if !errors.As(err, &pv) && errors.As(err, &ke) {
		if k, perr := kind.Parse(ke.ErrorKind()); perr == nil {
			return c.mapper.GRPCStatus(k, reasonOf(err))
		}
	}
	return CodeFromHTTP(p.Status())
}

func reasonOf(err error) reason.Reason {
	var re apis.ReasonedError
	if !errors.As(err, &re) {
		return reason.Empty
	}
	r, perr := reason.Parse(re.ErrorReason())
	if perr != nil {
		return reason.Empty
	}
	return r
}

// ExtractProblem returns the problem attached to a status error by the
// interceptors. Useful in clients and tests.
func ExtractProblem(err error) (problem.Problem, bool) {
	if err == nil {
		return problem.Problem{}, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return problem.Problem{}, false
	}
	for _, d := range st.Details() {
		s, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		if p, perr := adapter.FromStruct(s); perr == nil {
			return p, true
		}
	}
	return problem.Problem{}, false
}
