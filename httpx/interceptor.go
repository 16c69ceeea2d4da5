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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/observe"
)

// State is a step of error handling for one request.
type State int

const (
	StateIdle State = iota
	StateDispatched
	StateErrorCaught
	StateClassified
	StateWritten
	StateWriteFailed
)

var stateNames = [...]string{"idle", "dispatched", "error_caught", "classified", "written", "write_failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether s ends error handling.
func (s State) Terminal() bool { return s == StateWritten || s == StateWriteFailed }

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger for unhandled errors and write failures.
func WithLogger(l *slog.Logger) Option {
	return func(ic *Interceptor) {
		if l != nil {
			ic.log = l
		}
	}
}

// WithEnrichers appends enrichers. They run in order after classification.
func WithEnrichers(es ...apis.Enricher) Option {
	return func(ic *Interceptor) { ic.enrichers = append(ic.enrichers, es...) }
}

// WithObservers appends observers. They run in order after the write attempt.
func WithObservers(obs ...apis.Observer) Option {
	return func(ic *Interceptor) { ic.observers = append(ic.observers, obs...) }
}

// Interceptor turns handler errors into problem responses. It is immutable
// after New and safe for concurrent use.
type Interceptor struct {
	cls       *classify.Classifier
	writer    Writer
	log       *slog.Logger
	enrichers []apis.Enricher
	observers []apis.Observer
}

// New builds an Interceptor over the rules and defaults of src, typically a
// *config.Configuration. Unless src disables logging, unhandled errors are
// logged through observe.Logging before any other observer runs.
func New(src classify.RuleSource, opts ...Option) *Interceptor {
	ic := &Interceptor{log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(ic)
		}
	}
	ic.cls = classify.New(src, classify.WithLogger(ic.log))
	if !ic.cls.Defaults().DisableLogging {
		ic.observers = append([]apis.Observer{observe.Logging(ic.log)}, ic.observers...)
	}
	return ic
}

// Classifier returns the classifier in use.
func (ic *Interceptor) Classifier() *classify.Classifier { return ic.cls }

// Handle runs error handling for one dispatched request and returns the
// terminal state. A nil err leaves the request in StateDispatched.
//
// The response is written at most once: a committed sink ends in
// StateWriteFailed with ErrAlreadyCommitted logged. Classification and hook
// failures never escape; the fallback problem is used instead. A canceled
// ctx does not skip the write.
func (ic *Interceptor) Handle(ctx context.Context, s Sink, req apis.Request, err error) State {
	if err == nil {
		return StateDispatched
	}

	// ErrorCaught -> Classified
	res := ic.cls.Resolve(err, req)
	p := observe.Enrich(ctx, ic.log, ic.enrichers, req, res.Problem)

	// Classified -> Written | WriteFailed
	var state State
	werr := ic.writer.Write(p, s)
	evErr := werr
	switch {
	case werr == nil:
		state = StateWritten
	case errors.Is(werr, ErrAlreadyCommitted):
		ic.log.WarnContext(ctx, "problem response not written",
			"error", werr, "method", req.Method, "uri", req.URI(), "status", p.Status(), "rule", res.Rule)
		state = StateWriteFailed
	case errors.Is(werr, ErrEncoding) && s.Committed():
		ic.log.ErrorContext(ctx, "problem encoding failed, fallback sent",
			"error", werr, "method", req.Method, "uri", req.URI(), "rule", res.Rule)
		p = classify.Fallback()
		evErr = nil
		state = StateWritten
	default:
		ic.log.WarnContext(ctx, "problem response write failed",
			"error", werr, "method", req.Method, "uri", req.URI(), "rule", res.Rule)
		state = StateWriteFailed
	}

	observe.Notify(ctx, ic.log, ic.observers, apis.Event{Err: err, Request: req, Rule: res.Rule, Problem: p, WriteErr: evErr})
	return state
}
