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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"dirpx.dev/problem"
	"dirpx.dev/problem/classify"
)

var (
	// ErrAlreadyCommitted is returned by Writer.Write when the response has
	// already started. Nothing is written.
	ErrAlreadyCommitted = errors.New("httpx: response already committed")

	// ErrEncoding is returned when the problem could not be encoded. The
	// fallback 500 problem was written in its place.
	ErrEncoding = errors.New("httpx: problem not encodable")
)

// retryAfterMember is copied to the Retry-After header when it holds a
// positive number of seconds.
const retryAfterMember = "retryAfter"

// Sink is a response writer owned by one request that knows whether the
// response has started.
type Sink interface {
	http.ResponseWriter
	Committed() bool
}

// NewSink wraps w. A w that already is a Sink is returned unchanged.
func NewSink(w http.ResponseWriter) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &sink{ResponseWriter: w}
}

type sink struct {
	http.ResponseWriter
	committed bool
}

func (s *sink) Committed() bool { return s.committed }

func (s *sink) WriteHeader(code int) {
	// 1xx responses may be followed by the final one.
	if code >= 200 {
		s.committed = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *sink) Write(b []byte) (int, error) {
	s.committed = true
	return s.ResponseWriter.Write(b)
}

func (s *sink) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		s.committed = true
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *sink) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Writer serializes problems as application/problem+json.
//
// No redaction happens here: whatever the problem holds is sent. Detail
// gating is the classifier's job.
type Writer struct{}

// Write sends p with status p.Status(). It fails with ErrAlreadyCommitted,
// without touching s, when s has been written to. When p cannot be encoded
// the fallback problem is sent and the returned error matches ErrEncoding.
func (Writer) Write(p problem.Problem, s Sink) error {
	if s.Committed() {
		return ErrAlreadyCommitted
	}

	var encErr error
	if p.IsZero() {
		p = classify.Fallback()
		encErr = fmt.Errorf("%w: zero problem", ErrEncoding)
	}
	body, err := json.Marshal(p)
	if err != nil {
		encErr = fmt.Errorf("%w: %w", ErrEncoding, err)
		p = classify.Fallback()
		if body, err = json.Marshal(p); err != nil {
			return errors.Join(encErr, err)
		}
	}

	h := s.Header()
	h.Set("Content-Type", problem.ContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	if secs, ok := retryAfter(p); ok {
		h.Set("Retry-After", strconv.Itoa(secs))
	}
	s.WriteHeader(p.Status())
	if _, err := s.Write(body); err != nil {
		return errors.Join(encErr, fmt.Errorf("httpx: write body: %w", err))
	}
	return encErr
}

func retryAfter(p problem.Problem) (int, bool) {
	v, ok := p.Extension(retryAfterMember)
	if !ok {
		return 0, false
	}
	var secs float64
	switch n := v.(type) {
	case int:
		secs = float64(n)
	case int32:
		secs = float64(n)
	case int64:
		secs = float64(n)
	case float64:
		secs = n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		secs = f
	default:
		return 0, false
	}
	if secs <= 0 || secs > math.MaxInt32 {
		return 0, false
	}
	return int(math.Ceil(secs)), true
}
