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

package classify

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"dirpx.dev/problem"
)

// FallbackName is reported as the rule of the built-in 500 problem.
const FallbackName = "fallback"

// errorsMember is the extension member carrying violations.
const errorsMember = "errors"

var fallback = problem.MustNew(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))

// Fallback returns the problem sent when nothing better can be built:
// 500 "Internal Server Error", type about:blank, no detail.
func Fallback() problem.Problem { return fallback }

// RuleSource supplies the ordered rules and presentation defaults.
// config.Configuration implements it.
type RuleSource interface {
	EffectiveRules() []Rule
	Defaults() Defaults
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for rule failures. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// Classifier turns errors into problems using the first matching rule.
// It is immutable and safe for concurrent use.
type Classifier struct {
	rules    []Rule
	defaults Defaults
	log      *slog.Logger
}

// New snapshots the rules and defaults of src.
func New(src RuleSource, opts ...Option) *Classifier {
	c := &Classifier{
		rules:    src.EffectiveRules(),
		defaults: src.Defaults(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Defaults returns the presentation defaults in use.
func (c *Classifier) Defaults() Defaults { return c.defaults }

// Result is a classified problem and the name of the rule that produced it.
type Result struct {
	Problem problem.Problem
	Rule    string
}

// Classify returns the problem for err. It never fails; see Resolve.
func (c *Classifier) Classify(err error, req Request) problem.Problem {
	return c.Resolve(err, req).Problem
}

// Resolve classifies err. A nil error, a panicking rule, a rule that yields
// an invalid problem and an unmatched error all resolve to Fallback().
// Statuses outside 400-599 are replaced by 500.
func (c *Classifier) Resolve(err error, req Request) Result {
	if err == nil {
		return Result{Problem: fallback, Rule: FallbackName}
	}
	for _, r := range c.rules {
		matched, perr := c.match(r, err)
		if perr != nil {
			c.log.Error("problem rule failed", "rule", r.Name, "stage", "match", "error", perr)
			return Result{Problem: fallback, Rule: FallbackName}
		}
		if !matched {
			continue
		}
		p, berr := c.build(r, err, req)
		if berr != nil {
			c.log.Error("problem rule failed", "rule", r.Name, "stage", "build", "error", berr)
			return Result{Problem: fallback, Rule: FallbackName}
		}
		return Result{Problem: p, Rule: r.Name}
	}
	return Result{Problem: fallback, Rule: FallbackName}
}

func (c *Classifier) match(r Rule, err error) (matched bool, perr error) {
	defer func() {
		if v := recover(); v != nil {
			perr = fmt.Errorf("panic: %v", v)
		}
	}()
	return r.Match(err), nil
}

func (c *Classifier) build(r Rule, err error, req Request) (p problem.Problem, berr error) {
	defer func() {
		if v := recover(); v != nil {
			berr = fmt.Errorf("panic: %v", v)
		}
	}()

	var ex Extraction
	if r.Extract != nil {
		ex = r.Extract(err, req)
	}
	if ex.Problem != nil {
		if !errorStatus(ex.Problem.Status()) {
			return problem.Problem{}, fmt.Errorf("provided problem has status %d", ex.Problem.Status())
		}
		return *ex.Problem, nil
	}

	status, title := r.Status, r.Title
	if ex.Status != 0 && ex.Status != r.Status {
		status, title = ex.Status, ""
	}
	if !errorStatus(status) {
		c.log.Warn("problem status out of error range", "rule", r.Name, "status", status)
		status, title = http.StatusInternalServerError, ""
	}
	title = cmp.Or(ex.Title, title, http.StatusText(status))

	opts := []problem.Option{
		problem.WithType(c.typeOf(r, ex)),
		problem.WithInstance(ex.Instance),
		problem.WithDetail(c.detailOf(ex)),
		problem.WithExtensions(sanitize(ex.Extensions)),
	}
	if len(ex.Violations) > 0 {
		opts = append(opts, problem.WithExtension(errorsMember, c.violations(ex.Violations)))
	}
	return problem.New(status, title, opts...)
}

func (c *Classifier) typeOf(r Rule, ex Extraction) string {
	switch {
	case ex.Type != "":
		return ex.Type
	case c.defaults.TypeBase != "" && !ex.Kind.IsZero():
		return c.defaults.TypeBase + ex.Kind.String()
	default:
		return r.Type
	}
}

func (c *Classifier) detailOf(ex Extraction) string {
	if ex.Detail == "" {
		return ""
	}
	if ex.RawDetail {
		if c.defaults.ExposeErrorDetails {
			return ex.Detail
		}
		return c.defaults.GenericDetail
	}
	return c.defaults.DetailFormat.Apply(ex.Detail)
}

func (c *Classifier) violations(vs []problem.Violation) []problem.Violation {
	out := slices.Clone(vs)
	for i := range out {
		out[i].Field = c.defaults.FieldNaming.Apply(out[i].Field)
	}
	return out
}

// sanitize drops members New would reject.
func sanitize(ext map[string]any) map[string]any {
	if len(ext) == 0 {
		return nil
	}
	out := maps.Clone(ext)
	maps.DeleteFunc(out, func(k string, _ any) bool {
		switch k {
		case "", problem.MemberType, problem.MemberTitle, problem.MemberStatus, problem.MemberDetail, problem.MemberInstance:
			return true
		}
		return false
	})
	return out
}

func errorStatus(s int) bool { return s >= 400 && s <= problem.MaxStatus }
