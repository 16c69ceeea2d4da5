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

package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"dirpx.dev/problem/classify"
)

var (
	// ErrAlreadyInitialized is returned by every Initialize call after the
	// first successful one on the same Registry.
	ErrAlreadyInitialized = errors.New("problem: configuration already initialized")

	// ErrInvalidRules reports a rule table that cannot be evaluated.
	ErrInvalidRules = errors.New("problem: invalid rules")

	// ErrInvalidDefaults reports presentation defaults that fail validation.
	ErrInvalidDefaults = errors.New("problem: invalid defaults")
)

// Configuration is the validated rule table plus presentation defaults.
// It is read-only and safe for concurrent use.
type Configuration struct {
	rules    []classify.Rule
	defaults classify.Defaults
}

// EffectiveRules returns a copy of the ordered rules. The catch-all is last.
func (c *Configuration) EffectiveRules() []classify.Rule { return slices.Clone(c.rules) }

// Defaults returns the presentation defaults.
func (c *Configuration) Defaults() classify.Defaults { return c.defaults }

// Build validates rules and defaults without registering them. A missing
// catch-all is appended; a catch-all anywhere but last is an error, as are
// duplicate rule names.
func Build(rules []classify.Rule, d classify.Defaults) (*Configuration, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefaults, err)
	}

	out := slices.Clone(rules)
	if n := len(out); n == 0 || !out[n-1].IsCatchAll() {
		out = append(out, classify.CatchAll())
	}

	seen := make(map[string]struct{}, len(out))
	for i, r := range out {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
		}
		if r.IsCatchAll() && i != len(out)-1 {
			return nil, fmt.Errorf("%w: catch-all at position %d of %d", ErrInvalidRules, i, len(out))
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule %q", ErrInvalidRules, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return &Configuration{rules: out, defaults: d}, nil
}

// Registry holds at most one Configuration.
type Registry struct {
	mu  sync.Mutex
	cfg *Configuration
}

// Initialize builds the configuration and stores it. Only the first
// successful call wins; later calls fail with ErrAlreadyInitialized.
// A failed call leaves the registry empty.
func (r *Registry) Initialize(rules []classify.Rule, d classify.Defaults) (*Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return nil, ErrAlreadyInitialized
	}
	cfg, err := Build(rules, d)
	if err != nil {
		return nil, err
	}
	r.cfg = cfg
	return cfg, nil
}

// Current returns the stored configuration, if any.
func (r *Registry) Current() (*Configuration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg, r.cfg != nil
}

var global Registry

// Initialize initializes the process-wide registry.
func Initialize(rules []classify.Rule, d classify.Defaults) (*Configuration, error) {
	return global.Initialize(rules, d)
}

// Current returns the process-wide configuration, if initialized.
func Current() (*Configuration, bool) { return global.Current() }
