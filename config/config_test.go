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
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/reason"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

var teapot = classify.Rule{Name: "teapot", Match: classify.Is(io.EOF), Status: http.StatusTeapot}

func TestRegistry_InitializeOnce(t *testing.T) {
	var reg Registry
	_, ok := reg.Current()
	assert.False(t, ok)

	cfg, err := reg.Initialize([]classify.Rule{teapot}, classify.Defaults{ExposeErrorDetails: true})
	require.NoError(t, err)

	rules := cfg.EffectiveRules()
	require.Len(t, rules, 2)
	assert.Equal(t, "teapot", rules[0].Name)
	assert.True(t, rules[1].IsCatchAll())
	assert.True(t, cfg.Defaults().ExposeErrorDetails)

	_, err = reg.Initialize(nil, classify.Defaults{})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	got, ok := reg.Current()
	assert.True(t, ok)
	assert.Same(t, cfg, got)
}

func TestRegistry_ConcurrentInitialize(t *testing.T) {
	var (
		reg  Registry
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Initialize(classify.DefaultRules(nil), classify.Defaults{}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestRegistry_FailedInitializeLeavesEmpty(t *testing.T) {
	var reg Registry
	_, err := reg.Initialize([]classify.Rule{{Name: "broken", Status: 400}}, classify.Defaults{})
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = reg.Initialize(nil, classify.Defaults{})
	assert.NoError(t, err)
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name  string
		rules []classify.Rule
		d     classify.Defaults
		want  error
	}{
		{"catch-all not last", []classify.Rule{classify.CatchAll(), teapot}, classify.Defaults{}, ErrInvalidRules},
		{"nil matcher", []classify.Rule{{Name: "x", Status: 400}}, classify.Defaults{}, ErrInvalidRules},
		{"status range", []classify.Rule{{Name: "x", Match: classify.Is(io.EOF), Status: 700}}, classify.Defaults{}, ErrInvalidRules},
		{"duplicate", []classify.Rule{teapot, teapot}, classify.Defaults{}, ErrInvalidRules},
		{"defaults", nil, classify.Defaults{DetailFormat: "loud"}, ErrInvalidDefaults},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.rules, tt.d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfiguration_EffectiveRulesIsCopy(t *testing.T) {
	cfg, err := Build(classify.DefaultRules(nil), classify.Defaults{})
	require.NoError(t, err)

	rules := cfg.EffectiveRules()
	rules[0].Name = "mutated"
	assert.NotEqual(t, "mutated", cfg.EffectiveRules()[0].Name)
	assert.Len(t, rules, len(classify.DefaultRules(nil)), "catch-all not duplicated")
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ERRORS_HOST", "errors.example.com")
	path := writeFile(t, `
expose_error_details: true
detail_format: capitalized
field_naming: snake_case
type_base: https://${ERRORS_HOST}/
logging_enabled: false
mappings:
  - kind: conflict
    reason: order.payment
    http: 402
    grpc: failed_precondition
  - kind: not_found
    http: 410
`)
	t.Setenv(EnvExposeErrorDetails, "false")
	t.Setenv(EnvFieldNaming, "KEBAB_CASE")

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.ExposeErrorDetails)
	assert.Equal(t, "https://errors.example.com/", s.TypeBase)

	d, err := s.Defaults()
	require.NoError(t, err)
	assert.Equal(t, classify.Defaults{
		DetailFormat:   classify.DetailCapitalized,
		FieldNaming:    classify.FieldKebabCase,
		TypeBase:       "https://errors.example.com/",
		DisableLogging: true,
	}, d)

	var reg Registry
	cfg, m, err := s.Setup(&reg)
	require.NoError(t, err)
	assert.True(t, cfg.EffectiveRules()[len(cfg.EffectiveRules())-1].IsCatchAll())
	st := m.Status(kind.Conflict, reason.MustParse("order.payment.declined"))
	assert.Equal(t, 402, st.HTTP)
	assert.Equal(t, codes.FailedPrecondition, st.GRPC)
	assert.Equal(t, 410, m.HTTPStatus(kind.NotFound, reason.Empty))
	assert.Equal(t, codes.NotFound, m.GRPCStatus(kind.NotFound, reason.Empty))
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvDetailFormat, "UPPERCASE")
	t.Setenv(EnvLoggingEnabled, "true")

	s, err := Load("")
	require.NoError(t, err)
	d, err := s.Defaults()
	require.NoError(t, err)
	assert.Equal(t, classify.DetailUppercase, d.DetailFormat)
	assert.False(t, d.DisableLogging)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PROBLEM_GENERIC_DETAIL=Something went wrong\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv(EnvGenericDetail) })

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Something went wrong", s.GenericDetail)
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeFile(t, "detail_format: shouting\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "mappings:\n  - kind: conflict\n    http: 99\n"))
	assert.Error(t, err)

	t.Setenv(EnvExposeErrorDetails, "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvExposeErrorDetails)
}

func TestMapperOptions_Errors(t *testing.T) {
	for _, m := range []Mapping{
		{Kind: "x", HTTP: 400},
		{Kind: "conflict"},
		{Kind: "conflict", GRPC: "NOPE"},
		{Kind: "conflict", Reason: "..", HTTP: 409},
	} {
		s := Settings{Mappings: []Mapping{m}}
		var reg Registry
		_, _, err := s.Setup(&reg)
		assert.Error(t, err, "%+v", m)
	}
}

func TestParseCode(t *testing.T) {
	c, err := ParseCode(" resource_exhausted ")
	require.NoError(t, err)
	assert.Equal(t, codes.ResourceExhausted, c)

	_, err = ParseCode("teapot")
	assert.True(t, strings.Contains(err.Error(), "teapot"))
}
