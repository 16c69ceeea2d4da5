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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/classify"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/mapper"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"google.golang.org/grpc/codes"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load. They override the file.
const (
	EnvExposeErrorDetails = "PROBLEM_EXPOSE_ERROR_DETAILS"
	EnvDetailFormat       = "PROBLEM_DETAIL_FORMAT"
	EnvFieldNaming        = "PROBLEM_FIELD_NAMING"
	EnvTypeBase           = "PROBLEM_TYPE_BASE"
	EnvGenericDetail      = "PROBLEM_GENERIC_DETAIL"
	EnvLoggingEnabled     = "PROBLEM_LOGGING_ENABLED"
)

// Mapping adjusts the status of one kind, or of one reason prefix within a
// kind.
type Mapping struct {
	Kind   string `yaml:"kind" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
	HTTP   int    `yaml:"http,omitempty" validate:"omitempty,gte=100,lte=599"`
	GRPC   string `yaml:"grpc,omitempty"`
}

// Settings is the file and environment form of the configuration.
type Settings struct {
	ExposeErrorDetails bool      `yaml:"expose_error_details"`
	DetailFormat       string    `yaml:"detail_format" validate:"omitempty,oneof=lowercase capitalized uppercase"`
	FieldNaming        string    `yaml:"field_naming"`
	TypeBase           string    `yaml:"type_base" validate:"omitempty,uri"`
	GenericDetail      string    `yaml:"generic_detail"`
	LoggingEnabled     *bool     `yaml:"logging_enabled"`
	Mappings           []Mapping `yaml:"mappings" validate:"dive"`
}

var validate = validator.New()

// Load reads settings from the YAML file at path, then applies PROBLEM_*
// environment overrides. A .env file in the working directory is loaded
// first when present; it never overrides variables already set. An empty
// path skips the file.
func Load(path string) (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("config: load .env: %w", err)
	}

	var s Settings
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if s, err = Parse(bytes.NewReader([]byte(os.ExpandEnv(string(data))))); err != nil {
			return Settings{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := s.applyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	if err := validate.Struct(s); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

// Parse decodes YAML settings. Unknown keys are rejected.
func Parse(r io.Reader) (Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("decode yaml: %w", err)
	}
	return s, nil
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvExposeErrorDetails); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvExposeErrorDetails, err)
		}
		s.ExposeErrorDetails = b
	}
	if v, ok := lookup(EnvLoggingEnabled); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvLoggingEnabled, err)
		}
		s.LoggingEnabled = &b
	}
	if v, ok := lookup(EnvDetailFormat); ok {
		s.DetailFormat = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvFieldNaming); ok {
		s.FieldNaming = v
	}
	if v, ok := lookup(EnvTypeBase); ok {
		s.TypeBase = v
	}
	if v, ok := lookup(EnvGenericDetail); ok {
		s.GenericDetail = v
	}
	return nil
}

// Defaults converts the settings to classifier defaults. Logging stays on
// unless logging_enabled is explicitly false.
func (s Settings) Defaults() (classify.Defaults, error) {
	df, err := classify.ParseDetailFormat(s.DetailFormat)
	if err != nil {
		return classify.Defaults{}, err
	}
	fn, err := classify.ParseFieldNaming(s.FieldNaming)
	if err != nil {
		return classify.Defaults{}, err
	}
	return classify.Defaults{
		ExposeErrorDetails: s.ExposeErrorDetails,
		DetailFormat:       df,
		FieldNaming:        fn,
		TypeBase:           s.TypeBase,
		GenericDetail:      s.GenericDetail,
		DisableLogging:     s.LoggingEnabled != nil && !*s.LoggingEnabled,
	}, nil
}

// MapperOptions turns the mappings into mapper options. A mapping without
// a reason replaces the kind default; with a reason it adds a prefix rule.
func (s Settings) MapperOptions() ([]mapper.Option, error) {
	opts := make([]mapper.Option, 0, 2*len(s.Mappings))
	for i, m := range s.Mappings {
		k, err := kind.Parse(m.Kind)
		if err != nil {
			return nil, fmt.Errorf("config: mappings[%d]: %w", i, err)
		}
		if m.HTTP == 0 && m.GRPC == "" {
			return nil, fmt.Errorf("config: mappings[%d]: neither http nor grpc set", i)
		}
		if m.HTTP != 0 {
			if m.Reason == "" {
				opts = append(opts, mapper.WithHTTPDefault(k, m.HTTP))
			} else {
				opts = append(opts, mapper.WithHTTPPrefix(k, m.Reason, m.HTTP))
			}
		}
		if m.GRPC != "" {
			c, err := ParseCode(m.GRPC)
			if err != nil {
				return nil, fmt.Errorf("config: mappings[%d]: %w", i, err)
			}
			if m.Reason == "" {
				opts = append(opts, mapper.WithGRPCDefault(k, c))
			} else {
				opts = append(opts, mapper.WithGRPCPrefix(k, m.Reason, c))
			}
		}
	}
	return opts, nil
}

// ParseCode parses a gRPC code name such as "NOT_FOUND" or "not_found".
func ParseCode(name string) (codes.Code, error) {
	var c codes.Code
	q := strconv.Quote(strings.ToUpper(strings.TrimSpace(name)))
	if err := c.UnmarshalJSON([]byte(q)); err != nil {
		return 0, fmt.Errorf("grpc code %q: %w", name, err)
	}
	return c, nil
}

// Setup builds the mapper, the default rules extended by extra (placed
// before the built-ins) and registers the configuration in reg. A nil reg
// means the process-wide registry.
func (s Settings) Setup(reg *Registry, extra ...classify.Rule) (*Configuration, apis.Mapper, error) {
	mopts, err := s.MapperOptions()
	if err != nil {
		return nil, nil, err
	}
	m, err := mapper.New(mopts...)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	d, err := s.Defaults()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if reg == nil {
		reg = &global
	}
	cfg, err := reg.Initialize(slices.Concat(extra, classify.DefaultRules(m)), d)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}
