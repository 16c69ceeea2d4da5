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

// Package adapter converts problems to and from protobuf well-known types,
// for gRPC status details and message bus payloads.
package adapter

import (
	"encoding/json"
	"fmt"

	"dirpx.dev/problem"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts p to a google.protobuf.Struct with the same members as
// its JSON form. Numbers in extensions become doubles.
func ToStruct(p problem.Problem) (*structpb.Struct, error) {
	if p.IsZero() {
		return nil, fmt.Errorf("adapter: zero problem")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("adapter: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("adapter: to struct: %w", err)
	}
	return s, nil
}

// FromStruct rebuilds a problem from a Struct produced by ToStruct. It
// fails when the members do not form a valid problem.
func FromStruct(s *structpb.Struct) (problem.Problem, error) {
	if s == nil {
		return problem.Problem{}, fmt.Errorf("adapter: nil struct")
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return problem.Problem{}, fmt.Errorf("adapter: from struct: %w", err)
	}
	var p problem.Problem
	if err := json.Unmarshal(b, &p); err != nil {
		return problem.Problem{}, fmt.Errorf("adapter: %w", err)
	}
	return p, nil
}
