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

// Package config holds the one-time, read-only configuration of the problem
// pipeline: the ordered classification rules and the presentation defaults.
//
// A Registry accepts exactly one successful Initialize; the package-level
// Initialize uses a process-wide registry. Load reads the same settings from
// a YAML file and PROBLEM_* environment variables:
//
//	expose_error_details: false
//	detail_format: capitalized
//	field_naming: snake_case
//	type_base: https://errors.example.com/
//	mappings:
//	  - kind: conflict
//	    reason: order.payment
//	    http: 402
//	    grpc: failed_precondition
package config
