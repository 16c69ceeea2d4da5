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

// Package apis defines the small contracts the problem pipeline is built on.
//
// Errors opt into classification by implementing capability interfaces
// (KindedError, ReasonedError, ViolationsError, ExtendedError, StatusError)
// instead of being listed in a type switch, so new error types map
// automatically. Mapper is the read-only view of kind-to-status rules, and
// Enricher and Observer are the hooks around writing a problem.
//
// The package holds interfaces and tiny value types only.
package apis
