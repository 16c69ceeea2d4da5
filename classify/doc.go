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

// Package classify maps arbitrary errors to problems.
//
// A Classifier walks an ordered rule table and uses the first Rule whose
// matcher accepts the error. Matchers test capabilities (errors.As against
// the interfaces in dirpx.dev/problem/apis, or concrete error types from the
// standard library and httperr), so wrapped errors classify like their
// causes. The last rule is always CatchAll.
//
// # Details
//
// An Extraction marks its detail as raw when the text comes from the error
// itself. Raw details are only sent with Defaults.ExposeErrorDetails; the
// library's own detail templates are always sent and pass through
// Defaults.DetailFormat.
//
// # Failure
//
// Classification never fails. A panicking rule, a rule producing an invalid
// problem and an unmatched error all yield Fallback(), a bare 500.
package classify
