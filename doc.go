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

// Package problem implements RFC 7807 problem details for Go servers.
//
// The root package holds the data model: the immutable Problem value and its
// builder (New, Derive), the self-classifying domain Error (E), and Throw for
// handlers that want to send an exact problem.
//
// The rest of the module turns errors into responses:
//
//   - classify maps any error to a Problem through an ordered rule table;
//   - mapper resolves error kinds and reasons to HTTP and gRPC statuses;
//   - config freezes rules and defaults once at startup;
//   - httpx writes problems and intercepts errors for net/http;
//   - ginx and grpcx plug the same pipeline into gin and gRPC servers.
//
// A typical net/http setup:
//
//	cfg, err := config.Initialize(classify.DefaultRules(mapper.Default()), classify.Defaults{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ic := httpx.New(cfg)
//	http.ListenAndServe(":8080", ic.Middleware(mux))
package problem
