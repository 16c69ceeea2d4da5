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

// Package kind defines the error categories used to classify errors into
// problem responses.
//
// A kind is short, lowercase and underscore-separated ("invalid",
// "not_found", "permission_denied"). Errors report their kind through
// apis.KindedError; the mapper turns a kind (and an optional reason) into an
// HTTP status and a gRPC code.
//
// The package ships a small catalog of kinds covering the conventional
// problem statuses. Applications may declare their own kinds with MustParse
// and give them a status through mapper options or configuration.
package kind
