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

// Package reason defines the optional refinement attached to a kinded error.
//
// A kind picks the broad HTTP status; a reason such as "order.payment.declined"
// pins down which rule failed. Clients see it in the "reason" member of the
// problem body, and operators can remap whole reason subtrees to other
// statuses through mapper prefix rules without touching the code that raises
// the error.
package reason
