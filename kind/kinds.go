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

package kind

// Client input.
const (
	// Invalid: the request payload or parameters failed validation.
	// Default HTTP mapping: 400.
	Invalid Kind = "invalid"

	// Missing: a required value was not supplied.
	// Default HTTP mapping: 400.
	Missing Kind = "missing"

	// Unsupported: a known but unsupported option, format or operation.
	// Default HTTP mapping: 400.
	Unsupported Kind = "unsupported"

	// TooLarge: the payload exceeds a configured size limit.
	// Default HTTP mapping: 413.
	TooLarge Kind = "too_large"
)

// Authentication and authorization.
const (
	// Unauthenticated: no usable credentials were presented.
	// Default HTTP mapping: 401.
	Unauthenticated Kind = "unauthenticated"

	// PermissionDenied: the caller is known but not allowed to do this.
	// Default HTTP mapping: 403.
	PermissionDenied Kind = "permission_denied"
)

// Resource state.
const (
	// NotFound: the target resource does not exist or is not visible.
	// Default HTTP mapping: 404.
	NotFound Kind = "not_found"

	// Gone: the resource existed but was removed permanently.
	// Default HTTP mapping: 410.
	Gone Kind = "gone"

	// Conflict: the request conflicts with the current resource state.
	// Default HTTP mapping: 409.
	Conflict Kind = "conflict"

	// AlreadyExists: a create collided with an existing identity.
	// Default HTTP mapping: 409.
	AlreadyExists Kind = "already_exists"

	// PreconditionFailed: an If-Match style precondition did not hold.
	// Default HTTP mapping: 412.
	PreconditionFailed Kind = "precondition_failed"
)

// Limits.
const (
	// RateLimited: the caller exceeded a request rate or quota.
	// Default HTTP mapping: 429.
	RateLimited Kind = "rate_limited"
)

// Server side.
const (
	// Internal: an unexpected failure. Never exposes details by itself.
	// Default HTTP mapping: 500.
	Internal Kind = "internal"

	// NotImplemented: the operation exists in the API but not in this server.
	// Default HTTP mapping: 501.
	NotImplemented Kind = "not_implemented"

	// DependencyFailed: an upstream call failed in a way visible to the client.
	// Default HTTP mapping: 502.
	DependencyFailed Kind = "dependency_failed"

	// Unavailable: the service or a required dependency is temporarily down.
	// Default HTTP mapping: 503.
	Unavailable Kind = "unavailable"

	// Timeout: the operation ran out of its time budget.
	// Default HTTP mapping: 504.
	Timeout Kind = "timeout"

	// Canceled: the caller went away before the operation finished.
	// Default HTTP mapping: 499 is common but non-standard; 408 is used.
	Canceled Kind = "canceled"
)

// Known lists every kind declared by this package, in declaration order.
func Known() []Kind {
	return []Kind{
		Invalid, Missing, Unsupported, TooLarge,
		Unauthenticated, PermissionDenied,
		NotFound, Gone, Conflict, AlreadyExists, PreconditionFailed,
		RateLimited,
		Internal, NotImplemented, DependencyFailed, Unavailable, Timeout, Canceled,
	}
}

// IsKnown reports whether k is one of the kinds declared by this package.
func IsKnown(k Kind) bool {
	for _, known := range Known() {
		if k == known {
			return true
		}
	}
	return false
}
