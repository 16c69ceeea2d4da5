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

package problem

// Provider is implemented by errors that already carry the problem to send.
// The classifier writes such problems unchanged.
type Provider interface {
	error
	Problem() Problem
}

// Throw returns an error carrying p. Handlers use it when they know the exact
// response they want.
func Throw(p Problem) error {
	return &thrown{p: p}
}

// Wrap is like Throw but keeps cause reachable through errors.Unwrap.
func Wrap(p Problem, cause error) error {
	return &thrown{p: p, cause: cause}
}

type thrown struct {
	p     Problem
	cause error
}

func (t *thrown) Error() string {
	if t.cause != nil {
		return "problem: " + t.p.String() + ": " + t.cause.Error()
	}
	return "problem: " + t.p.String()
}

func (t *thrown) Problem() Problem { return t.p }

func (t *thrown) Unwrap() error { return t.cause }
