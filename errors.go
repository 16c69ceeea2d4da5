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

import (
	"errors"
	"fmt"
)

// ErrInvalidProblem is matched by every error New returns.
var ErrInvalidProblem = errors.New("problem: invalid problem")

// InvalidProblemError names the member that failed validation.
type InvalidProblemError struct {
	Field string
	Value any
}

func (e *InvalidProblemError) Error() string {
	return fmt.Sprintf("problem: invalid %s %v", e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidProblem) hold.
func (e *InvalidProblemError) Is(target error) bool {
	return target == ErrInvalidProblem
}
