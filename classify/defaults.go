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

package classify

import (
	"fmt"
	"strings"

	"dirpx.dev/problem"
)

// Defaults are the process-wide presentation settings. The zero value hides
// raw error text, keeps lowercase templates, reports field names as given
// and logs unhandled errors.
type Defaults struct {
	// ExposeErrorDetails sends details derived from error messages. Keep it
	// off in production: error text often carries internals.
	ExposeErrorDetails bool

	// DetailFormat applies to library detail templates.
	DetailFormat DetailFormat

	// FieldNaming applies to violation field names.
	FieldNaming FieldNaming

	// TypeBase, when set, makes kinded problems use TypeBase+kind as type.
	TypeBase string

	// GenericDetail replaces a hidden raw detail. Empty omits it.
	GenericDetail string

	// DisableLogging turns off logging of unhandled errors.
	DisableLogging bool
}

// Validate checks the enumerations and that TypeBase forms valid type URIs.
func (d Defaults) Validate() error {
	if _, err := ParseDetailFormat(string(d.DetailFormat)); err != nil {
		return err
	}
	if _, err := ParseFieldNaming(string(d.FieldNaming)); err != nil {
		return err
	}
	if d.TypeBase != "" {
		if strings.ContainsAny(d.TypeBase, " \t\r\n") {
			return fmt.Errorf("classify: type base %q contains whitespace", d.TypeBase)
		}
		if _, err := problem.New(500, "", problem.WithType(d.TypeBase+"internal")); err != nil {
			return fmt.Errorf("classify: type base %q: %w", d.TypeBase, err)
		}
	}
	return nil
}
