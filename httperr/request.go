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

package httperr

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
)

// CheckMethod returns a *MethodNotAllowedError unless r uses one of allowed.
func CheckMethod(r *http.Request, allowed ...string) error {
	allowed = normalizeMethods(allowed)
	if slices.Contains(allowed, r.Method) {
		return nil
	}
	return &MethodNotAllowedError{Method: r.Method, Allowed: allowed}
}

// Query returns a required query parameter.
func Query(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", &MissingParameterError{Name: name, In: InQuery, Type: "string"}
	}
	return v, nil
}

// QueryInt returns a required integer query parameter.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &MissingParameterError{Name: name, In: InQuery, Type: "int"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &TypeMismatchError{Param: name, Type: "int", Value: raw, Err: err}
	}
	return n, nil
}

// Path returns a required path value from the Go 1.22 mux pattern.
func Path(r *http.Request, name string) (string, error) {
	v := r.PathValue(name)
	if v == "" {
		return "", &MissingParameterError{Name: name, In: InPath}
	}
	return v, nil
}

// DecodeJSON reads a JSON body into v. It checks the media type and maps
// decoding failures to the errors of this package; *http.MaxBytesError is
// returned unchanged.
func DecodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || (mt != "application/json" && mt != "application/problem+json") {
			return &UnsupportedMediaTypeError{ContentType: ct, Supported: []string{"application/json"}}
		}
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return BodyError(dec.Decode(v))
}

// BodyError translates a failure to decode or bind a request body into the
// errors of this package. Errors already of this package and
// *http.MaxBytesError are returned unchanged, nil stays nil.
//
// Only errors known to come from request input may be passed here: the
// classify rules treat the results as client errors.
func BodyError(err error) error {
	if err == nil {
		return nil
	}
	var (
		maxErr   *http.MaxBytesError
		mismatch *TypeMismatchError
		body     *UnreadableBodyError
		media    *UnsupportedMediaTypeError
		typeErr  *json.UnmarshalTypeError
		numErr   *strconv.NumError
	)
	switch {
	case errors.As(err, &maxErr), errors.As(err, &mismatch), errors.As(err, &body), errors.As(err, &media):
		return err
	case errors.As(err, &typeErr):
		typ := ""
		if typeErr.Type != nil {
			typ = typeErr.Type.String()
		}
		return &TypeMismatchError{Param: typeErr.Field, Type: typ, Value: typeErr.Value, Err: err}
	case errors.As(err, &numErr):
		return &TypeMismatchError{Type: numType(numErr.Func), Value: numErr.Num, Err: err}
	case errors.Is(err, io.EOF):
		return &UnreadableBodyError{Err: errors.New("empty body")}
	default:
		return &UnreadableBodyError{Err: err}
	}
}

// numType names the target type of a strconv parse function.
func numType(fn string) string {
	switch fn {
	case "Atoi", "ParseInt":
		return "int"
	case "ParseUint":
		return "uint"
	case "ParseFloat":
		return "float"
	case "ParseBool":
		return "bool"
	default:
		return ""
	}
}
