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
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"dirpx.dev/problem"
	"dirpx.dev/problem/apis"
	"dirpx.dev/problem/httperr"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/mapper"
	"dirpx.dev/problem/reason"
	"github.com/go-playground/validator/v10"
)

// Names of the built-in rules, in evaluation order.
const (
	RuleProblem              = "problem"
	RuleStatus               = "status"
	RuleMaxBytes             = "max-bytes"
	RuleMethodNotAllowed     = "method-not-allowed"
	RuleUnsupportedMediaType = "unsupported-media-type"
	RuleNotAcceptable        = "not-acceptable"
	RuleMissingParameter     = "missing-parameter"
	RuleNoRoute              = "no-route"
	RuleValidation           = "validation"
	RuleTypeMismatch         = "type-mismatch"
	RuleUnreadableBody       = "unreadable-body"
	RuleContext              = "context"
	RuleKinded               = "kinded"
)

// DefaultRules returns the built-in rule table, catch-all last. Kinded and
// context errors get their status from m; nil means mapper.Default().
//
// Rules are ordered from the most specific capability to the least: an error
// that carries a whole problem is sent as is, an error that knows its status
// keeps it, protocol errors from httperr and net/http come next, then
// validation, then anything that reports a kind.
func DefaultRules(m apis.Mapper) []Rule {
	if m == nil {
		m = mapper.Default()
	}
	return []Rule{
		problemRule(),
		statusRule(),
		maxBytesRule(),
		methodNotAllowedRule(),
		unsupportedMediaTypeRule(),
		notAcceptableRule(),
		missingParameterRule(),
		noRouteRule(),
		validationRule(),
		typeMismatchRule(),
		unreadableBodyRule(),
		contextRule(m),
		kindedRule(m),
		CatchAll(),
	}
}

func problemRule() Rule {
	return Rule{
		Name:   RuleProblem,
		Match:  As[problem.Provider](),
		Status: http.StatusInternalServerError,
		Extract: func(err error, _ Request) Extraction {
			var pv problem.Provider
			errors.As(err, &pv)
			p := pv.Problem()
			if p.IsZero() {
				// A zero problem cannot be sent; let the template stand.
				return Extraction{}
			}
			return Extraction{Problem: &p}
		},
	}
}

func statusRule() Rule {
	return Rule{
		Name:   RuleStatus,
		Match:  As[apis.StatusError](),
		Status: http.StatusInternalServerError,
		Extract: func(err error, _ Request) Extraction {
			var se apis.StatusError
			errors.As(err, &se)
			return Extraction{
				Status:     se.HTTPStatus(),
				Detail:     messageOf(se),
				RawDetail:  true,
				Extensions: extensionsOf(se),
			}
		},
	}
}

func maxBytesRule() Rule {
	return Rule{
		Name:   RuleMaxBytes,
		Match:  As[*http.MaxBytesError](),
		Status: http.StatusRequestEntityTooLarge,
		Extract: func(err error, _ Request) Extraction {
			var mbe *http.MaxBytesError
			errors.As(err, &mbe)
			return Extraction{
				Detail:     "max upload size exceeded",
				Extensions: map[string]any{"maxUploadSize": mbe.Limit},
			}
		},
	}
}

func methodNotAllowedRule() Rule {
	return Rule{
		Name:   RuleMethodNotAllowed,
		Match:  As[*httperr.MethodNotAllowedError](),
		Status: http.StatusMethodNotAllowed,
		Extract: func(err error, req Request) Extraction {
			var e *httperr.MethodNotAllowedError
			errors.As(err, &e)
			method := e.Method
			if method == "" {
				method = req.Method
			}
			ex := Extraction{Detail: fmt.Sprintf("method %s not supported", method)}
			if len(e.Allowed) > 0 {
				ex.Extensions = map[string]any{"supportedMethods": slices.Clone(e.Allowed)}
			}
			return ex
		},
	}
}

func unsupportedMediaTypeRule() Rule {
	return Rule{
		Name:   RuleUnsupportedMediaType,
		Match:  As[*httperr.UnsupportedMediaTypeError](),
		Status: http.StatusUnsupportedMediaType,
		Extract: func(err error, req Request) Extraction {
			var e *httperr.UnsupportedMediaTypeError
			errors.As(err, &e)
			ct := e.ContentType
			if ct == "" && req.Header != nil {
				ct = req.Header.Get("Content-Type")
			}
			ex := Extraction{Detail: fmt.Sprintf("media type %s not supported", ct)}
			if len(e.Supported) > 0 {
				ex.Extensions = map[string]any{"supportedMediaTypes": slices.Clone(e.Supported)}
			}
			return ex
		},
	}
}

func notAcceptableRule() Rule {
	return Rule{
		Name:   RuleNotAcceptable,
		Match:  As[*httperr.NotAcceptableError](),
		Status: http.StatusNotAcceptable,
		Extract: func(err error, _ Request) Extraction {
			var e *httperr.NotAcceptableError
			errors.As(err, &e)
			if len(e.Supported) == 0 {
				return Extraction{}
			}
			return Extraction{Extensions: map[string]any{"supportedMediaTypes": slices.Clone(e.Supported)}}
		},
	}
}

func missingParameterRule() Rule {
	return Rule{
		Name:   RuleMissingParameter,
		Match:  As[*httperr.MissingParameterError](),
		Status: http.StatusBadRequest,
		Extract: func(err error, _ Request) Extraction {
			var e *httperr.MissingParameterError
			errors.As(err, &e)
			ext := map[string]any{}
			var detail string
			switch e.In {
			case httperr.InPath:
				detail = fmt.Sprintf("missing %s path variable", e.Name)
				ext["name"] = e.Name
			case httperr.InHeader:
				detail = fmt.Sprintf("missing %s header", e.Name)
				ext["name"] = e.Name
			case httperr.InPart:
				detail = fmt.Sprintf("missing %s request part", e.Name)
				ext["param"] = e.Name
			default:
				detail = fmt.Sprintf("missing %s request param", e.Name)
				if e.Type != "" {
					detail += " of type " + strings.ToLower(e.Type)
				}
				ext["param"] = e.Name
			}
			if e.Type != "" {
				ext["type"] = strings.ToLower(e.Type)
			}
			return Extraction{Detail: detail, Extensions: ext}
		},
	}
}

func noRouteRule() Rule {
	return Rule{
		Name:   RuleNoRoute,
		Match:  As[*httperr.NoRouteError](),
		Status: http.StatusNotFound,
	}
}

// validationRule covers go-playground/validator results and errors with a
// non-empty violation list.
func validationRule() Rule {
	return Rule{
		Name: RuleValidation,
		Match: func(err error) bool {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) && len(ve) > 0 {
				return true
			}
			var vs apis.ViolationsError
			if !errors.As(err, &vs) || len(vs.ErrorViolations()) == 0 {
				return false
			}
			// Kinded errors of another kind keep their own status.
			k, kinded := kindOf(err)
			return !kinded || k == kind.Invalid
		},
		Status: http.StatusBadRequest,
		Extract: func(err error, _ Request) Extraction {
			ex := Extraction{Detail: "validation failed", Kind: kind.Invalid}
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				ex.Violations = violationsOf(ve)
				return ex
			}
			var vs apis.ViolationsError
			errors.As(err, &vs)
			ex.Violations = vs.ErrorViolations()
			ex.Extensions = extensionsOf(vs)
			if r := reasonOf(vs); r != reason.Empty {
				ex.Extensions = withReason(ex.Extensions, r)
			}
			return ex
		},
	}
}

// typeMismatchRule and unreadableBodyRule only match the httperr types.
// Raw decode errors from encoding/json or strconv may come from the server's
// own data, so they stay unclassified; request input is translated with
// httperr.BodyError first.
func typeMismatchRule() Rule {
	return Rule{
		Name:   RuleTypeMismatch,
		Match:  As[*httperr.TypeMismatchError](),
		Status: http.StatusBadRequest,
		Extract: func(err error, _ Request) Extraction {
			var tm *httperr.TypeMismatchError
			errors.As(err, &tm)
			ext := map[string]any{}
			putNonEmpty(ext, "param", tm.Param)
			putNonEmpty(ext, "type", strings.ToLower(tm.Type))
			return Extraction{Detail: "type mismatch", Extensions: ext}
		},
	}
}

func unreadableBodyRule() Rule {
	return Rule{
		Name:   RuleUnreadableBody,
		Match:  As[*httperr.UnreadableBodyError](),
		Status: http.StatusBadRequest,
	}
}

func contextRule(m apis.Mapper) Rule {
	return Rule{
		Name: RuleContext,
		Match: func(err error) bool {
			return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
		},
		Status: http.StatusGatewayTimeout,
		Extract: func(err error, _ Request) Extraction {
			k := kind.Timeout
			if errors.Is(err, context.Canceled) {
				k = kind.Canceled
			}
			return Extraction{Status: m.HTTPStatus(k, reason.Empty), Kind: k}
		},
	}
}

// kindedRule resolves apis.KindedError through the mapper. Errors with an
// empty or malformed kind fall through to the catch-all.
func kindedRule(m apis.Mapper) Rule {
	return Rule{
		Name: RuleKinded,
		Match: func(err error) bool {
			_, ok := kindOf(err)
			return ok
		},
		Status: http.StatusInternalServerError,
		Extract: func(err error, _ Request) Extraction {
			var ke apis.KindedError
			errors.As(err, &ke)
			k, _ := kindOf(err)
			r := reasonOf(ke)

			ex := Extraction{
				Status:     m.HTTPStatus(k, r),
				Detail:     messageOf(ke),
				RawDetail:  true,
				Kind:       k,
				Extensions: extensionsOf(ke),
			}
			if r != reason.Empty {
				ex.Extensions = withReason(ex.Extensions, r)
			}
			var vs apis.ViolationsError
			if errors.As(ke, &vs) {
				ex.Violations = vs.ErrorViolations()
			}
			return ex
		},
	}
}

func kindOf(err error) (kind.Kind, bool) {
	var ke apis.KindedError
	if !errors.As(err, &ke) {
		return kind.Empty, false
	}
	k, perr := kind.Parse(ke.ErrorKind())
	return k, perr == nil
}

// reasonOf reads the reason of err itself or of its chain. Malformed
// reasons are ignored.
func reasonOf(err error) reason.Reason {
	var re apis.ReasonedError
	if !errors.As(err, &re) {
		return reason.Empty
	}
	r, perr := reason.Parse(re.ErrorReason())
	if perr != nil {
		return reason.Empty
	}
	return r
}

func messageOf(err error) string {
	var me apis.MessagedError
	if errors.As(err, &me) {
		return me.ErrorMessage()
	}
	return err.Error()
}

func extensionsOf(err error) map[string]any {
	var ee apis.ExtendedError
	if !errors.As(err, &ee) {
		return nil
	}
	return ee.ErrorExtensions()
}

func withReason(ext map[string]any, r reason.Reason) map[string]any {
	if ext == nil {
		ext = make(map[string]any, 1)
	}
	ext["reason"] = r.String()
	return ext
}

func violationsOf(ve validator.ValidationErrors) []problem.Violation {
	out := make([]problem.Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, problem.Violation{Field: fieldPath(fe), Message: constraintMessage(fe)})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so
// "Order.Items[0].Qty" becomes "Items[0].Qty".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "lt":
		return "must be < " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed on %s=%s", fe.Tag(), fe.Param())
		}
		return "failed on " + fe.Tag()
	}
}

func putNonEmpty(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}
