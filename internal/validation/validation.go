// Package validation evaluates declarative per-route field rules before a
// request reaches authentication and the business handler. All violations
// are collected so a client can fix every problem in one round trip.
//
// Each field reports at most one violation: its checks stop at the first
// failure. Callers that expect every failed check of a field listed
// separately must declare separate rules.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/isdelr/taskboard-be/internal/pipeline"
)

const maxBodyBytes = 1 << 20

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

// Violations is the data attached to an aggregated validation failure.
type Violations struct {
	Errors []FieldError `json:"errors"`
}

var errMalformedBody = apperror.BadRequest("malformed request body", nil)

// Validator holds the rules of one route.
type Validator struct {
	rules    []*Rule
	readBody bool
}

// New creates a validator for the given rules.
func New(rules ...*Rule) *Validator {
	v := &Validator{rules: rules}
	for _, r := range rules {
		if r.source == SourceBody {
			v.readBody = true
		}
	}
	return v
}

// Attempt implements pipeline.Stage.
func (v *Validator) Attempt(r *http.Request) pipeline.Outcome {
	errs, err := v.Validate(r)
	if err != nil {
		return pipeline.Reject(err)
	}
	if len(errs) > 0 {
		return pipeline.Reject(apperror.BadRequest("request validation failed", Violations{Errors: errs}))
	}
	return pipeline.Continue(r)
}

// Validate evaluates every rule against r and returns the violations in
// declaration order. The request body is buffered and restored so later
// handlers can decode it again. A body that is not a JSON object is reported
// as an error rather than as violations.
func (v *Validator) Validate(r *http.Request) ([]FieldError, error) {
	var body map[string]any
	if v.readBody {
		var err error
		if body, err = readBody(r); err != nil {
			return nil, err
		}
	}

	var query map[string][]string
	var errs []FieldError
	for _, rule := range v.rules {
		var value any
		var present bool

		switch rule.source {
		case SourceBody:
			value, present = body[rule.field]
			present = present && value != nil
		case SourcePath:
			if s := chi.URLParam(r, rule.field); s != "" {
				value, present = s, true
			}
		case SourceQuery:
			if query == nil {
				query = r.URL.Query()
			}
			if vals, ok := query[rule.field]; ok && len(vals) > 0 {
				value, present = vals[0], true
			}
		}

		if !present {
			if rule.optional {
				continue
			}
			value = nil
		}

		for _, c := range rule.checks {
			if !c.ok(value) {
				errs = append(errs, FieldError{Field: rule.field, Message: c.message, Value: value})
				break
			}
		}
	}
	return errs, nil
}

func readBody(r *http.Request) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	r.Body.Close()
	if err != nil {
		return nil, apperror.BadRequest("could not read request body", nil)
	}
	if len(buf) > maxBodyBytes {
		return nil, &apperror.Error{Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
	}
	r.Body = io.NopCloser(bytes.NewReader(buf))

	if len(bytes.TrimSpace(buf)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, errMalformedBody
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errMalformedBody
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}
