package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Source names where a field is read from.
type Source int

const (
	SourceBody Source = iota
	SourcePath
	SourceQuery
)

func (s Source) String() string {
	return []string{"body", "path", "query"}[s]
}

type check struct {
	ok      func(v any) bool
	message string
}

// Rule declares the constraints of a single input field. Checks run in the
// order they were added and stop at the first failure.
type Rule struct {
	source   Source
	field    string
	optional bool
	checks   []check
}

// Body declares a rule for a top-level JSON body field.
func Body(field string) *Rule { return &Rule{source: SourceBody, field: field} }

// Path declares a rule for a chi URL parameter.
func Path(field string) *Rule { return &Rule{source: SourcePath, field: field} }

// Query declares a rule for a query string parameter.
func Query(field string) *Rule { return &Rule{source: SourceQuery, field: field} }

// Field returns the field name.
func (r *Rule) Field() string { return r.field }

// Optional skips every check when the field is absent.
func (r *Rule) Optional() *Rule {
	r.optional = true
	return r
}

// WithMessage replaces the message of the most recently added check.
func (r *Rule) WithMessage(message string) *Rule {
	if n := len(r.checks); n > 0 {
		r.checks[n-1].message = message
	}
	return r
}

func (r *Rule) add(ok func(any) bool, format string, args ...any) *Rule {
	r.checks = append(r.checks, check{ok: ok, message: r.field + " " + fmt.Sprintf(format, args...)})
	return r
}

// Custom adds an arbitrary check.
func (r *Rule) Custom(ok func(v any) bool, message string) *Rule {
	r.checks = append(r.checks, check{ok: ok, message: message})
	return r
}

// NotEmpty requires the field to be present and, for strings and arrays,
// non-empty.
func (r *Rule) NotEmpty() *Rule {
	return r.add(func(v any) bool {
		switch x := v.(type) {
		case nil:
			return false
		case string:
			return x != ""
		case []any:
			return len(x) > 0
		}
		return true
	}, "must not be empty")
}

func (r *Rule) IsString() *Rule {
	return r.add(func(v any) bool {
		_, ok := v.(string)
		return ok
	}, "must be a string")
}

func (r *Rule) IsArray() *Rule {
	return r.add(func(v any) bool {
		_, ok := v.([]any)
		return ok
	}, "must be an array")
}

// IsInt accepts JSON integers and strings holding a base-10 integer.
func (r *Rule) IsInt() *Rule {
	return r.add(func(v any) bool {
		_, ok := toInt(v)
		return ok
	}, "must be an integer")
}

// IsIntMin requires an integer >= min in a single check, so one message
// covers both the type and the bound.
func (r *Rule) IsIntMin(min int64) *Rule {
	return r.add(func(v any) bool {
		n, ok := toInt(v)
		return ok && n >= min
	}, "must be an integer of at least %d", min)
}

// Min requires a numeric value >= min.
func (r *Rule) Min(min float64) *Rule {
	return r.add(func(v any) bool {
		n, ok := toFloat(v)
		return ok && n >= min
	}, "must be at least %s", formatNum(min))
}

// Max requires a numeric value <= max.
func (r *Rule) Max(max float64) *Rule {
	return r.add(func(v any) bool {
		n, ok := toFloat(v)
		return ok && n <= max
	}, "must be at most %s", formatNum(max))
}

// Length bounds the rune count of a string. A max of zero means unbounded.
func (r *Rule) Length(min, max int) *Rule {
	msg := fmt.Sprintf("must be at least %d characters", min)
	if max > 0 {
		msg = fmt.Sprintf("must be between %d and %d characters", min, max)
	}
	return r.add(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		n := utf8.RuneCountInString(s)
		return n >= min && (max <= 0 || n <= max)
	}, "%s", msg)
}

// MaxBytes bounds the byte length of a string.
func (r *Rule) MaxBytes(n int) *Rule {
	return r.add(func(v any) bool {
		s, ok := v.(string)
		return ok && len(s) <= n
	}, "must be at most %d bytes", n)
}

// IsIn requires a string equal to one of values.
func (r *Rule) IsIn(values ...string) *Rule {
	return r.add(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, allowed := range values {
			if s == allowed {
				return true
			}
		}
		return false
	}, "must be one of [%s]", strings.Join(values, ", "))
}

// Matches requires a string matching re.
func (r *Rule) Matches(re *regexp.Regexp) *Rule {
	return r.add(func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}, "must match %s", re.String())
}

var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// IsISO8601 requires a date or date-time string.
func (r *Rule) IsISO8601() *Rule {
	return r.add(func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, layout := range isoLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return true
			}
		}
		return false
	}, "must be an ISO 8601 date")
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(x, 64)
		return n, err == nil
	}
	return 0, false
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
