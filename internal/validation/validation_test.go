package validation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestValidate_EmptyRequiredTitle(t *testing.T) {
	v := New(Body("title").NotEmpty().WithMessage("title must not be empty"))

	out := v.Attempt(jsonRequest(`{"title": ""}`))
	require.True(t, out.Rejected())

	var appErr *apperror.Error
	require.ErrorAs(t, out.Err(), &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	violations, ok := appErr.Data.(Violations)
	require.True(t, ok)
	require.Len(t, violations.Errors, 1)
	assert.Equal(t, "title", violations.Errors[0].Field)
	assert.Equal(t, "title must not be empty", violations.Errors[0].Message)
	assert.Equal(t, "", violations.Errors[0].Value)
}

func TestValidate_AggregatesAllFields(t *testing.T) {
	v := New(
		Body("username").NotEmpty().Length(3, 20).Matches(regexp.MustCompile(`^[a-zA-Z0-9_]+$`)),
		Body("password").NotEmpty().Length(6, 50),
		Body("status").Optional().IsIn("unfinished", "finished"),
	)

	errs, err := v.Validate(jsonRequest(`{"username": "a!", "status": "done"}`))
	require.NoError(t, err)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"username", "password", "status"}, fields)
	assert.Equal(t, "username must be between 3 and 20 characters", errs[0].Message)
	assert.Equal(t, "password must not be empty", errs[1].Message)
	assert.Nil(t, errs[1].Value)
}

func TestValidate_OptionalAbsentFieldIsSkipped(t *testing.T) {
	v := New(
		Body("description").Optional().IsString(),
		Body("tasksId").Optional().IsArray(),
		Body("targetAt").Optional().IsISO8601(),
	)

	errs, err := v.Validate(jsonRequest(`{"description": null}`))
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidate_Checks(t *testing.T) {
	cases := []struct {
		name  string
		rule  *Rule
		body  string
		valid bool
	}{
		{"string ok", Body("f").IsString(), `{"f":"x"}`, true},
		{"string bad", Body("f").IsString(), `{"f":1}`, false},
		{"array ok", Body("f").IsArray(), `{"f":[1,"a"]}`, true},
		{"array bad", Body("f").IsArray(), `{"f":"a"}`, false},
		{"int ok", Body("f").IsInt().Min(1), `{"f":3}`, true},
		{"int float", Body("f").IsInt(), `{"f":3.5}`, false},
		{"int below min", Body("f").IsInt().Min(1), `{"f":0}`, false},
		{"int min ok", Body("f").IsIntMin(1), `{"f":"12"}`, true},
		{"int min not a number", Body("f").IsIntMin(1), `{"f":"abc"}`, false},
		{"int min zero", Body("f").IsIntMin(1), `{"f":0}`, false},
		{"int above max", Body("f").IsInt().Max(100), `{"f":101}`, false},
		{"in ok", Body("f").IsIn("#FFFFFF", "#E0F2F1"), `{"f":"#E0F2F1"}`, true},
		{"in bad", Body("f").IsIn("#FFFFFF"), `{"f":"#000000"}`, false},
		{"iso date", Body("f").IsISO8601(), `{"f":"2022-03-21"}`, true},
		{"iso datetime", Body("f").IsISO8601(), `{"f":"2022-03-21T10:00:00Z"}`, true},
		{"iso bad", Body("f").IsISO8601(), `{"f":"21/03/2022"}`, false},
		{"not empty array", Body("f").NotEmpty(), `{"f":[]}`, false},
		{"missing required", Body("f").IsString(), `{}`, false},
		{"unicode length", Body("f").Length(1, 3), `{"f":"里程碑"}`, true},
		{"bytes ok", Body("f").MaxBytes(6), `{"f":"里程"}`, true},
		{"bytes over", Body("f").MaxBytes(6), `{"f":"里程碑"}`, false},
		{"custom", Body("f").Custom(func(v any) bool { return v == "admin" }, "f must be admin"), `{"f":"user"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs, err := New(tc.rule).Validate(jsonRequest(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.valid, len(errs) == 0, "errors: %v", errs)
		})
	}
}

func TestValidate_PathAndQuery(t *testing.T) {
	v := New(
		Path("id").IsIntMin(1).WithMessage("id must be a positive integer"),
		Query("page").Optional().IsInt().Min(1),
		Query("limit").Optional().IsInt().Min(1).Max(100),
	)

	t.Run("valid", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/?page=2&limit=10", nil), "id", "7")
		errs, err := v.Validate(req)
		require.NoError(t, err)
		assert.Empty(t, errs)
	})

	t.Run("invalid", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/?page=0&limit=500", nil), "id", "abc")
		errs, err := v.Validate(req)
		require.NoError(t, err)
		require.Len(t, errs, 3)
		assert.Equal(t, "id must be a positive integer", errs[0].Message)
		assert.Equal(t, "abc", errs[0].Value)
		assert.Equal(t, "page", errs[1].Field)
		assert.Equal(t, "limit", errs[2].Field)
	})

	t.Run("zero id uses the same message", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "0")
		errs, err := v.Validate(req)
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "id must be a positive integer", errs[0].Message)
	})
}

func TestValidate_MalformedBody(t *testing.T) {
	v := New(Body("title").NotEmpty())

	for _, body := range []string{`{"title":`, `["title"]`, `{"a":1} {"b":2}`} {
		out := v.Attempt(jsonRequest(body))
		require.True(t, out.Rejected(), body)
		var appErr *apperror.Error
		require.ErrorAs(t, out.Err(), &appErr)
		assert.Equal(t, "malformed request body", appErr.Message)
	}
}

func TestValidate_BodyIsRestored(t *testing.T) {
	v := New(Body("title").NotEmpty())
	req := jsonRequest(`{"title":"written"}`)

	out := v.Attempt(req)
	require.False(t, out.Rejected())

	raw, err := io.ReadAll(out.Request().Body)
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "written", got["title"])
}

func TestValidate_ViolationEnvelopeShape(t *testing.T) {
	data, err := json.Marshal(Violations{Errors: []FieldError{{Field: "title", Message: "title must not be empty", Value: ""}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[{"field":"title","message":"title must not be empty","value":""}]}`, string(data))
}
