package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"todoapi/shared/failure"
	"todoapi/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	Title       string  `json:"title"       validate:"required,notblank"`
	Description *string `json:"description" validate:"omitempty,notblank"`
	Priority    int     `json:"priority"    validate:"gte=0,lte=5"`
}

func TestValidateStruct(t *testing.T) {
	blank := "   "
	description := "write tests"

	tests := []struct {
		name        string
		data        createRequest
		expectError bool
		fields      []string
	}{
		{
			name:        "valid struct",
			data:        createRequest{Title: "First Todo", Description: &description, Priority: 1},
			expectError: false,
		},
		{
			name:        "missing title",
			data:        createRequest{Priority: 1},
			expectError: true,
			fields:      []string{"title"},
		},
		{
			name:        "blank title",
			data:        createRequest{Title: "  \t"},
			expectError: true,
			fields:      []string{"title"},
		},
		{
			name:        "blank description pointer",
			data:        createRequest{Title: "ok", Description: &blank},
			expectError: true,
			fields:      []string{"description"},
		},
		{
			name:        "several fields",
			data:        createRequest{Priority: 9},
			expectError: true,
			fields:      []string{"title", "priority"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

			fields := failure.GetFields(err)
			names := make([]string, len(fields))
			for i, field := range fields {
				names[i] = field.Field
			}

			assert.ElementsMatch(t, tt.fields, names)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
		message     string
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"title":"New Todo","priority":2}`,
			expectError: false,
		},
		{
			name:        "missing title",
			jsonBody:    `{"description":"no title"}`,
			expectError: true,
			message:     "title is required",
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"title":}`,
			expectError: true,
			message:     "failed to decode request body",
		},
		{
			name:        "empty body decodes as empty object",
			jsonBody:    ``,
			expectError: true,
			message:     "title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data createRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestResult(t *testing.T) {
	res := validator.Result{}
	assert.True(t, res.Valid())
	assert.NoError(t, res.Err())

	res.RequireString("title", " ")
	res.RequireString("name", "report.pdf")
	res.RequireNonNegative("size", -1)
	res.RequireNonNegative("size", 0)

	assert.False(t, res.Valid())
	require.Len(t, res.Fields, 2)
	assert.Equal(t, "title", res.Fields[0].Field)
	assert.Equal(t, "required", res.Fields[0].Rule)
	assert.Equal(t, "size", res.Fields[1].Field)
	assert.Equal(t, "gte", res.Fields[1].Rule)

	err := res.Err()
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Equal(t, "title is required; size must be greater than or equal to 0", err.Error())
}
