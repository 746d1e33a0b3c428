package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AnalysisRecord_Valid(t *testing.T) {
	docs := []string{
		`{"company":"Acme","role":"Engineer","key_skills":["Go","SQL"],"vibe":"speed","target_keywords":["x"]}`,
		`{"company":"Acme","role":"Engineer"}`,
		`{}`,
		`{"company":"Acme","role":"Engineer","extra":true}`,
	}

	for _, doc := range docs {
		assert.NoError(t, Validate(AnalysisRecord, []byte(doc)), doc)
	}
}

func TestValidate_AnalysisRecord_WrongShape(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{name: "skills as string", doc: `{"company":"Acme","key_skills":"Go, SQL"}`, field: "key_skills"},
		{name: "numeric company", doc: `{"company":42}`, field: "company"},
		{name: "non-string skill", doc: `{"key_skills":["Go", 1]}`, field: "key_skills.1"},
		{name: "array root", doc: `["Acme"]`, field: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(AnalysisRecord, []byte(tt.doc))
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, tt.field, validationErr.Errors[0].Field)
		})
	}
}

func TestValidate_NotJSON(t *testing.T) {
	err := Validate(AnalysisRecord, []byte(`{"company": "Acme"`))
	require.Error(t, err)

	var docErr *DocumentError
	assert.True(t, errors.As(err, &docErr))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "missing.schema.json", loadErr.Name)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "company", Message: "Invalid type"},
		{Field: "role", Message: "Invalid type"},
	}}
	assert.Equal(t, "validation failed: 1. company: Invalid type; 2. role: Invalid type", err.Error())
}
