package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageSchema = JSONSchema{
	Type:     "object",
	Required: []string{"message"},
	Properties: map[string]Property{
		"message":   {Type: "string", MinLength: IntPtr(1), MaxLength: IntPtr(10)},
		"sessionId": {Type: "string", Pattern: "^s-"},
		"lastDays":  {Type: "integer", Minimum: FloatPtr(1), Maximum: FloatPtr(365)},
		"domain":    {Type: "string", Enum: []string{"assets", "locations"}},
		"tags":      {Type: "array", Items: &Property{Type: "string"}},
		"chart":     {Type: []string{"boolean", "null"}},
	},
}

// ==========================
// Validation
// ==========================

func TestValidator_Validate(t *testing.T) {
	v := MustCompile(messageSchema)

	tests := []struct {
		name      string
		payload   string
		wantValid bool
		wantField string
		wantCode  string
	}{
		{"minimal", `{"message":"hi"}`, true, "", ""},
		{"extra variables allowed", `{"message":"hi","processVar":1}`, true, "", ""},
		{"nullable", `{"message":"hi","chart":null}`, true, "", ""},
		{"missing required", `{}`, false, "message", "REQUIRED_FIELD_MISSING"},
		{"wrong type", `{"message":5}`, false, "message", "INVALID_TYPE"},
		{"too short", `{"message":""}`, false, "message", "MIN_LENGTH_VIOLATION"},
		{"too long", `{"message":"hello world!"}`, false, "message", "MAX_LENGTH_VIOLATION"},
		{"pattern", `{"message":"hi","sessionId":"x-1"}`, false, "sessionId", "PATTERN_MISMATCH"},
		{"below minimum", `{"message":"hi","lastDays":0}`, false, "lastDays", "MINIMUM_VIOLATION"},
		{"above maximum", `{"message":"hi","lastDays":400}`, false, "lastDays", "MAXIMUM_VIOLATION"},
		{"enum", `{"message":"hi","domain":"invoices"}`, false, "domain", "INVALID_ENUM_VALUE"},
		{"array items", `{"message":"hi","tags":["a",1]}`, false, "tags.1", "INVALID_TYPE"},
		{"not json", `{"message":`, false, "(root)", "INVALID_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate([]byte(tt.payload))
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.True(t, result.HasErrors(tt.wantField), "errors: %v", result.GetErrorMessages())
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
		})
	}
}

func TestValidationResult_Messages(t *testing.T) {
	result := MustCompile(messageSchema).Validate([]byte(`{"message":5,"domain":"x"}`))
	require.False(t, result.Valid)
	assert.Len(t, result.GetErrorMessages(), 2)
	assert.Contains(t, result.Error(), "message: ")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(JSONSchema{Type: "object", Properties: map[string]Property{"x": {Type: "bogus"}}})
	assert.Error(t, err)
}
