package composereply

import "facility-chat/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"intent"},
		Properties: map[string]validation.Property{
			"intent": {
				Type:        "object",
				Description: "Classifier verdict",
				Required:    []string{"intent"},
				Properties: map[string]validation.Property{
					"intent": {Type: "string"},
					"domain": {Type: "string"},
				},
			},
			"data":          {Type: []string{"object", "null"}},
			"dataAvailable": {Type: "boolean"},
			"fetchError":    {Type: "string"},
		},
	}
}
