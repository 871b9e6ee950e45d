package queryfacilitydata

import (
	"facility-chat/internal/common/validation"
	"facility-chat/internal/models"
)

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"domain"},
		Properties: map[string]validation.Property{
			"domain": {
				Type:        "string",
				Description: "Data domain chosen by the classifier",
			},
			"timeRange": {
				Type:        []string{"object", "null"},
				Description: "Optional work-order window",
				Properties: map[string]validation.Property{
					"enabled":  {Type: "boolean"},
					"lastDays": {Type: "integer", Minimum: validation.FloatPtr(0), Maximum: validation.FloatPtr(365)},
				},
			},
		},
	}
}

func validDomain(d models.DomainTag) bool {
	return d.Valid()
}
