package handlechatmessage

import "facility-chat/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"sessionId", "message"},
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:        "string",
				Description: "Chat session the message belongs to",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(100),
			},
			"message": {
				Type:        "string",
				Description: "Raw user message",
				MaxLength:   validation.IntPtr(4000),
			},
			"connected": {
				Type:        "boolean",
				Description: "Whether the session holds accepted credentials",
			},
		},
	}
}
