// internal/workers/chat/classify-intent/models.go
package classifyintent

import "facility-chat/internal/models"

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Intent    models.IntentResult `json:"intent"`
	NeedsData bool                `json:"needsData"`
}
