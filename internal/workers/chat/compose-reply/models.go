// internal/workers/chat/compose-reply/models.go
package composereply

import "facility-chat/internal/models"

type Input struct {
	Intent        models.IntentResult `json:"intent"`
	Data          *models.DomainData  `json:"data,omitempty"`
	DataAvailable bool                `json:"dataAvailable"`
	FetchError    string              `json:"fetchError,omitempty"`
}

// Output always carries a reply. HasReply is false when the composer had
// nothing to say about the data; the reply is then the connect prompt.
type Output struct {
	Reply              *models.ComposedReply `json:"reply"`
	HTML               string                `json:"html"`
	HasReply           bool                  `json:"hasReply"`
	RequestCredentials bool                  `json:"requestCredentials"`
}
