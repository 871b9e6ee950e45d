// internal/workers/chat/handle-chat-message/models.go
package handlechatmessage

import "facility-chat/internal/chat/orchestrator"

type Input struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Connected bool   `json:"connected"`
}

type Output = orchestrator.ChatResponse
