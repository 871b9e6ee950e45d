package orchestrator

import (
	"facility-chat/internal/chat/compose"
	"facility-chat/internal/models"
)

// ChatResponse is the wire shape of one reply, shared by the HTTP and NATS
// front ends.
type ChatResponse struct {
	SessionID          string            `json:"sessionId"`
	Outcome            Outcome           `json:"outcome"`
	Intent             models.IntentName `json:"intent"`
	Text               string            `json:"text"`
	HTML               string            `json:"html"`
	Chart              *models.ChartSpec `json:"chart,omitempty"`
	FollowUps          []string          `json:"followUps"`
	RequestCredentials bool              `json:"requestCredentials"`
}

func (r *Reply) Response(sessionID string) ChatResponse {
	resp := ChatResponse{
		SessionID:          sessionID,
		Outcome:            r.Outcome,
		Intent:             r.Intent.Intent,
		RequestCredentials: r.RequestCredentials,
		FollowUps:          []string{},
	}
	if r.Reply != nil {
		resp.Text = r.Reply.Text
		resp.HTML = compose.RenderHTML(r.Reply.Text)
		resp.Chart = r.Reply.Chart
		if r.Reply.FollowUps != nil {
			resp.FollowUps = r.Reply.FollowUps
		}
	}
	return resp
}
