// Package compose turns an intent and fetched facility data into the reply
// shown to the user: markup text, an optional chart and follow-up prompts.
// Everything here is pure; the same input always yields the same reply.
package compose

import (
	"fmt"

	"facility-chat/internal/models"
)

// DefaultSourceName is the name of the upstream system used in reply text.
const DefaultSourceName = "Corrigo"

var standardFollowUps = []string{"Show open work orders", "Top assets by cost", "Work orders by status"}

type formatter func(c *Composer, data *models.DomainData) *models.ComposedReply

var formatters = map[models.DomainTag]formatter{
	models.DomainWorkOrders:         (*Composer).workOrders,
	models.DomainWorkOrdersByStatus: (*Composer).workOrdersByStatus,
	models.DomainAssetsByCost:       (*Composer).assetsByCost,
	models.DomainAssets:             (*Composer).assets,
	models.DomainLocations:          (*Composer).locations,
	models.DomainMaintenance:        (*Composer).maintenance,
}

// Composer holds only the source name; it is safe for concurrent use.
type Composer struct {
	sourceName string
}

func New(sourceName string) *Composer {
	if sourceName == "" {
		sourceName = DefaultSourceName
	}
	return &Composer{sourceName: sourceName}
}

// Compose returns false when the intent needs data and data is nil; the
// caller then asks for a connection instead of replying. An empty but
// non-nil data value produces the domain's "nothing found" reply.
func (c *Composer) Compose(intent models.IntentResult, data *models.DomainData) (*models.ComposedReply, bool) {
	switch intent.Intent {
	case models.IntentGeneral:
		return c.General(), true
	case models.IntentUnknown:
		return c.Clarification(), true
	}
	if !intent.HasDomain() {
		return c.Clarification(), true
	}
	if data == nil {
		return nil, false
	}

	format, ok := formatters[intent.Domain]
	if !ok {
		return &models.ComposedReply{
			Text:      "Data retrieved. How would you like to explore it?",
			FollowUps: []string{"Open work orders", "Assets by cost", "Locations"},
		}, true
	}
	return format(c, data), true
}

// General is the capability summary for greetings and help requests.
func (c *Composer) General() *models.ComposedReply {
	return &models.ComposedReply{
		Text: fmt.Sprintf("I can help you with work orders, assets, locations, and maintenance from %s. "+
			"Try asking for **open work orders**, **top assets by cost**, or **work orders by status** (with a chart). "+
			"If we're not connected to %s yet, I'll ask for your credentials when you request data.",
			c.sourceName, c.sourceName),
		FollowUps: []string{"Show open work orders", "Top 5 assets by cost", "Work orders by status"},
	}
}

// Clarification lists the supported request categories.
func (c *Composer) Clarification() *models.ComposedReply {
	return &models.ComposedReply{
		Text: fmt.Sprintf("I'm not sure which %s data you need. You can ask for: **open work orders**, "+
			"**work orders by status** (with chart), **top assets by maintenance cost**, **locations**, "+
			"or **upcoming maintenance**. Try one of the prompts above or rephrase your question.", c.sourceName),
		FollowUps: []string{"Show open work orders", "Work orders by status", "Top assets by cost"},
	}
}

// ConnectPrompt asks the user to connect before data for domain can be fetched.
func (c *Composer) ConnectPrompt(domain models.DomainTag) *models.ComposedReply {
	return &models.ComposedReply{
		Text: fmt.Sprintf("To answer that, I need to pull data from the %s application. "+
			"Please connect with your %s credentials so I can retrieve work orders, assets, or other facility data.",
			c.sourceName, c.sourceName),
		FollowUps: FollowUpsFor(domain),
	}
}

// FetchFailed explains that a connected source did not answer.
func (c *Composer) FetchFailed() *models.ComposedReply {
	return &models.ComposedReply{
		Text: fmt.Sprintf("%s did not respond, so I couldn't retrieve that data. "+
			"Please try again in a moment or ask about something else.", c.sourceName),
		FollowUps: copyStrings(standardFollowUps),
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
