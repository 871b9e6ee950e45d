// internal/models/reply.go
package models

type ChartKind string

const (
	ChartBar   ChartKind = "bar"
	ChartDonut ChartKind = "donut"
)

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ChartSpec struct {
	Kind   ChartKind    `json:"kind"`
	Series []ChartPoint `json:"series"`
}

// ComposedReply is everything the presentation layer needs to render one
// assistant message. It carries no domain knowledge beyond the text.
type ComposedReply struct {
	Text      string     `json:"text"`
	Chart     *ChartSpec `json:"chart,omitempty"`
	FollowUps []string   `json:"followUps"`
}
