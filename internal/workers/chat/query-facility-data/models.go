// internal/workers/chat/query-facility-data/models.go
package queryfacilitydata

import "facility-chat/internal/models"

type Input struct {
	Domain    models.DomainTag  `json:"domain"`
	TimeRange *models.TimeRange `json:"timeRange,omitempty"`
}

// Output reports a failed fetch as data rather than a job failure, so the
// process can route to the fetch-failed reply.
type Output struct {
	DataAvailable bool               `json:"dataAvailable"`
	Data          *models.DomainData `json:"data,omitempty"`
	FetchError    string             `json:"fetchError,omitempty"`
}
