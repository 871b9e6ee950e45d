// internal/models/intent.go
package models

type IntentName string

const (
	IntentWorkOrdersByStatus IntentName = "WORK_ORDERS_BY_STATUS"
	IntentAssetsByCost       IntentName = "ASSETS_BY_COST"
	IntentWorkOrdersOpen     IntentName = "WORK_ORDERS_OPEN"
	IntentAssetsList         IntentName = "ASSETS_LIST"
	IntentLocations          IntentName = "LOCATIONS"
	IntentMaintenance        IntentName = "MAINTENANCE"
	IntentGeneral            IntentName = "GENERAL"
	IntentUnknown            IntentName = "UNKNOWN"
)

// TimeRange limits a work-order listing to the last LastDays days.
// Enabled=false means the full, unfiltered result set.
type TimeRange struct {
	Enabled  bool `json:"enabled"`
	LastDays int  `json:"lastDays,omitempty"`
}

// IntentResult is the classifier verdict for one message.
type IntentResult struct {
	Intent    IntentName `json:"intent"`
	Domain    DomainTag  `json:"domain,omitempty"`
	Chart     bool       `json:"chart,omitempty"`
	TimeRange *TimeRange `json:"timeRange,omitempty"`
}

func (r IntentResult) HasDomain() bool {
	return r.Domain != ""
}

// NeedsData reports whether the pipeline must fetch before composing.
func (r IntentResult) NeedsData() bool {
	return r.HasDomain() && r.Intent != IntentGeneral && r.Intent != IntentUnknown
}
