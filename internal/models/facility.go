// internal/models/facility.go
package models

type WorkOrder struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Site     string `json:"site"`
	Created  string `json:"created"`
}

type Asset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type,omitempty"`
	Location string  `json:"location,omitempty"`
	Cost     float64 `json:"cost,omitempty"`
}

type Location struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	WorkOrderCount int    `json:"workOrderCount"`
}

type MaintenanceItem struct {
	Asset string `json:"asset"`
	Date  string `json:"date"`
	Type  string `json:"type"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DomainData is the result of one fetch. Domain selects the populated
// variant; the others stay nil. Records keep the order the source
// delivered them in.
type DomainData struct {
	Domain     DomainTag         `json:"domain,omitempty"`
	WorkOrders []WorkOrder       `json:"workOrders,omitempty"`
	ByStatus   []StatusCount     `json:"byStatus,omitempty"`
	Assets     []Asset           `json:"assets,omitempty"`
	Locations  []Location        `json:"locations,omitempty"`
	Upcoming   []MaintenanceItem `json:"upcoming,omitempty"`
}

// Len returns the number of records in the variant selected by Domain.
func (d *DomainData) Len() int {
	if d == nil {
		return 0
	}
	switch d.Domain {
	case DomainWorkOrders:
		return len(d.WorkOrders)
	case DomainWorkOrdersByStatus:
		return len(d.ByStatus)
	case DomainAssetsByCost, DomainAssets:
		return len(d.Assets)
	case DomainLocations:
		return len(d.Locations)
	case DomainMaintenance:
		return len(d.Upcoming)
	default:
		return 0
	}
}

// EmptyData returns a zero-record result for the domain.
func EmptyData(domain DomainTag) *DomainData {
	return &DomainData{Domain: domain}
}
