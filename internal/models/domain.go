// internal/models/domain.go
package models

// DomainTag identifies a category of facility data. It decides both the
// shape of DomainData a gateway returns and which formatter renders it.
type DomainTag string

const (
	DomainWorkOrders         DomainTag = "work_orders"
	DomainWorkOrdersByStatus DomainTag = "work_orders_by_status"
	DomainAssetsByCost       DomainTag = "assets_by_cost"
	DomainAssets             DomainTag = "assets"
	DomainLocations          DomainTag = "locations"
	DomainMaintenance        DomainTag = "maintenance"
)

var resourceNames = map[DomainTag]string{
	DomainWorkOrders:         "work-orders",
	DomainWorkOrdersByStatus: "work-orders-by-status",
	DomainAssetsByCost:       "assets-by-cost",
	DomainAssets:             "assets",
	DomainLocations:          "locations",
	DomainMaintenance:        "maintenance",
}

// AllDomains returns every domain tag in declaration order.
func AllDomains() []DomainTag {
	return []DomainTag{
		DomainWorkOrders,
		DomainWorkOrdersByStatus,
		DomainAssetsByCost,
		DomainAssets,
		DomainLocations,
		DomainMaintenance,
	}
}

func (d DomainTag) Valid() bool {
	_, ok := resourceNames[d]
	return ok
}

// ResourceName is the name the facility data API and the sample files use
// for the domain, e.g. "work-orders".
func (d DomainTag) ResourceName() string {
	return resourceNames[d]
}

// DomainFromResource maps a resource name back to its domain tag.
func DomainFromResource(name string) (DomainTag, bool) {
	for tag, resource := range resourceNames {
		if resource == name {
			return tag, true
		}
	}
	return "", false
}
