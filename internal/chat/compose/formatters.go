package compose

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"facility-chat/internal/models"
)

type domainFollowUps struct {
	empty []string
	full  []string
}

var followUps = map[models.DomainTag]domainFollowUps{
	models.DomainWorkOrders: {
		empty: []string{"Show work orders by status", "List all assets", "Show locations"},
		full:  []string{"Show work orders by status with a chart", "Top 5 assets by maintenance cost", "What locations have the most work?"},
	},
	models.DomainWorkOrdersByStatus: {
		empty: []string{"Show open work orders", "List assets", "Upcoming maintenance"},
		full:  []string{"Show only open work orders", "Top assets by cost", "Upcoming maintenance schedule"},
	},
	models.DomainAssetsByCost: {
		empty: []string{"List work orders", "Show locations", "Upcoming maintenance"},
		full:  []string{"Show work orders by status", "List all locations", "Upcoming maintenance"},
	},
	models.DomainAssets: {
		empty: []string{"Top assets by cost", "Open work orders", "Show locations"},
		full:  []string{"Top 5 assets by maintenance cost", "Show open work orders", "Show locations"},
	},
	models.DomainLocations: {
		empty: []string{"Show work orders", "List assets", "Upcoming maintenance"},
		full:  []string{"Show open work orders", "Work orders by status", "Top assets by cost"},
	},
	models.DomainMaintenance: {
		empty: []string{"Open work orders", "List assets", "Show locations"},
		full:  []string{"Show open work orders", "Work orders by status", "All locations"},
	},
}

// FollowUpsFor returns the suggestions offered after a non-empty reply for domain.
func FollowUpsFor(domain models.DomainTag) []string {
	if f, ok := followUps[domain]; ok {
		return copyStrings(f.full)
	}
	return copyStrings(standardFollowUps)
}

func emptyReply(domain models.DomainTag, text string) *models.ComposedReply {
	return &models.ComposedReply{Text: text, FollowUps: copyStrings(followUps[domain].empty)}
}

func fullReply(domain models.DomainTag, text string, chart *models.ChartSpec) *models.ComposedReply {
	return &models.ComposedReply{Text: text, Chart: chart, FollowUps: copyStrings(followUps[domain].full)}
}

func bulletList[T any](items []T, line func(T) string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + line(item)
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) workOrders(data *models.DomainData) *models.ComposedReply {
	if len(data.WorkOrders) == 0 {
		return emptyReply(models.DomainWorkOrders, "No open work orders found for the selected period.")
	}
	list := bulletList(data.WorkOrders, func(wo models.WorkOrder) string {
		return fmt.Sprintf("**%s** – %s (%s, %s) – %s", wo.ID, wo.Title, wo.Status, wo.Priority, wo.Site)
	})
	text := fmt.Sprintf("Here are the work orders from %s:\n\n%s\n\nTotal: %d work order(s).",
		c.sourceName, list, len(data.WorkOrders))
	return fullReply(models.DomainWorkOrders, text, nil)
}

func (c *Composer) workOrdersByStatus(data *models.DomainData) *models.ComposedReply {
	if len(data.ByStatus) == 0 {
		return emptyReply(models.DomainWorkOrdersByStatus, "No status breakdown available.")
	}
	total := 0
	series := make([]models.ChartPoint, len(data.ByStatus))
	for i, s := range data.ByStatus {
		total += s.Count
		series[i] = models.ChartPoint{Label: s.Status, Value: float64(s.Count)}
	}
	list := bulletList(data.ByStatus, func(s models.StatusCount) string {
		return fmt.Sprintf("**%s**: %d", s.Status, s.Count)
	})
	text := fmt.Sprintf("Work orders by status:\n\n%s\n\n**Total:** %d work orders. I've added a chart below for a quick view.",
		list, total)
	return fullReply(models.DomainWorkOrdersByStatus, text, &models.ChartSpec{Kind: models.ChartBar, Series: series})
}

func (c *Composer) assetsByCost(data *models.DomainData) *models.ComposedReply {
	if len(data.Assets) == 0 {
		return emptyReply(models.DomainAssetsByCost, "No asset cost data found.")
	}
	series := make([]models.ChartPoint, len(data.Assets))
	for i, a := range data.Assets {
		series[i] = models.ChartPoint{Label: ChartLabel(a.Name), Value: a.Cost}
	}
	list := bulletList(data.Assets, func(a models.Asset) string {
		return fmt.Sprintf("**%s** – %s (%s)", a.Name, FormatCost(a.Cost), a.ID)
	})
	text := fmt.Sprintf("Top assets by maintenance cost:\n\n%s\n\nChart below summarizes costs.", list)
	return fullReply(models.DomainAssetsByCost, text, &models.ChartSpec{Kind: models.ChartBar, Series: series})
}

func (c *Composer) assets(data *models.DomainData) *models.ComposedReply {
	if len(data.Assets) == 0 {
		return emptyReply(models.DomainAssets, "No assets found.")
	}
	list := bulletList(data.Assets, func(a models.Asset) string {
		return fmt.Sprintf("**%s** – %s (%s) – %s", a.ID, a.Name, a.Type, a.Location)
	})
	return fullReply(models.DomainAssets, fmt.Sprintf("Assets from %s:\n\n%s", c.sourceName, list), nil)
}

func (c *Composer) locations(data *models.DomainData) *models.ComposedReply {
	if len(data.Locations) == 0 {
		return emptyReply(models.DomainLocations, "No locations found.")
	}
	list := bulletList(data.Locations, func(l models.Location) string {
		return fmt.Sprintf("**%s** – %s (%d work orders)", l.Name, l.Address, l.WorkOrderCount)
	})
	return fullReply(models.DomainLocations, "Locations/sites:\n\n"+list, nil)
}

func (c *Composer) maintenance(data *models.DomainData) *models.ComposedReply {
	if len(data.Upcoming) == 0 {
		return emptyReply(models.DomainMaintenance, "No upcoming maintenance scheduled.")
	}
	list := bulletList(data.Upcoming, func(m models.MaintenanceItem) string {
		return fmt.Sprintf("**%s** – %s on %s", m.Asset, m.Type, m.Date)
	})
	return fullReply(models.DomainMaintenance, "Upcoming maintenance:\n\n"+list, nil)
}

// FormatCost renders a cost as dollars with thousands separators: $12,500.
func FormatCost(cost float64) string {
	if cost < 0 {
		return "-$" + humanize.Commaf(-cost)
	}
	return "$" + humanize.Commaf(cost)
}

// ChartLabel shortens an asset name to the part before the first " - ".
func ChartLabel(name string) string {
	if i := strings.Index(name, " - "); i >= 0 {
		return name[:i]
	}
	return name
}
