package gateway

import (
	"strconv"
	"strings"
	"time"

	"facility-chat/internal/models"
)

// warehouseQuery is the fixed statement for one domain. windowed, when set,
// takes the work-order cutoff as $1.
type warehouseQuery struct {
	sql      string
	windowed string
	mapRows  func(rows []row) *models.DomainData
}

var warehouseQueries = map[models.DomainTag]warehouseQuery{
	models.DomainWorkOrders: {
		sql: `SELECT id, title, status, priority, site, created
			FROM work_orders
			WHERE status NOT IN ('Completed', 'Cancelled')
			ORDER BY created DESC
			LIMIT 100`,
		windowed: `SELECT id, title, status, priority, site, created
			FROM work_orders
			WHERE status NOT IN ('Completed', 'Cancelled') AND created >= $1
			ORDER BY created DESC
			LIMIT 100`,
		mapRows: mapWorkOrders,
	},
	models.DomainWorkOrdersByStatus: {
		sql: `SELECT status, COUNT(*) AS count
			FROM work_orders
			GROUP BY status
			ORDER BY count DESC`,
		mapRows: mapStatusCounts,
	},
	models.DomainAssetsByCost: {
		sql: `SELECT a.id, a.name, COALESCE(SUM(c.amount), 0) AS cost
			FROM assets a
			LEFT JOIN maintenance_costs c ON c.asset_id = a.id
			GROUP BY a.id, a.name
			ORDER BY cost DESC
			LIMIT 5`,
		mapRows: mapAssets(models.DomainAssetsByCost),
	},
	models.DomainAssets: {
		sql: `SELECT id, name, type, location
			FROM assets
			ORDER BY id
			LIMIT 100`,
		mapRows: mapAssets(models.DomainAssets),
	},
	models.DomainLocations: {
		sql: `SELECT l.id, l.name, l.address, COUNT(w.id) AS work_order_count
			FROM locations l
			LEFT JOIN work_orders w ON w.site = l.name
			GROUP BY l.id, l.name, l.address
			ORDER BY l.name`,
		mapRows: mapLocations,
	},
	models.DomainMaintenance: {
		sql: `SELECT asset, scheduled_date AS date, type
			FROM maintenance_schedule
			WHERE scheduled_date >= CURRENT_DATE
			ORDER BY scheduled_date
			LIMIT 50`,
		mapRows: mapMaintenance,
	},
}

// row is one result row keyed by lower-cased column name.
type row map[string]interface{}

func (r row) lookup(keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// str returns the first present column as text, or "".
func (r row) str(keys ...string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02")
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// num returns the first present column as a number, or 0. NUMERIC columns
// arrive from lib/pq as []byte.
func (r row) num(keys ...string) float64 {
	v, ok := r.lookup(keys)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case float64:
		return t
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	default:
		return 0
	}
}

func (r row) integer(keys ...string) int {
	return int(r.num(keys...))
}

func mapWorkOrders(rows []row) *models.DomainData {
	data := models.EmptyData(models.DomainWorkOrders)
	data.WorkOrders = make([]models.WorkOrder, 0, len(rows))
	for _, r := range rows {
		data.WorkOrders = append(data.WorkOrders, models.WorkOrder{
			ID:       r.str("id", "work_order_id", "wo_number"),
			Title:    r.str("title", "description", "summary"),
			Status:   r.str("status"),
			Priority: r.str("priority"),
			Site:     r.str("site", "location", "building"),
			Created:  r.str("created", "created_at", "created_date"),
		})
	}
	return data
}

func mapStatusCounts(rows []row) *models.DomainData {
	data := models.EmptyData(models.DomainWorkOrdersByStatus)
	data.ByStatus = make([]models.StatusCount, 0, len(rows))
	for _, r := range rows {
		data.ByStatus = append(data.ByStatus, models.StatusCount{
			Status: r.str("status"),
			Count:  r.integer("count", "total", "cnt"),
		})
	}
	return data
}

func mapAssets(domain models.DomainTag) func([]row) *models.DomainData {
	return func(rows []row) *models.DomainData {
		data := models.EmptyData(domain)
		data.Assets = make([]models.Asset, 0, len(rows))
		for _, r := range rows {
			data.Assets = append(data.Assets, models.Asset{
				ID:       r.str("id", "asset_id"),
				Name:     r.str("name", "asset_name"),
				Type:     r.str("type", "asset_type"),
				Location: r.str("location", "site"),
				Cost:     r.num("cost", "total_cost", "maintenance_cost"),
			})
		}
		return data
	}
}

func mapLocations(rows []row) *models.DomainData {
	data := models.EmptyData(models.DomainLocations)
	data.Locations = make([]models.Location, 0, len(rows))
	for _, r := range rows {
		data.Locations = append(data.Locations, models.Location{
			ID:             r.str("id", "location_id"),
			Name:           r.str("name", "location_name"),
			Address:        r.str("address"),
			WorkOrderCount: r.integer("work_order_count", "workordercount", "open_work_orders"),
		})
	}
	return data
}

func mapMaintenance(rows []row) *models.DomainData {
	data := models.EmptyData(models.DomainMaintenance)
	data.Upcoming = make([]models.MaintenanceItem, 0, len(rows))
	for _, r := range rows {
		data.Upcoming = append(data.Upcoming, models.MaintenanceItem{
			Asset: r.str("asset", "asset_name"),
			Date:  r.str("date", "scheduled_date"),
			Type:  r.str("type", "task_type"),
		})
	}
	return data
}
