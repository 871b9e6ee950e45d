package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

const SourceSearch = "search"

// searchIndex maps each domain to the index suffix it reads. The status
// breakdown is an aggregation over the work-order index.
var searchIndex = map[models.DomainTag]string{
	models.DomainWorkOrders:         "work-orders",
	models.DomainWorkOrdersByStatus: "work-orders",
	models.DomainAssetsByCost:       "assets",
	models.DomainAssets:             "assets",
	models.DomainLocations:          "locations",
	models.DomainMaintenance:        "maintenance",
}

// SearchGateway reads facility data from Elasticsearch indices named
// <prefix>-<index>.
type SearchGateway struct {
	client *elasticsearch.Client
	prefix string
	options
}

func NewSearchGateway(client *elasticsearch.Client, indexPrefix string, opts ...Option) *SearchGateway {
	return &SearchGateway{client: client, prefix: indexPrefix, options: buildOptions(opts)}
}

// IndexFor returns the index queried for a domain.
func (g *SearchGateway) IndexFor(domain models.DomainTag) string {
	if g.prefix == "" {
		return searchIndex[domain]
	}
	return g.prefix + "-" + searchIndex[domain]
}

func (g *SearchGateway) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	if _, ok := searchIndex[domain]; !ok {
		return nil, unavailable(apperrors.NewInvalidDomainError(string(domain)))
	}

	body, err := json.Marshal(g.buildQuery(domain, opts))
	if err != nil {
		return nil, unavailable(apperrors.NewSearchQueryFailedError(string(domain), err))
	}

	index := g.IndexFor(domain)
	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, g.client)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, unavailable(apperrors.NewTimeoutError("elasticsearch", err))
		}
		return nil, unavailable(apperrors.NewSearchQueryFailedError(string(domain), err))
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return nil, unavailable(apperrors.NewIndexNotFoundError(index))
		}
		return nil, unavailable(apperrors.NewSearchQueryFailedError(string(domain), fmt.Errorf("status %s", res.Status())))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, unavailable(apperrors.NewMalformedUpstreamDataError(SourceSearch, err.Error()))
	}

	data, err := parsed.toDomainData(domain)
	if err != nil {
		return nil, unavailable(apperrors.NewMalformedUpstreamDataError(SourceSearch, err.Error()))
	}
	return data, nil
}

func (g *SearchGateway) buildQuery(domain models.DomainTag, opts FetchOptions) map[string]interface{} {
	switch domain {
	case models.DomainWorkOrders:
		query := map[string]interface{}{"match_all": map[string]interface{}{}}
		if days := windowDays(domain, opts); days > 0 {
			query = map[string]interface{}{
				"range": map[string]interface{}{
					"created": map[string]interface{}{"gte": Cutoff(g.now(), days).Format(time.RFC3339)},
				},
			}
		}
		return map[string]interface{}{
			"size":  100,
			"query": query,
			"sort":  []interface{}{map[string]interface{}{"created": map[string]interface{}{"order": "desc"}}},
		}
	case models.DomainWorkOrdersByStatus:
		return map[string]interface{}{
			"size": 0,
			"aggs": map[string]interface{}{
				"by_status": map[string]interface{}{
					"terms": map[string]interface{}{"field": "status.keyword", "size": 20},
				},
			},
		}
	case models.DomainAssetsByCost:
		return map[string]interface{}{
			"size": 5,
			"sort": []interface{}{map[string]interface{}{"cost": map[string]interface{}{"order": "desc"}}},
		}
	case models.DomainMaintenance:
		return map[string]interface{}{
			"size":  50,
			"query": map[string]interface{}{"range": map[string]interface{}{"date": map[string]interface{}{"gte": "now/d"}}},
			"sort":  []interface{}{map[string]interface{}{"date": map[string]interface{}{"order": "asc"}}},
		}
	default:
		return map[string]interface{}{
			"size": 100,
			"sort": []interface{}{map[string]interface{}{"id.keyword": map[string]interface{}{"order": "asc"}}},
		}
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		ByStatus struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int    `json:"doc_count"`
			} `json:"buckets"`
		} `json:"by_status"`
	} `json:"aggregations"`
}

func (r *searchResponse) toDomainData(domain models.DomainTag) (*models.DomainData, error) {
	data := models.EmptyData(domain)
	var err error
	switch domain {
	case models.DomainWorkOrders:
		data.WorkOrders, err = decodeSources[models.WorkOrder](r)
	case models.DomainWorkOrdersByStatus:
		data.ByStatus = make([]models.StatusCount, 0, len(r.Aggregations.ByStatus.Buckets))
		for _, b := range r.Aggregations.ByStatus.Buckets {
			data.ByStatus = append(data.ByStatus, models.StatusCount{Status: b.Key, Count: b.DocCount})
		}
	case models.DomainAssetsByCost, models.DomainAssets:
		data.Assets, err = decodeSources[models.Asset](r)
	case models.DomainLocations:
		data.Locations, err = decodeSources[models.Location](r)
	case models.DomainMaintenance:
		data.Upcoming, err = decodeSources[models.MaintenanceItem](r)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func decodeSources[T any](r *searchResponse) ([]T, error) {
	out := make([]T, 0, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		var v T
		if err := json.Unmarshal(hit.Source, &v); err != nil {
			return nil, fmt.Errorf("hit %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
