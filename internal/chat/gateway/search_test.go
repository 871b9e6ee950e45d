package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

type capturedSearch struct {
	path string
	body map[string]interface{}
}

// newSearchServer fakes the _search endpoint. The product header is required
// by the v8 client.
func newSearchServer(t *testing.T, status int, response string, captured *capturedSearch) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &captured.body)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

// ==========================
// Queries and Mapping
// ==========================

func TestSearchGateway_WorkOrders(t *testing.T) {
	var captured capturedSearch
	client := newSearchServer(t, http.StatusOK, `{
		"hits": {"hits": [
			{"_source": {"id": "WO-1004", "title": "Elevator inspection", "status": "Open", "priority": "Medium", "site": "Building B", "created": "2025-02-23"}}
		]}
	}`, &captured)

	now := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	g := NewSearchGateway(client, "facility", WithClock(fixedClock(now)))

	data, err := g.Fetch(context.Background(), models.DomainWorkOrders, FetchOptions{TimeRangeEnabled: true, LastDays: 7})
	require.NoError(t, err)
	require.Len(t, data.WorkOrders, 1)
	assert.Equal(t, "Elevator inspection", data.WorkOrders[0].Title)

	assert.Equal(t, "/facility-work-orders/_search", captured.path)
	rng := captured.body["query"].(map[string]interface{})["range"].(map[string]interface{})
	assert.Equal(t, "2025-02-17T00:00:00Z", rng["created"].(map[string]interface{})["gte"])
}

func TestSearchGateway_StatusAggregation(t *testing.T) {
	var captured capturedSearch
	client := newSearchServer(t, http.StatusOK, `{
		"hits": {"hits": []},
		"aggregations": {"by_status": {"buckets": [
			{"key": "Completed", "doc_count": 28},
			{"key": "Open", "doc_count": 12}
		]}}
	}`, &captured)

	data, err := NewSearchGateway(client, "facility").Fetch(context.Background(), models.DomainWorkOrdersByStatus, FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []models.StatusCount{{Status: "Completed", Count: 28}, {Status: "Open", Count: 12}}, data.ByStatus)

	assert.Equal(t, "/facility-work-orders/_search", captured.path)
	assert.Contains(t, captured.body, "aggs")
	assert.EqualValues(t, 0, captured.body["size"])
}

func TestSearchGateway_EmptyHits(t *testing.T) {
	client := newSearchServer(t, http.StatusOK, `{"hits": {"hits": []}}`, nil)

	data, err := NewSearchGateway(client, "").Fetch(context.Background(), models.DomainLocations, FetchOptions{})
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, 0, data.Len())
}

func TestSearchGateway_IndexFor(t *testing.T) {
	g := NewSearchGateway(nil, "facility")
	assert.Equal(t, "facility-assets", g.IndexFor(models.DomainAssetsByCost))
	assert.Equal(t, "facility-maintenance", g.IndexFor(models.DomainMaintenance))
	assert.Equal(t, "locations", NewSearchGateway(nil, "").IndexFor(models.DomainLocations))
}

// ==========================
// Failures
// ==========================

func TestSearchGateway_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		wantCode apperrors.ErrorCode
	}{
		{"missing index", http.StatusNotFound, `{"error": {"type": "index_not_found_exception"}}`, apperrors.ErrCodeIndexNotFound},
		{"bad request", http.StatusBadRequest, `{"error": {"type": "parsing_exception"}}`, apperrors.ErrCodeSearchQueryFailed},
		{"undecodable hit", http.StatusOK, `{"hits": {"hits": [{"_source": {"cost": "n/a"}}]}}`, apperrors.ErrCodeMalformedUpstreamData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newSearchServer(t, tt.status, tt.response, nil)

			data, err := NewSearchGateway(client, "facility").Fetch(context.Background(), models.DomainAssetsByCost, FetchOptions{})
			require.Error(t, err)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestSearchGateway_UnknownDomain(t *testing.T) {
	_, err := NewSearchGateway(nil, "facility").Fetch(context.Background(), models.DomainTag("x"), FetchOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
