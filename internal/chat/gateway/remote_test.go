package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "facility-chat/internal/common/errors"
	httpclient "facility-chat/internal/common/http"
	"facility-chat/internal/models"
)

func newRemote(t *testing.T, handler http.HandlerFunc) *RemoteGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteGateway(srv.URL+"/", httpclient.NewClient(time.Second))
}

func TestRemoteGateway_Fetch(t *testing.T) {
	var gotURL string
	g := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"workOrders": [{"id": "WO-1004", "title": "Elevator inspection", "created": "2025-02-23"}]}`)
	})

	data, err := g.Fetch(context.Background(), models.DomainWorkOrders, FetchOptions{TimeRangeEnabled: true, LastDays: 10})
	require.NoError(t, err)
	assert.Equal(t, "/api/work-orders?lastDays=10", gotURL)
	assert.Equal(t, models.DomainWorkOrders, data.Domain)
	require.Len(t, data.WorkOrders, 1)
	assert.Equal(t, "WO-1004", data.WorkOrders[0].ID)
}

func TestRemoteGateway_NoQueryWithoutWindow(t *testing.T) {
	var gotURL string
	g := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = io.WriteString(w, `{"byStatus": []}`)
	})

	data, err := g.Fetch(context.Background(), models.DomainWorkOrdersByStatus, FetchOptions{TimeRangeEnabled: true, LastDays: 3})
	require.NoError(t, err)
	assert.Equal(t, "/api/work-orders-by-status", gotURL)
	assert.Equal(t, 0, data.Len())
}

func TestRemoteGateway_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "not found",
			handler:  func(w http.ResponseWriter, r *http.Request) { http.Error(w, "Not found", http.StatusNotFound) },
			wantCode: apperrors.ErrCodeFetchFailed,
		},
		{
			name:     "server error",
			handler:  func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) },
			wantCode: apperrors.ErrCodeFetchFailed,
		},
		{
			name:     "invalid json",
			handler:  func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "Invalid JSON") },
			wantCode: apperrors.ErrCodeMalformedUpstreamData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := newRemote(t, tt.handler).Fetch(context.Background(), models.DomainAssets, FetchOptions{})
			require.Error(t, err)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestRemoteGateway_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	g := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := g.Fetch(ctx, models.DomainLocations, FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.CodeOf(err))
}

func TestRemoteGateway_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteGateway(url, httpclient.NewClient(time.Second)).Fetch(context.Background(), models.DomainAssets, FetchOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, apperrors.ErrCodeExternalService, apperrors.CodeOf(err))
}
