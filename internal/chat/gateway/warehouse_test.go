package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

func newWarehouse(t *testing.T, opts ...Option) (*WarehouseGateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWarehouseGateway(db, 5*time.Second, opts...), mock
}

// ==========================
// Row Mapping
// ==========================

func TestWarehouseGateway_Fetch_Success(t *testing.T) {
	created := time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		domain    models.DomainTag
		mockQuery func(mock sqlmock.Sqlmock)
		validate  func(t *testing.T, data *models.DomainData)
	}{
		{
			name:   "work orders",
			domain: models.DomainWorkOrders,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "title", "status", "priority", "site", "created"}).
					AddRow("WO-1002", "Light fixture repair - Floor 2", "Open", "Medium", "Building A", created).
					AddRow("WO-1001", "HVAC filter replacement", "Open", "High", "Building A", created)
				mock.ExpectQuery(`FROM work_orders`).WillReturnRows(rows)
			},
			validate: func(t *testing.T, data *models.DomainData) {
				require.Len(t, data.WorkOrders, 2)
				assert.Equal(t, models.WorkOrder{
					ID: "WO-1002", Title: "Light fixture repair - Floor 2", Status: "Open",
					Priority: "Medium", Site: "Building A", Created: "2025-02-21",
				}, data.WorkOrders[0])
				assert.Equal(t, "WO-1001", data.WorkOrders[1].ID)
			},
		},
		{
			name:   "status breakdown",
			domain: models.DomainWorkOrdersByStatus,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"status", "count"}).
					AddRow("Completed", int64(28)).
					AddRow("Open", int64(12))
				mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count`).WillReturnRows(rows)
			},
			validate: func(t *testing.T, data *models.DomainData) {
				assert.Equal(t, []models.StatusCount{{Status: "Completed", Count: 28}, {Status: "Open", Count: 12}}, data.ByStatus)
			},
		},
		{
			name:   "assets by cost with numeric column",
			domain: models.DomainAssetsByCost,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "cost"}).
					AddRow("AST-001", "HVAC Unit - Building A", []byte("12500.00"))
				mock.ExpectQuery(`FROM assets a`).WillReturnRows(rows)
			},
			validate: func(t *testing.T, data *models.DomainData) {
				require.Len(t, data.Assets, 1)
				assert.Equal(t, 12500.0, data.Assets[0].Cost)
				assert.Equal(t, "HVAC Unit - Building A", data.Assets[0].Name)
			},
		},
		{
			name:   "aliased and upper-case columns",
			domain: models.DomainLocations,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"LOCATION_ID", "Name", "ADDRESS", "OPEN_WORK_ORDERS"}).
					AddRow("LOC-1", "Building A", "100 Main St", int64(8))
				mock.ExpectQuery(`FROM locations l`).WillReturnRows(rows)
			},
			validate: func(t *testing.T, data *models.DomainData) {
				assert.Equal(t, []models.Location{{ID: "LOC-1", Name: "Building A", Address: "100 Main St", WorkOrderCount: 8}}, data.Locations)
			},
		},
		{
			name:   "missing columns default",
			domain: models.DomainAssets,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name"}).AddRow("AST-009", nil)
				mock.ExpectQuery(`FROM assets`).WillReturnRows(rows)
			},
			validate: func(t *testing.T, data *models.DomainData) {
				assert.Equal(t, []models.Asset{{ID: "AST-009"}}, data.Assets)
			},
		},
		{
			name:   "maintenance",
			domain: models.DomainMaintenance,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"asset", "date", "type"}).
					AddRow("Elevator System", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), "Annual inspection")
				mock.ExpectQuery(`FROM maintenance_schedule`).WillReturnRows(rows)
			},
			validate: func(t *testing.T, data *models.DomainData) {
				assert.Equal(t, []models.MaintenanceItem{{Asset: "Elevator System", Date: "2025-03-05", Type: "Annual inspection"}}, data.Upcoming)
			},
		},
		{
			name:   "no rows is empty data",
			domain: models.DomainLocations,
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM locations l`).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "work_order_count"}))
			},
			validate: func(t *testing.T, data *models.DomainData) {
				assert.Equal(t, 0, data.Len())
				assert.NotNil(t, data.Locations)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, mock := newWarehouse(t)
			tt.mockQuery(mock)

			data, err := g.Fetch(context.Background(), tt.domain, FetchOptions{})
			require.NoError(t, err)
			require.NotNil(t, data)
			assert.Equal(t, tt.domain, data.Domain)
			tt.validate(t, data)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// Time Window
// ==========================

func TestWarehouseGateway_WindowedWorkOrders(t *testing.T) {
	now := time.Date(2025, 2, 24, 9, 30, 0, 0, time.UTC)
	g, mock := newWarehouse(t, WithClock(fixedClock(now)))

	mock.ExpectQuery(`AND created >= \$1`).
		WithArgs(time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("WO-1004"))

	data, err := g.Fetch(context.Background(), models.DomainWorkOrders, FetchOptions{TimeRangeEnabled: true, LastDays: 10})
	require.NoError(t, err)
	assert.Equal(t, []models.WorkOrder{{ID: "WO-1004"}}, data.WorkOrders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWarehouseGateway_WindowOnlyForWorkOrders(t *testing.T) {
	g, mock := newWarehouse(t)
	mock.ExpectQuery(`FROM assets`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := g.Fetch(context.Background(), models.DomainAssets, FetchOptions{TimeRangeEnabled: true, LastDays: 10})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Failures
// ==========================

func TestWarehouseGateway_QueryError(t *testing.T) {
	g, mock := newWarehouse(t)
	mock.ExpectQuery(`FROM work_orders`).WillReturnError(errors.New("relation \"work_orders\" does not exist"))

	data, err := g.Fetch(context.Background(), models.DomainWorkOrders, FetchOptions{})
	require.Error(t, err)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, apperrors.CodeOf(err))
}

func TestWarehouseGateway_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	g := NewWarehouseGateway(db, 20*time.Millisecond)
	mock.ExpectQuery(`FROM assets`).
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = g.Fetch(context.Background(), models.DomainAssets, FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, apperrors.ErrCodeQueryTimeout, apperrors.CodeOf(err))
}

func TestWarehouseGateway_RowError(t *testing.T) {
	g, mock := newWarehouse(t)
	rows := sqlmock.NewRows([]string{"id"}).AddRow("LOC-1").RowError(0, errors.New("connection reset"))
	mock.ExpectQuery(`FROM locations l`).WillReturnRows(rows)

	_, err := g.Fetch(context.Background(), models.DomainLocations, FetchOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWarehouseGateway_UnknownDomain(t *testing.T) {
	g, _ := newWarehouse(t)

	_, err := g.Fetch(context.Background(), models.DomainTag("invoices"), FetchOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, apperrors.ErrCodeInvalidDomain, apperrors.CodeOf(err))
}
