package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

const SourceWarehouse = "warehouse"

// WarehouseGateway runs a fixed SQL statement per domain against a
// reporting database and maps rows by column name.
type WarehouseGateway struct {
	db      *sql.DB
	timeout time.Duration
	options
}

func NewWarehouseGateway(db *sql.DB, timeout time.Duration, opts ...Option) *WarehouseGateway {
	return &WarehouseGateway{db: db, timeout: timeout, options: buildOptions(opts)}
}

func (g *WarehouseGateway) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	q, ok := warehouseQueries[domain]
	if !ok {
		return nil, unavailable(apperrors.NewInvalidDomainError(string(domain)))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	stmt, args := q.sql, []interface{}(nil)
	if days := windowDays(domain, opts); days > 0 && q.windowed != "" {
		stmt, args = q.windowed, []interface{}{Cutoff(g.now(), days)}
	}

	rows, err := g.query(ctx, stmt, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, unavailable(apperrors.NewQueryTimeoutError(string(domain)).WithCause(err))
		}
		return nil, unavailable(apperrors.NewQueryExecutionFailedError(string(domain), err))
	}
	return q.mapRows(rows), nil
}

func (g *WarehouseGateway) query(ctx context.Context, stmt string, args ...interface{}) ([]row, error) {
	rows, err := g.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}

	var result []row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r := make(row, len(cols))
		for i, c := range cols {
			r[c] = values[i]
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
