package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "facility-chat/internal/common/errors"
	"facility-chat/internal/models"
)

// SourceSample is the source label used in metrics and error details.
const SourceSample = "sample"

var createdLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// SampleGateway serves fixed records from <dir>/<resource>.json.
type SampleGateway struct {
	dir string
	options
}

func NewSampleGateway(dir string, opts ...Option) *SampleGateway {
	return &SampleGateway{dir: dir, options: buildOptions(opts)}
}

func (g *SampleGateway) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	path := filepath.Join(g.dir, domain.ResourceName()+".json")
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, unavailable(apperrors.NewDataSourceUnavailableError(string(domain)).WithCause(err))
		}
		return nil, unavailable(apperrors.NewFetchFailedError(SourceSample, string(domain), err))
	}

	data, err := decodeResource(domain, payload)
	if err != nil {
		return nil, unavailable(apperrors.NewMalformedUpstreamDataError(SourceSample, err.Error()))
	}

	if days := windowDays(domain, opts); days > 0 {
		data.WorkOrders = FilterCreatedSince(data.WorkOrders, g.now(), days)
	}
	return data, nil
}

// decodeResource validates and decodes one resource document.
func decodeResource(domain models.DomainTag, payload []byte) (*models.DomainData, error) {
	if err := validatePayload(domain, payload); err != nil {
		return nil, err
	}
	var data models.DomainData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", domain.ResourceName(), err)
	}
	data.Domain = domain
	return &data, nil
}

// FilterCreatedSince keeps work orders created on or after now minus
// lastDays. Orders whose created date cannot be parsed are dropped.
func FilterCreatedSince(orders []models.WorkOrder, now time.Time, lastDays int) []models.WorkOrder {
	if lastDays <= 0 {
		lastDays = 7
	}
	cutoff := Cutoff(now, lastDays)

	kept := make([]models.WorkOrder, 0, len(orders))
	for _, wo := range orders {
		created, ok := parseCreated(wo.Created)
		if ok && !created.Before(cutoff) {
			kept = append(kept, wo)
		}
	}
	return kept
}

// Cutoff is the earliest creation time inside a lastDays window.
func Cutoff(now time.Time, lastDays int) time.Time {
	return now.UTC().AddDate(0, 0, -lastDays)
}

func parseCreated(s string) (time.Time, bool) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
