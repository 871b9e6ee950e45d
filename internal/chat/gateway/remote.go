package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "facility-chat/internal/common/errors"
	httpclient "facility-chat/internal/common/http"
	"facility-chat/internal/models"
)

const SourceRemote = "remote"

// RemoteGateway reads from another facility data API exposing
// GET /api/<resource>[?lastDays=N].
type RemoteGateway struct {
	baseURL string
	client  *httpclient.Client
}

func NewRemoteGateway(baseURL string, client *httpclient.Client) *RemoteGateway {
	return &RemoteGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *RemoteGateway) Fetch(ctx context.Context, domain models.DomainTag, opts FetchOptions) (*models.DomainData, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/%s", g.baseURL, domain.ResourceName())
	if days := windowDays(domain, opts); days > 0 {
		endpoint += "?" + url.Values{"lastDays": {strconv.Itoa(days)}}.Encode()
	}

	var data models.DomainData
	if err := g.client.GetJSON(ctx, endpoint, &data); err != nil {
		var statusErr *httpclient.StatusError
		switch {
		case errors.As(err, &statusErr):
			return nil, unavailable(apperrors.NewFetchFailedError(SourceRemote, string(domain), err))
		case ctx.Err() != nil:
			return nil, unavailable(apperrors.NewTimeoutError(SourceRemote, err))
		case errors.Is(err, httpclient.ErrDecode):
			return nil, unavailable(apperrors.NewMalformedUpstreamDataError(SourceRemote, err.Error()).WithCause(err))
		default:
			return nil, unavailable(apperrors.NewExternalServiceError(SourceRemote, err))
		}
	}
	data.Domain = domain
	return &data, nil
}
