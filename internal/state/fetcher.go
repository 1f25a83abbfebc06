package state

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// StatusFetcher retrieves the raw status API payload for everything
// changed since the given watermark.
type StatusFetcher interface {
	Fetch(ctx context.Context, since int64) ([]byte, error)
}

// HTTPStatusFetcher queries the homework status API over HTTP. It never
// retries; the poll loop owns retry behaviour.
type HTTPStatusFetcher struct {
	client   *resty.Client
	endpoint string
}

// NewHTTPStatusFetcher returns a fetcher authenticating with
// "Authorization: OAuth <token>" and bounding each request by timeout.
func NewHTTPStatusFetcher(endpoint, token string, timeout time.Duration) *HTTPStatusFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Authorization", "OAuth "+token).
		SetHeader("Accept", "application/json")

	return &HTTPStatusFetcher{
		client:   client,
		endpoint: endpoint,
	}
}

func (f *HTTPStatusFetcher) Fetch(ctx context.Context, since int64) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("from_date", strconv.FormatInt(since, 10)).
		Get(f.endpoint)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &Error{Kind: KindHTTPStatus, Code: resp.StatusCode()}
	}
	return resp.Body(), nil
}
