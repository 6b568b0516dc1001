package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultURL = "https://raw.githubusercontent.com/suyogshiftcare/jsontest/main/available.json"

var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher loads the flat availability feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.AvailabilityRecord, error)
}

// Client fetches availability records over HTTP.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch returns the records of the feed. A body that is not a JSON array
// yields an empty list; transport failures and non-2xx responses are errors.
func (c *Client) Fetch(ctx context.Context) ([]model.AvailabilityRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch availability: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch availability: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read availability: %w", err)
	}
	return decodeRecords(body), nil
}

func decodeRecords(body []byte) []model.AvailabilityRecord {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return []model.AvailabilityRecord{}
	}
	records := make([]model.AvailabilityRecord, 0, len(raw))
	for _, item := range raw {
		var rec model.AvailabilityRecord
		// Elements that are not objects, or carry non-string fields, decode as empty strings.
		_ = json.Unmarshal(item, &rec)
		records = append(records, rec)
	}
	return records
}
