// Package webhook POSTs supply-chain notifications as JSON to an HTTP
// endpoint.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	httptransport "github.com/gabapcia/medchain/internal/pkg/transport/http"
	"github.com/gabapcia/medchain/internal/supplychain"

	"github.com/hashicorp/go-retryablehttp"
)

var ErrUnexpectedStatus = errors.New("unexpected webhook response status")

type client struct {
	url  string
	http *retryablehttp.Client
}

var _ supplychain.RetryingNotifier = (*client)(nil)

// NewClient builds a webhook notifier. Transport errors and 5xx responses
// are retried by the underlying retryable client.
func NewClient(url string, opts ...httptransport.Option) *client {
	return &client{
		url:  url,
		http: httptransport.NewClient(opts...),
	}
}

// RetriesDelivery reports whether the retryable client retries failed posts.
func (c *client) RetriesDelivery() bool {
	return c.http.RetryMax > 0
}

func (c *client) Notify(ctx context.Context, n supplychain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return nil
}
