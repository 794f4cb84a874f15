package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/medchain/internal/supplychain"
)

var _ supplychain.Notifier = (*client)(nil)

// Notify implements supplychain.Notifier by publishing n as JSON. Having no
// subscriber is not an error.
func (c *client) Notify(ctx context.Context, n supplychain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	return c.conn.Publish(ctx, c.channel, payload).Err()
}
