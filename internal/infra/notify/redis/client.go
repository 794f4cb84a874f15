// Package redis publishes supply-chain notifications on a Redis Pub/Sub
// channel.
package redis

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// DefaultChannel is the Pub/Sub channel used when none is configured.
const DefaultChannel = "medchain:notifications"

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

type client struct {
	conn    publisher
	channel string
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and checks the connection with PING. An empty
// channel selects DefaultChannel.
func NewClient(ctx context.Context, addr, username, password string, db int, channel string) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return newClient(conn, channel), nil
}

func newClient(conn publisher, channel string) *client {
	if channel == "" {
		channel = DefaultChannel
	}

	return &client{
		conn:    conn,
		channel: channel,
	}
}
