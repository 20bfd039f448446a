package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/redis/go-redis/v9"
)

const DefaultDialTimeout = 1500 * time.Millisecond

// Config holds the connection settings of the remote store.
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Client sends requests to the remote store, one at a time, synchronously.
// It is safe for concurrent use.
type Client struct {
	rdb *redis.Client
	log logging.Logger
}

// Dial connects and verifies the connection with PING. Once connected there
// is no per-request timeout. Failure to connect is reported as
// common.ErrConnection.
func Dial(ctx context.Context, cfg Config, log logging.Logger) (*Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Protocol:     2,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  -1,
		WriteTimeout: -1,
		PoolSize:     1,
		MaxRetries:   -1,
	})

	c := &Client{rdb: rdb, log: log.With("remote", cfg.Addr)}

	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		log.Error(ctx, "remote connection failed", "addr", cfg.Addr, "err", err)
		return nil, fmt.Errorf("%w: %s: %w", common.ErrConnection, cfg.Addr, err)
	}

	return c, nil
}

// Ping checks that the remote answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Send encodes req, runs it and decodes the reply. Transport and decoding
// failures are logged and returned wrapped in common.ErrReply.
func (c *Client) Send(ctx context.Context, req Request) (Reply, error) {
	d, ok := Lookup(req.Action())
	if !ok {
		return Reply{}, fmt.Errorf("%w: unknown action %s", common.ErrInvalidInput, req.Action())
	}

	args, err := Encode(d, req)
	if err != nil {
		return Reply{}, err
	}

	c.log.Debug(ctx, "remote send", "action", d.Type.String(), "args", args)

	raw, err := c.rdb.Do(ctx, args...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Error(ctx, "remote command failed", "action", d.Type.String(), "err", err)
		return Reply{}, fmt.Errorf("%w: %s: %w", common.ErrReply, d.Type, err)
	}

	rep, err := d.Decode(raw)
	if err != nil {
		c.log.Warn(ctx, "malformed remote reply", "action", d.Type.String(), "err", err)
		return Reply{}, fmt.Errorf("%w: %s: %w", common.ErrReply, d.Type, err)
	}

	return rep, nil
}

// Close drops the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
