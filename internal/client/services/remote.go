package services

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
)

// Remote is the part of remote.Client the services depend on.
type Remote interface {
	Send(ctx context.Context, req remote.Request) (remote.Reply, error)
	Ping(ctx context.Context) error
}
