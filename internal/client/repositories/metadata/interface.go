package metadata

import (
	"context"
)

type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

// UserPrefix starts every per-user key.
const UserPrefix = "user:"

// UserKey namespaces a per-user metadata field.
func UserKey(username, field string) string {
	return UserPrefix + username + ":" + field
}
