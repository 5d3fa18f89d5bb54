// Package metadata is the local key/value table of the client. It is the
// persistence boundary the credential is written to, under a single
// well-known key.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
