// Package metadata stores small key/value settings of the CLI, such as the
// current session, in the local SQLite database.
package metadata

import "context"

// Repository is a string key/value store. Get returns ("", false, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
