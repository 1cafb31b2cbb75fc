package config

import "context"

// Loader resolves the effective configuration. An explicit path replaces the
// search-path discovery.
type Loader interface {
	Load(ctx context.Context, explicitPath string) (Config, error)
}
