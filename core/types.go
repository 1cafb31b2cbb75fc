package core

import (
	"context"
	"net/http"

	"github.com/crmarques/srvinv/cache"
	"github.com/crmarques/srvinv/client"
	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/identity"
	"github.com/crmarques/srvinv/search"
	"github.com/crmarques/srvinv/telemetry"
	"github.com/crmarques/srvinv/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

// Inventory holds every component built from one resolved configuration.
// Components share the transport; only Search and Identity use the cache.
type Inventory struct {
	Config    config.Config
	Transport transport.Transport
	Cache     *cache.Cache
	Search    *search.Searcher
	Identity  *identity.Resolver
	Client    *client.Client
	Metrics   *telemetry.Metrics

	shutdown func(context.Context) error
}

// Shutdown flushes telemetry exporters.
func (i Inventory) Shutdown(ctx context.Context) error {
	if i.shutdown == nil {
		return nil
	}
	return i.shutdown(ctx)
}

type BootstrapConfig struct {
	// ConfigPath names one explicit configuration file.
	ConfigPath string
	// Loader replaces the file loader.
	Loader config.Loader
	// Registerer receives the metrics collectors; nil disables metrics.
	Registerer prometheus.Registerer
	// Transport replaces the HTTP transport.
	Transport transport.Transport
	// HTTPClient replaces the client of the HTTP transport, which is
	// otherwise built from the TLS and timeout settings.
	HTTPClient *http.Client
	// CacheFs replaces the file system of the durable cache backend.
	CacheFs afero.Fs
	// Interfaces replaces local interface enumeration.
	Interfaces identity.InterfaceLister
}
