package core

import (
	"context"
	"fmt"

	"github.com/crmarques/srvinv/cache"
	"github.com/crmarques/srvinv/client"
	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/identity"
	filecache "github.com/crmarques/srvinv/internal/providers/cache/file"
	memorycache "github.com/crmarques/srvinv/internal/providers/cache/memory"
	configfile "github.com/crmarques/srvinv/internal/providers/config/file"
	httptransport "github.com/crmarques/srvinv/internal/providers/transport/http"
	"github.com/crmarques/srvinv/search"
	"github.com/crmarques/srvinv/telemetry"
)

const serviceName = "srvinv"

func LoadConfig(ctx context.Context, opts BootstrapConfig) (config.Config, error) {
	loader := opts.Loader
	if loader == nil {
		loader = configfile.NewLoader()
	}
	return loader.Load(ctx, opts.ConfigPath)
}

func NewInventory(ctx context.Context, opts BootstrapConfig) (Inventory, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return Inventory{}, err
	}
	return Build(ctx, cfg, opts)
}

// Build wires the components for cfg. Tracing is installed only when an
// OTLP endpoint is configured.
func Build(ctx context.Context, cfg config.Config, opts BootstrapConfig) (Inventory, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Inventory{}, err
	}

	metrics, err := newMetrics(opts)
	if err != nil {
		return Inventory{}, err
	}

	shutdown, err := telemetry.SetupTracing(ctx, cfg.Telemetry.OTelEndpoint, serviceName)
	if err != nil {
		return Inventory{}, faults.NewTypedError(faults.ValidationError, "telemetry.otel-endpoint could not be used", err)
	}

	inventoryTransport := opts.Transport
	if inventoryTransport == nil {
		gateway, err := httptransport.New(
			cfg.Server,
			httptransport.WithMetrics(metrics),
			httptransport.WithHTTPClient(opts.HTTPClient),
		)
		if err != nil {
			_ = shutdown(ctx)
			return Inventory{}, err
		}
		inventoryTransport = gateway
	}

	store, err := newStore(cfg.Cache, opts)
	if err != nil {
		_ = shutdown(ctx)
		return Inventory{}, err
	}

	resourceCache := cache.New(
		inventoryTransport,
		store,
		cache.WithDuration(cfg.Cache.Duration()),
		cache.WithMetrics(metrics),
	)
	searcher := search.New(resourceCache)

	identityOpts := []identity.Option{identity.WithInterfaces(opts.Interfaces)}
	if cfg.Identity.PrivateIP != "" {
		identityOpts = append(identityOpts, identity.WithPrivateIP(cfg.Identity.PrivateIP))
	}
	resolver := identity.NewResolver(searcher, identityOpts...)

	return Inventory{
		Config:    cfg,
		Transport: inventoryTransport,
		Cache:     resourceCache,
		Search:    searcher,
		Identity:  resolver,
		Client:    client.New(inventoryTransport, client.WithSelfResolver(resolver)),
		Metrics:   metrics,
		shutdown:  shutdown,
	}, nil
}

func newMetrics(opts BootstrapConfig) (*telemetry.Metrics, error) {
	if opts.Registerer == nil {
		return nil, nil
	}
	metrics, err := telemetry.NewMetrics(opts.Registerer)
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "metrics could not be registered", err)
	}
	return metrics, nil
}

func newStore(cfg config.Cache, opts BootstrapConfig) (cache.Store, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory:
		return memorycache.NewStore(), nil
	case config.CacheBackendFile:
		return filecache.NewStore(cfg.PathTemplate, filecache.WithFs(opts.CacheFs))
	default:
		return nil, faults.NewTypedError(faults.ValidationError, fmt.Sprintf("unsupported cache backend %q", cfg.Backend), nil)
	}
}

