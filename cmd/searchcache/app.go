package main

import (
	"fmt"
	"os"

	"github.com/searchcache-ai/searchcache/pkg/analytics"
	"github.com/searchcache-ai/searchcache/pkg/cache"
	"github.com/searchcache-ai/searchcache/pkg/cache/memory"
	cachesqlite "github.com/searchcache-ai/searchcache/pkg/cache/sqlite"
	"github.com/searchcache-ai/searchcache/pkg/config"
	"github.com/searchcache-ai/searchcache/pkg/search"
	"github.com/searchcache-ai/searchcache/pkg/transport"
	"github.com/searchcache-ai/searchcache/pkg/ttl"
)

// app holds the wired components shared by the CLI commands.
type app struct {
	cfg       *config.Config
	store     *cache.TieredStore
	analytics *analytics.Store
	popular   *ttl.PopularTracker
	service   *search.Service
}

// loadConfig reads the config file if it exists, otherwise uses defaults so
// the CLI works out of the box.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newApp wires the cache, analytics, classifier, transport, and orchestrator.
func newApp(configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	an, err := analytics.New(cfg.DBPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init analytics: %w", err)
	}
	an.SetCache(store)

	popular := ttl.NewPopularTracker(an, store)
	classifier := ttl.NewClassifier(ttl.Durations{
		Short:     cfg.TTL.Short,
		Medium:    cfg.TTL.Medium,
		Long:      cfg.TTL.Long,
		Permanent: cfg.TTL.Permanent,
	}, popular)

	backend := transport.New(cfg.Backend)
	service := search.New(cfg, store, classifier, backend, an)

	return &app{
		cfg:       cfg,
		store:     store,
		analytics: an,
		popular:   popular,
		service:   service,
	}, nil
}

// openStore builds the two-tier cache per configuration.
func openStore(cfg *config.Config) (*cache.TieredStore, error) {
	fast, err := memory.New(cfg.Cache.FastCapacity)
	if err != nil {
		return nil, fmt.Errorf("init fast cache: %w", err)
	}

	var durable *cachesqlite.Store
	if cfg.Cache.Durable {
		durable, err = cachesqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init durable cache: %w", err)
		}
	}

	return cache.NewTiered(fast, durable), nil
}

// close releases the app's stores.
func (a *app) close() {
	_ = a.analytics.Close()
	_ = a.store.Close()
}
