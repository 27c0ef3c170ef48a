package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/catalog"
	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/graphql"
	"github.com/rshade/bookcat/internal/logging"
)

// session holds what one command invocation builds lazily from the
// configuration: the catalog service, its cache store and client metrics.
type session struct {
	cfg     *config.Config
	metrics *graphql.Metrics

	// concurrency bounds bulk requests; zero keeps the catalog default.
	concurrency int

	svc     *catalog.Service
	store   cache.Store
	closers []func() error
}

type sessionKey struct{}

func newSession(cfg *config.Config) *session {
	return &session{cfg: cfg, metrics: graphql.NewMetrics()}
}

func contextWithSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom returns the session stored by the root command, or a fresh
// one over the global configuration when a command runs on its own.
func sessionFrom(cmd *cobra.Command) *session {
	if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok && s != nil {
		return s
	}
	return newSession(config.GetGlobalConfig())
}

// catalog builds the catalog service on first use.
func (s *session) catalog(ctx context.Context) (*catalog.Service, error) {
	if s.svc != nil {
		return s.svc, nil
	}

	client, err := graphql.NewClient(s.cfg.API.Endpoint,
		graphql.WithTimeout(s.cfg.API.Timeout),
		graphql.WithRateLimit(s.cfg.API.RateLimit, s.cfg.API.Burst),
		graphql.WithMetrics(s.metrics),
		graphql.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating GraphQL client: %w", err)
	}

	opts := []catalog.Option{catalog.WithConcurrency(s.concurrency)}
	store, err := s.cacheStore(ctx)
	if err != nil {
		log := logging.FromContext(ctx)
		log.Warn().Ctx(ctx).Err(err).
			Str("backend", s.cfg.Cache.Backend).
			Msg("result cache unavailable, continuing without it")
	} else if store != nil {
		opts = append(opts, catalog.WithCache(store, client.Endpoint()))
	}

	s.svc = catalog.NewService(client, opts...)
	return s.svc, nil
}

// cacheStore opens the configured cache backend. It returns nil without an
// error when caching is disabled.
func (s *session) cacheStore(ctx context.Context) (cache.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	cc := s.cfg.Cache
	if !cc.Enabled {
		return nil, nil //nolint:nilnil // Disabled cache is not an error.
	}

	switch cc.Backend {
	case config.CacheBackendRedis:
		rs, err := cache.NewRedisStore(cache.RedisOptions{
			Addr:       cc.RedisAddr,
			DB:         cc.RedisDB,
			Prefix:     cc.RedisPrefix,
			TTLSeconds: cc.TTLSeconds,
		})
		if err != nil {
			return nil, err
		}
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cc.RedisAddr, err)
		}
		s.closers = append(s.closers, rs.Close)
		s.store = rs
	case config.CacheBackendFile, "":
		fs, err := cache.NewFileStore(cc.Directory, cc.Enabled, cc.TTLSeconds)
		if err != nil {
			return nil, err
		}
		s.store = fs
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cc.Backend)
	}
	return s.store, nil
}

// close writes the metrics textfile and releases the cache backend.
func (s *session) close(ctx context.Context) {
	log := logging.FromContext(ctx)
	if s.svc != nil {
		if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
			log.Warn().Ctx(ctx).Err(err).
				Str("path", s.cfg.Metrics.Textfile).
				Msg("failed to write metrics textfile")
		}
	}
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("failed to close cache backend")
	}
	s.closers = nil
}
