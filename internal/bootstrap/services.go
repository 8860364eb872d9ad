package bootstrap

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jonesrussell/godiscover/internal/articleindex"
	"github.com/jonesrussell/godiscover/internal/config"
	"github.com/jonesrussell/godiscover/internal/coordination"
	"github.com/jonesrussell/godiscover/internal/dates"
	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/metrics"
	"github.com/jonesrussell/godiscover/internal/scheduler"
	"github.com/jonesrussell/godiscover/internal/strategy"
	"github.com/jonesrussell/godiscover/internal/worker"
)

// DiscoveryComponents holds the assembled discovery engine and the
// coordination pieces around it.
type DiscoveryComponents struct {
	Orchestrator *discovery.Orchestrator
	Metrics      *metrics.Metrics
	Pool         *worker.Pool
	Locker       coordination.SourceLocker
	// RedisClient is nil when Redis is disabled.
	RedisClient *goredis.Client
}

// SetupDiscovery wires strategies, selection, reconciliation, and the
// worker pool into a started discovery engine.
func SetupDiscovery(deps *CommandDeps, db *DatabaseComponents) (*DiscoveryComponents, error) {
	discoveryCfg := deps.Config.Discovery

	counter, err := SetupArticleCounter(deps.Config, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup article counter: %w", err)
	}

	locker, redisClient, err := SetupLocker(deps.Config, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup source locker: %w", err)
	}

	fetcher := strategy.NewFetcher(
		discoveryCfg.RequestTimeout,
		discoveryCfg.RequestsPerSecond,
		discoveryCfg.UserAgent,
	)
	strategies := []discovery.Strategy{
		strategy.NewFeedStrategy(fetcher, deps.Logger),
		strategy.NewHomepageStrategy(discoveryCfg.UserAgent, discoveryCfg.MaxHomepageLinks, deps.Logger),
		strategy.NewClassifierStrategy(),
	}

	orchestrator := discovery.NewOrchestrator(discovery.OrchestratorParams{
		Selector: discovery.NewMethodSelector(db.Telemetry, deps.Logger),
		Runner: discovery.NewStrategyRunner(
			strategies,
			db.Telemetry,
			discovery.RetryWindowWithFallback(discoveryCfg.RetryWindowDays),
			discoveryCfg.ArticleQuota,
			deps.Logger,
		),
		Reconciler: discovery.NewCandidateReconciler(
			db.Links,
			dates.NewWindow(discoveryCfg.RecencyWindowDays),
			deps.Logger,
		),
		States:    db.Sources,
		Links:     db.Links,
		Telemetry: db.Telemetry,
		Articles:  counter,
		Logger:    deps.Logger,
	})

	m := metrics.NewMetrics()

	poolCfg := worker.DefaultConfig()
	poolCfg.WorkerCount = discoveryCfg.WorkerCount
	pool, err := worker.NewPool(poolCfg, orchestrator, locker, m, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	if startErr := pool.Start(); startErr != nil {
		return nil, fmt.Errorf("start worker pool: %w", startErr)
	}

	return &DiscoveryComponents{
		Orchestrator: orchestrator,
		Metrics:      m,
		Pool:         pool,
		Locker:       locker,
		RedisClient:  redisClient,
	}, nil
}

// SetupArticleCounter creates the article-count collaborator. With the
// article index disabled every source reads as having no capture
// history, which the state machine treats leniently.
func SetupArticleCounter(cfg *config.Config, log logger.Interface) (discovery.ArticleCounter, error) {
	esCfg := cfg.Elasticsearch
	if esCfg == nil || !esCfg.Enabled {
		log.Debug("Article index disabled, using no-op counter")
		return articleindex.NoOpCounter{}, nil
	}

	client, err := articleindex.NewClient(esCfg, log)
	if err != nil {
		return nil, fmt.Errorf("create Elasticsearch client: %w", err)
	}

	log.Info("Article index enabled", "index", esCfg.ArticleIndex)
	return articleindex.NewCounter(client, esCfg.ArticleIndex, log), nil
}

// SetupLocker creates the cross-instance source locker. With Redis
// disabled a no-op locker is returned; the pool's per-batch dedupe then
// carries exclusivity within the process only. A Redis that is enabled
// but unreachable is an error rather than a silent fallback, so an
// operator who asked for cross-instance exclusivity never loses it
// quietly.
func SetupLocker(cfg *config.Config, log logger.Interface) (coordination.SourceLocker, *goredis.Client, error) {
	redisCfg := cfg.Redis
	if redisCfg == nil || !redisCfg.Enabled {
		log.Debug("Redis disabled, using in-process source locking only")
		return coordination.NoOpLocker{}, nil, nil
	}

	client, err := coordination.NewRedisClient(redisCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to Redis: %w", err)
	}

	log.Info("Source locking enabled", "addr", redisCfg.Addr, "lock_ttl", redisCfg.LockTTL)
	return coordination.NewRedisLocker(client, redisCfg.LockTTL, log), client, nil
}

// SetupScheduler creates and starts the cron sweep scheduler.
func SetupScheduler(deps *CommandDeps, db *DatabaseComponents, pool *worker.Pool) (*scheduler.Scheduler, error) {
	sched, err := scheduler.New(deps.Config.Discovery.Schedule, db.Sources, pool, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if startErr := sched.Start(); startErr != nil {
		return nil, fmt.Errorf("start scheduler: %w", startErr)
	}
	return sched, nil
}
