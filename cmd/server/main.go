package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	compliancehandler "africonnect/internal/compliance/handler"
	compliancemetrics "africonnect/internal/compliance/metrics"
	complianceports "africonnect/internal/compliance/ports"
	complianceservice "africonnect/internal/compliance/service"
	"africonnect/internal/compliance/similarity"
	compliancestore "africonnect/internal/compliance/store"
	contracthandler "africonnect/internal/contract/handler"
	contractmetrics "africonnect/internal/contract/metrics"
	contractports "africonnect/internal/contract/ports"
	contractservice "africonnect/internal/contract/service"
	contractstore "africonnect/internal/contract/store"
	dirstore "africonnect/internal/directory/store"
	"africonnect/internal/escrow/adapters/blockchain"
	"africonnect/internal/escrow/adapters/gateway"
	"africonnect/internal/escrow/adapters/rates"
	escrowgraph "africonnect/internal/escrow/graph"
	escrowhandler "africonnect/internal/escrow/handler"
	escrowmetrics "africonnect/internal/escrow/metrics"
	escrowmodels "africonnect/internal/escrow/models"
	escrowports "africonnect/internal/escrow/ports"
	escrowservice "africonnect/internal/escrow/service"
	escrowstore "africonnect/internal/escrow/store"
	jwttoken "africonnect/internal/jwt_token"
	"africonnect/internal/platform/catalog"
	"africonnect/internal/platform/config"
	pgraph "africonnect/internal/platform/graph"
	"africonnect/internal/platform/httpserver"
	"africonnect/internal/platform/kafka"
	"africonnect/internal/platform/logger"
	"africonnect/internal/platform/metrics"
	"africonnect/internal/platform/postgres"
	predis "africonnect/internal/platform/redis"
	ratelimitmetrics "africonnect/internal/ratelimit/metrics"
	ratelimitmw "africonnect/internal/ratelimit/middleware"
	ratelimitmodels "africonnect/internal/ratelimit/models"
	"africonnect/internal/ratelimit/service/requestlimit"
	"africonnect/internal/ratelimit/store/bucket"
	httptransport "africonnect/internal/transport/http"
	"africonnect/pkg/platform/audit"
	"africonnect/pkg/platform/audit/outbox"
	"africonnect/pkg/platform/audit/publisher"
	auditmemory "africonnect/pkg/platform/audit/store/memory"
	auditpg "africonnect/pkg/platform/audit/store/postgres"
	"africonnect/pkg/platform/circuit"
	"africonnect/pkg/platform/lock"
)

const (
	tokenIssuer   = "africonnect"
	tokenAudience = "africonnect-api"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// infra holds the optional backing services. Nil fields mean the in-memory
// fallback is in use.
type infra struct {
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	redis  *predis.Client
	graph  pgraph.Client
	health map[string]httptransport.HealthCheck
}

func (i *infra) close(log *slog.Logger) {
	if i.graph != nil {
		if err := i.graph.Close(context.Background()); err != nil {
			log.Warn("failed to close graph client", "error", err)
		}
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.sqlDB != nil {
		_ = i.sqlDB.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{health: map[string]httptransport.HealthCheck{}}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, postgres.Config{
			URL:             cfg.DatabaseURL,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		})
		if err != nil {
			return in, fmt.Errorf("connect postgres: %w", err)
		}
		in.pool = pool
		if err := postgres.Migrate(ctx, pool); err != nil {
			return in, fmt.Errorf("migrate: %w", err)
		}
		// The outbox writer and relay run on database/sql.
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return in, fmt.Errorf("open outbox db: %w", err)
		}
		in.sqlDB = db
		in.health["postgres"] = pool.Ping
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	client, err := predis.New(ctx, cfg.Redis)
	if err != nil {
		return in, fmt.Errorf("connect redis: %w", err)
	}
	if client != nil {
		in.redis = client
		in.health["redis"] = client.Health
	}

	if cfg.Graph.URI != "" {
		g, err := pgraph.NewNeo4jClient(ctx, pgraph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		})
		if err != nil {
			return in, fmt.Errorf("connect graph: %w", err)
		}
		in.graph = g
		in.health["neo4j"] = g.Ping
	}
	return in, nil
}

// directory is the union of what the contract, compliance and escrow
// services need from the user and service directory.
type directory interface {
	contractports.Directory
	escrowstore.WalletApplier
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	in, err := connect(ctx, cfg, log)
	defer in.close(log)
	if err != nil {
		return err
	}

	// Stores
	var (
		users       directory
		regulations complianceports.RegulationStore
		contracts   contractports.ContractStore
		txs         escrowports.TransactionStore
		auditStore  audit.Store
	)
	regs, err := compliancestore.FromCatalog(cat)
	if err != nil {
		return err
	}
	if in.pool != nil {
		dir := dirstore.NewPostgres(in.pool)
		if err := seedDirectory(ctx, dir, cat); err != nil {
			return err
		}
		regStore := compliancestore.NewPostgres(in.pool)
		for _, r := range regs {
			if err := regStore.Upsert(ctx, r); err != nil {
				return fmt.Errorf("seed regulation %s: %w", r.ID, err)
			}
		}
		users, regulations = dir, regStore
		contracts = contractstore.NewPostgres(in.pool)
		txs = escrowstore.NewPostgres(in.pool, dir)
		auditStore = auditpg.New(in.sqlDB)
	} else {
		dir := dirstore.NewInMemory()
		if err := dir.SeedFromCatalog(cat); err != nil {
			return err
		}
		regStore := compliancestore.NewInMemory()
		for _, r := range regs {
			regStore.Put(r)
		}
		users, regulations = dir, regStore
		contracts = contractstore.NewInMemory()
		txs = escrowstore.NewInMemory(dir)
		auditStore = auditmemory.NewInMemoryStore()
	}

	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	var locker lock.Locker = lock.NewKeyed(cfg.LockTimeout)
	if in.redis != nil {
		locker = lock.NewRedis(in.redis, cfg.LockTimeout)
		log.Info("using redis locks")
	}

	// Compliance
	scorerCfg := similarity.DefaultConfig()
	if len(cat.Compliance.StopWords) > 0 {
		scorerCfg.StopWords = cat.Compliance.StopWords
	}
	if cat.Compliance.MinTermLength > 0 {
		scorerCfg.MinTermLength = cat.Compliance.MinTermLength
	}
	if cat.Compliance.MaxKeyTerms > 0 {
		scorerCfg.MaxTerms = cat.Compliance.MaxKeyTerms
	}
	complianceMetrics := compliancemetrics.New()
	complianceOpts := []complianceservice.Option{
		complianceservice.WithLogger(log),
		complianceservice.WithMetrics(complianceMetrics),
		complianceservice.WithAuditPublisher(auditPublisher),
		complianceservice.WithScorer(similarity.New(scorerCfg)),
	}
	if cat.Compliance.SimilarityThreshold > 0 {
		complianceOpts = append(complianceOpts, complianceservice.WithThreshold(cat.Compliance.SimilarityThreshold))
	}
	compliance := complianceservice.New(regulations, users, users, complianceOpts...)

	// Escrow
	ledger := escrowservice.New(txs, users,
		paymentGateway(cfg, log),
		blockchainAdapter(cfg),
		rateSource(cfg, cat, in, log),
		escrowmodels.FeeScheduleFromCatalog(cat),
		ledgerOptions(cfg, log, in, auditPublisher, locker)...,
	)

	// Contracts
	contractSvc := contractservice.New(contracts, users, compliance, ledger,
		contractservice.WithLogger(log),
		contractservice.WithMetrics(contractmetrics.New()),
		contractservice.WithAuditPublisher(auditPublisher),
		contractservice.WithLocker(locker),
	)

	monitor := complianceservice.NewMonitor(compliance, contractSvc,
		complianceservice.WithMonitorLogger(log),
		complianceservice.WithMonitorMetrics(complianceMetrics),
		complianceservice.WithMonitorAuditPublisher(auditPublisher),
	)

	limiter, err := rateLimiter(cfg, in, log, auditPublisher)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, tokenIssuer, tokenAudience)
	router := httptransport.NewRouter(httptransport.Config{
		Logger:    log,
		Validator: jwtService.Validator(),
		Metrics:   metrics.New(),
		Health:    in.health,
		RateLimit: limiter.RateLimit,
		Handlers: []httptransport.RouteRegistrar{
			contracthandler.New(contractSvc, log),
			escrowhandler.New(ledger, contractSvc, log),
			compliancehandler.New(compliance, monitor, log),
		},
	})
	srv := httpserver.New(cfg.Addr, router,
		httpserver.WithWriteTimeout(cfg.Gateway.Timeout+10*time.Second),
		httpserver.WithLogger(log),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting africonnect", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.MonitorInterval > 0 {
		g.Go(func() error {
			runMonitor(gctx, monitor, cfg.MonitorInterval, log)
			return nil
		})
	}

	if in.sqlDB != nil && len(cfg.Kafka.Brokers) > 0 {
		relay, err := startRelay(gctx, cfg, in.sqlDB, log)
		if err != nil {
			return err
		}
		g.Go(func() error { return relay.Run(gctx) })
	}

	return g.Wait()
}

func rateLimiter(cfg config.Server, in *infra, log *slog.Logger, pub *publisher.Publisher) (*ratelimitmw.Middleware, error) {
	limits := ratelimitmodels.DefaultConfig()
	for class, n := range map[ratelimitmodels.EndpointClass]int{
		ratelimitmodels.ClassRead:  cfg.RateLimit.UserRead,
		ratelimitmodels.ClassWrite: cfg.RateLimit.UserWrite,
		ratelimitmodels.ClassMoney: cfg.RateLimit.UserMoney,
	} {
		if n > 0 {
			limits.UserLimits[class] = ratelimitmodels.Limit{RequestsPerWindow: n, Window: cfg.RateLimit.Window}
		}
	}

	m := ratelimitmetrics.New()
	var buckets requestlimit.BucketStore = bucket.New()
	if in.redis != nil {
		buckets = bucket.NewRedis(in.redis)
	}
	requests, err := requestlimit.New(buckets,
		requestlimit.WithConfig(limits),
		requestlimit.WithLogger(log),
		requestlimit.WithMetrics(m),
		requestlimit.WithAuditPublisher(pub),
	)
	if err != nil {
		return nil, err
	}

	opts := []ratelimitmw.Option{
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitmw.WithMetrics(m),
	}
	if in.redis != nil {
		opts = append(opts, ratelimitmw.WithFallback(
			ratelimitmw.NewFallbackLimiter(limits, log, m),
			circuit.New("ratelimit",
				circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
				circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
				circuit.WithCooldown(cfg.Breaker.Cooldown),
			),
		))
	}
	return ratelimitmw.New(requests, log, opts...), nil
}

func seedDirectory(ctx context.Context, dir *dirstore.PostgresStore, cat *catalog.Catalog) error {
	users, services, err := dirstore.FixturesFromCatalog(cat)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := dir.PutUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, s := range services {
		if err := dir.PutService(ctx, s); err != nil {
			return fmt.Errorf("seed service %s: %w", s.ID, err)
		}
	}
	return nil
}

func paymentGateway(cfg config.Server, log *slog.Logger) escrowports.PaymentGateway {
	if cfg.Gateway.URL == "" {
		log.Warn("PAYMENT_GATEWAY_URL not set, using sandbox gateway")
		return gateway.NewSandbox()
	}
	return gateway.NewHTTP(cfg.Gateway.URL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)
}

func blockchainAdapter(cfg config.Server) escrowports.Blockchain {
	if cfg.Blockchain.URL == "" {
		return blockchain.Noop{}
	}
	return blockchain.NewHTTP(cfg.Blockchain.URL, cfg.Blockchain.Timeout)
}

func rateSource(cfg config.Server, cat *catalog.Catalog, in *infra, log *slog.Logger) escrowports.RateSource {
	var src escrowports.RateSource = rates.NewStatic(cat.ExchangeRates)
	if cfg.Rates.URL != "" {
		src = rates.NewHTTP(cfg.Rates.URL, cfg.Rates.Timeout)
	}
	if in.redis != nil && cfg.Rates.CacheTTL > 0 {
		src = rates.NewCached(src, in.redis, cfg.Rates.CacheTTL, rates.WithLogger(log))
	}
	return src
}

func ledgerOptions(cfg config.Server, log *slog.Logger, in *infra, pub *publisher.Publisher, locker lock.Locker) []escrowservice.Option {
	opts := []escrowservice.Option{
		escrowservice.WithLogger(log),
		escrowservice.WithMetrics(escrowmetrics.New()),
		escrowservice.WithAuditPublisher(pub),
		escrowservice.WithLocker(locker),
		escrowservice.WithBreaker(circuit.New("payment_gateway",
			circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
			circuit.WithCooldown(cfg.Breaker.Cooldown),
		)),
	}
	if cfg.Gateway.Timeout > 0 {
		opts = append(opts, escrowservice.WithGatewayTimeout(cfg.Gateway.Timeout))
	}
	if cfg.Blockchain.Timeout > 0 {
		opts = append(opts, escrowservice.WithBlockchainTimeout(cfg.Blockchain.Timeout))
	}
	if in.graph != nil {
		opts = append(opts, escrowservice.WithProjector(escrowgraph.NewProjector(in.graph)))
	}
	return opts
}

func startRelay(ctx context.Context, cfg config.Server, db *sql.DB, log *slog.Logger) (*outbox.Relay, error) {
	producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, "africonnect-outbox")
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if cfg.Kafka.CreateTopics {
		topics := []string{
			outbox.Topic(cfg.Kafka.TopicPrefix, string(audit.CategoryCompliance)),
			outbox.Topic(cfg.Kafka.TopicPrefix, string(audit.CategorySecurity)),
			outbox.Topic(cfg.Kafka.TopicPrefix, string(audit.CategoryOperations)),
		}
		if err := kafka.EnsureTopics(ctx, producer, 3, topics...); err != nil {
			producer.Close()
			return nil, err
		}
	}
	go func() {
		<-ctx.Done()
		producer.Close()
	}()
	return outbox.New(db, producer, cfg.Kafka.TopicPrefix,
		outbox.WithBatchSize(cfg.Kafka.RelayBatch),
		outbox.WithPeriod(cfg.Kafka.RelayPeriod),
		outbox.WithLogger(log),
	), nil
}

// runMonitor sweeps active contracts on a fixed interval until ctx ends.
func runMonitor(ctx context.Context, monitor *complianceservice.Monitor, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changes, err := monitor.MonitorRegulatoryChanges(ctx)
			if err != nil {
				log.ErrorContext(ctx, "compliance monitor sweep failed", "error", err)
				continue
			}
			if len(changes) > 0 {
				log.InfoContext(ctx, "compliance monitor sweep", "changes", len(changes))
			}
		}
	}
}
