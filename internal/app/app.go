package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/gridiron-fantasy/external/gridirondata"
	"github.com/riskibarqy/gridiron-fantasy/external/jobqueue"
	"github.com/riskibarqy/gridiron-fantasy/external/projectionfeed"
	"github.com/riskibarqy/gridiron-fantasy/internal/config"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/playevent"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/player"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/projection"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/roster"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/gridiron-fantasy/internal/domain/team"
	"github.com/riskibarqy/gridiron-fantasy/internal/infrastructure/account/anubis"
	cacherepo "github.com/riskibarqy/gridiron-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/gridiron-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gridiron-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/gridiron-fantasy/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/gridiron-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/gridiron-fantasy/internal/platform/id"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/logging"
	"github.com/riskibarqy/gridiron-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/gridiron-fantasy/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// Application owns the HTTP server plus the long-lived resources behind it.
type Application struct {
	Server *http.Server

	db *sqlx.DB
}

// Close releases pooled resources. Call it after the server has shut down.
func (a *Application) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// New wires storage, external providers, usecases, and the HTTP router into a
// runnable application. Storage backend and providers are selected from cfg:
// an empty or "memory" DB_URL runs fully in memory on seed data, disabled
// providers leave their usecases degraded (handlers answer 503 for them).
func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	rules := scoring.DefaultRules()
	scoringService, err := usecase.NewScoringService(rules)
	if err != nil {
		return nil, fmt.Errorf("build scoring service: %w", err)
	}

	var (
		db             *sqlx.DB
		teamRepo       team.Repository
		playerRepo     player.Repository
		eventRepo      playevent.Repository
		projectionRepo projection.Repository
		rosterRepo     roster.Repository
		dispatchRepo   jobscheduler.Repository
	)

	if useInMemoryStore(cfg.DBURL) {
		memTeams := memory.NewTeamRepository(memory.SeedTeams())
		if err := memTeams.UpsertReturnStats(context.Background(), memory.SeedTeamReturnStats()); err != nil {
			return nil, fmt.Errorf("seed team return stats: %w", err)
		}
		teamRepo = memTeams
		playerRepo = memory.NewPlayerRepository(memory.SeedPlayers())
		eventRepo = memory.NewPlayEventRepository(memory.SeedPlayEvents())
		projectionRepo = memory.NewProjectionRepository()
		rosterRepo = memory.NewRosterRepository()
		dispatchRepo = memory.NewJobDispatchRepository()
		logger.Info("storage configured", "driver", "memory")
	} else {
		db, err = openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AppEnv == config.EnvDev {
			seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			seedErr := postgres.BootstrapSeed(seedCtx, db)
			cancel()
			if seedErr != nil {
				_ = db.Close()
				return nil, fmt.Errorf("bootstrap seed: %w", seedErr)
			}
		}
		teamRepo = postgres.NewTeamRepository(db)
		playerRepo = postgres.NewPlayerRepository(db)
		eventRepo = postgres.NewPlayEventRepository(db)
		projectionRepo = postgres.NewProjectionRepository(db)
		rosterRepo = postgres.NewRosterRepository(db)
		dispatchRepo = postgres.NewJobDispatchRepository(db)
		logger.Info("storage configured", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, store)
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, store)
		eventRepo = cacherepo.NewPlayEventRepository(eventRepo, store)
		projectionRepo = cacherepo.NewProjectionRepository(projectionRepo, store)
		rosterRepo = cacherepo.NewRosterRepository(rosterRepo, store)
		logger.Info("repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	ids := idgen.NewRandomGenerator()

	var statsProvider usecase.StatsProvider
	if cfg.GridironDataEnabled {
		statsProvider = gridirondata.NewClient(gridirondata.ClientConfig{
			BaseURL:    cfg.GridironDataBaseURL,
			Token:      cfg.GridironDataToken,
			Timeout:    cfg.GridironDataTimeout,
			MaxRetries: cfg.GridironDataMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.GridironDataCircuitEnabled,
				FailureThreshold: cfg.GridironDataCircuitFailureCount,
				OpenTimeout:      cfg.GridironDataCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.GridironDataCircuitHalfOpenMaxReq,
			},
		})
	} else {
		logger.Warn("gridiron data provider disabled", "effect", "ingestion and result sync unavailable")
	}

	var feedProvider usecase.ProjectionFeedProvider
	if cfg.ProjectionFeedEnabled {
		feedProvider = projectionfeed.NewClient(projectionfeed.ClientConfig{
			BaseURL:    cfg.ProjectionFeedBaseURL,
			Token:      cfg.ProjectionFeedToken,
			Timeout:    cfg.ProjectionFeedTimeout,
			MaxRetries: cfg.ProjectionFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ProjectionFeedCircuitEnabled,
				FailureThreshold: cfg.ProjectionFeedCircuitFailureCount,
				OpenTimeout:      cfg.ProjectionFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ProjectionFeedCircuitHalfOpenMax,
			},
		})
	} else {
		logger.Warn("projection feed provider disabled", "effect", "projection refresh unavailable")
	}

	patternService := usecase.NewPatternService(eventRepo, rules)
	ingestionService := usecase.NewIngestionService(statsProvider, playerRepo, teamRepo, eventRepo, patternService, ids, logger)
	projectionService := usecase.NewProjectionService(feedProvider, playerRepo, teamRepo, projectionRepo, patternService, rules, ids, logger)
	resultService := usecase.NewResultService(statsProvider, playerRepo, projectionRepo, rules, ids, logger)
	accuracyService := usecase.NewAccuracyService(projectionRepo)
	rosterService := usecase.NewRosterService(rosterRepo, playerRepo)
	lineupService := usecase.NewLineupService(rosterRepo, playerRepo, projectionRepo)

	jobQueue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		jobQueue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	} else {
		logger.Warn("qstash disabled", "effect", "job dispatches run inline without queue delivery")
	}

	jobOrchestrator := usecase.NewJobOrchestratorService(
		projectionService,
		resultService,
		ingestionService,
		jobQueue,
		dispatchRepo,
		usecase.JobOrchestratorConfig{
			ProjectionInterval: cfg.JobProjectionInterval,
			ResultsInterval:    cfg.JobResultsInterval,
			IngestInterval:     cfg.JobIngestInterval,
		},
		logger,
	)
	dashboardService := usecase.NewDashboardService(eventRepo, projectionRepo, patternService, dispatchRepo, ingestionService)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		scoringService,
		patternService,
		projectionService,
		resultService,
		accuracyService,
		rosterService,
		lineupService,
		ingestionService,
		jobOrchestrator,
		dashboardService,
		dispatchRepo,
		logger,
	)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Application{Server: server, db: db}, nil
}

// useInMemoryStore reports whether the DB URL selects the seeded in-memory
// repositories instead of Postgres.
func useInMemoryStore(dbURL string) bool {
	normalized := strings.ToLower(strings.TrimSpace(dbURL))
	return normalized == "" || normalized == "memory"
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	otelsql.ReportDBStatsMetrics(db.DB)

	return db, nil
}
