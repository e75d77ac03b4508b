package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"propchat/internal/config"
	"propchat/internal/handler"
	"propchat/internal/logger"
	"propchat/internal/repository"
	"propchat/internal/service"
	"propchat/internal/session"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Property chat API")

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Dataset
	schema, err := repository.LoadSchema(cfg.Data.SchemaFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid source-field schema")
	}
	dataset := repository.NewDatasetStore(schema, log)
	loadDataset(ctx, cfg, dataset, log)

	// Sessions
	sessions, closeSessions := openSessionStore(ctx, cfg, log)
	defer closeSessions()

	// Extraction
	var oracle *service.OracleExtractor
	if cfg.OpenAI.Enabled {
		oracle = service.NewOracleExtractor(service.NewOpenAIClient(&cfg.OpenAI, log), cfg.OpenAI.Timeout)
		log.Info().
			Str("api_base", cfg.OpenAI.APIBase).
			Str("model", cfg.OpenAI.ChatModel).
			Dur("timeout", cfg.OpenAI.Timeout).
			Msg("Completion oracle enabled")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, filters are extracted by pattern rules only")
	}
	extractor := service.NewFallbackExtractor(oracle, service.NewPatternExtractor(), log)

	engine := service.NewSearchEngine(cfg.Data.StrictNumericFilters, service.NewRanker(), log)
	chatService := service.NewChatService(extractor, sessions, dataset, engine, service.ChatOptions{
		MaxResults:      cfg.Chat.MaxResults,
		HistorySize:     cfg.Session.HistorySize,
		LastResultsSize: cfg.Session.LastResultsSize,
	}, log)

	router := newRouter(cfg, routeHandlers{
		chat:    handler.NewChatHandler(chatService, cfg.Chat.MaxMessageLength, log),
		context: handler.NewContextHandler(chatService, log),
		health: handler.NewHealthHandler(dataset, handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		}),
	}, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server stopped")
}

// loadDataset reads the dataset before the listener opens. Without
// DATA_FAIL_FAST the server still starts so /health can report the failure.
func loadDataset(ctx context.Context, cfg *config.Config, dataset *repository.DatasetStore, log zerolog.Logger) {
	var src repository.Source
	switch cfg.Data.Source {
	case "postgres":
		pg, err := repository.NewPostgresSource(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			failLoad(cfg, log, err)
			return
		}
		// the dataset is static after load
		defer pg.Close()
		src = pg
	default:
		src = repository.NewCSVSource(cfg.Data.CSVDir)
	}

	if err := dataset.Load(ctx, src); err != nil {
		failLoad(cfg, log, err)
	}
}

func failLoad(cfg *config.Config, log zerolog.Logger, err error) {
	if cfg.Data.FailFast {
		log.Fatal().Err(err).Msg("Dataset load failed")
	}
	log.Error().Err(err).Msg("Dataset load failed, chat requests will return 503 until restart")
}

func openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.Store, func()) {
	if cfg.Session.Backend != "redis" {
		log.Info().Msg("Using in-memory session store")
		return session.NewMemoryStore(), func() {}
	}

	client, err := session.NewRedisClient(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Session.RedisAddr).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.Session.RedisAddr).Msg("Using Redis session store")

	return session.NewRedisStore(client, cfg.Session.RedisKeyPrefix), func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}
