package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/priyal/unimatch/backend/internal/cache"
	"github.com/priyal/unimatch/backend/internal/config"
	"github.com/priyal/unimatch/backend/internal/graph"
	"github.com/priyal/unimatch/backend/internal/logging"
	"github.com/priyal/unimatch/backend/internal/repository"
	"github.com/priyal/unimatch/backend/internal/scoring"
	"github.com/priyal/unimatch/backend/internal/server"
	"github.com/priyal/unimatch/backend/internal/service"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	profileRepo := repository.NewProfileRepository(graphClient)
	candidateRepo := repository.NewCandidateRepository(graphClient)
	matchRepo := repository.NewMatchRepository(graphClient)

	if err := profileRepo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure graph schema", "error", err)
		os.Exit(1)
	}

	matchCache := buildMatchCache(ctx, logger, cfg.Redis)

	scorer := scoring.New(scoring.Weights{
		Interests:    cfg.Matching.InterestsWeight,
		Personality:  cfg.Matching.PersonalityWeight,
		Demographics: cfg.Matching.DemographicsWeight,
		Affiliation:  cfg.Matching.AffiliationWeight,
	})

	limits := service.DefaultLimits()
	limits.CandidateLimit = cfg.Matching.CandidateLimit
	limits.DefaultMatchLimit = cfg.Matching.DefaultMatchLimit
	limits.MaxMatchLimit = cfg.Matching.MaxMatchLimit

	matchService := service.NewMatchService(
		profileRepo,
		candidateRepo,
		matchRepo,
		scorer,
		matchCache,
		limits,
		logger,
	)
	apiHandlers := server.NewAPIHandlers(logger, matchService, cfg.Matching.MinCompatibility)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

// buildMatchCache connects to Redis when configured. Caching is optional;
// a missing or unreachable Redis downgrades to direct reads.
func buildMatchCache(ctx context.Context, logger *slog.Logger, cfg config.RedisConfig) *cache.MatchCache {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, match caching disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return nil
	}

	logger.Info("match caching enabled", "addr", cfg.Addr, "ttl", cfg.MatchTTL)
	return cache.New(client, cfg.MatchTTL)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
