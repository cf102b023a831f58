package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/priyal/unimatch/backend/internal/config"
	"github.com/priyal/unimatch/backend/internal/generator"
	"github.com/priyal/unimatch/backend/internal/graph"
	"github.com/priyal/unimatch/backend/internal/logging"
	"github.com/priyal/unimatch/backend/internal/repository"
)

func main() {
	genCfg := generator.DefaultConfig()
	var (
		users = flag.Int("users", genCfg.NumUsers, "number of users to generate")
		seed  = flag.Int64("seed", genCfg.Seed, "random seed for deterministic generation")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.Graph.URI == "" {
		fmt.Fprintln(os.Stderr, "GRAPH_URI must be set to seed the store")
		os.Exit(1)
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	repo := repository.NewProfileRepository(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure graph schema", "error", err)
		os.Exit(1)
	}

	gen := generator.New(generator.Config{NumUsers: *users, Seed: *seed})
	seeded := 0
	for _, sample := range gen.Generate() {
		if err := repo.CreateUser(ctx, sample.User); err != nil {
			logger.Warn("skipping user", "email", sample.User.Email, "error", err)
			continue
		}
		if err := repo.SaveQuestionnaire(ctx, sample.User.ID, sample.Profile, sample.Interests); err != nil {
			logger.Warn("questionnaire failed", "userId", sample.User.ID, "error", err)
			continue
		}
		seeded++
	}

	logger.Info("seeding complete", "requested", *users, "seeded", seeded)
}
