package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/driftcrew/wildsea-api/internal/catalog"
	"github.com/driftcrew/wildsea-api/internal/handlers/api"
	charorch "github.com/driftcrew/wildsea-api/internal/orchestrators/character"
	sessorch "github.com/driftcrew/wildsea-api/internal/orchestrators/session"
	shiporch "github.com/driftcrew/wildsea-api/internal/orchestrators/ship"
	"github.com/driftcrew/wildsea-api/internal/pkg/idgen"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	presencerepo "github.com/driftcrew/wildsea-api/internal/repositories/presence"
	sessionrepo "github.com/driftcrew/wildsea-api/internal/repositories/session"
	shiprepo "github.com/driftcrew/wildsea-api/internal/repositories/ship"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

type serverConfig struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisUseTLS   bool          `env:"REDIS_USE_TLS" envDefault:"false"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"30s"`
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the wildsea-api HTTP server with all configured services.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := env.ParseAs[serverConfig]()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{
		PoolSize: cfg.RedisPoolSize,
		UseTLS:   cfg.RedisUseTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			slog.Warn("failed to close redis client", "error", closeErr.Error())
		}
	}()

	handler, err := buildHandler(client)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "port", cfg.Port)
		if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", serveErr)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down http server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer shutdownCancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("shutdown failed: %w", shutdownErr)
		}
		slog.Info("server stopped")
		return nil
	case err := <-errChan:
		return err
	}
}

func buildHandler(client redisclient.Client) (*api.Handler, error) {
	charRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create character repository: %w", err)
	}
	shipRepo, err := shiprepo.NewRedis(&shiprepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create ship repository: %w", err)
	}
	sessRepo, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}
	presRepo, err := presencerepo.NewRedis(&presencerepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create presence repository: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	publisher, err := sync.NewPublisher(&sync.PublisherConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	charSvc, err := charorch.New(&charorch.Config{
		CharacterRepo:   charRepo,
		Catalog:         cat,
		Publisher:       publisher,
		IDGenerator:     idgen.NewUUID("char"),
		ItemIDGenerator: idgen.NewUUID("item"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create character service: %w", err)
	}

	shipSvc, err := shiporch.New(&shiporch.Config{
		ShipRepo:        shipRepo,
		Catalog:         cat,
		Publisher:       publisher,
		IDGenerator:     idgen.NewUUID("ship"),
		ItemIDGenerator: idgen.NewUUID("item"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ship service: %w", err)
	}

	sessSvc, err := sessorch.New(&sessorch.Config{
		SessionRepo:   sessRepo,
		CharacterRepo: charRepo,
		ShipRepo:      shipRepo,
		PresenceRepo:  presRepo,
		Publisher:     publisher,
		IDGenerator:   idgen.NewUUID("sess"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	return api.New(&api.Config{
		CharacterService: charSvc,
		ShipService:      shipSvc,
		SessionService:   sessSvc,
		Client:           client,
		PresenceRepo:     presRepo,
	})
}
