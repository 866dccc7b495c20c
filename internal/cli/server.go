package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizhost-service/internal/app"
	"quizhost-service/internal/auth"
	"quizhost-service/internal/config"
	"quizhost-service/internal/infra/memory"
	pgstore "quizhost-service/internal/infra/postgres"
	redisstore "quizhost-service/internal/infra/redis"
	transport "quizhost-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz hosting server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)
	tokens := auth.NewManager(cfg.Auth.JWTSecret, tokenTTL)

	hub := app.NewScoreboardHub()
	authService := app.NewAuthService(store, tokens)
	catalog := app.NewCatalogService(store)
	attempts := app.NewAttemptService(store, store, hub)
	names := app.NewNameCache(store, config.TTLDuration(cfg.Cache.NameTTL, 10*time.Minute))

	router := transport.NewRouter(authService, catalog, attempts, names, hub)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizhost service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newStore picks the storage backend from config: postgres when a URL is set,
// redis when an address is set, in-memory otherwise.
func newStore(ctx context.Context, cfg config.Config) (app.Store, func(), error) {
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewStore(pool), pool.Close, nil
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewStore(client), func() { _ = client.Close() }, nil
	}

	return memory.NewStore(), func() {}, nil
}
