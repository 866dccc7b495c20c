package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"quizhost-service/internal/app"
	"quizhost-service/internal/auth"
	"quizhost-service/internal/config"
)

// NewCreateAdminCmd registers a backoffice account against the configured store.
func NewCreateAdminCmd(configPath *string) *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cmd.Context(), *configPath, email, password, role)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&role, "role", "", "admin role (defaults to Admin)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createAdmin(ctx context.Context, configPath, email, password, role string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	tokens := auth.NewManager(cfg.Auth.JWTSecret, 0)
	service := app.NewAuthService(store, tokens)
	if err := service.RegisterAdmin(ctx, email, password, role); err != nil {
		return err
	}
	log.Printf("admin %s created", email)
	return nil
}
