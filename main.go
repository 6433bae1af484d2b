package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ghaggin/eduarchive/internal/account"
	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/metrics"
	"github.com/ghaggin/eduarchive/internal/middleware"
	"github.com/ghaggin/eduarchive/internal/payment"
	"github.com/ghaggin/eduarchive/internal/repository"
	"github.com/ghaggin/eduarchive/internal/server"
	"github.com/ghaggin/eduarchive/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "eduarchive",
		Short:         "EduArchive web server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")

	cmd.AddCommand(newServeCommand(&configPath))
	cmd.AddCommand(newTokenCommand(&configPath))
	return cmd
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// deps is everything except the HTTP server.
func deps(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(config.Path(configPath)),
		fx.Provide(
			config.New,
			newLogger,
			repository.New,
			payment.NewGateway,
			storage.New,
			metrics.New,
			middleware.NewGate,
			middleware.NewAuthn,
			middleware.NewSessionManager,
		),
		auth.Module,
		account.Module,
	)
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				deps(*configPath),
				fx.Provide(server.New),
				fx.Invoke(server.RegisterHooks),
			)
			if err := app.Err(); err != nil {
				return err
			}

			app.Run()
			return nil
		},
	}
}

func newTokenCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Session token operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTokenIssueCommand(configPath))
	return cmd
}

func newTokenIssueCommand(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a session token for an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var (
				cfg    *config.Config
				issuer *auth.Issuer
				repo   repository.Repository
			)
			app := fx.New(
				deps(*configPath),
				fx.Populate(&cfg, &issuer, &repo),
			)
			if err := app.Err(); err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("no jwt secret configured; a token signed with an ephemeral secret would be useless")
			}

			if err := app.Start(ctx); err != nil {
				return err
			}
			defer app.Stop(context.Background())

			user, err := repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return fmt.Errorf("find %s: %w", email, err)
			}

			token, err := issuer.Issue(user.Session())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
