// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/onetime/cmd/app/commands"
	"github.com/allisson/onetime/internal/app"
	"github.com/allisson/onetime/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "onetime",
		Usage:   "One-time secret sharing service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API and metrics servers",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "generate-global-secret",
				Usage: "Generate a new global secret for key derivation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "kms-key-uri",
						Aliases: []string{"k"},
						Value:   "",
						Usage:   "Wrap the secret with this KMS key before output (e.g., base64key://..., awskms:///alias/...)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateGlobalSecret(ctx, commands.DefaultIO().Writer, cmd.String("kms-key-uri"))
				},
			},
			{
				Name:  "encryption-check",
				Usage: "Verify the configured encryption path with a round-trip probe",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					cipher, err := container.SecretCipher()
					if err != nil {
						return err
					}

					keystore, err := container.Keystore()
					if err != nil {
						return err
					}

					return commands.RunEncryptionCheck(
						commands.DefaultIO().Writer,
						cipher,
						keystore,
						cfg.AllowNilGlobalSecret,
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "clean-expired-secrets",
				Usage: "Delete secrets that expired more than the specified days ago",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete secrets that expired more than this many days ago",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many secrets would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					secretUseCase, err := container.SecretUseCase()
					if err != nil {
						return err
					}

					return commands.RunCleanExpiredSecrets(
						ctx,
						secretUseCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
