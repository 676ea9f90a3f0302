// Command workforcectl runs offline maintenance against the workforce database.
//
// Usage:
//
//	workforcectl migrate
//	workforcectl reset-db --yes
//	workforcectl createsuperuser --name admin [--password secret]
//	workforcectl prune-tokens
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"workforce-api/internal/config"
	"workforce-api/internal/database"
	"workforce-api/internal/logger"
	"workforce-api/internal/repository"
	"workforce-api/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}

	cmd, ok := lookupCommand(args[0])
	if !ok {
		printUsage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}

	opts, err := cmd.parse(args[1:], stdout)
	if err != nil {
		return err
	}
	if opts == nil {
		return nil
	}

	cfg, err := config.LoadStore()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer db.Close()

	env := &environment{
		db:     db,
		out:    stdout,
		ledger: service.NewTokenLedger(repository.NewTokenRepository(db.Pool), nil),
		workforce: service.NewWorkforceService(
			repository.NewUserRepository(db.Pool),
			repository.NewSellerRepository(db.Pool),
			cfg.BcryptCost,
			nil,
		),
	}

	log.Debug("running command", "command", cmd.name)
	return cmd.run(ctx, env, opts)
}
