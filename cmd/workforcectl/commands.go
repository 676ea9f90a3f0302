package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"workforce-api/internal/model"
)

type migrator interface {
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
}

type tokenPruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type userCreator interface {
	CreateUser(ctx context.Context, actor string, req model.CreateUserRequest) (model.User, error)
}

type environment struct {
	db        migrator
	ledger    tokenPruner
	workforce userCreator
	out       io.Writer
	now       func() time.Time
}

type options struct {
	yes      bool
	name     string
	password string
}

type command struct {
	name    string
	summary string
	flags   func(fs *pflag.FlagSet, opts *options)
	run     func(ctx context.Context, env *environment, opts *options) error
}

var commands = []command{
	{
		name:    "migrate",
		summary: "apply pending schema migrations",
		run: func(ctx context.Context, env *environment, _ *options) error {
			if err := env.db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(env.out, "migrations applied")
			return nil
		},
	},
	{
		name:    "reset-db",
		summary: "drop every table and re-apply all migrations",
		flags: func(fs *pflag.FlagSet, opts *options) {
			fs.BoolVar(&opts.yes, "yes", false, "confirm that all data will be destroyed")
		},
		run: func(ctx context.Context, env *environment, opts *options) error {
			if !opts.yes {
				return errors.New("reset-db destroys all data; pass --yes to confirm")
			}
			if err := env.db.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(env.out, "database reset")
			return nil
		},
	},
	{
		name:    "createsuperuser",
		summary: "create an active superuser account",
		flags: func(fs *pflag.FlagSet, opts *options) {
			fs.StringVarP(&opts.name, "name", "n", "", "username of the new superuser (required)")
			fs.StringVarP(&opts.password, "password", "p", "", "password; generated and printed once when empty")
		},
		run: createSuperuser,
	},
	{
		name:    "prune-tokens",
		summary: "delete ledger rows whose expiry has passed",
		run: func(ctx context.Context, env *environment, _ *options) error {
			n, err := env.ledger.PruneExpired(ctx, env.clock())
			if err != nil {
				return err
			}
			fmt.Fprintf(env.out, "pruned %d expired tokens\n", n)
			return nil
		},
	},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// parse returns nil options when only help was requested.
func (c command) parse(args []string, out io.Writer) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("workforcectl "+c.name, pflag.ContinueOnError)
	fs.SetOutput(out)
	help := fs.BoolP("help", "h", false, "show help")
	if c.flags != nil {
		c.flags(fs, opts)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, nil
		}
		return nil, err
	}

	if *help {
		fmt.Fprintf(out, "Usage: workforcectl %s [flags]\n\n%s\n\n", c.name, c.summary)
		fs.PrintDefaults()
		return nil, nil
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected arguments: %s", c.name, strings.Join(fs.Args(), " "))
	}

	return opts, nil
}

func createSuperuser(ctx context.Context, env *environment, opts *options) error {
	if strings.TrimSpace(opts.name) == "" {
		return errors.New("createsuperuser: --name is required")
	}

	password := opts.password
	generated := password == ""
	if generated {
		password = uuid.NewString()
	}

	notCustomer := false
	user, err := env.workforce.CreateUser(ctx, "workforcectl", model.CreateUserRequest{
		Username:    opts.name,
		Password:    password,
		IsSuperuser: true,
		IsCustomer:  &notCustomer,
	})
	if err != nil {
		return fmt.Errorf("createsuperuser: %w", err)
	}

	fmt.Fprintf(env.out, "created superuser %q (id %d)\n", user.Username, user.ID)
	if generated {
		fmt.Fprintf(env.out, "generated password: %s\n", password)
	}
	return nil
}

func (e *environment) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: workforcectl <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-16s %s\n", c.name, c.summary)
	}
}
