// qlbridge manages a QingLong panel's environment variables and scheduled
// tasks from the command line. It is a thin stand-in for a chat frontend:
// arguments are parsed into intents, the router does the rest.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/spf13/pflag"

	"github.com/qlbridge/qlbridge/internal/adapter/driven/qinglong"
	sqliteadapter "github.com/qlbridge/qlbridge/internal/adapter/driven/sqlite"
	"github.com/qlbridge/qlbridge/internal/application"
	"github.com/qlbridge/qlbridge/internal/config"
	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("qlbridge", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	pageSize := flags.Int("page-size", 0, "override the configured listing page size")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return nil
	}

	intent, err := parseIntent(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The credential cache is optional; without a key the token lives in
	// memory for the duration of this invocation only.
	var cache driven.CredentialStore
	if cfg.CredentialKey != nil {
		db, err := sqliteadapter.NewDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if err := sqliteadapter.RunMigrations(db); err != nil {
			return err
		}
		cache = sqliteadapter.NewCredentialRepo(db, cfg.CredentialKey)
	}

	panel := qinglong.NewClient(cfg.Host, cfg.ClientID, cfg.ClientSecret, cfg.Timeout, cache)

	ps := cfg.PageSize
	if *pageSize > 0 {
		ps = *pageSize
	}
	router := application.NewRouter(panel, ps)

	result, err := router.Handle(ctx, intent)
	if err != nil {
		return err
	}

	fmt.Print(renderResult(result))
	slog.Debug("command complete", "requests", panel.RequestCount())
	return nil
}

// reportError prints the error in operator-friendly form. Ambiguous
// matches get their candidate list so the id: form can be used directly.
func reportError(err error) {
	var ambiguous *model.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		fmt.Fprintf(os.Stderr, "error: %d %ss are named %q:\n", len(ambiguous.Candidates), ambiguous.Kind, ambiguous.Name)
		for _, c := range ambiguous.Candidates {
			if c.Detail != "" {
				fmt.Fprintf(os.Stderr, "  id:%d  %s\n", c.ID, c.Detail)
			} else {
				fmt.Fprintf(os.Stderr, "  id:%d\n", c.ID)
			}
		}
		fmt.Fprintln(os.Stderr, "retry the command with one of the id: forms above")
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
