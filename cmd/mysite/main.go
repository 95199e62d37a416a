package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/dcvalino/mysite"
	fiberadapter "github.com/dcvalino/mysite/adapters/fiber"
	"github.com/dcvalino/mysite/config"
)

func main() {
	// Use a minimal logger until the configured one is built.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	flags := flag.NewFlagSet("mysite", flag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("MYSITE_CONFIG"), "path to the YAML config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log, outW)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.close()

	if err := prepareStore(ctx, store, cfg.Database, log); err != nil {
		return err
	}

	sessions, closeSessions, err := openSessionStorage(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeSessions()

	app := newApp(cfg.Server, outW)

	siteConfig := mysite.Config{
		Identities:      store,
		Sessions:        sessions,
		Games:           store,
		HTTP:            fiberadapter.New(app, fiberadapter.Config{CookieName: cfg.Sessions.CookieName, CookieSecure: cfg.Sessions.CookieSecure}),
		SessionConfig:   &mysite.SessionConfig{MaxAge: cfg.Sessions.MaxAge},
		PasswordHasher:  newHasher(cfg.Registration),
		SuccessRedirect: cfg.Registration.SuccessRedirect,
		RequestTimeout:  cfg.Server.RequestTimeout,
		Logger:          log,
	}
	if cfg.Sessions.Cache.Enabled {
		siteConfig.CacheAdapter = mysite.NewInMemoryCache(mysite.CacheConfig{
			TTL:     cfg.Sessions.Cache.TTL,
			MaxSize: cfg.Sessions.Cache.MaxSize,
		})
	} else {
		siteConfig.DisableCache = true
	}

	site, err := mysite.New(siteConfig)
	if err != nil {
		return fmt.Errorf("could not assemble site: %w", err)
	}

	if cfg.Sessions.PurgeInterval > 0 {
		go site.Sessions.RunJanitor(ctx, cfg.Sessions.PurgeInterval)
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.Server.ListenAddr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	log.Info("mysite started",
		"addr", cfg.Server.ListenAddr,
		"database", cfg.Database.Driver,
		"sessions", cfg.Sessions.Store,
	)

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("mysite stopped cleanly")
	return nil
}

func newApp(cfg config.ServerSection, outW io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "mysite",
		ErrorHandler: fiberadapter.ErrorHandler,
		ReadTimeout:  cfg.RequestTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})
	app.Use(recoverer.New())
	app.Use(logger.New(logger.Config{
		Format:     accessLogFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
		Stream:     outW,
		Skip: func(c fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	return app
}
