package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/orderengine/internal/config"
	"github.com/kiwari-pos/orderengine/internal/messaging"
	"github.com/kiwari-pos/orderengine/internal/router"
	"github.com/kiwari-pos/orderengine/internal/service"
	"github.com/kiwari-pos/orderengine/internal/ws"
	"github.com/kiwari-pos/orderengine/migrations"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:  "orderengine",
		Usage: "restaurant order transaction engine",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before serving"},
				},
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateUp},
					{
						Name:   "down",
						Usage:  "roll back migrations",
						Action: migrateDown,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
					},
					{Name: "version", Usage: "print the current schema version", Action: migrateVersion},
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("orderengine exited")
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := cfg.Logger()

	if c.Bool("migrate") {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		log.Info("migrations applied")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to database")

	var pub service.Publisher
	if cfg.RabbitMQURL != "" {
		p, err := messaging.Dial(cfg.RabbitMQURL, log)
		if err != nil {
			return err
		}
		defer p.Close()
		pub = p
		log.WithField("exchange", messaging.OrdersExchange).Info("publishing order events to rabbitmq")
	}

	hub := ws.NewHub(log)
	r, err := router.New(cfg, pool, hub, pub, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func migrateUp(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := migrations.Up(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	cfg.Logger().Info("migrations applied")
	return nil
}

func migrateDown(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	steps := c.Int("steps")
	if err := migrations.Down(cfg.DatabaseURL, steps); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	cfg.Logger().WithField("steps", steps).Info("migrations rolled back")
	return nil
}

func migrateVersion(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	version, dirty, err := migrations.Version(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "version %d (dirty=%t)\n", version, dirty)
	return nil
}
