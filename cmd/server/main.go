// Command server runs one game session behind a gRPC service and a
// websocket endpoint, reloading the game document when its file changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/order-gacha/internal/api"
	"github.com/xtding233/order-gacha/internal/api/grpcapi"
	"github.com/xtding233/order-gacha/internal/api/wsapi"
	"github.com/xtding233/order-gacha/internal/engine"
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

type serverEnv struct {
	GRPCAddr      string        `env:"ORDERGACHA_GRPC_ADDR" envDefault:":9090"`
	HTTPAddr      string        `env:"ORDERGACHA_HTTP_ADDR" envDefault:":8080"`
	ConfigPath    string        `env:"ORDERGACHA_CONFIG_PATH"`
	WatchInterval time.Duration `env:"ORDERGACHA_WATCH_INTERVAL" envDefault:"2s"`
	Seed          uint64        `env:"ORDERGACHA_SEED"` // 0 draws from crypto/rand
	LogLevel      string        `env:"ORDERGACHA_LOG_LEVEL" envDefault:"info"`
	StartStage    int           `env:"ORDERGACHA_START_STAGE"`
	StartSkills   []string      `env:"ORDERGACHA_START_SKILLS" envSeparator:","`
}

func loadEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func newSession(cfg serverEnv, gameCfg game.Config, log *slog.Logger) (*engine.Session, error) {
	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithStartStage(cfg.StartStage),
		engine.WithStartSkills(cfg.StartSkills...),
	}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithRNG(gacha.NewSeededRNG(cfg.Seed)))
	}
	return engine.New(gameCfg, opts...)
}

func newMux(hub *wsapi.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func run(ctx context.Context) error {
	cfg, err := loadEnv()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	loader := game.NewLoader(cfg.ConfigPath)
	_, gameCfg, err := loader.Resolve()
	if err != nil {
		return fmt.Errorf("load game document: %w", err)
	}
	session, err := newSession(cfg, gameCfg, log)
	if err != nil {
		return err
	}
	dispatcher := api.NewDispatcher(session, log)
	hub := wsapi.NewHub(dispatcher, log)

	grpcServer, err := grpcapi.New(cfg.GRPCAddr, dispatcher, log)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newMux(hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Serve(ctx) })
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		log.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if cfg.ConfigPath != "" {
		reloader := game.NewReloader(loader, func(c game.Config) error {
			if err := session.ApplyConfig(c); err != nil {
				return err
			}
			hub.Publish(ctx)
			return nil
		}, log)
		g.Go(func() error { return reloader.Watcher(cfg.WatchInterval).Run(ctx) })
	}

	log.Info("session started",
		slog.String("session", session.ID()),
		slog.String("grpc", grpcServer.Addr()),
		slog.String("config", cfg.ConfigPath),
	)
	return g.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
