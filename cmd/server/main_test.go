package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xtding233/order-gacha/internal/api"
	"github.com/xtding233/order-gacha/internal/api/wsapi"
	"github.com/xtding233/order-gacha/internal/game"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg, err := loadEnv()
	if err != nil {
		t.Fatalf("loadEnv: %v", err)
	}
	if cfg.GRPCAddr != ":9090" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("addrs = %q %q", cfg.GRPCAddr, cfg.HTTPAddr)
	}
	if cfg.WatchInterval != 2*time.Second || cfg.LogLevel != "info" || cfg.Seed != 0 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ORDERGACHA_SEED", "42")
	t.Setenv("ORDERGACHA_START_STAGE", "2")
	t.Setenv("ORDERGACHA_START_SKILLS", "alchemy,lucky_7")
	t.Setenv("ORDERGACHA_WATCH_INTERVAL", "250ms")
	cfg, err := loadEnv()
	if err != nil {
		t.Fatalf("loadEnv: %v", err)
	}
	if cfg.Seed != 42 || cfg.StartStage != 2 || cfg.WatchInterval != 250*time.Millisecond {
		t.Fatalf("overrides = %+v", cfg)
	}
	if len(cfg.StartSkills) != 2 || cfg.StartSkills[1] != "lucky_7" {
		t.Fatalf("skills = %v", cfg.StartSkills)
	}

	t.Setenv("ORDERGACHA_SEED", "minus one")
	if _, err := loadEnv(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("bad seed should fail, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug"); err != nil {
		t.Fatalf("debug: %v", err)
	}
	if _, err := newLogger("chatty"); err == nil {
		t.Fatal("unknown level should fail")
	}
}

func TestNewSessionFromEnv(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newSession(serverEnv{Seed: 5, StartStage: 1, StartSkills: []string{"alchemy"}}, game.DefaultConfig(), quiet)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	snap := s.Snapshot()
	if snap.Progress != 1 || len(snap.Skills) != 1 || snap.Skills[0] != "alchemy" {
		t.Fatalf("progress=%d skills=%v", snap.Progress, snap.Skills)
	}
}

func TestHealthz(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newSession(serverEnv{Seed: 1}, game.DefaultConfig(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	hub := wsapi.NewHub(api.NewDispatcher(s, quiet), quiet)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(newMux(hub))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
