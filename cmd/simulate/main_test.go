package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"math"
	"strings"
	"testing"

	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

func TestParseConfig(t *testing.T) {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-draws", "500", "-target", "rare", "-affix", "volatile"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Draws != 500 || cfg.Target != "rare" || cfg.Affix != "volatile" || cfg.Trials != 2000 {
		t.Fatalf("cfg = %+v", cfg)
	}

	fs = flag.NewFlagSet("simulate", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-draws", "0"}); err == nil {
		t.Fatal("zero draws should be rejected")
	}
}

func TestReachable(t *testing.T) {
	stage0 := map[string]float64{"common": 1}
	stage3 := map[string]float64{"common": 0.4, "uncommon": 0.25, "rare": 0.2, "epic": 0.1, "legendary": 0.05}
	tests := []struct {
		name    string
		weights map[string]float64
		affix   string
		target  string
		want    bool
	}{
		{"plain locked", stage0, "", "legendary", false},
		{"plain open", stage3, "", "legendary", true},
		{"volatile legendary", stage3, gacha.AffixVolatile, "legendary", true},
		{"volatile skips uncommon", stage3, gacha.AffixVolatile, "uncommon", false},
		{"hardened early stage", stage0, gacha.AffixHardened, "uncommon", true},
		{"hardened never common", stage3, gacha.AffixHardened, "common", false},
		{"fragmented", stage3, gacha.AffixFragmented, "rare", false},
		{"all zero", map[string]float64{}, "", "common", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reachable(tt.weights, Config{Affix: tt.affix, Target: tt.target})
			if got != tt.want {
				t.Fatalf("reachable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimulateDefaultStages(t *testing.T) {
	cfg := Config{Draws: 20000, Trials: 200, Target: "legendary"}
	reports := Simulate(game.DefaultConfig(), cfg, gacha.NewSeededRNG(9))
	if len(reports) != 5 {
		t.Fatalf("reports = %d, want 5", len(reports))
	}
	if reports[0].Shares["common"] != 1 || reports[0].Reachable {
		t.Fatalf("stage 0 should be all common with legendary unreachable: %+v", reports[0])
	}
	s3 := reports[3]
	if !s3.Reachable || s3.FirstHit.Mean <= 0 {
		t.Fatalf("stage 3 first hit = %+v", s3.FirstHit)
	}
	// legendary weight 0.05: expected draws around 20
	if math.Abs(s3.FirstHit.Mean-20) > 5 {
		t.Fatalf("stage 3 mean draws = %.1f, want about 20", s3.FirstHit.Mean)
	}
	var sum float64
	for _, v := range s3.Shares {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("shares sum = %v", sum)
	}
}

func TestRunTableAndJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Draws: 1000, Trials: 20, Target: "rare", Seed: 4}
	if err := run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "stage") || !strings.Contains(out, "legendary") || strings.Count(out, "\n") != 6 {
		t.Fatalf("table output:\n%s", out)
	}

	buf.Reset()
	cfg.JSON = true
	if err := run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run json: %v", err)
	}
	var reports []StageReport
	if err := json.Unmarshal(buf.Bytes(), &reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != 5 || reports[2].Target != "rare" {
		t.Fatalf("reports = %+v", reports)
	}

	cfg.Target = "shiny"
	if err := run(context.Background(), cfg, &buf); err == nil {
		t.Fatal("unknown target should fail")
	}
}
