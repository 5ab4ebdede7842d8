// Command simulate prints per-stage rarity odds for the game document:
// observed tier shares over many rolls and how many draws it takes to
// first see a target tier.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/caarlos0/env/v11"

	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

// Config holds simulate command configuration.
type Config struct {
	ConfigPath string `env:"ORDERGACHA_CONFIG_PATH"`
	Seed       uint64 `env:"ORDERGACHA_SEED"`
	Draws      int    `env:"ORDERGACHA_SIM_DRAWS" envDefault:"100000"`
	Trials     int    `env:"ORDERGACHA_SIM_TRIALS" envDefault:"2000"`
	Target     string `env:"ORDERGACHA_SIM_TARGET" envDefault:"legendary"`
	Affix      string `env:"ORDERGACHA_SIM_AFFIX"`
	Gold       int    `env:"ORDERGACHA_SIM_GOLD"`
	Lucky7     bool   `env:"ORDERGACHA_SIM_LUCKY7"`
	JSON       bool   `env:"ORDERGACHA_SIM_JSON"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Override game document (YAML or JSON)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed; 0 uses crypto/rand")
	fs.IntVar(&cfg.Draws, "draws", cfg.Draws, "Rolls per stage for tier frequencies")
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "First-hit trials per stage")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "Tier counted as a hit")
	fs.StringVar(&cfg.Affix, "affix", cfg.Affix, "Affix applied to every roll")
	fs.IntVar(&cfg.Gold, "gold", cfg.Gold, "Gold held while rolling (lucky_7)")
	fs.BoolVar(&cfg.Lucky7, "lucky7", cfg.Lucky7, "Hold lucky_7")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Draws <= 0 || cfg.Trials < 0 {
		return Config{}, errors.New("draws must be > 0 and trials >= 0")
	}
	return cfg, nil
}

// StageReport is the odds summary of one stage.
type StageReport struct {
	Stage     int                `json:"stage"`
	Name      string             `json:"name"`
	Shares    map[string]float64 `json:"shares"`
	Target    string             `json:"target"`
	Reachable bool               `json:"reachable"`
	FirstHit  gacha.Stats        `json:"firstHit"`
}

// reachable reports whether the target can come out of a roll at all, so
// first-hit trials are not run against an impossible tier.
func reachable(weights map[string]float64, cfg Config) bool {
	open := func(id string) bool { return weights[id] > 0 }
	t := cfg.Target
	switch cfg.Affix {
	case gacha.AffixFragmented:
		return t == gacha.Common
	case gacha.AffixVolatile:
		return t == gacha.Common || (t == gacha.Legendary && open(gacha.Legendary))
	case gacha.AffixHardened, gacha.AffixPurified:
		switch {
		case open(gacha.Legendary):
			return t == gacha.Rare || t == gacha.Epic || t == gacha.Legendary
		case open(gacha.Epic):
			return t == gacha.Rare || t == gacha.Epic
		case open(gacha.Rare):
			return t == gacha.Rare
		default:
			return t == gacha.Uncommon
		}
	}
	if open(t) {
		return true
	}
	// all-zero weights roll common
	return t == gacha.Common && !slices.ContainsFunc(gacha.RollableTiers, open)
}

// Simulate builds one report per stage.
func Simulate(gameCfg game.Config, cfg Config, rng gacha.RandomSource) []StageReport {
	out := make([]StageReport, 0, len(gameCfg.Stages))
	for _, st := range gameCfg.Stages {
		p := gacha.SimParams{
			Weights: st.RarityWeights,
			Options: gacha.RollOptions{Affix: cfg.Affix, Gold: cfg.Gold, Lucky7: cfg.Lucky7},
			Target:  cfg.Target,
		}
		r := StageReport{
			Stage:     st.ID,
			Name:      st.Name,
			Shares:    gacha.TierFrequencies(p, cfg.Draws, rng),
			Target:    cfg.Target,
			Reachable: reachable(st.RarityWeights, cfg),
		}
		if r.Reachable && cfg.Trials > 0 {
			r.FirstHit = gacha.RunMonteCarlo(p, cfg.Trials, rng)
		}
		out = append(out, r)
	}
	return out
}

// Render writes the reports as a table, tiers in ladder order.
func Render(w io.Writer, tiers []string, reports []StageReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "stage\tname")
	for _, t := range tiers {
		fmt.Fprintf(tw, "\t%s", t)
	}
	fmt.Fprint(tw, "\tmean\tp50\tp90\tp99\n")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%s", r.Stage, r.Name)
		for _, t := range tiers {
			fmt.Fprintf(tw, "\t%.2f%%", r.Shares[t]*100)
		}
		if !r.Reachable {
			fmt.Fprint(tw, "\t-\t-\t-\t-\n")
			continue
		}
		fmt.Fprintf(tw, "\t%.1f\t%.0f\t%.0f\t%.0f\n", r.FirstHit.Mean, r.FirstHit.P50, r.FirstHit.P90, r.FirstHit.P99)
	}
	return tw.Flush()
}

func run(ctx context.Context, cfg Config, stdout io.Writer) error {
	_, gameCfg, err := game.NewLoader(cfg.ConfigPath).Resolve()
	if err != nil {
		return fmt.Errorf("load game document: %w", err)
	}
	if !slices.ContainsFunc(gameCfg.Rarity, func(r game.RarityTier) bool { return r.ID == cfg.Target }) {
		return fmt.Errorf("unknown target tier %q", cfg.Target)
	}
	rng := gacha.DefaultRNG()
	if cfg.Seed != 0 {
		rng = gacha.NewSeededRNG(cfg.Seed)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	reports := Simulate(gameCfg, cfg, rng)
	if cfg.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	tiers := make([]string, 0, len(gameCfg.Rarity))
	for _, r := range gameCfg.Rarity {
		tiers = append(tiers, r.ID)
	}
	return Render(stdout, tiers, reports)
}

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("parse flags", slog.Any("error", err))
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("simulate", slog.Any("error", err))
		os.Exit(1)
	}
}
