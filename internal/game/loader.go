package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// RequiredSections are the top-level keys a replacement document must carry.
var RequiredSections = []string{"rarity", "pools", "global", "affixes"}

// ErrMissingSection is returned when a document lacks a required section.
var ErrMissingSection = errors.New("config document missing required section")

// DefaultRaw parses the embedded default document.
func DefaultRaw() (RawConfig, error) {
	var raw RawConfig
	if err := yaml.Unmarshal(defaultDocument, &raw); err != nil {
		return RawConfig{}, fmt.Errorf("parse embedded default: %w", err)
	}
	return raw, nil
}

// DefaultConfig returns the normalized embedded default. It panics if the
// embedded document is broken, which only a bad build can cause.
func DefaultConfig() Config {
	raw, err := DefaultRaw()
	if err != nil {
		panic(err)
	}
	return Normalize(raw)
}

// ParseDocument decodes a YAML or JSON document, checks the required
// sections, fills the optional ones from the default and validates the
// result. Nothing is returned on failure.
func ParseDocument(data []byte) (Config, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, fmt.Errorf("decode document: %w", err)
	}
	var missing []string
	for _, k := range RequiredSections {
		if _, ok := probe[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingSection, strings.Join(missing, ", "))
	}

	var doc RawConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("decode document: %w", err)
	}
	def, err := DefaultRaw()
	if err != nil {
		return Config{}, err
	}
	cfg := Normalize(mergeRaw(def, doc))
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Loader reads the optional override file and merges default ← override.
type Loader struct {
	path string // override document; "" means default only

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "$default" or "$merged"
}

// NewLoader creates a loader for the given override path.
func NewLoader(path string) *Loader {
	return &Loader{
		path:  path,
		cache: make(map[string]RawConfig),
	}
}

// Path returns the override file the loader reads.
func (l *Loader) Path() string { return l.path }

// LoadMerged loads and merges default ← override (override optional).
// It returns the merged RawConfig without normalization.
func (l *Loader) LoadMerged() (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache["$merged"]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	def, err := DefaultRaw()
	if err != nil {
		return RawConfig{}, err
	}
	merged := def
	if l.path != "" {
		over, err := readYAML(l.path)
		if err != nil {
			return RawConfig{}, fmt.Errorf("read override %s: %w", l.path, err)
		}
		merged = mergeRaw(def, over)
	}

	l.mu.Lock()
	l.cache["$default"] = def
	l.cache["$merged"] = merged
	l.mu.Unlock()

	return merged, nil
}

// Resolve loads, normalizes and validates the document.
func (l *Loader) Resolve() (RawConfig, Config, error) {
	raw, err := l.LoadMerged()
	if err != nil {
		return RawConfig{}, Config{}, err
	}
	cfg := Normalize(raw)
	if err := Validate(cfg); err != nil {
		return raw, Config{}, err
	}
	return raw, cfg, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

var _ Resolver = (*Loader)(nil)

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw layers 'b' over 'a'. Sections present in 'b' replace those of
// 'a' wholesale; the global section merges key by key.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Rarity != nil {
		out.Rarity = b.Rarity
	}
	if b.Pools != nil {
		out.Pools = b.Pools
	}
	if b.Stages != nil {
		out.Stages = b.Stages
	}
	if b.Affixes != nil {
		out.Affixes = b.Affixes
	}
	if b.EnabledSkillIDs != nil {
		out.EnabledSkillIDs = b.EnabledSkillIDs
	}
	if b.MainlineItems != nil {
		out.MainlineItems = b.MainlineItems
	}

	switch {
	case out.Global == nil && b.Global != nil:
		c := *b.Global
		out.Global = &c
	case out.Global != nil && b.Global != nil:
		g := *out.Global
		if b.Global.RefreshCost != nil {
			g.RefreshCost = b.Global.RefreshCost
		}
		if b.Global.InitialGold != nil {
			g.InitialGold = b.Global.InitialGold
		}
		if b.Global.InitialTickets != nil {
			g.InitialTickets = b.Global.InitialTickets
		}
		if b.Global.MainlineChance != nil {
			g.MainlineChance = b.Global.MainlineChance
		}
		if b.Global.MainlineDropRate != nil {
			g.MainlineDropRate = b.Global.MainlineDropRate
		}
		if b.Global.MainlineFillerLegendaryRate != nil {
			g.MainlineFillerLegendaryRate = b.Global.MainlineFillerLegendaryRate
		}
		if b.Global.MainlinePoolCost != nil {
			g.MainlinePoolCost = b.Global.MainlinePoolCost
		}
		if b.Global.SkillBonuses != nil {
			g.SkillBonuses = b.Global.SkillBonuses
		}
		out.Global = &g
	}

	return out
}
