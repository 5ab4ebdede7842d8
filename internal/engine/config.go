package engine

import (
	"fmt"
	"log/slog"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/game"
)

// ReplaceConfig parses a new game document and, if it is accepted, resets
// the session on it. A rejected document leaves the session untouched.
func (s *Session) ReplaceConfig(doc []byte) error {
	cfg, err := game.ParseDocument(doc)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.advise(advisory.Wrap(advisory.CodeConfigRejected, fmt.Sprintf("config rejected: %v", err), err))
	}
	return s.ApplyConfig(cfg)
}

// ApplyConfig swaps in an already parsed config and restarts the session
// with the construction overrides.
func (s *Session) ApplyConfig(cfg game.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := game.Validate(cfg); err != nil {
		return s.advise(advisory.Wrap(advisory.CodeConfigRejected, err.Error(), err))
	}
	s.cfg = cfg
	s.inv = nil
	s.start()
	s.events.add(Event{Type: EventConfigReplaced, Message: fmt.Sprintf("%d stages", len(cfg.Stages))})
	s.log.Info("config replaced", slog.String("session", s.id), slog.Int("stages", len(cfg.Stages)))
	return nil
}

// Config returns the config the session runs on.
func (s *Session) Config() game.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}
