// Package engine is the game-state reducer: one Session owns the whole
// play state and every player intent is a method on it.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/inventory"
	"github.com/xtding233/order-gacha/internal/order"
	"github.com/xtding233/order-gacha/internal/pricing"
	"github.com/xtding233/order-gacha/internal/skill"
)

var (
	// ErrBlocked is returned when the current mode does not accept an intent.
	// It is a silent guard, never shown to the player.
	ErrBlocked = errors.New("intent blocked by the current interaction mode")
	// ErrIndexOutOfRange is returned for slot, order or choice indices
	// outside the current bounds.
	ErrIndexOutOfRange = inventory.ErrIndexOutOfRange
	// ErrUnknownPool is returned when a draw names a pool that is not active.
	ErrUnknownPool = errors.New("unknown pool")
)

// Choice is the open AwaitingChoice interaction.
type Choice struct {
	Kind      ChoiceKind          `json:"kind"`
	PoolID    string              `json:"poolId"`
	Quote     pricing.Quote       `json:"quote"`
	Paid      bool                `json:"paid"`                // cost already deducted
	Items     []*game.Item        `json:"items,omitempty"`     // precise candidates
	Templates []game.ItemTemplate `json:"templates,omitempty"` // targeted options

	pool *game.Pool
	gold int // balance before payment
}

// Modal is the open ShowingModal interaction.
type Modal struct {
	Kind    ModalKind  `json:"kind"`
	Item    *game.Item `json:"item,omitempty"`
	Stage   int        `json:"stage,omitempty"`
	Title   string     `json:"title,omitempty"`
	Unlocks []string   `json:"unlocks,omitempty"`
}

// Session is one play session. All methods are safe for concurrent use;
// intents are applied one at a time.
type Session struct {
	mu sync.Mutex

	id  string
	cfg game.Config
	rng gacha.RandomSource
	log *slog.Logger

	startStage  int
	startSkills []string

	gold      int
	tickets   int
	progress  int
	drawCount int
	inv       *inventory.Inventory
	pools     []*game.Pool
	orders    []*game.Order
	mainline  *game.Order
	skills    skill.Set
	skillSt   skill.State

	mode      Mode
	selection []int
	choice    *Choice
	modal     *Modal
	offer     []skill.Definition

	events eventLog
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRNG sets the random source; the default is crypto-backed.
func WithRNG(rng gacha.RandomSource) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithStartStage starts the session at a progress level (clamped).
func WithStartStage(progress int) Option {
	return func(s *Session) { s.startStage = progress }
}

// WithStartSkills gives the session held skills from the start.
func WithStartSkills(ids ...string) Option {
	return func(s *Session) { s.startSkills = append([]string(nil), ids...) }
}

// New validates cfg and starts a session on it.
func New(cfg game.Config, opts ...Option) (*Session, error) {
	if err := game.Validate(cfg); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s := &Session{
		id:  game.NewUID(),
		cfg: cfg,
		rng: gacha.DefaultRNG(),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start()
	return s, nil
}

// ID identifies the session.
func (s *Session) ID() string { return s.id }

// start resets everything to the construction overrides.
func (s *Session) start() {
	s.progress = min(max(s.startStage, 0), len(s.cfg.Stages)-1)
	s.skills = skill.NewSet(s.startSkills...)
	s.skillSt = skill.State{}
	s.drawCount = 0
	s.resetStage(s.cfg.Global.InitialTickets)
	s.log.Info("session started",
		slog.String("session", s.id),
		slog.Int("stage", s.progress),
		slog.Any("skills", []string(s.skills)))
}

// resetStage is the hard reset applied at session start and on every
// stage transition: empty inventory sized to the stage, the stage's
// starting gold, fresh orders and pools.
func (s *Session) resetStage(tickets int) {
	st := s.stage()
	s.gold = st.StartingGold(s.cfg.Global)
	s.tickets = tickets
	if s.inv == nil {
		s.inv = inventory.New(st.InventorySize)
	} else {
		s.inv.Reset(st.InventorySize)
	}
	s.orders = order.GenerateAll(&s.cfg, st, s.skills, s.rng)
	s.mainline = order.GenerateMainline(s.progress, &s.cfg, st, s.rng)
	s.mode = ModeIdle
	s.selection = nil
	s.choice = nil
	s.modal = nil
	s.offer = nil
	s.pools = s.generatePools()
}

func (s *Session) stage() game.StageConfig { return s.cfg.Stage(s.progress) }

func (s *Session) ladder() game.Ladder { return s.cfg.Ladder() }

func (s *Session) rules() inventory.Rules {
	return inventory.Rules{Ladder: s.ladder(), Stage: s.stage()}
}

// require admits an intent only in one of the given modes.
func (s *Session) require(intent string, modes ...Mode) error {
	if slices.Contains(modes, s.mode) {
		return nil
	}
	return s.blocked(intent)
}

func (s *Session) blocked(intent string) error {
	s.log.Debug("intent ignored", slog.String("intent", intent), slog.String("mode", s.mode.String()))
	return fmt.Errorf("%s while %s: %w", intent, s.mode, ErrBlocked)
}

// advise records an advisory in the event log and hands it back.
func (s *Session) advise(err error) error {
	if a, ok := advisory.As(err); ok {
		s.events.add(Event{Type: EventAdvisory, Code: a.Code, Message: a.Message})
		s.log.Debug("advisory", slog.String("code", string(a.Code)), slog.String("message", a.Message))
	}
	return err
}

// settle runs the overflow auto-promotion and keeps the mode in step with
// the holding area. It runs after every state-affecting intent.
func (s *Session) settle() {
	s.inv.Settle()
	switch {
	case s.mode == ModeIdle && s.inv.Pending != nil:
		s.mode = ModeResolvingOverflow
		s.inv.Selected = inventory.NoSelection
	case s.mode == ModeResolvingOverflow && s.inv.Pending == nil:
		s.mode = ModeIdle
	}
}

func (s *Session) credit(c game.Currency, n int) {
	switch c {
	case game.Gold:
		s.gold += n
	case game.Ticket:
		s.tickets += n
	}
}

func (s *Session) payout(p skill.Payout) {
	s.credit(p.Currency, p.Amount)
	s.events.add(Event{Type: EventSkillTriggered, Skill: p.Skill, Amount: p.Amount, Currency: p.Currency})
	s.log.Debug("skill triggered", slog.String("skill", p.Skill), slog.Int("amount", p.Amount))
}

func (s *Session) skillEvent(id, msg string) {
	s.events.add(Event{Type: EventSkillTriggered, Skill: id, Message: msg})
	s.log.Debug("skill triggered", slog.String("skill", id))
}

// owns reports whether any held item, holding area included, has name.
func (s *Session) owns(name string) bool {
	if s.inv.Has(name) {
		return true
	}
	if s.inv.Pending != nil && s.inv.Pending.Name == name {
		return true
	}
	for _, it := range s.inv.Queue {
		if it.Name == name {
			return true
		}
	}
	return false
}

func (s *Session) slotIndex(i int) error {
	if i < 0 || i >= s.inv.Capacity() {
		return fmt.Errorf("slot %d: %w", i, ErrIndexOutOfRange)
	}
	return nil
}
