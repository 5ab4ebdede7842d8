// Package api routes transport-level intents onto the engine session. The
// gRPC and websocket transports both go through Dispatcher so they agree on
// intent names, payload shapes and how rejections are reported.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/engine"
)

// Intent names accepted by Dispatch.
const (
	IntentDraw             = "draw"
	IntentClickSlot        = "click_slot"
	IntentToggleSubmit     = "toggle_submit"
	IntentToggleRecycle    = "toggle_recycle"
	IntentConfirmSubmit    = "confirm_submission"
	IntentConfirmRecycle   = "confirm_recycle"
	IntentRefreshAllOrders = "refresh_all_orders"
	IntentRefreshOrder     = "refresh_order"
	IntentSelectChoice     = "select_choice"
	IntentCancelSelection  = "cancel_selection"
	IntentCloseModal       = "close_modal"
	IntentChooseSkill      = "choose_skill"
	IntentReplaceSkill     = "replace_skill"
	IntentDiscardPending   = "discard_pending"
	IntentSelectForOrder   = "select_for_order"
	IntentReplaceConfig    = "replace_config"
	IntentState            = "state"
)

var (
	// ErrUnknownIntent is returned for an intent type Dispatch does not route.
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrBadPayload is returned when an intent payload does not decode.
	ErrBadPayload = errors.New("malformed intent payload")
)

// Intent is one player command as it arrives from a transport.
type Intent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Advisory is the player-facing view of a rule violation.
type Advisory struct {
	Code     advisory.Code     `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Result is what a transport sends back after an intent: the state after
// the intent plus every event it produced.
type Result struct {
	Intent   string          `json:"intent"`
	Ignored  bool            `json:"ignored,omitempty"` // blocked by the interaction mode
	Advisory *Advisory       `json:"advisory,omitempty"`
	State    engine.Snapshot `json:"state"`
	Events   []engine.Event  `json:"events,omitempty"`

	// Err is the advisory behind Advisory, kept for transports that map it
	// onto their own status model.
	Err *advisory.Error `json:"-"`
}

type (
	poolPayload struct {
		PoolID string `json:"poolId"`
	}
	indexPayload struct {
		Index int `json:"index"`
	}
	skillPayload struct {
		SkillID string `json:"skillId"` // empty skips the offer
	}
	replaceSkillPayload struct {
		OldID string `json:"oldId"`
		NewID string `json:"newId"`
	}
	orderPayload struct {
		Index    int  `json:"index"`
		Mainline bool `json:"mainline"`
	}
	configPayload struct {
		Document string `json:"document"`
	}
)

// Dispatcher applies intents to a single session.
type Dispatcher struct {
	// mu keeps an intent, its snapshot and its drained events together
	// when several connections share the session.
	mu      sync.Mutex
	session *engine.Session
	log     *slog.Logger
}

// NewDispatcher wraps a session. A nil logger falls back to slog.Default().
func NewDispatcher(session *engine.Session, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{session: session, log: log}
}

// Session returns the wrapped session.
func (d *Dispatcher) Session() *engine.Session { return d.session }

// Dispatch applies in and returns the resulting state. A mode-blocked
// intent yields Ignored; a rule violation yields Advisory. Both are
// successful dispatches. The error return is reserved for unknown intents,
// malformed payloads and out-of-range references.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	res := Result{Intent: in.Type}
	err := d.apply(in)
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrBlocked):
		res.Ignored = true
	default:
		adv, ok := advisory.As(err)
		if !ok {
			d.log.Debug("intent failed", slog.String("intent", in.Type), slog.Any("error", err))
			return Result{}, err
		}
		res.Err = adv
		res.Advisory = &Advisory{Code: adv.Code, Message: adv.Message, Metadata: adv.Metadata}
	}
	res.State = d.session.Snapshot()
	res.Events = d.session.DrainEvents()
	return res, nil
}

func (d *Dispatcher) apply(in Intent) error {
	s := d.session
	switch in.Type {
	case IntentDraw:
		var p poolPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.Draw(p.PoolID)
	case IntentClickSlot:
		var p indexPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.ClickSlot(p.Index)
	case IntentToggleSubmit:
		return s.ToggleSubmitMode()
	case IntentToggleRecycle:
		return s.ToggleRecycleMode()
	case IntentConfirmSubmit:
		return s.ConfirmSubmission()
	case IntentConfirmRecycle:
		return s.ConfirmRecycle()
	case IntentRefreshAllOrders:
		return s.RefreshAllOrders()
	case IntentRefreshOrder:
		var p indexPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.RefreshOrder(p.Index)
	case IntentSelectChoice:
		var p indexPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.SelectChoice(p.Index)
	case IntentCancelSelection:
		return s.CancelSelection()
	case IntentCloseModal:
		return s.CloseModal()
	case IntentChooseSkill:
		var p skillPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.ChooseSkill(p.SkillID)
	case IntentReplaceSkill:
		var p replaceSkillPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.ReplaceSkill(p.OldID, p.NewID)
	case IntentDiscardPending:
		return s.DiscardPending()
	case IntentSelectForOrder:
		var p orderPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.SelectForOrder(p.Index, p.Mainline)
	case IntentReplaceConfig:
		var p configPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.ReplaceConfig([]byte(p.Document))
	case IntentState:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
	}
}

func decode(in Intent, v any) error {
	if len(in.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(in.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadPayload, in.Type, err)
	}
	return nil
}
