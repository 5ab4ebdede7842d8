package wsapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xtding233/order-gacha/internal/api"
	"github.com/xtding233/order-gacha/internal/engine"
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	session, err := engine.New(game.DefaultConfig(), engine.WithRNG(gacha.NewSeededRNG(11)), engine.WithLogger(quiet))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	hub := NewHub(api.NewDispatcher(session, quiet), quiet)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return m
}

func TestHub_StateOnConnect(t *testing.T) {
	_, url := startHub(t)
	m := read(t, dial(t, url))
	if m.Type != TypeResult || m.Result == nil {
		t.Fatalf("first message = %+v", m)
	}
	if m.Result.State.Gold != 30 || m.Result.State.Mode != engine.ModeIdle {
		t.Fatalf("state gold=%d mode=%s", m.Result.State.Gold, m.Result.State.Mode)
	}
}

func TestHub_ResultIsBroadcast(t *testing.T) {
	_, url := startHub(t)
	a := dial(t, url)
	first := read(t, a)
	b := dial(t, url)
	read(t, b)

	pool := first.Result.State.Pools[0]
	payload, _ := json.Marshal(map[string]string{"poolId": pool.ID})
	if err := a.WriteJSON(api.Intent{Type: api.IntentDraw, Payload: payload}); err != nil {
		t.Fatal(err)
	}
	for name, conn := range map[string]*websocket.Conn{"sender": a, "peer": b} {
		m := read(t, conn)
		if m.Type != TypeResult || m.Intent != api.IntentDraw {
			t.Fatalf("%s got %+v", name, m)
		}
		if m.Result.State.DrawCount != 1 || m.Result.State.Gold != 30-pool.Cost {
			t.Fatalf("%s state draws=%d gold=%d", name, m.Result.State.DrawCount, m.Result.State.Gold)
		}
	}
}

func TestHub_ErrorsGoToSender(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url)
	read(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if m := read(t, conn); m.Type != TypeError || !strings.Contains(m.Error, "malformed intent") {
		t.Fatalf("got %+v", m)
	}

	if err := conn.WriteJSON(api.Intent{Type: "dance"}); err != nil {
		t.Fatal(err)
	}
	if m := read(t, conn); m.Type != TypeError || m.Intent != "dance" {
		t.Fatalf("got %+v", m)
	}
}

func TestHub_AdvisoryAndIgnored(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url)
	read(t, conn)

	if err := conn.WriteJSON(api.Intent{Type: api.IntentCloseModal}); err != nil {
		t.Fatal(err)
	}
	if m := read(t, conn); !m.Result.Ignored {
		t.Fatalf("close_modal in idle should be ignored: %+v", m.Result)
	}

	if err := conn.WriteJSON(api.Intent{Type: api.IntentRefreshAllOrders}); err != nil {
		t.Fatal(err)
	}
	m := read(t, conn)
	if m.Result.Advisory == nil || m.Result.Advisory.Code != "REFRESH_LOCKED" {
		t.Fatalf("advisory = %+v", m.Result.Advisory)
	}
}

func TestHub_Publish(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	read(t, conn)

	doc, err := json.Marshal(game.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := hub.dispatcher.Session().ReplaceConfig(doc); err != nil {
		t.Fatalf("ReplaceConfig: %v", err)
	}
	hub.Publish(context.Background())

	m := read(t, conn)
	var replaced bool
	for _, e := range m.Result.Events {
		replaced = replaced || e.Type == engine.EventConfigReplaced
	}
	if !replaced {
		t.Fatalf("published result should carry config_replaced, got %+v", m.Result.Events)
	}
}
