package grpcapi

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/api"
	"github.com/xtding233/order-gacha/internal/engine"
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	session, err := engine.New(game.DefaultConfig(), engine.WithRNG(gacha.NewSeededRNG(3)), engine.WithLogger(quiet))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	srv, err := New("127.0.0.1:0", api.NewDispatcher(session, quiet), quiet)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial game server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func dispatch(t *testing.T, c *Client, in api.Intent) (api.Result, error) {
	t.Helper()
	req, err := IntentToStruct(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Dispatch(context.Background(), req)
	if err != nil {
		return api.Result{}, err
	}
	res, err := ResultFromStruct(out)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return res, nil
}

func TestServer_DrawRoundTrip(t *testing.T) {
	client := NewClient(startServer(t))

	out, err := client.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	state, err := ResultFromStruct(out)
	if err != nil {
		t.Fatal(err)
	}
	if state.State.Gold != 30 || len(state.State.Pools) == 0 {
		t.Fatalf("initial state = gold %d pools %d", state.State.Gold, len(state.State.Pools))
	}

	pool := state.State.Pools[0]
	res, err := dispatch(t, client, api.Intent{Type: api.IntentDraw, Payload: []byte(`{"poolId":"` + pool.ID + `"}`)})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if res.State.Gold != 30-pool.Cost || res.State.DrawCount != 1 {
		t.Fatalf("after draw gold=%d draws=%d", res.State.Gold, res.State.DrawCount)
	}
	if len(res.Events) == 0 {
		t.Fatal("draw should return events")
	}
}

func TestServer_IgnoredIntent(t *testing.T) {
	client := NewClient(startServer(t))
	res, err := dispatch(t, client, api.Intent{Type: api.IntentCloseModal})
	if err != nil {
		t.Fatalf("close_modal: %v", err)
	}
	if !res.Ignored {
		t.Fatal("close_modal in idle should be reported as ignored")
	}
}

func TestServer_AdvisoryStatus(t *testing.T) {
	client := NewClient(startServer(t))
	if _, err := dispatch(t, client, api.Intent{Type: api.IntentToggleSubmit}); err != nil {
		t.Fatal(err)
	}
	_, err := dispatch(t, client, api.Intent{Type: api.IntentConfirmSubmit})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.FailedPrecondition {
		t.Fatalf("status = %v, want FailedPrecondition", err)
	}

	var info *errdetails.ErrorInfo
	var result *structpb.Struct
	for _, d := range st.Details() {
		switch v := d.(type) {
		case *errdetails.ErrorInfo:
			info = v
		case *structpb.Struct:
			result = v
		}
	}
	if info == nil || info.GetReason() != string(advisory.CodeNothingSelected) || info.GetDomain() != advisory.Domain {
		t.Fatalf("error info = %+v", info)
	}
	if result == nil {
		t.Fatal("status should carry the post-intent result")
	}
	res, err := ResultFromStruct(result)
	if err != nil {
		t.Fatal(err)
	}
	if res.State.Mode != engine.ModeSubmitting {
		t.Fatalf("mode = %s, want submitting", res.State.Mode)
	}
}

func TestServer_InputErrors(t *testing.T) {
	client := NewClient(startServer(t))
	tests := []struct {
		name string
		in   api.Intent
		want codes.Code
	}{
		{"unknown intent", api.Intent{Type: "dance"}, codes.InvalidArgument},
		{"unknown pool", api.Intent{Type: api.IntentDraw, Payload: []byte(`{"poolId":"nope"}`)}, codes.NotFound},
		{"slot out of range", api.Intent{Type: api.IntentClickSlot, Payload: []byte(`{"index":42}`)}, codes.OutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dispatch(t, client, tt.in)
			if got := status.Code(err); got != tt.want {
				t.Fatalf("code = %s, want %s (%v)", got, tt.want, err)
			}
		})
	}

	_, err := client.Dispatch(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("missing type: %v", err)
	}
}

func TestServer_Health(t *testing.T) {
	conn := startServer(t)
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("status = %s", resp.GetStatus())
	}
}
