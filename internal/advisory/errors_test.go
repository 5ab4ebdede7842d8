package advisory_test

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xtding233/order-gacha/internal/advisory"
)

func TestAsThroughWrap(t *testing.T) {
	base := advisory.New(advisory.CodeInsufficientGold, "not enough gold")
	err := fmt.Errorf("draw: %w", base)
	got, ok := advisory.As(err)
	if !ok || got.Code != advisory.CodeInsufficientGold {
		t.Fatalf("As = %v, %v", got, ok)
	}
	if !errors.Is(err, advisory.New(advisory.CodeInsufficientGold, "other text")) {
		t.Fatal("Is should match by code")
	}
	if advisory.HasCode(err, advisory.CodeRarityLocked) {
		t.Fatal("HasCode matched the wrong code")
	}
	if _, ok := advisory.As(errors.New("plain")); ok {
		t.Fatal("plain errors are not advisories")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code advisory.Code
		want codes.Code
	}{
		{advisory.CodeInsufficientGold, codes.ResourceExhausted},
		{advisory.CodeSynthesisLocked, codes.FailedPrecondition},
		{advisory.CodeConfigRejected, codes.InvalidArgument},
		{advisory.CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Errorf("%s.GRPCCode() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestToGRPCStatusDetails(t *testing.T) {
	e := advisory.WithMetadata(advisory.CodeInsufficientTickets, "need tickets", map[string]string{"cost": "10"})
	st, ok := status.FromError(e.ToGRPCStatus())
	if !ok {
		t.Fatal("expected a status error")
	}
	if st.Code() != codes.ResourceExhausted || st.Message() != "need tickets" {
		t.Fatalf("status = %v %q", st.Code(), st.Message())
	}
	var info *errdetails.ErrorInfo
	for _, d := range st.Details() {
		if v, ok := d.(*errdetails.ErrorInfo); ok {
			info = v
		}
	}
	if info == nil || info.Reason != "INSUFFICIENT_TICKETS" || info.Metadata["cost"] != "10" {
		t.Fatalf("ErrorInfo = %+v", info)
	}
}
