// Package grpcapi exposes the dispatcher as a gRPC service. Messages are
// google.protobuf.Struct values holding the same JSON shapes the websocket
// transport uses, so no generated code is needed.
package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/order-gacha/internal/api"
	"github.com/xtding233/order-gacha/internal/engine"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "ordergacha.v1.GameService"

const (
	dispatchMethod = "/" + ServiceName + "/Dispatch"
	stateMethod    = "/" + ServiceName + "/GetState"
)

// GameServiceServer is the server API of the game service.
type GameServiceServer interface {
	// Dispatch applies one intent {"type", "payload"} and returns the
	// resulting api.Result.
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// GetState returns the current api.Result without applying anything.
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes GameService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
		{MethodName: "GetState", Handler: stateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ordergacha/v1/game.proto",
}

// RegisterGameServiceServer registers srv on s.
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: dispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServiceServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func stateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServiceServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: stateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServiceServer).GetState(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin GameService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dispatch calls GameService.Dispatch.
func (c *Client) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, dispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetState calls GameService.GetState.
func (c *Client) GetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, stateMethod, &structpb.Struct{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Service implements GameServiceServer over a dispatcher.
type Service struct {
	dispatcher *api.Dispatcher
}

// NewService creates the gRPC service.
func NewService(d *api.Dispatcher) *Service {
	return &Service{dispatcher: d}
}

// Dispatch applies the intent carried by in. Advisories come back as a
// status error whose details hold an errdetails.ErrorInfo followed by the
// post-intent result, so the client never loses the drained events.
func (s *Service) Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	intent, err := IntentFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.dispatch(ctx, intent)
}

// GetState returns the current state.
func (s *Service) GetState(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.dispatch(ctx, api.Intent{Type: api.IntentState})
}

func (s *Service) dispatch(ctx context.Context, intent api.Intent) (*structpb.Struct, error) {
	res, err := s.dispatcher.Dispatch(ctx, intent)
	if err != nil {
		return nil, statusFor(err)
	}
	out, err := ResultToStruct(res)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	if res.Err != nil {
		st, _ := status.FromError(res.Err.ToGRPCStatus())
		if withResult, err := st.WithDetails(out); err == nil {
			st = withResult
		}
		return nil, st.Err()
	}
	return out, nil
}

func statusFor(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, api.ErrUnknownIntent), errors.Is(err, api.ErrBadPayload):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, engine.ErrIndexOutOfRange):
		return status.Error(codes.OutOfRange, err.Error())
	case errors.Is(err, engine.ErrUnknownPool):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// IntentFromStruct decodes {"type": ..., "payload": {...}}.
func IntentFromStruct(in *structpb.Struct) (api.Intent, error) {
	var intent api.Intent
	data, err := protojson.Marshal(in)
	if err != nil {
		return intent, fmt.Errorf("encode intent: %w", err)
	}
	if err := json.Unmarshal(data, &intent); err != nil {
		return intent, fmt.Errorf("decode intent: %w", err)
	}
	if intent.Type == "" {
		return intent, errors.New("intent type is required")
	}
	return intent, nil
}

// IntentToStruct is the client-side counterpart of IntentFromStruct.
func IntentToStruct(intent api.Intent) (*structpb.Struct, error) {
	return toStruct(intent)
}

// ResultToStruct encodes a result with its JSON field names.
func ResultToStruct(res api.Result) (*structpb.Struct, error) {
	return toStruct(res)
}

// ResultFromStruct decodes a result produced by ResultToStruct.
func ResultFromStruct(in *structpb.Struct) (api.Result, error) {
	var res api.Result
	data, err := protojson.Marshal(in)
	if err != nil {
		return res, fmt.Errorf("encode result: %w", err)
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}
