package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "bracket.v1.BracketService"

// BracketServiceServer is the server API for bracket.v1.BracketService.
// Requests and replies are Structs shaped like the JSON API.
type BracketServiceServer interface {
	GetCatalog(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetBracketDay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Pick(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClaimHandOff(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamEvents(*emptypb.Empty, grpc.ServerStream) error
}

func unary[Req proto.Message](method string, newReq func() Req, call func(BracketServiceServer, context.Context, Req) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BracketServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BracketServiceServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

// ServiceDesc describes bracket.v1.BracketService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BracketServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetCatalog", newEmpty, BracketServiceServer.GetCatalog),
		unary("GetBracketDay", newStruct, BracketServiceServer.GetBracketDay),
		unary("StartSession", newStruct, BracketServiceServer.StartSession),
		unary("Pick", newStruct, BracketServiceServer.Pick),
		unary("GetSession", newStruct, BracketServiceServer.GetSession),
		unary("ClaimHandOff", newStruct, BracketServiceServer.ClaimHandOff),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName: "StreamEvents",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(emptypb.Empty)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(BracketServiceServer).StreamEvents(in, stream)
			},
			ServerStreams: true,
		},
	},
	Metadata: "bracket/v1/bracket.proto",
}

// Register adds srv to s
func Register(s grpc.ServiceRegistrar, srv BracketServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls bracket.v1.BracketService over a connection
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in proto.Message) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCatalog(ctx context.Context) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetCatalog", &emptypb.Empty{})
}

func (c *Client) GetBracketDay(ctx context.Context, day int) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetBracketDay", &structpb.Struct{Fields: map[string]*structpb.Value{
		"day": structpb.NewNumberValue(float64(day)),
	}})
}

func (c *Client) StartSession(ctx context.Context, mode string) (*structpb.Struct, error) {
	return c.invoke(ctx, "StartSession", &structpb.Struct{Fields: map[string]*structpb.Value{
		"bracketMode": structpb.NewStringValue(mode),
	}})
}

func (c *Client) Pick(ctx context.Context, sessionID, team string) (*structpb.Struct, error) {
	return c.invoke(ctx, "Pick", &structpb.Struct{Fields: map[string]*structpb.Value{
		"session": structpb.NewStringValue(sessionID),
		"team":    structpb.NewStringValue(team),
	}})
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSession", &structpb.Struct{Fields: map[string]*structpb.Value{
		"session": structpb.NewStringValue(sessionID),
	}})
}

func (c *Client) ClaimHandOff(ctx context.Context, sessionID string) (*structpb.Struct, error) {
	return c.invoke(ctx, "ClaimHandOff", &structpb.Struct{Fields: map[string]*structpb.Value{
		"session": structpb.NewStringValue(sessionID),
	}})
}

// EventStream receives bus events from StreamEvents
type EventStream struct {
	grpc.ClientStream
}

func (s *EventStream) Recv() (*structpb.Struct, error) {
	ev := new(structpb.Struct)
	if err := s.RecvMsg(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// StreamEvents subscribes to the event bus until ctx is done
func (c *Client) StreamEvents(ctx context.Context) (*EventStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/"+ServiceName+"/StreamEvents")
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStream{stream}, nil
}

// ToStruct converts v to a Struct through its JSON encoding
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode reply: %w", err)
	}
	return out, nil
}

// FromStruct decodes s into v through its JSON encoding
func FromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
