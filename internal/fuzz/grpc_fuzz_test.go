package fuzz

import (
	"context"
	"math"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	grpcserver "github.com/Billy-Davies-2/bracket-champs/internal/grpc"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

func newGRPCServer(t *testing.T) (*grpcserver.Server, *session.Manager) {
	t.Helper()
	ps := pubsub.New()
	sessions := session.NewManager(session.Options{Bus: ps})
	t.Cleanup(sessions.CloseAll)
	return grpcserver.NewServer(dal.NewMemoryDAL(), sessions, ps, config.DefaultFeatures()), sessions
}

// FuzzGRPCPick fuzzes the gRPC Pick endpoint
func FuzzGRPCPick(f *testing.F) {
	// Seed corpus
	f.Add("Duke", true)
	f.Add("Gonzaga", true)
	f.Add("", false)

	f.Fuzz(func(t *testing.T, team string, known bool) {
		server, sessions := newGRPCServer(t)
		id := "missing"
		if known {
			id = sessions.Create(dal.DefaultCatalog().Matchups, "").ID
		}

		req, err := structpb.NewStruct(map[string]any{"session": id, "team": team})
		if err != nil {
			t.Skip()
		}

		// Should not panic
		_, _ = server.Pick(context.Background(), req)
	})
}

// FuzzGRPCStartSession fuzzes the gRPC StartSession endpoint
func FuzzGRPCStartSession(f *testing.F) {
	// Seed corpus
	f.Add("Classic Full Bracket")
	f.Add("Round-by-Round Mode")
	f.Add("")

	f.Fuzz(func(t *testing.T, mode string) {
		server, _ := newGRPCServer(t)

		req, err := structpb.NewStruct(map[string]any{"bracketMode": mode})
		if err != nil {
			t.Skip()
		}

		if _, err := server.StartSession(context.Background(), req); err != nil {
			t.Errorf("start session %q: %v", mode, err)
		}
	})
}

// FuzzGRPCGetBracketDay fuzzes the gRPC GetBracketDay endpoint
func FuzzGRPCGetBracketDay(f *testing.F) {
	// Seed corpus
	f.Add(0.0)
	f.Add(3.0)
	f.Add(-1.0)
	f.Add(1e300)
	f.Add(1.7)

	f.Fuzz(func(t *testing.T, day float64) {
		server, _ := newGRPCServer(t)

		req := &structpb.Struct{Fields: map[string]*structpb.Value{"day": structpb.NewNumberValue(day)}}
		_, err := server.GetBracketDay(context.Background(), req)
		whole := day == math.Trunc(day) && day >= math.MinInt32 && day <= math.MaxInt32
		if whole && err != nil {
			t.Errorf("day %v: unexpected error %v", day, err)
		}
		if !whole && status.Code(err) != codes.InvalidArgument {
			t.Errorf("day %v: expected InvalidArgument, got %v", day, err)
		}
	})
}

// FuzzGRPCClaimHandOff fuzzes the gRPC ClaimHandOff endpoint
func FuzzGRPCClaimHandOff(f *testing.F) {
	// Seed corpus
	f.Add("")
	f.Add("invalid")
	f.Add("00000000-0000-0000-0000-000000000000")

	f.Fuzz(func(t *testing.T, id string) {
		server, _ := newGRPCServer(t)

		req := &structpb.Struct{Fields: map[string]*structpb.Value{"session": structpb.NewStringValue(id)}}
		if _, err := server.ClaimHandOff(context.Background(), req); status.Code(err) != codes.NotFound {
			t.Errorf("expected NotFound for unknown session %q, got %v", id, err)
		}
	})
}

// FuzzGRPCGetSession fuzzes the gRPC GetSession endpoint
func FuzzGRPCGetSession(f *testing.F) {
	// Seed corpus
	f.Add("")
	f.Add("invalid")
	f.Add("00000000-0000-0000-0000-000000000000")

	f.Fuzz(func(t *testing.T, id string) {
		server, _ := newGRPCServer(t)

		req := &structpb.Struct{Fields: map[string]*structpb.Value{"session": structpb.NewStringValue(id)}}
		_, _ = server.GetSession(context.Background(), req)
	})
}
