package grpc

import (
	"context"
	"errors"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/models"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/screens"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

// Server implements the gRPC BracketService
type Server struct {
	dal      dal.CatalogDAL
	sessions *session.Manager
	pubsub   *pubsub.PubSub
	features config.Features
}

// NewServer creates a new gRPC server
func NewServer(d dal.CatalogDAL, sessions *session.Manager, ps *pubsub.PubSub, features config.Features) *Server {
	return &Server{
		dal:      d,
		sessions: sessions,
		pubsub:   ps,
		features: features,
	}
}

// statusError maps domain errors onto gRPC codes
func statusError(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrHandOffClaimed),
		errors.Is(err, dal.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, pickflow.ErrUnknownTeam):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, pickflow.ErrOverlayActive),
		errors.Is(err, pickflow.ErrSessionComplete),
		errors.Is(err, session.ErrHandOffPending):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// intField reads a required whole-number field
func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	n := nv.NumberValue
	if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number, got %v", name, n)
	}
	return int(n), nil
}

// GetCatalog returns the complete static catalog
func (s *Server) GetCatalog(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	logger.Debug("gRPC: Getting catalog")
	c, err := s.dal.GetCatalog()
	if err != nil {
		logger.Error("gRPC: Failed to get catalog", "error", err)
		return nil, statusError(err)
	}
	return ToStruct(c)
}

// GetBracketDay returns the bracket tracker for {"day": n}
func (s *Server) GetBracketDay(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	day, err := intField(req, "day")
	if err != nil {
		return nil, err
	}
	c, err := s.dal.GetCatalog()
	if err != nil {
		return nil, statusError(err)
	}
	env := screens.Env{Catalog: c, Features: s.features}
	return ToStruct(screens.Bracket(env, day))
}

// StartSession starts a pick flow for {"bracketMode": mode}
func (s *Server) StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	matchups, err := s.dal.ListMatchups()
	if err != nil {
		return nil, statusError(err)
	}
	sess := s.sessions.Create(matchups, models.ParseBracketMode(stringField(req, "bracketMode")))
	logger.Info("gRPC: Session started", "session", sess.ID)
	return ToStruct(sess.View())
}

// Pick locks in {"team"} on the current matchup of {"session"}
func (s *Server) Pick(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, team := stringField(req, "session"), stringField(req, "team")
	logger.Info("gRPC: Pick", "session", id, "team", team)
	view, err := s.sessions.Pick(ctx, id, team)
	if err != nil {
		logger.Debug("gRPC: Pick rejected", "session", id, "error", err)
		return nil, statusError(err)
	}
	return ToStruct(view)
}

// GetSession returns the current snapshot of {"session"}
func (s *Server) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.sessions.Get(stringField(req, "session"))
	if err != nil {
		return nil, statusError(err)
	}
	return ToStruct(sess.View())
}

// ClaimHandOff returns {picks, bracketMode} of a completed {"session"}.
// Only the first call succeeds; the session is gone afterwards.
func (s *Server) ClaimHandOff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "session")
	ho, err := s.sessions.Claim(id)
	if err != nil {
		logger.Debug("gRPC: Hand-off not claimed", "session", id, "error", err)
		return nil, statusError(err)
	}
	logger.Info("gRPC: Hand-off claimed", "session", id, "picks", len(ho.Picks))
	return ToStruct(ho)
}

// StreamEvents streams bus events to clients
func (s *Server) StreamEvents(_ *emptypb.Empty, stream grpc.ServerStream) error {
	if s.pubsub == nil {
		return status.Error(codes.Unavailable, "events not configured")
	}
	logger.Debug("gRPC: New client connected to event stream")
	eventChan := s.pubsub.Subscribe()
	defer s.pubsub.Unsubscribe(eventChan)

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return nil
			}
			msg, err := ToStruct(event)
			if err != nil {
				logger.Warn("gRPC: Failed to encode event", "type", event.Type, "error", err)
				continue
			}
			if err := stream.SendMsg(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return err
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}
