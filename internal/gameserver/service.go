package gameserver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/cory-johannsen/litany/internal/game/character"
	"github.com/cory-johannsen/litany/internal/game/combat"
	"github.com/cory-johannsen/litany/internal/game/inventory"
	"github.com/cory-johannsen/litany/internal/game/skill"
)

// CombatServiceName is the fully qualified gRPC service name.
const CombatServiceName = "litany.combat.v1.CombatService"

// CombatServiceServer is the server API for CombatService. Requests and
// responses use the well-known Struct and StringValue messages.
type CombatServiceServer interface {
	CreatePlayer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPlayer(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Rest(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	LevelUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UnlockSkill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UseItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartEncounter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectMenu(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AnimationComplete(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetEncounter(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	EndEncounter(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// unaryMethod adapts a typed server method to a grpc.MethodDesc.
func unaryMethod[Req any, PReq interface {
	*Req
	proto.Message
}](name string, call func(CombatServiceServer, context.Context, PReq) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(CombatServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + CombatServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(PReq))
			})
		},
	}
}

// CombatServiceDesc describes CombatService for grpc.ServiceRegistrar.
var CombatServiceDesc = grpc.ServiceDesc{
	ServiceName: CombatServiceName,
	HandlerType: (*CombatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod[structpb.Struct]("CreatePlayer", CombatServiceServer.CreatePlayer),
		unaryMethod[wrapperspb.StringValue]("GetPlayer", CombatServiceServer.GetPlayer),
		unaryMethod[wrapperspb.StringValue]("Rest", CombatServiceServer.Rest),
		unaryMethod[structpb.Struct]("LevelUp", CombatServiceServer.LevelUp),
		unaryMethod[structpb.Struct]("UnlockSkill", CombatServiceServer.UnlockSkill),
		unaryMethod[structpb.Struct]("UseItem", CombatServiceServer.UseItem),
		unaryMethod[structpb.Struct]("StartEncounter", CombatServiceServer.StartEncounter),
		unaryMethod[structpb.Struct]("SubmitAction", CombatServiceServer.SubmitAction),
		unaryMethod[structpb.Struct]("SelectMenu", CombatServiceServer.SelectMenu),
		unaryMethod[wrapperspb.StringValue]("AnimationComplete", CombatServiceServer.AnimationComplete),
		unaryMethod[wrapperspb.StringValue]("GetEncounter", CombatServiceServer.GetEncounter),
		unaryMethod[wrapperspb.StringValue]("EndEncounter", CombatServiceServer.EndEncounter),
	},
	Metadata: "litany/combat/v1/combat.proto",
}

// RegisterCombatServiceServer registers srv on s.
func RegisterCombatServiceServer(s grpc.ServiceRegistrar, srv CombatServiceServer) {
	s.RegisterService(&CombatServiceDesc, srv)
}

// CombatService implements CombatServiceServer on top of the combat and
// player handlers.
type CombatService struct {
	combat  *CombatHandler
	players *PlayerHandler
}

var _ CombatServiceServer = (*CombatService)(nil)

// NewCombatService creates a CombatService.
//
// Precondition: combat and players must be non-nil.
func NewCombatService(combat *CombatHandler, players *PlayerHandler) *CombatService {
	return &CombatService{combat: combat, players: players}
}

func (s *CombatService) CreatePlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	class, name, err := fields(req, "class", "name")
	if err != nil {
		return nil, err
	}
	return playerReply(s.players.CreatePlayer(ctx, class, name))
}

func (s *CombatService) GetPlayer(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return playerReply(s.players.Player(ctx, req.GetValue()))
}

func (s *CombatService) Rest(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return playerReply(s.players.Rest(ctx, req.GetValue()))
}

func (s *CombatService) LevelUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, attr, err := fields(req, "player_id", "attribute")
	if err != nil {
		return nil, err
	}
	return playerReply(s.players.LevelUp(ctx, playerID, attr))
}

func (s *CombatService) UnlockSkill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, skillID, err := fields(req, "player_id", "skill_id")
	if err != nil {
		return nil, err
	}
	return playerReply(s.players.UnlockSkill(ctx, playerID, skillID))
}

func (s *CombatService) UseItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, itemID, err := fields(req, "player_id", "item_id")
	if err != nil {
		return nil, err
	}
	return playerReply(s.players.UseItem(ctx, playerID, itemID))
}

func (s *CombatService) StartEncounter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, enemyID, err := fields(req, "player_id", "enemy_id")
	if err != nil {
		return nil, err
	}
	return viewReply(s.combat.Start(ctx, playerID, enemyID))
}

func (s *CombatService) SubmitAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, actionID, err := fields(req, "session_id", "action_id")
	if err != nil {
		return nil, err
	}
	return viewReply(s.combat.Submit(sessionID, actionID))
}

func (s *CombatService) SelectMenu(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, choice, err := fields(req, "session_id", "choice")
	if err != nil {
		return nil, err
	}
	return viewReply(s.combat.SelectMenu(sessionID, choice))
}

func (s *CombatService) AnimationComplete(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return viewReply(s.combat.AnimationComplete(ctx, req.GetValue()))
}

func (s *CombatService) GetEncounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return viewReply(s.combat.State(req.GetValue()))
}

func (s *CombatService) EndEncounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if err := s.combat.End(ctx, req.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"session_id": req.GetValue(), "ended": true})
}

// fields extracts two required string fields from req.
func fields(req *structpb.Struct, a, b string) (string, string, error) {
	va := req.GetFields()[a].GetStringValue()
	vb := req.GetFields()[b].GetStringValue()
	switch {
	case va == "":
		return "", "", status.Errorf(codes.InvalidArgument, "%s is required", a)
	case vb == "":
		return "", "", status.Errorf(codes.InvalidArgument, "%s is required", b)
	}
	return va, vb, nil
}

func playerReply(p *character.Player, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return PlayerStruct(p)
}

func viewReply(v EncounterView, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return v.Struct()
}

// toStatus maps handler errors onto gRPC status codes. Rejected actions carry
// the resolver's display text as the status message.
func toStatus(err error) error {
	var rejected *combat.RejectedError
	if errors.As(err, &rejected) {
		return status.Error(codes.InvalidArgument, rejected.Message)
	}
	switch {
	case errors.Is(err, ErrNoEncounter),
		errors.Is(err, character.ErrSnapshotNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrSessionBusy):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, combat.ErrWrongPhase),
		errors.Is(err, ErrPlayerDown),
		errors.Is(err, ErrPlayerInCombat),
		errors.Is(err, character.ErrInsufficientGold),
		errors.Is(err, character.ErrNoCharges),
		errors.Is(err, skill.ErrAlreadyUnlocked),
		errors.Is(err, skill.ErrWrongClass),
		errors.Is(err, skill.ErrMissingPrerequisite),
		errors.Is(err, skill.ErrInsufficientPoints):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, combat.ErrMalformedAction),
		errors.Is(err, combat.ErrMenuChoice),
		errors.Is(err, character.ErrUnknownClass),
		errors.Is(err, character.ErrUnknownAttribute),
		errors.Is(err, character.ErrNotConsumable),
		errors.Is(err, inventory.ErrUnknownItem),
		errors.Is(err, skill.ErrNotFound):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// UnaryLoggingInterceptor logs every unary call with its status code and latency.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		logFields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Stringer("code", code),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch code {
		case codes.OK:
			logger.Debug("rpc", logFields...)
		case codes.Internal, codes.Unknown:
			logger.Error("rpc failed", append(logFields, zap.Error(err))...)
		default:
			logger.Info("rpc rejected", append(logFields, zap.Error(err))...)
		}
		return resp, err
	}
}
