package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CombatClient calls CombatService over a client connection.
type CombatClient struct {
	cc grpc.ClientConnInterface
}

// NewCombatClient wraps cc.
func NewCombatClient(cc grpc.ClientConnInterface) *CombatClient {
	return &CombatClient{cc: cc}
}

func (c *CombatClient) invoke(ctx context.Context, method string, req any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+CombatServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CombatClient) pair(ctx context.Context, method, ka, va, kb, vb string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{ka: va, kb: vb})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, method, req, opts...)
}

func (c *CombatClient) CreatePlayer(ctx context.Context, class, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "CreatePlayer", "class", class, "name", name, opts...)
}

func (c *CombatClient) GetPlayer(ctx context.Context, playerID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetPlayer", wrapperspb.String(playerID), opts...)
}

func (c *CombatClient) Rest(ctx context.Context, playerID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Rest", wrapperspb.String(playerID), opts...)
}

func (c *CombatClient) LevelUp(ctx context.Context, playerID, attribute string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "LevelUp", "player_id", playerID, "attribute", attribute, opts...)
}

func (c *CombatClient) UnlockSkill(ctx context.Context, playerID, skillID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "UnlockSkill", "player_id", playerID, "skill_id", skillID, opts...)
}

func (c *CombatClient) UseItem(ctx context.Context, playerID, itemID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "UseItem", "player_id", playerID, "item_id", itemID, opts...)
}

func (c *CombatClient) StartEncounter(ctx context.Context, playerID, enemyID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "StartEncounter", "player_id", playerID, "enemy_id", enemyID, opts...)
}

func (c *CombatClient) SubmitAction(ctx context.Context, sessionID, actionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "SubmitAction", "session_id", sessionID, "action_id", actionID, opts...)
}

func (c *CombatClient) SelectMenu(ctx context.Context, sessionID, choice string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.pair(ctx, "SelectMenu", "session_id", sessionID, "choice", choice, opts...)
}

func (c *CombatClient) AnimationComplete(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "AnimationComplete", wrapperspb.String(sessionID), opts...)
}

func (c *CombatClient) GetEncounter(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetEncounter", wrapperspb.String(sessionID), opts...)
}

func (c *CombatClient) EndEncounter(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "EndEncounter", wrapperspb.String(sessionID), opts...)
}
