package gameserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/litany/internal/game/dice"
)

// testGRPCServer starts an in-process gRPC server and returns a connected client.
func testGRPCServer(t *testing.T, src dice.Source) *CombatClient {
	t.Helper()

	f := newFixture(t, src, 0)
	logger := zaptest.NewLogger(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(UnaryLoggingInterceptor(logger)))
	RegisterCombatServiceServer(grpcServer, NewCombatService(f.combat, f.players))

	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(func() { grpcServer.Stop() })

	conn, err := grpc.NewClient(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewCombatClient(conn)
}

func rpcContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGRPCService_EncounterRoundTrip(t *testing.T) {
	client := testGRPCServer(t, dice.NewScripted(plainHit...))
	ctx := rpcContext(t)

	player, err := client.CreatePlayer(ctx, "knight", "Aldric")
	require.NoError(t, err)
	playerID := player.Fields["id"].GetStringValue()
	require.NotEmpty(t, playerID)

	view, err := client.StartEncounter(ctx, playerID, "skeleton")
	require.NoError(t, err)
	sid := view.Fields["session_id"].GetStringValue()
	assert.Equal(t, "player_turn", view.Fields["phase"].GetStringValue())

	view, err = client.SubmitAction(ctx, sid, "slash|head")
	require.NoError(t, err)
	assert.Equal(t, "player_acting", view.Fields["phase"].GetStringValue())
	assert.Equal(t, "Hit Skull for 21! Severed Skull! Enemy Defeated!", view.Fields["message"].GetStringValue())

	view, err = client.AnimationComplete(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "victory", view.Fields["phase"].GetStringValue())
	rewards := view.Fields["rewards"].GetStructValue()
	require.NotNil(t, rewards)
	assert.Equal(t, float64(50), rewards.Fields["xp"].GetNumberValue())

	ended, err := client.EndEncounter(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ended.Fields["ended"].GetBoolValue())

	player, err = client.GetPlayer(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, float64(50), player.Fields["xp"].GetNumberValue())
}

func TestGRPCService_MenuNavigation(t *testing.T) {
	client := testGRPCServer(t, dice.NewScripted(plainHit...))
	ctx := rpcContext(t)

	player, err := client.CreatePlayer(ctx, "knight", "Aldric")
	require.NoError(t, err)
	view, err := client.StartEncounter(ctx, player.Fields["id"].GetStringValue(), "skeleton")
	require.NoError(t, err)
	sid := view.Fields["session_id"].GetStringValue()

	view, err = client.SelectMenu(ctx, sid, "fight")
	require.NoError(t, err)
	assert.Equal(t, "move_select", view.Fields["menu"].GetStringValue())
	options := view.Fields["options"].GetListValue().GetValues()
	require.Len(t, options, 3)
	assert.Equal(t, "move:slash", options[0].GetStructValue().Fields["choice"].GetStringValue())
}

func TestGRPCService_StatusCodes(t *testing.T) {
	client := testGRPCServer(t, dice.NewScripted(plainHit...))
	ctx := rpcContext(t)

	player, err := client.CreatePlayer(ctx, "knight", "Aldric")
	require.NoError(t, err)
	playerID := player.Fields["id"].GetStringValue()
	view, err := client.StartEncounter(ctx, playerID, "skeleton")
	require.NoError(t, err)
	sid := view.Fields["session_id"].GetStringValue()

	tests := []struct {
		name    string
		call    func() error
		code    codes.Code
		message string
	}{
		{
			name: "invalid target carries display text",
			call: func() error {
				_, err := client.SubmitAction(ctx, sid, "slash|tail")
				return err
			},
			code:    codes.InvalidArgument,
			message: "Invalid Target!",
		},
		{
			name: "malformed action",
			call: func() error {
				_, err := client.SubmitAction(ctx, sid, "slash")
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "missing field",
			call: func() error {
				_, err := client.SubmitAction(ctx, sid, "")
				return err
			},
			code:    codes.InvalidArgument,
			message: "action_id is required",
		},
		{
			name: "unknown session",
			call: func() error {
				_, err := client.GetEncounter(ctx, "nope")
				return err
			},
			code: codes.NotFound,
		},
		{
			name: "unknown player",
			call: func() error {
				_, err := client.GetPlayer(ctx, "nope")
				return err
			},
			code: codes.NotFound,
		},
		{
			name: "busy player",
			call: func() error {
				_, err := client.StartEncounter(ctx, playerID, "skeleton")
				return err
			},
			code: codes.AlreadyExists,
		},
		{
			name: "rest during encounter",
			call: func() error {
				_, err := client.Rest(ctx, playerID)
				return err
			},
			code: codes.FailedPrecondition,
		},
		{
			name: "animation signal outside an animation is a no-op",
			call: func() error {
				_, err := client.AnimationComplete(ctx, sid)
				return err
			},
			code: codes.OK,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			assert.Equal(t, tc.code, status.Code(err), "err: %v", err)
			if tc.message != "" {
				assert.Equal(t, tc.message, status.Convert(err).Message())
			}
		})
	}
}
