package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"litfish/internal/app"
	"litfish/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RoomResponse is the payload returned to clients when requesting a room.
type RoomResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcJoinRoom, rpcJoinRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVoiceToken, rpcVoiceToken)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	// Find any open lobby-phase room of our game.
	query := fmt.Sprintf("+label.open:T +label.game:%s +label.phase:lobby", MatchLabelGame)

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 5 // leave at least one seat

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch: MatchList error: %v", err)
		return "", runtime.NewError("Failed to list matches", 13)
	}

	if len(matches) > 0 {
		b, _ := json.Marshal(RoomResponse{MatchID: matches[0].MatchId, IsNew: false})
		return string(b), nil
	}

	// Create a new room; seating and admin election happen in MatchJoin.
	var params map[string]interface{}
	var req struct {
		Code string `json:"code"`
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", 3)
		}
		if req.Code != "" {
			params = map[string]interface{}{"code": req.Code}
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameLitfish, params)
	if err != nil {
		logger.Error("rpcQuickMatch: MatchCreate error: %v", err)
		return "", runtime.NewError("Failed to create match", 13)
	}

	b, _ := json.Marshal(RoomResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}

// rpcJoinRoom resolves a room by its advertised code.
// Payload: {"code": "..."}
func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Code == "" {
		return "", runtime.NewError("Room code is required", 3)
	}

	query := fmt.Sprintf("+label.game:%s +label.code:%s", MatchLabelGame, req.Code)
	limit := 1
	authoritative := true

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("rpcJoinRoom: MatchList error: %v", err)
		return "", runtime.NewError("Failed to list matches", 13)
	}
	if len(matches) == 0 {
		return "", runtime.NewError("Room does not exist", 5)
	}

	b, _ := json.Marshal(RoomResponse{MatchID: matches[0].MatchId, IsNew: false})
	return string(b), nil
}

// rpcVoiceToken signs a voice-channel access token for the caller.
// Payload: {"action": "login" | "join", "roomCode": "..."}
func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if !config.VoiceEnabled() {
		return "", runtime.NewError("Voice is disabled", 12)
	}

	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", 16)
	}

	var req struct {
		Action   string `json:"action"`
		RoomCode string `json:"roomCode"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["voice_secret"]
	issuer := env["voice_issuer"]
	domain := env["voice_domain"]
	if secret == "" || issuer == "" || domain == "" {
		logger.Warn("rpcVoiceToken: Voice credentials missing from env.")
		return "", runtime.NewError("Voice is not configured", 9)
	}

	expiry := time.Duration(config.GetVoiceTokenExpirySeconds()) * time.Second
	svc := app.NewVoiceService(secret, issuer, domain, expiry)
	token, err := svc.GenerateToken(userID, req.Action, req.RoomCode)
	if err != nil {
		logger.Error("rpcVoiceToken: Failed to generate token: %v", err)
		return "", runtime.NewError("Failed to generate token", 3)
	}

	b, _ := json.Marshal(map[string]string{"token": token})
	return string(b), nil
}
