package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"litfish/internal/app"
	"litfish/internal/config"
	"litfish/internal/domain"
	"litfish/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one room.
type MatchState struct {
	Seats     [domain.NumPlayers]string   `json:"seats"`      // user ids, "" means empty
	AdminSeat int                         `json:"admin_seat"` // seat index of the room admin, -1 when vacant
	RoomCode  string                      `json:"room_code"`  // advertised join code; engine store key
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // userId -> presence for targeted messaging
	App       *app.Service                `json:"-"` // engine service owning this room's game
	Economy   ports.EconomyPort           `json:"-"` // trophy wallet for end-of-game settlement
}

// occupiedSeatCount is the number of non-empty seats.
func (ms *MatchState) occupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

// firstOccupiedSeat returns the lowest occupied seat index or -1.
func firstOccupiedSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" {
			return i
		}
	}
	return -1
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	roomCode, _ := params["code"].(string)
	if roomCode == "" {
		if matchID, ok := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string); ok {
			roomCode = matchID
		}
	}

	state := &MatchState{
		AdminSeat: -1,
		RoomCode:  roomCode,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(app.NewStore(), nil),
		Economy:   NewNakamaEconomyAdapter(nk),
	}

	labelBytes, err := json.Marshal(matchLabel{Open: true, Game: MatchLabelGame, Phase: "lobby", Code: roomCode})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.App.GameExists(matchState.RoomCode) {
		return state, false, "Game already started"
	}
	if matchState.occupiedSeatCount() >= domain.NumPlayers {
		return state, false, "Room is full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
		}
	}

	// The admin is always the earliest-seated player still present.
	if matchState.AdminSeat < 0 || matchState.Seats[matchState.AdminSeat] == "" {
		matchState.AdminSeat = firstOccupiedSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave frees the leaver's seat and re-elects the admin. A room with no
// players left terminates.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		for i, seatUserID := range matchState.Seats {
			if seatUserID == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
				break
			}
		}
	}

	if matchState.occupiedSeatCount() == 0 {
		logger.Info("MatchLeave: Terminating empty room %s.", matchState.RoomCode)
		matchState.App.RemoveGame(matchState.RoomCode)
		return nil
	}

	if matchState.AdminSeat < 0 || matchState.Seats[matchState.AdminSeat] == "" {
		matchState.AdminSeat = firstOccupiedSeat(matchState.Seats[:])
		logger.Debug("MatchLeave: Admin moved to seat %d.", matchState.AdminSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpAskCard:
			mh.handleAskCard(ctx, matchState, dispatcher, logger, msg)
		case OpDeclareSet:
			mh.handleDeclareSet(ctx, matchState, dispatcher, logger, msg)
		case OpResetGame:
			mh.handleResetGame(matchState, dispatcher, logger, msg)
		case OpKickPlayer:
			mh.handleKickPlayer(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if !mh.isAdmin(state, senderID) {
		logger.Warn("StartGame: User %s tried to start the game but is not admin.", senderID)
		mh.sendError(state, dispatcher, logger, senderID, 403, "Only admin can start the game")
		return
	}

	if state.occupiedSeatCount() != domain.NumPlayers {
		mh.sendError(state, dispatcher, logger, senderID, 400, "Need exactly 6 players to start")
		return
	}

	roster := make([]app.RosterPlayer, 0, domain.NumPlayers)
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		name := userID
		if p, exists := state.Presences[userID]; exists {
			name = p.GetUsername()
		}
		roster = append(roster, app.RosterPlayer{ID: userID, Name: name})
	}

	events, err := state.App.CreateGame(state.RoomCode, roster)
	if err != nil {
		logger.Error("StartGame: Failed to create game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, err.Error())
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Room %s started with %d players.", state.RoomCode, len(roster))
}

func (mh *matchHandler) handleAskCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := askCardRequest{}
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleAskCard: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "Invalid ask payload")
		return
	}

	_, events, err := state.App.AskCard(state.RoomCode, senderID, request.TargetPlayerID, request.Card)
	if err != nil {
		logger.Warn("handleAskCard: User %s ask rejected: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDeclareSet(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := declareSetRequest{}
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleDeclareSet: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "Invalid declare payload")
		return
	}

	_, events, err := state.App.DeclareSet(state.RoomCode, senderID, request.SetName, request.Declarations)
	if err != nil {
		logger.Warn("handleDeclareSet: User %s declare rejected: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// handleResetGame discards the room's game and returns it to the lobby.
func (mh *matchHandler) handleResetGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if !mh.isAdmin(state, senderID) {
		mh.sendError(state, dispatcher, logger, senderID, 403, "Only admin can reset the game")
		return
	}

	state.App.RemoveGame(state.RoomCode)
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
}

// handleKickPlayer removes a player from the lobby. Kicks are a lobby-phase
// action: once the deal happens the roster is frozen.
func (mh *matchHandler) handleKickPlayer(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if !mh.isAdmin(state, senderID) {
		mh.sendError(state, dispatcher, logger, senderID, 403, "Only admin can kick players")
		return
	}
	if state.App.GameExists(state.RoomCode) {
		mh.sendError(state, dispatcher, logger, senderID, 400, "Cannot kick after the game started")
		return
	}

	request := kickPlayerRequest{}
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "Invalid kick payload")
		return
	}
	if request.PlayerID == senderID {
		mh.sendError(state, dispatcher, logger, senderID, 400, "Admin cannot kick themselves")
		return
	}

	presence, seated := state.Presences[request.PlayerID]
	if !seated {
		mh.sendError(state, dispatcher, logger, senderID, 404, "Player not in room")
		return
	}

	payload, _ := json.Marshal(kickedEvent{RoomCode: state.RoomCode})
	if err := dispatcher.BroadcastMessage(OpKicked, payload, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("handleKickPlayer: Failed to notify kicked player: %v", err)
	}
	if err := dispatcher.MatchKick([]runtime.Presence{presence}); err != nil {
		logger.Error("handleKickPlayer: Failed to kick %s: %v", request.PlayerID, err)
		return
	}
	// Seat cleanup and the lobby broadcast happen in MatchLeave.
}

// broadcastEvent converts an engine event to its opcode payload and
// dispatches it, honoring targeted recipients.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventStateUpdate:
		p := ev.Payload.(app.StateUpdatePayload)
		opCode = OpStateUpdate
		payload = stateUpdateEvent{GameState: p.View}
	case app.EventGameStarted:
		p := ev.Payload.(app.GameStartedPayload)
		opCode = OpGameStarted
		payload = gameStartedEvent{FirstTurn: p.FirstTurn}
	case app.EventAskResolved:
		p := ev.Payload.(app.AskResolvedPayload)
		opCode = OpAskResult
		payload = askResultEvent{
			AskingPlayer: p.AskingPlayerName,
			TargetPlayer: p.TargetPlayerName,
			Card:         p.Card,
			CardFound:    p.CardFound,
		}
	case app.EventSetDeclared:
		p := ev.Payload.(app.SetDeclaredPayload)
		opCode = OpDeclareResult
		payload = declareResultEvent{
			PlayerName: p.PlayerName,
			SetName:    p.SetName,
			Correct:    p.Correct,
			Team:       p.Team,
		}
	case app.EventGameEnded:
		p := ev.Payload.(app.GameEndedPayload)
		opCode = OpGameEnded
		payload = gameEndedEvent{Winner: p.Winner, Team1Sets: p.Team1Sets, Team2Sets: p.Team2Sets}
		mh.settleTrophies(ctx, state, logger, p)
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events with no connected recipient must not fall through
		// to a room-wide broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

// settleTrophies credits each member of the winning team for the sets their
// team captured. A tie pays nobody.
func (mh *matchHandler) settleTrophies(ctx context.Context, state *MatchState, logger runtime.Logger, p app.GameEndedPayload) {
	if state.Economy == nil || p.Winner == "" {
		return
	}

	game, err := state.App.PublicGameState(state.RoomCode)
	if err != nil {
		logger.Error("settleTrophies: %v", err)
		return
	}

	winnerSets := p.Team1Sets
	if p.Winner == domain.TeamTwo {
		winnerSets = p.Team2Sets
	}
	amount := int64(winnerSets) * config.GetTrophiesPerSet()

	updates := make([]ports.WalletUpdate, 0, domain.NumPlayers/2)
	for _, player := range game.Players {
		if player.Team != p.Winner {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: player.ID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": state.RoomCode,
				"reason":   "game_settlement",
			},
		})
	}

	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settleTrophies: Failed to update balances: %v", err)
	}
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]lobbyPlayer, 0, domain.NumPlayers)
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		name := userID
		if p, exists := state.Presences[userID]; exists {
			name = p.GetUsername()
		}
		players = append(players, lobbyPlayer{ID: userID, Name: name, IsAdmin: i == state.AdminSeat})
	}

	payload, err := json.Marshal(lobbyStateEvent{Players: players, Started: state.App.GameExists(state.RoomCode)})
	if err != nil {
		logger.Error("broadcastLobbyState: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpLobbyState, payload, nil, nil, true); err != nil {
		logger.Error("broadcastLobbyState: Failed to broadcast: %v", err)
	}
}

// sendError sends a gameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload, err := json.Marshal(gameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal gameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, payload, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) isAdmin(state *MatchState, userID string) bool {
	return state.AdminSeat >= 0 && state.Seats[state.AdminSeat] == userID
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	open := state.occupiedSeatCount() < domain.NumPlayers
	if state.App.GameExists(state.RoomCode) {
		game, err := state.App.PublicGameState(state.RoomCode)
		if err == nil && domain.EndConditionMet(game) {
			phase = "ended"
		} else {
			phase = "playing"
		}
		open = false
	}

	labelBytes, err := json.Marshal(matchLabel{Open: open, Game: MatchLabelGame, Phase: phase, Code: state.RoomCode})
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		matchState.App.RemoveGame(matchState.RoomCode)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
