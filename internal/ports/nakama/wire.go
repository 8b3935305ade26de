package nakama

import (
	"litfish/internal/app"
	"litfish/internal/domain"
)

// Client -> server payloads.

type askCardRequest struct {
	TargetPlayerID string      `json:"targetPlayerId"`
	Card           domain.Card `json:"card"`
}

type declareSetRequest struct {
	SetName      string              `json:"setName"`
	Declarations map[string][]string `json:"declarations"`
}

type kickPlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// Server -> client payloads.

type lobbyPlayer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type lobbyStateEvent struct {
	Players []lobbyPlayer `json:"players"`
	Started bool          `json:"started"`
}

type gameStartedEvent struct {
	FirstTurn domain.TurnRef `json:"firstTurn"`
}

type stateUpdateEvent struct {
	GameState app.GameView `json:"gameState"`
}

type askResultEvent struct {
	AskingPlayer string      `json:"askingPlayer"`
	TargetPlayer string      `json:"targetPlayer"`
	Card         domain.Card `json:"card"`
	CardFound    bool        `json:"cardFound"`
}

type declareResultEvent struct {
	PlayerName string      `json:"playerName"`
	SetName    string      `json:"setName"`
	Correct    bool        `json:"correct"`
	Team       domain.Team `json:"team"`
}

type gameEndedEvent struct {
	Winner    domain.Team `json:"winner"` // empty on a tie
	Team1Sets int         `json:"team1Sets"`
	Team2Sets int         `json:"team2Sets"`
}

type kickedEvent struct {
	RoomCode string `json:"roomCode"`
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// matchLabel is the advertised match label for quick-match and join-by-code
// queries.
type matchLabel struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Code  string `json:"code"`
}
