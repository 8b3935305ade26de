package app

import "litfish/internal/domain"

// EventKind identifies emitted engine events for port dispatch.
type EventKind string

const (
	EventStateUpdate EventKind = "state_update"
	EventGameStarted EventKind = "game_started"
	EventAskResolved EventKind = "ask_resolved"
	EventSetDeclared EventKind = "set_declared"
	EventGameEnded   EventKind = "game_ended"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player ids; empty means broadcast to the room
}

// StateUpdatePayload carries one player's masked view of the room.
type StateUpdatePayload struct {
	View GameView
}

// GameStartedPayload announces the deal and the opening turn.
type GameStartedPayload struct {
	FirstTurn domain.TurnRef
}

// AskResolvedPayload reports an executed ask to the whole room.
type AskResolvedPayload struct {
	AskingPlayerName string
	TargetPlayerName string
	Card             domain.Card
	CardFound        bool
}

// SetDeclaredPayload reports an arbitrated declaration to the whole room.
type SetDeclaredPayload struct {
	PlayerName string
	SetName    string
	Correct    bool
	Team       domain.Team
}

// GameEndedPayload reports the final standing. Winner is empty on a tie.
type GameEndedPayload struct {
	Winner    domain.Team
	Team1Sets int
	Team2Sets int
}
