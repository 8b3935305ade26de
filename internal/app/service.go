package app

import (
	"errors"
	"math/rand"
	"time"

	"litfish/internal/domain"
)

// Service contains the Literature engine use-cases. All state lives in the
// injected Store; the Service itself only carries the rng used for seating
// and dealing.
type Service struct {
	store *Store
	rng   *rand.Rand
}

// NewService constructs a Service over the given store with the provided rng,
// or a time-seeded default when rng is nil.
func NewService(store *Store, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{store: store, rng: rng}
}

var (
	ErrGameNotFound       = errors.New("game does not exist")
	ErrWrongRosterSize    = errors.New("need exactly 6 players to start")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrAskerNotFound      = errors.New("asking player not found")
	ErrTargetNotFound     = errors.New("target player not found")
	ErrDeclarerNotFound   = errors.New("declaring player not found")
	ErrSameTeamAsk        = errors.New("cannot ask a player from your own team")
	ErrUnknownSet         = errors.New("card does not belong to a recognized set")
	ErrInvalidSetName     = errors.New("invalid set name")
	ErrMissingEntryTicket = errors.New("must hold a card from the set to ask for it")
	ErrAlreadyHoldsCard   = errors.New("you already have this card")
)

// RosterPlayer is one lobby entry handed to the engine at game start.
type RosterPlayer struct {
	ID   string
	Name string
}

// CreateGame builds and stores a fresh game for the room: the roster is
// shuffled for seating, teams alternate by shuffled position, and the
// shuffled deck is dealt round-robin, 9 cards to each of the 6 players. The
// first dealt player opens. Emits one masked state update per player.
func (s *Service) CreateGame(roomCode string, roster []RosterPlayer) ([]Event, error) {
	if len(roster) != domain.NumPlayers {
		return nil, ErrWrongRosterSize
	}

	seated := append([]RosterPlayer(nil), roster...)
	s.rng.Shuffle(len(seated), func(i, j int) { seated[i], seated[j] = seated[j], seated[i] })

	players := make([]*domain.GamePlayer, len(seated))
	for i, rp := range seated {
		team := domain.TeamOne
		if i%2 == 1 {
			team = domain.TeamTwo
		}
		players[i] = &domain.GamePlayer{ID: rp.ID, Name: rp.Name, Team: team}
	}

	deck := domain.NewDeck()
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	// Round-robin deal exhausts the deck exactly: 9 rounds over 6 seats.
	idx := 0
	for round := 0; round < domain.CardsPerPlayer; round++ {
		for _, p := range players {
			p.Cards = append(p.Cards, deck[idx])
			idx++
		}
	}

	g := &domain.GameState{Players: players}
	g.SetTurn(players[0])

	s.store.Put(roomCode, g)

	events := append(s.stateUpdateEvents(g), Event{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{FirstTurn: *g.CurrentTurn},
	})
	return events, nil
}

// GameExists reports whether a game is live for the room code.
func (s *Service) GameExists(roomCode string) bool {
	return s.store.Exists(roomCode)
}

// GameState returns the room projected for one player: other hands are
// redacted to hidden slots, lengths preserved.
func (s *Service) GameState(roomCode, playerID string) (GameView, error) {
	g := s.store.Get(roomCode)
	if g == nil {
		return GameView{}, ErrGameNotFound
	}
	return buildView(g, playerID), nil
}

// PublicGameState returns the unredacted state, for win checks and room-wide
// inspection. Callers must not mutate it.
func (s *Service) PublicGameState(roomCode string) (*domain.GameState, error) {
	g := s.store.Get(roomCode)
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// RemoveGame discards the room's game. Idempotent.
func (s *Service) RemoveGame(roomCode string) {
	s.store.Remove(roomCode)
}

// stateUpdateEvents produces one targeted masked-view event per seated
// player.
func (s *Service) stateUpdateEvents(g *domain.GameState) []Event {
	events := make([]Event, 0, len(g.Players))
	for _, p := range g.Players {
		events = append(events, Event{
			Kind:       EventStateUpdate,
			Payload:    StateUpdatePayload{View: buildView(g, p.ID)},
			Recipients: []string{p.ID},
		})
	}
	return events
}
