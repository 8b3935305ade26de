package domain

// GamePlayer holds the server-side state for one seated player. Cards is the
// true hidden hand; it never contains duplicates.
type GamePlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  Team   `json:"team"`
	Cards []Card `json:"cards"`
}

// TurnRef identifies the player currently holding the turn.
type TurnRef struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// CapturedSet is a declared set that has left circulation, with its canonical
// 6 cards.
type CapturedSet struct {
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// GameState is the authoritative state of one room. It is mutated only by the
// engine use-cases; every card of the deck is at all times either in exactly
// one hand or in exactly one captured set.
type GameState struct {
	Players     []*GamePlayer `json:"players"`
	CurrentTurn *TurnRef      `json:"currentTurn"`
	Team1Sets   []CapturedSet `json:"team1Sets"`
	Team2Sets   []CapturedSet `json:"team2Sets"`
	TurnHistory []string      `json:"turnHistory"` // player ids whose turn ended by hand-emptying or failed ask
}

// FindPlayer returns the seated player with the given id, or nil.
func (g *GameState) FindPlayer(id string) *GamePlayer {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SeatIndex returns the seat position of a player id, or -1.
func (g *GameState) SeatIndex(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// SetTurn points the current turn at the given player.
func (g *GameState) SetTurn(p *GamePlayer) {
	g.CurrentTurn = &TurnRef{PlayerID: p.ID, PlayerName: p.Name}
}

// CapturedSetCount is the total number of sets captured by both teams.
func (g *GameState) CapturedSetCount() int {
	return len(g.Team1Sets) + len(g.Team2Sets)
}

// AllHandsEmpty reports whether no player holds any card.
func (g *GameState) AllHandsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Cards) > 0 {
			return false
		}
	}
	return true
}

// AwardSet appends a captured set to the given team's list.
func (g *GameState) AwardSet(team Team, set CapturedSet) {
	if team == TeamOne {
		g.Team1Sets = append(g.Team1Sets, set)
	} else {
		g.Team2Sets = append(g.Team2Sets, set)
	}
}

// StripSet removes every card of the given definition from every hand,
// wherever found.
func (g *GameState) StripSet(def []Card) {
	for _, p := range g.Players {
		kept := p.Cards[:0]
		for _, c := range p.Cards {
			if !containsCard(def, c) {
				kept = append(kept, c)
			}
		}
		p.Cards = kept
	}
}

// HasCard reports whether the player holds the exact card.
func (p *GamePlayer) HasCard(c Card) bool {
	return containsCard(p.Cards, c)
}

// RemoveCard takes the exact card out of the hand, reporting whether it was
// held.
func (p *GamePlayer) RemoveCard(c Card) bool {
	for i, held := range p.Cards {
		if held == c {
			p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
			return true
		}
	}
	return false
}

// HoldsCardOfSet reports whether any card in the hand belongs to the named
// set.
func (p *GamePlayer) HoldsCardOfSet(setName string) bool {
	for _, c := range p.Cards {
		if name, ok := AskableSetForCard(c); ok && name == setName {
			return true
		}
	}
	return false
}

func containsCard(cards []Card, c Card) bool {
	for _, have := range cards {
		if have == c {
			return true
		}
	}
	return false
}
