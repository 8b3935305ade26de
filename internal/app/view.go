package app

import "litfish/internal/domain"

// CardView is one slot of a projected hand. Exactly one state holds: the
// card itself when the viewer may see it, or Hidden. Redacted slots carry no
// card data at all, so identity cannot leak through comparisons or encoding.
type CardView struct {
	Card   *domain.Card `json:"card,omitempty"`
	Hidden bool         `json:"hidden,omitempty"`
}

// PlayerView is a player as seen by one viewer: hand length always, card
// identities only for the viewer's own seat.
type PlayerView struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Team  domain.Team `json:"team"`
	Cards []CardView  `json:"cards"`
}

// GameView is the per-viewer projection of a room.
type GameView struct {
	Players     []PlayerView         `json:"players"`
	CurrentTurn *domain.TurnRef      `json:"currentTurn"`
	Team1Sets   []domain.CapturedSet `json:"team1Sets"`
	Team2Sets   []domain.CapturedSet `json:"team2Sets"`
	TurnHistory []string             `json:"turnHistory"`
}

// buildView projects the state for one viewer. The stored state is never
// touched; every slice is copied.
func buildView(g *domain.GameState, viewerID string) GameView {
	players := make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		slots := make([]CardView, len(p.Cards))
		for j := range p.Cards {
			if p.ID == viewerID {
				card := p.Cards[j]
				slots[j] = CardView{Card: &card}
			} else {
				slots[j] = CardView{Hidden: true}
			}
		}
		players[i] = PlayerView{ID: p.ID, Name: p.Name, Team: p.Team, Cards: slots}
	}

	var turn *domain.TurnRef
	if g.CurrentTurn != nil {
		t := *g.CurrentTurn
		turn = &t
	}

	return GameView{
		Players:     players,
		CurrentTurn: turn,
		Team1Sets:   append([]domain.CapturedSet(nil), g.Team1Sets...),
		Team2Sets:   append([]domain.CapturedSet(nil), g.Team2Sets...),
		TurnHistory: append([]string(nil), g.TurnHistory...),
	}
}
