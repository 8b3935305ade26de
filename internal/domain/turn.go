package domain

// ResolveNextTurn reassigns the turn after the active player relinquished it
// without a normal ask hand-off (their hand emptied on a declare). Tiers, in
// order:
//
//  1. newest-to-oldest turn history entry still holding cards
//  2. forward seat rotation (wrapping) from the current or last known seat
//  3. seat order scan from seat 0
//  4. nil turn when nobody holds a card
func ResolveNextTurn(g *GameState) {
	if len(g.Players) == 0 {
		g.CurrentTurn = nil
		return
	}

	if p := lastActivePlayer(g); p != nil {
		g.SetTurn(p)
		return
	}

	from := lastKnownSeat(g)
	if from >= 0 {
		if p := rotateToPlayerWithCards(g, from); p != nil {
			g.SetTurn(p)
			return
		}
		g.CurrentTurn = nil
		return
	}

	for _, p := range g.Players {
		if len(p.Cards) > 0 {
			g.SetTurn(p)
			return
		}
	}
	g.CurrentTurn = nil
}

// lastActivePlayer scans the turn history backward for the most recent player
// who can still play.
func lastActivePlayer(g *GameState) *GamePlayer {
	for i := len(g.TurnHistory) - 1; i >= 0; i-- {
		if p := g.FindPlayer(g.TurnHistory[i]); p != nil && len(p.Cards) > 0 {
			return p
		}
	}
	return nil
}

// lastKnownSeat is the seat of the current turn holder, falling back to the
// newest history entry, or -1 when neither resolves.
func lastKnownSeat(g *GameState) int {
	if g.CurrentTurn != nil {
		return g.SeatIndex(g.CurrentTurn.PlayerID)
	}
	if n := len(g.TurnHistory); n > 0 {
		return g.SeatIndex(g.TurnHistory[n-1])
	}
	return -1
}

// rotateToPlayerWithCards walks forward from the seat after `from`, wrapping
// once around the table, and returns the first player still holding cards.
func rotateToPlayerWithCards(g *GameState, from int) *GamePlayer {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		p := g.Players[(from+i)%n]
		if len(p.Cards) > 0 {
			return p
		}
	}
	return nil
}

// EndConditionMet reports whether the game is over: all 9 sets captured, or
// every hand empty.
func EndConditionMet(g *GameState) bool {
	return g.CapturedSetCount() >= NumSets || g.AllHandsEmpty()
}

// Winner returns the team with strictly more captured sets. The second result
// is false on a tie.
func Winner(g *GameState) (Team, bool) {
	switch {
	case len(g.Team1Sets) > len(g.Team2Sets):
		return TeamOne, true
	case len(g.Team2Sets) > len(g.Team1Sets):
		return TeamTwo, true
	default:
		return "", false
	}
}
