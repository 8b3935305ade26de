package app

import "litfish/internal/domain"

// AskResult reports an ask attempt. The names are filled as far as
// validation resolved them, so error events can still say who was involved.
type AskResult struct {
	AskingPlayerName string
	TargetPlayerName string
	CardFound        bool
}

// AskCard validates and executes a card request from the turn holder against
// an opposing player. The path is strict validate-then-commit: any failed
// precondition returns an error with zero state mutation.
//
// On success either the card moves to the asker and the turn is retained, or
// the card was absent and the turn transfers to the target (the asker is
// logged to the turn history).
func (s *Service) AskCard(roomCode, askerID, targetID string, card domain.Card) (AskResult, []Event, error) {
	res := AskResult{}

	g := s.store.Get(roomCode)
	if g == nil {
		return res, nil, ErrGameNotFound
	}

	if g.CurrentTurn == nil || g.CurrentTurn.PlayerID != askerID {
		return res, nil, ErrNotYourTurn
	}

	asker := g.FindPlayer(askerID)
	if asker == nil {
		return res, nil, ErrAskerNotFound
	}
	res.AskingPlayerName = asker.Name

	target := g.FindPlayer(targetID)
	if target == nil {
		return res, nil, ErrTargetNotFound
	}
	res.TargetPlayerName = target.Name

	if asker.Team == target.Team {
		return res, nil, ErrSameTeamAsk
	}

	setName, ok := domain.AskableSetForCard(card)
	if !ok {
		return res, nil, ErrUnknownSet
	}

	// Entry ticket: asking into a set requires holding part of it.
	if !asker.HoldsCardOfSet(setName) {
		return res, nil, ErrMissingEntryTicket
	}

	if asker.HasCard(card) {
		return res, nil, ErrAlreadyHoldsCard
	}

	if target.RemoveCard(card) {
		asker.Cards = append(asker.Cards, card)
		res.CardFound = true
		// Reward: the asker keeps the turn.
	} else {
		g.TurnHistory = append(g.TurnHistory, g.CurrentTurn.PlayerID)
		g.SetTurn(target)
	}

	events := append(s.stateUpdateEvents(g), Event{
		Kind: EventAskResolved,
		Payload: AskResolvedPayload{
			AskingPlayerName: asker.Name,
			TargetPlayerName: target.Name,
			Card:             card,
			CardFound:        res.CardFound,
		},
	})
	return res, events, nil
}
