package app

import "litfish/internal/domain"

// ViolationKind classifies one way a declaration can be wrong.
type ViolationKind string

const (
	// ViolationOutsideTeam: a named player is unknown or not on the
	// declarer's team.
	ViolationOutsideTeam ViolationKind = "member_outside_team"
	// ViolationUnknownValue: a claimed value is not a member of the declared
	// set.
	ViolationUnknownValue ViolationKind = "value_not_in_set"
	// ViolationCardNotHeld: the named player does not actually hold the
	// claimed card.
	ViolationCardNotHeld ViolationKind = "card_not_held"
	// ViolationBadCoverage: the claims do not cover the set's 6 cards exactly
	// once each.
	ViolationBadCoverage ViolationKind = "coverage_mismatch"
)

// DeclarationViolation is one judged defect of a declaration.
type DeclarationViolation struct {
	Kind     ViolationKind
	PlayerID string
	Value    string
}

// DeclareResult reports an arbitrated declaration.
type DeclareResult struct {
	PlayerName string
	Team       domain.Team
	Correct    bool
	Violations []DeclarationViolation
}

// DeclareSet arbitrates a full-set claim. declarations maps teammate ids to
// the card values they are claimed to hold from the set; suit sets interpret
// values under their own suit, the mixed set by value alone.
//
// Only the existence, turn and set-name checks abort without mutating. A
// declaration judged incorrect still succeeds: the set's 6 cards leave every
// hand unconditionally and the set is awarded to the opposing team. That cost
// is the game rule, not an error path.
func (s *Service) DeclareSet(roomCode, declarerID, setName string, declarations map[string][]string) (DeclareResult, []Event, error) {
	res := DeclareResult{}

	g := s.store.Get(roomCode)
	if g == nil {
		return res, nil, ErrGameNotFound
	}

	declarer := g.FindPlayer(declarerID)
	if declarer == nil {
		return res, nil, ErrDeclarerNotFound
	}
	res.PlayerName = declarer.Name
	res.Team = declarer.Team

	if g.CurrentTurn == nil || g.CurrentTurn.PlayerID != declarerID {
		return res, nil, ErrNotYourTurn
	}

	def, ok := domain.SetDefinition(setName)
	if !ok {
		return res, nil, ErrInvalidSetName
	}

	res.Violations = validateDeclaration(g, declarer, def, declarations)
	res.Correct = len(res.Violations) == 0

	// Outcome phase: the set leaves circulation no matter what.
	g.StripSet(def)

	captured := domain.CapturedSet{Name: setName, Cards: append([]domain.Card(nil), def...)}
	if res.Correct {
		g.AwardSet(declarer.Team, captured)
	} else {
		g.AwardSet(declarer.Team.Opponent(), captured)
	}

	events := []Event{{
		Kind: EventSetDeclared,
		Payload: SetDeclaredPayload{
			PlayerName: declarer.Name,
			SetName:    setName,
			Correct:    res.Correct,
			Team:       declarer.Team,
		},
	}}

	// A declarer still holding cards keeps the turn and nothing is logged.
	// Otherwise their turn ends here: log it, then either mark the game
	// terminal or fall back to the next eligible player.
	if len(declarer.Cards) == 0 {
		g.TurnHistory = append(g.TurnHistory, declarerID)
		if domain.EndConditionMet(g) {
			g.CurrentTurn = nil
		} else {
			domain.ResolveNextTurn(g)
		}
	}

	events = append(events, s.stateUpdateEvents(g)...)

	if domain.EndConditionMet(g) {
		winner, _ := domain.Winner(g)
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				Winner:    winner,
				Team1Sets: len(g.Team1Sets),
				Team2Sets: len(g.Team2Sets),
			},
		})
	}

	return res, events, nil
}

// validateDeclaration judges a declaration against the true hands without
// mutating anything, returning every defect found.
func validateDeclaration(g *domain.GameState, declarer *domain.GamePlayer, def []domain.Card, declarations map[string][]string) []DeclarationViolation {
	var violations []DeclarationViolation
	taken := make(map[domain.Card]bool, len(def))
	claimedCount := 0

	for playerID, values := range declarations {
		member := g.FindPlayer(playerID)
		if member == nil || member.Team != declarer.Team {
			violations = append(violations, DeclarationViolation{Kind: ViolationOutsideTeam, PlayerID: playerID})
			continue
		}

		for _, value := range values {
			card, kind := resolveClaim(def, value, member, taken)
			if kind != "" {
				violations = append(violations, DeclarationViolation{Kind: kind, PlayerID: playerID, Value: value})
				continue
			}
			taken[card] = true
			claimedCount++
		}
	}

	// Exact coverage: each of the 6 canonical cards claimed by exactly one
	// player, no omissions. Duplicate claims of the same physical card never
	// reach here twice, so the count alone settles it.
	if len(violations) == 0 && claimedCount != len(def) {
		violations = append(violations, DeclarationViolation{Kind: ViolationBadCoverage})
	}

	return violations
}

// resolveClaim maps a claimed value string to the canonical card it refers
// to: a card of the set carrying that value which the claimant actually holds
// and which no earlier claim already took. Within a suit half every value is
// unique, so this is a direct lookup; the mixed set's four 8s share a value
// token and are disambiguated against the claimant's hand. The scheme leans on the
// fixed 9-set catalog and does not generalize beyond it.
func resolveClaim(def []domain.Card, value string, member *domain.GamePlayer, taken map[domain.Card]bool) (domain.Card, ViolationKind) {
	inSet := false
	for _, c := range def {
		if c.Value != value {
			continue
		}
		inSet = true
		if !taken[c] && member.HasCard(c) {
			return c, ""
		}
	}
	if !inSet {
		return domain.Card{}, ViolationUnknownValue
	}
	return domain.Card{}, ViolationCardNotHeld
}
