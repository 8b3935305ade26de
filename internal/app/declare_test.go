package app

import (
	"testing"

	"litfish/internal/domain"
)

// declareFixture spreads spades-low over team one with one spare card for the
// declarer, and parks one set card in an opposing hand for strip tests.
func declareFixture(t *testing.T, s *Service) *domain.GameState {
	t.Helper()
	return seedGame(t, s, "room", map[string][]domain.Card{
		"p0": {{Set: "spades", Value: "2"}, {Set: "spades", Value: "3"}, {Set: "hearts", Value: "K"}},
		"p1": {{Set: "spades", Value: "7"}, {Set: "clubs", Value: "A"}},
		"p2": {{Set: "spades", Value: "4"}, {Set: "spades", Value: "5"}},
		"p3": {{Set: "diamonds", Value: "9"}},
		"p4": {{Set: "spades", Value: "6"}},
		"p5": {{Set: "clubs", Value: "2"}},
	})
}

func TestDeclareSetHardPreconditions(t *testing.T) {
	s := newTestService(t)
	g := declareFixture(t, s)
	before := handSnapshot(g)

	if _, _, err := s.DeclareSet("missing", "p0", "spades-low", nil); err != ErrGameNotFound {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
	if _, _, err := s.DeclareSet("room", "ghost", "spades-low", nil); err != ErrDeclarerNotFound {
		t.Errorf("err = %v, want ErrDeclarerNotFound", err)
	}
	if _, _, err := s.DeclareSet("room", "p1", "spades-low", nil); err != ErrNotYourTurn {
		t.Errorf("err = %v, want ErrNotYourTurn", err)
	}
	if _, _, err := s.DeclareSet("room", "p0", "spades-mid", nil); err != ErrInvalidSetName {
		t.Errorf("err = %v, want ErrInvalidSetName", err)
	}

	if !sameHands(before, handSnapshot(g)) {
		t.Error("rejected declaration mutated hands")
	}
	if g.CapturedSetCount() != 0 {
		t.Error("rejected declaration captured a set")
	}
}

func TestDeclareSetCorrect(t *testing.T) {
	s := newTestService(t)
	declareFixture(t, s)

	res, events, err := s.DeclareSet("room", "p0", "spades-low", map[string][]string{
		"p0": {"2", "3"},
		"p2": {"4", "5"},
		"p4": {"6", "7"},
	})
	// p1, an opponent, holds the spades 7; team one cannot actually cover it.
	if err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if res.Correct {
		t.Fatal("declaration judged correct despite an opponent holding a set card")
	}

	// Run the genuinely coverable case on a fresh room.
	s2 := newTestService(t)
	g2 := seedGame(t, s2, "room", map[string][]domain.Card{
		"p0": {{Set: "spades", Value: "2"}, {Set: "spades", Value: "3"}, {Set: "hearts", Value: "K"}},
		"p1": {{Set: "clubs", Value: "A"}},
		"p2": {{Set: "spades", Value: "4"}, {Set: "spades", Value: "5"}},
		"p3": {{Set: "diamonds", Value: "9"}},
		"p4": {{Set: "spades", Value: "6"}, {Set: "spades", Value: "7"}},
		"p5": {{Set: "clubs", Value: "2"}},
	})

	res, events, err = s2.DeclareSet("room", "p0", "spades-low", map[string][]string{
		"p0": {"2", "3"},
		"p2": {"4", "5"},
		"p4": {"6", "7"},
	})
	if err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if !res.Correct {
		t.Fatalf("declaration judged incorrect: %+v", res.Violations)
	}
	if res.PlayerName != "Ana" || res.Team != domain.TeamOne {
		t.Errorf("result identity = %q/%s, want Ana/team1", res.PlayerName, res.Team)
	}

	if len(g2.Team1Sets) != 1 || g2.Team1Sets[0].Name != "spades-low" {
		t.Fatalf("team1 captures = %+v, want [spades-low]", g2.Team1Sets)
	}
	if len(g2.Team2Sets) != 0 {
		t.Error("opposing team credited with the set")
	}

	def, _ := domain.SetDefinition("spades-low")
	for _, p := range g2.Players {
		for _, c := range p.Cards {
			for _, dc := range def {
				if c == dc {
					t.Errorf("player %s still holds set card %v", p.ID, c)
				}
			}
		}
	}

	// Declarer kept the hearts K, so the turn stays put.
	if g2.CurrentTurn == nil || g2.CurrentTurn.PlayerID != "p0" {
		t.Errorf("turn = %+v, want retained by p0", g2.CurrentTurn)
	}
	if len(g2.TurnHistory) != 0 {
		t.Error("turn history written while declarer still holds cards")
	}

	if events[0].Kind != EventSetDeclared {
		t.Fatalf("first event = %s, want %s", events[0].Kind, EventSetDeclared)
	}
	payload, ok := events[0].Payload.(SetDeclaredPayload)
	if !ok {
		t.Fatalf("payload is %T", events[0].Payload)
	}
	if !payload.Correct || payload.SetName != "spades-low" || payload.Team != domain.TeamOne {
		t.Errorf("set declared payload = %+v", payload)
	}
}

func TestDeclareSetMixedSet(t *testing.T) {
	s := newTestService(t)
	g := seedGame(t, s, "room", map[string][]domain.Card{
		"p0": {{Set: "spades", Value: "8"}, {Set: "hearts", Value: "8"}, {Set: "hearts", Value: "K"}},
		"p1": {{Set: "clubs", Value: "A"}},
		"p2": {{Set: "clubs", Value: "8"}, {Set: "jokers", Value: domain.RedJoker}},
		"p3": {{Set: "diamonds", Value: "9"}},
		"p4": {{Set: "diamonds", Value: "8"}, {Set: "jokers", Value: domain.BlackJoker}},
		"p5": {{Set: "clubs", Value: "2"}},
	})

	res, _, err := s.DeclareSet("room", "p0", domain.MixedSetName, map[string][]string{
		"p0": {"8", "8"},
		"p2": {"8", domain.RedJoker},
		"p4": {"8", domain.BlackJoker},
	})
	if err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if !res.Correct {
		t.Fatalf("mixed set declaration judged incorrect: %+v", res.Violations)
	}
	if len(g.Team1Sets) != 1 || g.Team1Sets[0].Name != domain.MixedSetName {
		t.Fatalf("team1 captures = %+v", g.Team1Sets)
	}
	if len(g.Team1Sets[0].Cards) != 6 {
		t.Errorf("captured set has %d cards, want 6", len(g.Team1Sets[0].Cards))
	}
}

func TestDeclareSetViolations(t *testing.T) {
	tests := []struct {
		name         string
		declarations map[string][]string
		wantKind     ViolationKind
	}{
		{
			name: "MemberOutsideTeam",
			declarations: map[string][]string{
				"p0": {"2", "3"},
				"p1": {"7"},
				"p2": {"4", "5"},
				"p4": {"6"},
			},
			wantKind: ViolationOutsideTeam,
		},
		{
			name: "ValueNotInSet",
			declarations: map[string][]string{
				"p0": {"2", "3", "K"},
				"p2": {"4", "5"},
				"p4": {"6"},
			},
			wantKind: ViolationUnknownValue,
		},
		{
			name: "CardNotHeld",
			declarations: map[string][]string{
				"p0": {"2", "3", "7"},
				"p2": {"4", "5"},
				"p4": {"6"},
			},
			wantKind: ViolationCardNotHeld,
		},
		{
			name: "Omission",
			declarations: map[string][]string{
				"p0": {"2", "3"},
				"p2": {"4", "5"},
				"p4": {"6"},
			},
			wantKind: ViolationBadCoverage,
		},
		{
			name: "DuplicateClaimOfSameCard",
			declarations: map[string][]string{
				"p0": {"2", "2", "3"},
				"p2": {"4", "5"},
				"p4": {"6"},
			},
			wantKind: ViolationCardNotHeld,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			g := declareFixture(t, s)

			res, _, err := s.DeclareSet("room", "p0", "spades-low", tt.declarations)
			if err != nil {
				t.Fatalf("DeclareSet: %v", err)
			}
			if res.Correct {
				t.Fatal("flawed declaration judged correct")
			}

			found := false
			for _, v := range res.Violations {
				if v.Kind == tt.wantKind {
					found = true
				}
			}
			if !found {
				t.Errorf("violations = %+v, want kind %s", res.Violations, tt.wantKind)
			}

			// Incorrect or not, the set leaves circulation and goes to the
			// opposing team.
			if len(g.Team2Sets) != 1 || g.Team2Sets[0].Name != "spades-low" {
				t.Errorf("team2 captures = %+v, want donated spades-low", g.Team2Sets)
			}
			if len(g.Team1Sets) != 0 {
				t.Error("declaring team kept the set")
			}
			if g.FindPlayer("p1").HasCard(domain.Card{Set: "spades", Value: "7"}) {
				t.Error("opponent still holds a stripped set card")
			}
			if g.FindPlayer("p0").HasCard(domain.Card{Set: "spades", Value: "2"}) {
				t.Error("declarer still holds a stripped set card")
			}
		})
	}
}

func TestDeclareSetEmptiesDeclarerHand(t *testing.T) {
	s := newTestService(t)
	g := seedGame(t, s, "room", map[string][]domain.Card{
		"p0": {{Set: "spades", Value: "2"}, {Set: "spades", Value: "3"}},
		"p1": {{Set: "clubs", Value: "A"}},
		"p2": {{Set: "spades", Value: "4"}, {Set: "spades", Value: "5"}},
		"p3": {{Set: "diamonds", Value: "9"}},
		"p4": {{Set: "spades", Value: "6"}, {Set: "spades", Value: "7"}},
		"p5": {{Set: "clubs", Value: "2"}},
	})

	res, _, err := s.DeclareSet("room", "p0", "spades-low", map[string][]string{
		"p0": {"2", "3"},
		"p2": {"4", "5"},
		"p4": {"6", "7"},
	})
	if err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if !res.Correct {
		t.Fatalf("declaration judged incorrect: %+v", res.Violations)
	}

	if len(g.FindPlayer("p0").Cards) != 0 {
		t.Fatal("declarer hand not emptied")
	}
	if len(g.TurnHistory) != 1 || g.TurnHistory[0] != "p0" {
		t.Errorf("history = %v, want [p0]", g.TurnHistory)
	}
	// The emptied declarer falls out of rotation: the next seat with cards
	// takes over.
	if g.CurrentTurn == nil || g.CurrentTurn.PlayerID != "p1" {
		t.Errorf("turn = %+v, want p1", g.CurrentTurn)
	}
}

func TestDeclareSetEndsGame(t *testing.T) {
	s := newTestService(t)
	g := seedGame(t, s, "room", map[string][]domain.Card{
		"p0": {{Set: "spades", Value: "2"}, {Set: "spades", Value: "3"},
			{Set: "spades", Value: "4"}, {Set: "spades", Value: "5"},
			{Set: "spades", Value: "6"}, {Set: "spades", Value: "7"}},
	})
	// Eight sets already captured, five to team one.
	for _, name := range domain.SetNames[1:6] {
		g.AwardSet(domain.TeamOne, domain.CapturedSet{Name: name})
	}
	for _, name := range domain.SetNames[6:] {
		g.AwardSet(domain.TeamTwo, domain.CapturedSet{Name: name})
	}

	res, events, err := s.DeclareSet("room", "p0", "spades-low", map[string][]string{
		"p0": {"2", "3", "4", "5", "6", "7"},
	})
	if err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if !res.Correct {
		t.Fatalf("declaration judged incorrect: %+v", res.Violations)
	}

	if g.CapturedSetCount() != domain.NumSets {
		t.Fatalf("captured %d sets, want %d", g.CapturedSetCount(), domain.NumSets)
	}
	if g.CurrentTurn != nil {
		t.Errorf("turn = %+v, want nil at game end", g.CurrentTurn)
	}

	last := events[len(events)-1]
	if last.Kind != EventGameEnded {
		t.Fatalf("last event = %s, want %s", last.Kind, EventGameEnded)
	}
	payload, ok := last.Payload.(GameEndedPayload)
	if !ok {
		t.Fatalf("payload is %T", last.Payload)
	}
	if payload.Winner != domain.TeamOne {
		t.Errorf("winner = %s, want team1", payload.Winner)
	}
	if payload.Team1Sets != 6 || payload.Team2Sets != 3 {
		t.Errorf("final score = %d/%d, want 6/3", payload.Team1Sets, payload.Team2Sets)
	}
}
