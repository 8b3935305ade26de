package domain

// Team identifies one of the two fixed sides in a Literature game.
type Team string

const (
	TeamOne Team = "team1"
	TeamTwo Team = "team2"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamOne {
		return TeamTwo
	}
	return TeamOne
}

// Card is a single card in the 54-card Literature deck. Equality is
// structural on (Set, Value).
type Card struct {
	Set   string `json:"set"`   // "spades","hearts","clubs","diamonds","jokers"
	Value string `json:"value"` // rank token for suits, "RJ"/"BJ" for jokers
}

const (
	NumPlayers     = 6
	CardsPerPlayer = 9
	DeckSize       = 54
	NumSets        = 9
)

// Joker value tokens.
const (
	RedJoker   = "RJ"
	BlackJoker = "BJ"
)

// MixedSetName is the one set that crosses suits: the four 8s plus both jokers.
const MixedSetName = "8s_and_jokers"

var suits = []string{"spades", "hearts", "clubs", "diamonds"}

var (
	highValues = []string{"9", "10", "J", "Q", "K", "A"}
	lowValues  = []string{"2", "3", "4", "5", "6", "7"}
)

// SetNames lists the 9 declarable sets in catalog order.
var SetNames = []string{
	"spades-low", "spades-high",
	"hearts-low", "hearts-high",
	"clubs-low", "clubs-high",
	"diamonds-low", "diamonds-high",
	MixedSetName,
}

// NewDeck produces the ordered 54-card deck: per suit the high ranks, low
// ranks and the 8, plus the two jokers.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range suits {
		for _, v := range highValues {
			deck = append(deck, Card{Set: suit, Value: v})
		}
		for _, v := range lowValues {
			deck = append(deck, Card{Set: suit, Value: v})
		}
		deck = append(deck, Card{Set: suit, Value: "8"})
	}
	deck = append(deck, Card{Set: "jokers", Value: RedJoker}, Card{Set: "jokers", Value: BlackJoker})
	return deck
}

// SetDefinition returns the canonical 6 cards of a declarable set, or false
// for an unknown set name.
func SetDefinition(setName string) ([]Card, bool) {
	if setName == MixedSetName {
		return []Card{
			{Set: "spades", Value: "8"}, {Set: "hearts", Value: "8"},
			{Set: "clubs", Value: "8"}, {Set: "diamonds", Value: "8"},
			{Set: "jokers", Value: RedJoker}, {Set: "jokers", Value: BlackJoker},
		}, true
	}

	suit, half, ok := splitSetName(setName)
	if !ok {
		return nil, false
	}

	var values []string
	switch half {
	case "low":
		values = lowValues
	case "high":
		values = highValues
	default:
		return nil, false
	}

	cards := make([]Card, len(values))
	for i, v := range values {
		cards[i] = Card{Set: suit, Value: v}
	}
	return cards, true
}

// AskableSetForCard resolves the set a card may be asked under. Every card of
// a well-formed deck resolves: 8s and jokers map to the mixed set, everything
// else to its suit half.
func AskableSetForCard(c Card) (string, bool) {
	for _, name := range SetNames {
		def, _ := SetDefinition(name)
		for _, dc := range def {
			if dc == c {
				return name, true
			}
		}
	}
	return "", false
}

func splitSetName(name string) (suit, half string, ok bool) {
	for _, s := range suits {
		prefix := s + "-"
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return s, name[len(prefix):], true
		}
	}
	return "", "", false
}
