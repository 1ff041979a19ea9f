package handlog

import "fmt"

type Suit byte

type Rank int

const (
	Spades   Suit = 's'
	Hearts   Suit = 'h'
	Diamonds Suit = 'd'
	Clubs    Suit = 'c'
)

const (
	Two   Rank = 2
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

type Card struct {
	Rank Rank
	Suit Suit
}

var rankSymbols = map[byte]Rank{
	'2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'T': Ten, 'J': Jack, 'Q': Queen, 'K': King, 'A': Ace,
}

func (c Card) String() string {
	for sym, r := range rankSymbols {
		if r == c.Rank {
			return string([]byte{sym, byte(c.Suit)})
		}
	}
	return "??"
}

// ParseCard parses the two-character form used in the logs, e.g. "Ah", "Td".
// A lowercase rank letter and "10" for ten are accepted.
func ParseCard(s string) (Card, error) {
	if len(s) == 3 && s[:2] == "10" {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("card %q: want 2 characters", s)
	}
	sym := s[0]
	if sym >= 'a' && sym <= 'z' {
		sym -= 'a' - 'A'
	}
	rank, ok := rankSymbols[sym]
	if !ok {
		return Card{}, fmt.Errorf("card %q: bad rank", s)
	}
	suit := Suit(s[1])
	switch suit {
	case Spades, Hearts, Diamonds, Clubs:
	default:
		return Card{}, fmt.Errorf("card %q: bad suit", s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses every card and rejects duplicates.
func ParseCards(in []string) ([]Card, error) {
	out := make([]Card, 0, len(in))
	seen := make(map[Card]struct{}, len(in))
	for _, s := range in {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("card %q: duplicate", s)
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
