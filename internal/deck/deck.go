package deck

import (
	"errors"
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck
const Size = 52

// ErrEmptyDeck is returned by Draw when every card has been dealt
var ErrEmptyDeck = errors.New("deck is empty")

// Deck represents a standard 52-card deck. Cards live in a fixed array
// and are dealt by advancing a cursor, so the deck never reallocates and
// exhaustion is a checkable condition rather than a slice panic.
type Deck struct {
	cards [Size]Card
	next  int
	rng   *rand.Rand
}

// New creates a freshly shuffled 52-card deck using the provided RNG.
// The RNG is retained for later reshuffles.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewStacked creates a deck that deals the given cards in order. Any
// remaining slots are filled left to right from a fresh deck, unshuffled.
// Intended for deterministic tests.
func NewStacked(rng *rand.Rand, cards ...Card) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	copy(d.cards[:], cards)
	return d
}

// Shuffle resets the cursor and reorders the deck with Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. Returns ErrEmptyDeck once all
// 52 cards have been dealt; the caller decides the recovery policy.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[d.next]
	d.next++
	return card, nil
}

// Remaining returns the number of cards left to deal
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// IsEmpty returns true if every card has been dealt
func (d *Deck) IsEmpty() bool {
	return d.next >= len(d.cards)
}
