package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck_DrawAndPutBackRotates(t *testing.T) {
	deck := NewChanceDeck()
	before := cardIDs(deck)

	for i := 0; i < deck.Len(); i++ {
		deck.PutBack(deck.Draw())
	}
	assert.Equal(t, before, cardIDs(deck))

	top := deck.Draw()
	assert.Equal(t, "chance-01", top.ID)
	assert.Equal(t, 14, deck.Len())
	deck.PutBack(top)
	ids := cardIDs(deck)
	assert.Equal(t, "chance-02", ids[0])
	assert.Equal(t, "chance-01", ids[len(ids)-1])
}

func TestDeck_ShuffleIsDeterministic(t *testing.T) {
	a := NewCommunityChestDeck()
	b := NewCommunityChestDeck()
	a.Shuffle(NewSeededSource(42))
	b.Shuffle(NewSeededSource(42))

	assert.Equal(t, cardIDs(a), cardIDs(b))
	assert.ElementsMatch(t, cardIDs(NewCommunityChestDeck()), cardIDs(a))
}

func TestDeck_Bounds(t *testing.T) {
	deck := NewDeck(DeckChance, []Card{{ID: "only", Deck: DeckChance}})
	require.Equal(t, 1, deck.Capacity())

	assert.Panics(t, func() { deck.PutBack(Card{ID: "extra"}) }, "full deck")
	deck.Draw()
	assert.Panics(t, func() { deck.Draw() }, "empty deck")
}

func TestPrintedDecks(t *testing.T) {
	assert.Equal(t, 15, NewChanceDeck().Len())
	assert.Equal(t, 16, NewCommunityChestDeck().Len())

	seen := map[string]bool{}
	jailCards := 0
	for _, deck := range []*Deck{NewChanceDeck(), NewCommunityChestDeck()} {
		for _, c := range deck.Cards() {
			assert.False(t, seen[c.ID], "duplicate card %s", c.ID)
			seen[c.ID] = true
			assert.Equal(t, deck.Kind(), c.Deck, c.ID)
			if c.Effect == EffectGetOutOfJailFree {
				jailCards++
			}
			found, ok := cardByID(c.ID)
			require.True(t, ok)
			assert.Equal(t, c, found)
		}
	}
	assert.Equal(t, 2, jailCards)

	_, ok := cardByID("chance-99")
	assert.False(t, ok)
}
