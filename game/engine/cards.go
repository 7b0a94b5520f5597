package engine

import "fmt"

// Card is an immutable Chance or Community Chest card
type Card struct {
	ID          string     `json:"id"`
	Deck        DeckKind   `json:"deck"`
	Description string     `json:"description"`
	Effect      CardEffect `json:"effect"`
	Value       int        `json:"value,omitempty"`
	ExtraValue  int        `json:"extra_value,omitempty"`
}

// Deck is a fixed-capacity ring buffer of cards: draws come off the front,
// returned cards go to the back. A held Get Out of Jail Free card leaves a gap
// until it is returned.
type Deck struct {
	kind  DeckKind
	buf   []Card
	head  int
	count int
}

// NewDeck creates a deck holding cards in the given draw order
func NewDeck(kind DeckKind, cards []Card) *Deck {
	buf := make([]Card, len(cards))
	copy(buf, cards)
	return &Deck{kind: kind, buf: buf, count: len(cards)}
}

// NewChanceDeck returns the 15 Chance cards in printed order
func NewChanceDeck() *Deck {
	return NewDeck(DeckChance, chanceCards)
}

// NewCommunityChestDeck returns the 16 Community Chest cards in printed order
func NewCommunityChestDeck() *Deck {
	return NewDeck(DeckCommunityChest, communityChestCards)
}

// Kind returns which deck this is
func (d *Deck) Kind() DeckKind {
	return d.kind
}

// Len returns the number of cards currently in the deck
func (d *Deck) Len() int {
	return d.count
}

// Capacity returns the size of the full card set
func (d *Deck) Capacity() int {
	return len(d.buf)
}

// Cards returns the cards in draw order
func (d *Deck) Cards() []Card {
	out := make([]Card, d.count)
	for i := 0; i < d.count; i++ {
		out[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	return out
}

// Shuffle randomizes the draw order of the cards currently in the deck
func (d *Deck) Shuffle(src Source) {
	cards := d.Cards()
	src.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	d.reset(cards)
}

// Draw removes and returns the front card. Drawing from an empty deck is a
// broken invariant and panics.
func (d *Deck) Draw() Card {
	if d.count == 0 {
		panic(fmt.Sprintf("engine: draw from empty %s deck", d.kind))
	}
	c := d.buf[d.head]
	d.head = (d.head + 1) % len(d.buf)
	d.count--
	return c
}

// PutBack places a card at the bottom of the deck
func (d *Deck) PutBack(c Card) {
	if d.count == len(d.buf) {
		panic(fmt.Sprintf("engine: %s deck overflow returning %s", d.kind, c.ID))
	}
	d.buf[(d.head+d.count)%len(d.buf)] = c
	d.count++
}

func (d *Deck) reset(cards []Card) {
	d.head = 0
	d.count = len(cards)
	copy(d.buf, cards)
}

var chanceCards = []Card{
	{ID: "chance-01", Deck: DeckChance, Description: "Advance to GO. Collect $200", Effect: EffectMovement, Value: 0},
	{ID: "chance-02", Deck: DeckChance, Description: "Advance to Illinois Avenue. If you pass GO, collect $200", Effect: EffectMovement, Value: 24},
	{ID: "chance-03", Deck: DeckChance, Description: "Advance to St. Charles Place. If you pass GO, collect $200", Effect: EffectMovement, Value: 11},
	{ID: "chance-04", Deck: DeckChance, Description: "Advance to the nearest Railroad. If owned, pay the owner twice the rent", Effect: EffectNearestRailroad},
	{ID: "chance-05", Deck: DeckChance, Description: "Advance to the nearest Utility. If owned, pay the owner twice the rent", Effect: EffectNearestUtility},
	{ID: "chance-06", Deck: DeckChance, Description: "Bank pays you a dividend of $50", Effect: EffectCollectMoney, Value: 50},
	{ID: "chance-07", Deck: DeckChance, Description: "Get Out of Jail Free", Effect: EffectGetOutOfJailFree},
	{ID: "chance-08", Deck: DeckChance, Description: "Go back three spaces", Effect: EffectMoveBackward, Value: 3},
	{ID: "chance-09", Deck: DeckChance, Description: "Go to Jail. Do not pass GO, do not collect $200", Effect: EffectGoToJail},
	{ID: "chance-10", Deck: DeckChance, Description: "Make general repairs on all your property: $25 per house, $100 per hotel", Effect: EffectRepairs, Value: 25, ExtraValue: 100},
	{ID: "chance-11", Deck: DeckChance, Description: "Pay poor tax of $15", Effect: EffectPayMoney, Value: 15},
	{ID: "chance-12", Deck: DeckChance, Description: "Take a trip to Reading Railroad. If you pass GO, collect $200", Effect: EffectMovement, Value: 5},
	{ID: "chance-13", Deck: DeckChance, Description: "Take a walk on the Boardwalk", Effect: EffectMovement, Value: 39},
	{ID: "chance-14", Deck: DeckChance, Description: "You have been elected Chairman of the Board. Pay each player $50", Effect: EffectPayEachPlayer, Value: 50},
	{ID: "chance-15", Deck: DeckChance, Description: "Your building loan matures. Collect $150", Effect: EffectCollectMoney, Value: 150},
}

var communityChestCards = []Card{
	{ID: "chest-01", Deck: DeckCommunityChest, Description: "Advance to GO. Collect $200", Effect: EffectMovement, Value: 0},
	{ID: "chest-02", Deck: DeckCommunityChest, Description: "Bank error in your favor. Collect $200", Effect: EffectCollectMoney, Value: 200},
	{ID: "chest-03", Deck: DeckCommunityChest, Description: "Doctor's fee. Pay $50", Effect: EffectPayMoney, Value: 50},
	{ID: "chest-04", Deck: DeckCommunityChest, Description: "From sale of stock you get $50", Effect: EffectCollectMoney, Value: 50},
	{ID: "chest-05", Deck: DeckCommunityChest, Description: "Get Out of Jail Free", Effect: EffectGetOutOfJailFree},
	{ID: "chest-06", Deck: DeckCommunityChest, Description: "Go to Jail. Do not pass GO, do not collect $200", Effect: EffectGoToJail},
	{ID: "chest-07", Deck: DeckCommunityChest, Description: "Holiday fund matures. Receive $100", Effect: EffectCollectMoney, Value: 100},
	{ID: "chest-08", Deck: DeckCommunityChest, Description: "Income tax refund. Collect $20", Effect: EffectCollectMoney, Value: 20},
	{ID: "chest-09", Deck: DeckCommunityChest, Description: "It is your birthday. Collect $10 from every player", Effect: EffectCollectFromEachPlayer, Value: 10},
	{ID: "chest-10", Deck: DeckCommunityChest, Description: "Life insurance matures. Collect $100", Effect: EffectCollectMoney, Value: 100},
	{ID: "chest-11", Deck: DeckCommunityChest, Description: "Pay hospital fees of $100", Effect: EffectPayMoney, Value: 100},
	{ID: "chest-12", Deck: DeckCommunityChest, Description: "Pay school fees of $50", Effect: EffectPayMoney, Value: 50},
	{ID: "chest-13", Deck: DeckCommunityChest, Description: "Receive $25 consultancy fee", Effect: EffectCollectMoney, Value: 25},
	{ID: "chest-14", Deck: DeckCommunityChest, Description: "You are assessed for street repairs: $40 per house, $115 per hotel", Effect: EffectRepairs, Value: 40, ExtraValue: 115},
	{ID: "chest-15", Deck: DeckCommunityChest, Description: "You have won second prize in a beauty contest. Collect $10", Effect: EffectCollectMoney, Value: 10},
	{ID: "chest-16", Deck: DeckCommunityChest, Description: "You inherit $100", Effect: EffectCollectMoney, Value: 100},
}

// cardByID finds a card from either printed set
func cardByID(id string) (Card, bool) {
	for _, set := range [][]Card{chanceCards, communityChestCards} {
		for _, c := range set {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Card{}, false
}
