package engine

import (
	"fmt"
	"slices"
)

// SpaceState is the serializable view of one board space
type SpaceState struct {
	Index          int       `json:"index"`
	Name           string    `json:"name"`
	Kind           SpaceKind `json:"kind"`
	Price          int       `json:"price,omitempty"`
	MortgageValue  int       `json:"mortgage_value,omitempty"`
	UnmortgageCost int       `json:"unmortgage_cost,omitempty"`
	ColorGroup     string    `json:"color_group,omitempty"`
	HouseCost      int       `json:"house_cost,omitempty"`
	TaxValue       int       `json:"tax_value,omitempty"`
	Owner          int       `json:"owner"`
	Mortgaged      bool      `json:"mortgaged"`
	Houses         int       `json:"houses"`
	Hotel          bool      `json:"hotel"`
}

// DiceState is the serializable view of the dice
type DiceState struct {
	Last               []int `json:"last"`
	ConsecutiveDoubles int   `json:"consecutive_doubles"`
}

// GameState is a complete, serializable snapshot of a game
type GameState struct {
	ConfigName         string       `json:"config_name"`
	Turn               int          `json:"turn"`
	CurrentPlayer      int          `json:"current_player"`
	GameOver           bool         `json:"game_over"`
	Winner             int          `json:"winner"`
	PendingOffer       int          `json:"pending_offer"`
	Players            []Player     `json:"players"`
	Board              []SpaceState `json:"board"`
	ChanceDeck         []string     `json:"chance_deck"`
	CommunityChestDeck []string     `json:"community_chest_deck"`
	Dice               DiceState    `json:"dice"`
	Seed               uint64       `json:"seed"`
	RNGState           []byte       `json:"rng_state,omitempty"`
	History            []TurnLog    `json:"history"`
}

// GetState returns a deep copy of the game that RestoreEngine can rebuild
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		ConfigName:    e.config.Name,
		Turn:          e.turn,
		CurrentPlayer: e.current,
		GameOver:      e.gameOver,
		Winner:        e.winner,
		PendingOffer:  e.offeredTo,
		Players:       make([]Player, len(e.players)),
		Board:         e.boardState(),
		Dice: DiceState{
			Last:               []int{e.dice.last[0], e.dice.last[1]},
			ConsecutiveDoubles: e.dice.consecutiveDoubles,
		},
		History: slices.Clone(e.history),
	}

	for i, p := range e.players {
		cp := *p
		cp.Properties = slices.Clone(p.Properties)
		cp.JailCards = slices.Clone(p.JailCards)
		state.Players[i] = cp
	}

	state.ChanceDeck = cardIDs(e.decks[DeckChance])
	state.CommunityChestDeck = cardIDs(e.decks[DeckCommunityChest])

	if seeded, ok := e.src.(*SeededSource); ok {
		state.Seed = seeded.Seed()
		if data, err := seeded.MarshalBinary(); err == nil {
			state.RNGState = data
		}
	}

	return state
}

func (e *GameEngine) boardState() []SpaceState {
	spaces := make([]SpaceState, 0, e.board.Size())
	for _, s := range e.board.Spaces() {
		st := SpaceState{Index: s.Index(), Name: s.Name(), Kind: s.Kind(), Owner: NoPlayer}
		switch v := s.(type) {
		case *PropertySpace:
			st.ColorGroup = v.ColorGroup()
			st.HouseCost = v.HouseCost()
			st.Houses = v.Houses()
			st.Hotel = v.HasHotel()
		case *BasicSpace:
			st.TaxValue = v.TaxValue()
		}
		if o, ok := s.(Ownable); ok {
			st.Price = o.Price()
			st.MortgageValue = o.MortgageValue()
			st.UnmortgageCost = o.UnmortgageCost()
			st.Owner = o.Owner()
			st.Mortgaged = o.IsMortgaged()
		}
		spaces = append(spaces, st)
	}
	return spaces
}

func cardIDs(d *Deck) []string {
	cards := d.Cards()
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// RestoreEngine rebuilds an engine from a snapshot taken with GetState. The
// persisted generator position is used unless opts inject a source.
func RestoreEngine(config *GameConfig, state *GameState, opts ...Option) (*GameEngine, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if len(state.Players) < MinPlayers || len(state.Players) > MaxPlayers {
		return nil, fmt.Errorf("restore: %w: snapshot has %d players", ErrInvalidPlayer, len(state.Players))
	}
	if state.CurrentPlayer < 0 || state.CurrentPlayer >= len(state.Players) {
		return nil, fmt.Errorf("restore: %w: current player %d out of range", ErrInvalidPlayer, state.CurrentPlayer)
	}

	e := newGameEngine(config, opts...)
	if e.src == nil {
		seeded := NewSeededSource(state.Seed)
		if len(state.RNGState) > 0 {
			if err := seeded.UnmarshalBinary(state.RNGState); err != nil {
				return nil, fmt.Errorf("restore rng: %w", err)
			}
		}
		e.src = seeded
	}

	e.dice = NewDice(e.src)
	if len(state.Dice.Last) == 2 {
		e.dice.last = [2]int{state.Dice.Last[0], state.Dice.Last[1]}
	}
	e.dice.consecutiveDoubles = state.Dice.ConsecutiveDoubles

	for i := range state.Players {
		p := state.Players[i]
		p.ID = i
		p.Properties = slices.Clone(p.Properties)
		p.JailCards = slices.Clone(p.JailCards)
		if p.Properties == nil {
			p.Properties = []int{}
		}
		if p.JailCards == nil {
			p.JailCards = []string{}
		}
		if p.Position < 0 || p.Position >= e.board.Size() {
			return nil, fmt.Errorf("restore: player %d position %d: %w", i, p.Position, ErrInvalidSpace)
		}
		e.players = append(e.players, &p)
	}

	if err := e.restoreBoard(state.Board); err != nil {
		return nil, err
	}
	if err := restoreDeck(e.decks[DeckChance], state.ChanceDeck); err != nil {
		return nil, err
	}
	if err := restoreDeck(e.decks[DeckCommunityChest], state.CommunityChestDeck); err != nil {
		return nil, err
	}
	if err := checkCardAccounting(state); err != nil {
		return nil, err
	}

	e.turn = state.Turn
	e.current = state.CurrentPlayer
	e.gameOver = state.GameOver
	e.winner = state.Winner
	e.offeredTo = NoPlayer
	if state.PendingOffer >= 0 && state.PendingOffer < len(e.players) {
		e.offeredTo = state.PendingOffer
	}
	e.history = slices.Clone(state.History)
	if e.history == nil {
		e.history = []TurnLog{}
	}
	return e, nil
}

func (e *GameEngine) restoreBoard(spaces []SpaceState) error {
	for _, st := range spaces {
		o, ok := e.board.Ownable(st.Index)
		if !ok || st.Owner == NoPlayer {
			continue
		}
		if st.Owner < 0 || st.Owner >= len(e.players) {
			return fmt.Errorf("restore: space %d owner %d: %w", st.Index, st.Owner, ErrInvalidPlayer)
		}
		if !e.players[st.Owner].Owns(st.Index) {
			return fmt.Errorf("restore: space %d not in holdings of player %d", st.Index, st.Owner)
		}
		o.SetOwner(st.Owner)
		switch v := o.(type) {
		case *PropertySpace:
			v.mortgaged = st.Mortgaged
			v.houses = st.Houses
			v.hotel = st.Hotel
		case *RailroadSpace:
			v.mortgaged = st.Mortgaged
		case *UtilitySpace:
			v.mortgaged = st.Mortgaged
		}
	}

	for _, p := range e.players {
		for _, idx := range p.Properties {
			o, ok := e.board.Ownable(idx)
			if !ok || o.Owner() != p.ID {
				return fmt.Errorf("restore: player %d holds space %d the board does not assign to them", p.ID, idx)
			}
		}
	}
	return nil
}

func restoreDeck(d *Deck, ids []string) error {
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		card, ok := cardByID(id)
		if !ok || card.Deck != d.Kind() {
			return fmt.Errorf("restore: unknown %s card %q", d.Kind(), id)
		}
		cards = append(cards, card)
	}
	if len(cards) > d.Capacity() {
		return fmt.Errorf("restore: %s deck has %d cards, capacity %d", d.Kind(), len(cards), d.Capacity())
	}
	d.reset(cards)
	return nil
}

// checkCardAccounting requires every printed card exactly once, either in a
// deck or held as a jail card
func checkCardAccounting(state *GameState) error {
	seen := make(map[string]int)
	for _, ids := range [][]string{state.ChanceDeck, state.CommunityChestDeck} {
		for _, id := range ids {
			seen[id]++
		}
	}
	for i, p := range state.Players {
		for _, id := range p.JailCards {
			card, ok := cardByID(id)
			if !ok || card.Effect != EffectGetOutOfJailFree {
				return fmt.Errorf("restore: player %d holds %q, not a jail card", i, id)
			}
			seen[id]++
		}
	}

	for _, set := range [][]Card{chanceCards, communityChestCards} {
		for _, c := range set {
			if n := seen[c.ID]; n != 1 {
				return fmt.Errorf("restore: card %q appears %d times", c.ID, n)
			}
		}
	}
	return nil
}
