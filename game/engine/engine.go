package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrInvalidSpace  = errors.New("invalid space")
	ErrNotOwnable    = errors.New("space cannot be owned")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Turn flow
	PlayTurn() (*TurnLog, error)

	// Driver actions
	BuyCurrentProperty() bool
	BuildHouse(player, space int) bool
	BuildHotel(player, space int) bool
	Mortgage(space int) int
	Unmortgage(space int) int
	Surrender(player int) error

	// Queries
	CurrentPlayer() *Player
	Players() []*Player
	Board() *Board
	IsGameOver() bool
	Winner() (int, bool)
	Standings() []Standing
	History() []TurnLog
	GetConfig() *GameConfig

	// Persistence
	GetState() *GameState
}

// Option customizes a GameEngine at construction
type Option func(*GameEngine)

// WithSeed makes every roll and shuffle replayable from seed
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) {
		e.src = NewSeededSource(seed)
	}
}

// WithSource injects the randomness source
func WithSource(src Source) Option {
	return func(e *GameEngine) {
		e.src = src
	}
}

// WithLogger sets the logger turn events are written to
func WithLogger(logger zerolog.Logger) Option {
	return func(e *GameEngine) {
		e.logger = logger.With().Str("component", "engine").Logger()
	}
}

// GameEngine implements the Engine interface. It is a single-threaded,
// call-driven state machine: callers must serialize access.
type GameEngine struct {
	config    *GameConfig
	logger    zerolog.Logger
	src       Source
	dice      *Dice
	board     *Board
	decks     map[DeckKind]*Deck
	players   []*Player
	mortgages MortgageService

	current  int
	turn     int
	gameOver bool
	winner   int
	history  []TurnLog
	log      *TurnLog

	// offeredTo is the player holding an open purchase offer, or NoPlayer
	offeredTo int
}

// NewEngine starts a game for the named players. A nil config plays the classic rules.
func NewEngine(config *GameConfig, names []string, opts ...Option) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if err := validatePlayerNames(config, names); err != nil {
		return nil, err
	}

	e := newGameEngine(config, opts...)
	if e.src == nil {
		seed, err := NewSeed()
		if err != nil {
			return nil, err
		}
		e.src = NewSeededSource(seed)
	}
	e.dice = NewDice(e.src)

	for i, name := range names {
		e.players = append(e.players, NewPlayer(i, strings.TrimSpace(name), config.StartingMoney))
	}
	e.decks[DeckChance].Shuffle(e.src)
	e.decks[DeckCommunityChest].Shuffle(e.src)

	e.logger.Debug().Int("players", len(names)).Str("config", config.Name).Msg("game created")
	return e, nil
}

func newGameEngine(config *GameConfig, opts ...Option) *GameEngine {
	e := &GameEngine{
		config: config,
		logger: zerolog.Nop(),
		board:  NewBoard(),
		decks: map[DeckKind]*Deck{
			DeckChance:         NewChanceDeck(),
			DeckCommunityChest: NewCommunityChestDeck(),
		},
		winner:    NoPlayer,
		offeredTo: NoPlayer,
		history:   []TurnLog{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func validatePlayerNames(config *GameConfig, names []string) error {
	if len(names) < config.MinPlayers || len(names) > config.MaxPlayers {
		return fmt.Errorf("%w: need between %d and %d players, got %d",
			ErrInvalidPlayer, config.MinPlayers, config.MaxPlayers, len(names))
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: player %d has an empty name", ErrInvalidPlayer, i+1)
		}
		if len(name) > MaxPlayerNameLen {
			return fmt.Errorf("%w: name %q is longer than %d characters", ErrInvalidPlayer, name, MaxPlayerNameLen)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidPlayer, name)
		}
		seen[key] = true
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is
func (e *GameEngine) CurrentPlayer() *Player {
	return e.players[e.current]
}

// Players returns every player in seat order, bankrupt ones included
func (e *GameEngine) Players() []*Player {
	return e.players
}

// Player returns the player in seat index
func (e *GameEngine) Player(index int) (*Player, bool) {
	if index < 0 || index >= len(e.players) {
		return nil, false
	}
	return e.players[index], true
}

// Board returns the board
func (e *GameEngine) Board() *Board {
	return e.board
}

// Dice returns the dice
func (e *GameEngine) Dice() *Dice {
	return e.dice
}

// Deck returns the Chance or Community Chest deck
func (e *GameEngine) Deck(kind DeckKind) *Deck {
	return e.decks[kind]
}

// IsGameOver returns whether the game has ended
func (e *GameEngine) IsGameOver() bool {
	return e.gameOver
}

// Winner returns the winning seat once the game is over and someone won
func (e *GameEngine) Winner() (int, bool) {
	return e.winner, e.gameOver && e.winner != NoPlayer
}

// PendingOffer returns the player who may still buy the space they landed on
func (e *GameEngine) PendingOffer() (int, bool) {
	return e.offeredTo, e.offeredTo != NoPlayer
}

// TurnNumber returns how many turns have been played
func (e *GameEngine) TurnNumber() int {
	return e.turn
}

// GetConfig returns the rules the game is played with
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// History returns every turn and action log in order
func (e *GameEngine) History() []TurnLog {
	return e.history
}

// Standings ranks players: solvent ones first, then by net worth, then seat order
func (e *GameEngine) Standings() []Standing {
	ranked := slices.Clone(e.players)
	slices.SortStableFunc(ranked, func(a, b *Player) int {
		if a.Bankrupt != b.Bankrupt {
			if a.Bankrupt {
				return 1
			}
			return -1
		}
		return b.NetWorth(e.board) - a.NetWorth(e.board)
	})

	standings := make([]Standing, len(ranked))
	for i, p := range ranked {
		standings[i] = Standing{
			Rank:       i + 1,
			Player:     p.ID,
			Name:       p.Name,
			NetWorth:   p.NetWorth(e.board),
			Money:      p.Money,
			Properties: len(p.Properties),
			Bankrupt:   p.Bankrupt,
		}
	}
	return standings
}

// BuyCurrentProperty buys the unowned space under the player holding an open
// purchase offer, or under the current player when no offer is open. The
// no-offer case does not require a landing this turn: a player who declined
// or could not afford a space may buy it later from the same position.
func (e *GameEngine) BuyCurrentProperty() bool {
	if e.gameOver {
		return false
	}
	p := e.CurrentPlayer()
	if e.offeredTo != NoPlayer {
		p = e.players[e.offeredTo]
	}
	if p.Bankrupt {
		return false
	}
	o, ok := e.board.Ownable(p.Position)
	if !ok || o.IsOwned() || !p.CanAfford(o.Price()) {
		return false
	}

	e.begin(ActionBuy, p.ID)
	e.purchase(p, o)
	e.finish()
	e.offeredTo = NoPlayer
	return true
}

// BuildHouse adds a house to a street of player's completed color group
func (e *GameEngine) BuildHouse(player, space int) bool {
	p, prop, ok := e.developable(player, space)
	if !ok || !e.board.CanBuildHouse(prop) || !p.CanAfford(prop.HouseCost()) {
		return false
	}

	e.begin(ActionBuildHouse, p.ID)
	p.Money -= prop.HouseCost()
	prop.addHouse()
	ev := newEvent(EventHouseBuilt, p.ID, fmt.Sprintf("%s built house %d on %s", p.Name, prop.Houses(), prop.Name()))
	ev.Space = space
	ev.Amount = prop.HouseCost()
	e.emit(ev)
	e.finish()
	return true
}

// BuildHotel replaces four houses with a hotel
func (e *GameEngine) BuildHotel(player, space int) bool {
	p, prop, ok := e.developable(player, space)
	if !ok || !e.board.CanBuildHotel(prop) || !p.CanAfford(prop.HouseCost()) {
		return false
	}

	e.begin(ActionBuildHotel, p.ID)
	p.Money -= prop.HouseCost()
	prop.addHotel()
	ev := newEvent(EventHotelBuilt, p.ID, fmt.Sprintf("%s built a hotel on %s", p.Name, prop.Name()))
	ev.Space = space
	ev.Amount = prop.HouseCost()
	e.emit(ev)
	e.finish()
	return true
}

func (e *GameEngine) developable(player, space int) (*Player, *PropertySpace, bool) {
	if e.gameOver {
		return nil, nil, false
	}
	p, ok := e.Player(player)
	if !ok || p.Bankrupt {
		return nil, nil, false
	}
	prop, ok := e.board.Property(space)
	if !ok || prop.Owner() != player {
		return nil, nil, false
	}
	return p, prop, true
}

// Mortgage mortgages space for its owner and returns the cash received
func (e *GameEngine) Mortgage(space int) int {
	o, owner, ok := e.owned(space)
	if !ok || !e.mortgages.CanMortgage(o) {
		return 0
	}

	e.begin(ActionMortgage, owner.ID)
	value := e.mortgages.Mortgage(o, owner)
	ev := newEvent(EventPropertyMortgaged, owner.ID, fmt.Sprintf("%s mortgaged %s for $%d", owner.Name, o.Name(), value))
	ev.Space = space
	ev.Amount = value
	e.emit(ev)
	e.finish()
	return value
}

// Unmortgage lifts the mortgage on space and returns what the owner paid
func (e *GameEngine) Unmortgage(space int) int {
	o, owner, ok := e.owned(space)
	if !ok || !e.mortgages.CanUnmortgage(o, owner) {
		return 0
	}

	e.begin(ActionUnmortgage, owner.ID)
	cost := e.mortgages.Unmortgage(o, owner)
	ev := newEvent(EventPropertyUnmortgaged, owner.ID, fmt.Sprintf("%s paid $%d to unmortgage %s", owner.Name, cost, o.Name()))
	ev.Space = space
	ev.Amount = cost
	e.emit(ev)
	e.finish()
	return cost
}

func (e *GameEngine) owned(space int) (Ownable, *Player, bool) {
	if e.gameOver {
		return nil, nil, false
	}
	o, ok := e.board.Ownable(space)
	if !ok || !o.IsOwned() {
		return nil, nil, false
	}
	owner, ok := e.Player(o.Owner())
	if !ok || owner.Bankrupt {
		return nil, nil, false
	}
	return o, owner, true
}

// Surrender marks player bankrupt and surrendered and ends the game. The best
// placed remaining player wins.
func (e *GameEngine) Surrender(player int) error {
	if e.gameOver {
		return ErrGameOver
	}
	p, ok := e.Player(player)
	if !ok {
		return fmt.Errorf("%w: no player in seat %d", ErrInvalidPlayer, player)
	}
	if p.Bankrupt {
		return fmt.Errorf("%w: %s is already bankrupt", ErrInvalidPlayer, p.Name)
	}

	e.begin(ActionSurrender, p.ID)
	p.Bankrupt = true
	p.Surrendered = true
	e.emit(newEvent(EventPlayerSurrendered, p.ID, fmt.Sprintf("%s surrendered", p.Name)))
	e.liquidate(p)
	e.emit(newEvent(EventPlayerBankrupt, p.ID, fmt.Sprintf("%s is bankrupt", p.Name)))

	winner := NoPlayer
	if standings := e.Standings(); len(standings) > 0 && !standings[0].Bankrupt {
		winner = standings[0].Player
	}
	e.endGame(winner)
	e.finish()
	return nil
}

func (e *GameEngine) begin(action string, player int) *TurnLog {
	e.log = &TurnLog{Turn: e.turn, Player: player, Action: action, Events: []Event{}}
	return e.log
}

func (e *GameEngine) finish() *TurnLog {
	log := e.log
	e.history = append(e.history, *log)
	e.log = nil
	return log
}

func (e *GameEngine) emit(ev Event) {
	if e.log != nil {
		e.log.Events = append(e.log.Events, ev)
	}
	e.logger.Debug().
		Int("turn", e.turn).
		Int("player", ev.Player).
		Str("event", string(ev.Type)).
		Msg(ev.Message)
}
