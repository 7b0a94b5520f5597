package engine

// SpaceKind identifies the variant of a board space
type SpaceKind string

const (
	KindGo             SpaceKind = "go"
	KindProperty       SpaceKind = "property"
	KindRailroad       SpaceKind = "railroad"
	KindUtility        SpaceKind = "utility"
	KindTax            SpaceKind = "tax"
	KindChance         SpaceKind = "chance"
	KindCommunityChest SpaceKind = "community_chest"
	KindJail           SpaceKind = "jail"
	KindGoToJail       SpaceKind = "go_to_jail"
	KindFreeParking    SpaceKind = "free_parking"
)

// Ownable reports whether spaces of this kind can be bought
func (k SpaceKind) Ownable() bool {
	return k == KindProperty || k == KindRailroad || k == KindUtility
}

// DeckKind names one of the two card decks
type DeckKind string

const (
	DeckChance         DeckKind = "chance"
	DeckCommunityChest DeckKind = "community_chest"
)

// CardEffect is the action a card applies when drawn
type CardEffect string

const (
	EffectMovement              CardEffect = "movement"
	EffectGoToJail              CardEffect = "go_to_jail"
	EffectGetOutOfJailFree      CardEffect = "get_out_of_jail_free"
	EffectCollectMoney          CardEffect = "collect_money"
	EffectPayMoney              CardEffect = "pay_money"
	EffectPayEachPlayer         CardEffect = "pay_each_player"
	EffectCollectFromEachPlayer CardEffect = "collect_from_each_player"
	EffectRepairs               CardEffect = "repairs"
	EffectNearestRailroad       CardEffect = "nearest_railroad"
	EffectNearestUtility        CardEffect = "nearest_utility"
	EffectMoveBackward          CardEffect = "move_backward"
)

const (
	BoardSize        = 40
	GoIndex          = 0
	JailIndex        = 10
	GoToJailIndex    = 30
	MaxHouses        = 4
	HotelLevel       = 5
	MinPlayers       = 2
	MaxPlayers       = 8
	MaxPlayerNameLen = 32
	NoPlayer         = -1

	// Classic rules
	DefaultStartingMoney = 1500
	DefaultGoSalary      = 200
	DefaultJailFee       = 50
	DefaultMaxJailTurns  = 3
	DefaultMaxCardChain  = 8
)

// GameConfig holds the rules a game is played with
type GameConfig struct {
	Name                  string `json:"name" yaml:"name"`
	Description           string `json:"description" yaml:"description"`
	StartingMoney         int    `json:"starting_money" yaml:"starting_money"`
	GoSalary              int    `json:"go_salary" yaml:"go_salary"`
	JailFee               int    `json:"jail_fee" yaml:"jail_fee"`
	MaxJailTurns          int    `json:"max_jail_turns" yaml:"max_jail_turns"`
	MinPlayers            int    `json:"min_players" yaml:"min_players"`
	MaxPlayers            int    `json:"max_players" yaml:"max_players"`
	AutoBuy               bool   `json:"auto_buy" yaml:"auto_buy"`
	NearestCardDoubleRent bool   `json:"nearest_card_double_rent" yaml:"nearest_card_double_rent"`
	MaxCardChain          int    `json:"max_card_chain" yaml:"max_card_chain"`
}

// Standing is one row of the final ranking
type Standing struct {
	Rank       int    `json:"rank"`
	Player     int    `json:"player"`
	Name       string `json:"name"`
	NetWorth   int    `json:"net_worth"`
	Money      int    `json:"money"`
	Properties int    `json:"properties"`
	Bankrupt   bool   `json:"bankrupt"`
}
