package engine

// EventType names something that happened during a turn
type EventType string

const (
	EventTurnStarted         EventType = "turn_started"
	EventTurnSkipped         EventType = "turn_skipped"
	EventDiceRolled          EventType = "dice_rolled"
	EventPlayerMoved         EventType = "player_moved"
	EventSalaryCollected     EventType = "salary_collected"
	EventPropertyPurchased   EventType = "property_purchased"
	EventPurchaseOffered     EventType = "purchase_offered"
	EventPurchaseDeclined    EventType = "purchase_declined"
	EventRentPaid            EventType = "rent_paid"
	EventTaxPaid             EventType = "tax_paid"
	EventCardDrawn           EventType = "card_drawn"
	EventMoneyCollected      EventType = "money_collected"
	EventMoneyPaid           EventType = "money_paid"
	EventPaymentFailed       EventType = "payment_failed"
	EventPlayerJailed        EventType = "player_jailed"
	EventJailCardUsed        EventType = "jail_card_used"
	EventJailFeePaid         EventType = "jail_fee_paid"
	EventJailReleased        EventType = "jail_released"
	EventStayedInJail        EventType = "stayed_in_jail"
	EventCardChainLimit      EventType = "card_chain_limit"
	EventHouseBuilt          EventType = "house_built"
	EventHotelBuilt          EventType = "hotel_built"
	EventPropertyMortgaged   EventType = "property_mortgaged"
	EventPropertyUnmortgaged EventType = "property_unmortgaged"
	EventPlayerBankrupt      EventType = "player_bankrupt"
	EventPlayerSurrendered   EventType = "player_surrendered"
	EventExtraTurn           EventType = "extra_turn"
	EventGameOver            EventType = "game_over"
)

// Event is one structured step of a turn. Fields that do not apply to the
// event type hold their zero value, or -1 for Space, Payee and Winner.
type Event struct {
	Type     EventType `json:"type"`
	Player   int       `json:"player"`
	Message  string    `json:"message"`
	From     int       `json:"from"`
	To       int       `json:"to"`
	PassedGo bool      `json:"passed_go,omitempty"`
	Space    int       `json:"space"`
	Amount   int       `json:"amount,omitempty"`
	Payee    int       `json:"payee"`
	Deck     DeckKind  `json:"deck,omitempty"`
	Card     *Card     `json:"card,omitempty"`
	Dice     []int     `json:"dice,omitempty"`
	Winner   int       `json:"winner"`
}

func newEvent(t EventType, player int, message string) Event {
	return Event{
		Type:    t,
		Player:  player,
		Message: message,
		Space:   -1,
		Payee:   NoPlayer,
		Winner:  NoPlayer,
	}
}

// Action names for TurnLog entries
const (
	ActionTurn       = "turn"
	ActionBuy        = "buy"
	ActionBuildHouse = "build_house"
	ActionBuildHotel = "build_hotel"
	ActionMortgage   = "mortgage"
	ActionUnmortgage = "unmortgage"
	ActionSurrender  = "surrender"
)

// TurnLog is the ordered record of one PlayTurn call or one driver action
type TurnLog struct {
	Turn      int     `json:"turn"`
	Player    int     `json:"player"`
	Action    string  `json:"action"`
	Dice      []int   `json:"dice,omitempty"`
	ExtraTurn bool    `json:"extra_turn"`
	Events    []Event `json:"events"`
}

// Has reports whether the log contains an event of type t
func (l *TurnLog) Has(t EventType) bool {
	for _, e := range l.Events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Find returns the first event of type t
func (l *TurnLog) Find(t EventType) (Event, bool) {
	for _, e := range l.Events {
		if e.Type == t {
			return e, true
		}
	}
	return Event{}, false
}
