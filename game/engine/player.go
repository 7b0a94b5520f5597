package engine

import "slices"

// Player is one seat at the table. Properties holds board indices; the Board
// owns the spaces themselves.
type Player struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Money       int      `json:"money"`
	Position    int      `json:"position"`
	InJail      bool     `json:"in_jail"`
	JailTurns   int      `json:"jail_turns"`
	Properties  []int    `json:"properties"`
	Bankrupt    bool     `json:"bankrupt"`
	Surrendered bool     `json:"surrendered"`
	JailCards   []string `json:"jail_cards"`
}

// NewPlayer seats a player on GO with the starting money
func NewPlayer(id int, name string, money int) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Money:      money,
		Position:   GoIndex,
		Properties: []int{},
		JailCards:  []string{},
	}
}

// GetOutOfJailCards returns how many Get Out of Jail Free cards the player holds
func (p *Player) GetOutOfJailCards() int {
	return len(p.JailCards)
}

// Owns reports whether the space index is in the player's holdings
func (p *Player) Owns(space int) bool {
	return slices.Contains(p.Properties, space)
}

// Credit adds money to the player
func (p *Player) Credit(amount int) {
	p.Money += amount
}

// CanAfford reports whether cash alone covers amount
func (p *Player) CanAfford(amount int) bool {
	return p.Money >= amount
}

// NetWorth is cash plus the listed price of every owned space
func (p *Player) NetWorth(b *Board) int {
	worth := p.Money
	for _, idx := range p.Properties {
		if o, ok := b.Ownable(idx); ok {
			worth += o.Price()
		}
	}
	return worth
}

// Pay debits amount when cash covers it. Otherwise nothing moves and the
// player is marked bankrupt only if net worth cannot cover the debt either.
func (p *Player) Pay(amount int, b *Board) bool {
	if amount <= 0 {
		return true
	}
	if p.Money >= amount {
		p.Money -= amount
		return true
	}
	if p.NetWorth(b) < amount {
		p.Bankrupt = true
	}
	return false
}

// Advance moves the player forward by steps, wrapping at size
func (p *Player) Advance(steps, size int) (from, to int, passedGo bool) {
	from = p.Position
	to = (from + steps) % size
	p.Position = to
	return from, to, to < from
}

// MoveTo places the player directly on dest
func (p *Player) MoveTo(dest int) {
	p.Position = dest
}

// SendToJail moves the player to the jail space and locks them in
func (p *Player) SendToJail() {
	p.Position = JailIndex
	p.InJail = true
	p.JailTurns = 0
}

// ReleaseFromJail unlocks the player; position stays on the jail space
func (p *Player) ReleaseFromJail() {
	p.InJail = false
	p.JailTurns = 0
}

func (p *Player) addProperty(space int) {
	if !p.Owns(space) {
		p.Properties = append(p.Properties, space)
	}
}

func (p *Player) removeProperty(space int) {
	p.Properties = slices.DeleteFunc(p.Properties, func(idx int) bool { return idx == space })
}

func (p *Player) takeJailCard() (string, bool) {
	if len(p.JailCards) == 0 {
		return "", false
	}
	id := p.JailCards[0]
	p.JailCards = p.JailCards[1:]
	return id, true
}
