package engine

// MortgageService holds the mortgage rules. It keeps no state; the checks
// never mutate and the apply steps touch only the space and its owner.
type MortgageService struct{}

// CanMortgage requires an owned, unmortgaged space with no buildings
func (MortgageService) CanMortgage(o Ownable) bool {
	if !o.IsOwned() || o.IsMortgaged() {
		return false
	}
	if p, ok := o.(*PropertySpace); ok && p.Developed() {
		return false
	}
	return true
}

// Mortgage pays the mortgage value to owner and flags the space.
// Returns 0 without changes when ineligible.
func (m MortgageService) Mortgage(o Ownable, owner *Player) int {
	if owner == nil || o.Owner() != owner.ID || !m.CanMortgage(o) {
		return 0
	}
	value := o.Mortgage()
	owner.Credit(value)
	return value
}

// CanUnmortgage requires a mortgaged space whose owner has the cash for the payoff
func (MortgageService) CanUnmortgage(o Ownable, owner *Player) bool {
	if owner == nil || !o.IsMortgaged() || o.Owner() != owner.ID {
		return false
	}
	return owner.CanAfford(o.UnmortgageCost())
}

// Unmortgage debits the payoff from owner and clears the flag.
// Returns the amount paid, 0 when ineligible.
func (m MortgageService) Unmortgage(o Ownable, owner *Player) int {
	if !m.CanUnmortgage(o, owner) {
		return 0
	}
	cost := o.Unmortgage()
	owner.Money -= cost
	return cost
}
