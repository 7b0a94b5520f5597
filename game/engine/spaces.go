package engine

// Space is any square on the board
type Space interface {
	Index() int
	Name() string
	Kind() SpaceKind
}

// RentContext carries the board facts rent depends on
type RentContext struct {
	// Monopoly is set when the owner holds every property of the color group
	Monopoly bool
	// OwnedOfKind is how many railroads or utilities the owner holds
	OwnedOfKind int
}

// Ownable is the buy, rent and mortgage capability shared by properties,
// railroads and utilities. Owners are player seat indices, NoPlayer for the bank.
type Ownable interface {
	Space
	Price() int
	Owner() int
	IsOwned() bool
	SetOwner(player int)
	// ResetOwner returns the space to the bank, clearing development and mortgage
	ResetOwner()
	IsMortgaged() bool
	MortgageValue() int
	UnmortgageCost() int
	// Mortgage flags the space and returns its mortgage value, or 0 if ineligible
	Mortgage() int
	// Unmortgage clears the flag and returns the cost due, or 0 if not mortgaged
	Unmortgage() int
	CalculateRent(ctx RentContext) int
}

// BasicSpace is a non-ownable space: GO, taxes, card spaces and the corners
type BasicSpace struct {
	index    int
	name     string
	kind     SpaceKind
	taxValue int
}

func (s *BasicSpace) Index() int      { return s.index }
func (s *BasicSpace) Name() string    { return s.name }
func (s *BasicSpace) Kind() SpaceKind { return s.kind }

// TaxValue is the amount charged on landing, zero for non-tax spaces
func (s *BasicSpace) TaxValue() int { return s.taxValue }

type ownership struct {
	BasicSpace
	price     int
	owner     int
	mortgaged bool
}

func (o *ownership) Price() int        { return o.price }
func (o *ownership) Owner() int        { return o.owner }
func (o *ownership) IsOwned() bool     { return o.owner != NoPlayer }
func (o *ownership) IsMortgaged() bool { return o.mortgaged }

func (o *ownership) SetOwner(player int) {
	o.owner = player
}

// MortgageValue is half the price, rounded down
func (o *ownership) MortgageValue() int {
	return o.price / 2
}

// UnmortgageCost is the mortgage value plus 10% interest, rounded down
func (o *ownership) UnmortgageCost() int {
	return o.MortgageValue() * 11 / 10
}

func (o *ownership) Unmortgage() int {
	if !o.mortgaged {
		return 0
	}
	o.mortgaged = false
	return o.UnmortgageCost()
}

// PropertySpace is a color-group street that can be developed
type PropertySpace struct {
	ownership
	colorGroup string
	houseCost  int
	rents      [6]int
	houses     int
	hotel      bool
}

func (p *PropertySpace) ColorGroup() string { return p.colorGroup }
func (p *PropertySpace) HouseCost() int     { return p.houseCost }
func (p *PropertySpace) Houses() int        { return p.houses }
func (p *PropertySpace) HasHotel() bool     { return p.hotel }

// RentTable returns rent by development level, 0 through 5 (hotel)
func (p *PropertySpace) RentTable() [6]int {
	return p.rents
}

// Developed reports whether any house or a hotel stands on the property
func (p *PropertySpace) Developed() bool {
	return p.houses > 0 || p.hotel
}

// Level returns the development level, HotelLevel when a hotel stands
func (p *PropertySpace) Level() int {
	if p.hotel {
		return HotelLevel
	}
	return p.houses
}

func (p *PropertySpace) ResetOwner() {
	p.owner = NoPlayer
	p.mortgaged = false
	p.houses = 0
	p.hotel = false
}

func (p *PropertySpace) Mortgage() int {
	if !p.IsOwned() || p.mortgaged || p.Developed() {
		return 0
	}
	p.mortgaged = true
	return p.MortgageValue()
}

// CalculateRent charges the full price undeveloped (double with a monopoly)
// and the rent table once houses or a hotel stand.
func (p *PropertySpace) CalculateRent(ctx RentContext) int {
	if !p.IsOwned() || p.mortgaged {
		return 0
	}
	if p.hotel {
		return p.rents[HotelLevel]
	}
	if p.houses > 0 {
		return p.rents[p.houses]
	}
	if ctx.Monopoly {
		return p.price * 2
	}
	return p.price
}

func (p *PropertySpace) addHouse() {
	p.houses++
}

func (p *PropertySpace) addHotel() {
	p.houses = 0
	p.hotel = true
}

// RailroadSpace is one of the four railroads
type RailroadSpace struct {
	ownership
}

func (r *RailroadSpace) ResetOwner() {
	r.owner = NoPlayer
	r.mortgaged = false
}

func (r *RailroadSpace) Mortgage() int {
	if !r.IsOwned() || r.mortgaged {
		return 0
	}
	r.mortgaged = true
	return r.MortgageValue()
}

// CalculateRent doubles from 25 for every railroad the owner holds
func (r *RailroadSpace) CalculateRent(ctx RentContext) int {
	if !r.IsOwned() || r.mortgaged || ctx.OwnedOfKind < 1 {
		return 0
	}
	n := ctx.OwnedOfKind
	if n > 4 {
		n = 4
	}
	return 25 << (n - 1)
}

// UtilitySpace is the Electric Company or the Water Works
type UtilitySpace struct {
	ownership
}

func (u *UtilitySpace) ResetOwner() {
	u.owner = NoPlayer
	u.mortgaged = false
}

func (u *UtilitySpace) Mortgage() int {
	if !u.IsOwned() || u.mortgaged {
		return 0
	}
	u.mortgaged = true
	return u.MortgageValue()
}

// CalculateRent returns a dice multiplier, not cash: 4 for one utility, 10 for both.
// The engine multiplies it by the roll that caused the landing.
func (u *UtilitySpace) CalculateRent(ctx RentContext) int {
	if !u.IsOwned() || u.mortgaged {
		return 0
	}
	switch {
	case ctx.OwnedOfKind >= 2:
		return 10
	case ctx.OwnedOfKind == 1:
		return 4
	default:
		return 0
	}
}
