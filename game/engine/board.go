package engine

// Board owns the 40 spaces. Players refer to spaces by index only.
type Board struct {
	spaces []Space
	groups map[string][]*PropertySpace
}

// NewBoard builds the classic board with every space owned by the bank
func NewBoard() *Board {
	b := &Board{
		spaces: make([]Space, 0, BoardSize),
		groups: make(map[string][]*PropertySpace),
	}

	for i, def := range classicLayout {
		base := BasicSpace{index: i, name: def.name, kind: def.kind, taxValue: def.tax}
		own := ownership{BasicSpace: base, price: def.price, owner: NoPlayer}

		switch def.kind {
		case KindProperty:
			p := &PropertySpace{
				ownership:  own,
				colorGroup: def.group,
				houseCost:  def.houseCost,
				rents:      def.rents,
			}
			b.groups[def.group] = append(b.groups[def.group], p)
			b.spaces = append(b.spaces, p)
		case KindRailroad:
			b.spaces = append(b.spaces, &RailroadSpace{ownership: own})
		case KindUtility:
			b.spaces = append(b.spaces, &UtilitySpace{ownership: own})
		default:
			s := base
			b.spaces = append(b.spaces, &s)
		}
	}

	return b
}

// Size returns the number of spaces
func (b *Board) Size() int {
	return len(b.spaces)
}

// Valid reports whether index addresses a space
func (b *Board) Valid(index int) bool {
	return index >= 0 && index < len(b.spaces)
}

// SpaceAt returns the space at index; index must be Valid
func (b *Board) SpaceAt(index int) Space {
	return b.spaces[index]
}

// Spaces returns all spaces in board order
func (b *Board) Spaces() []Space {
	return b.spaces
}

// Ownable returns the space at index when it can be bought
func (b *Board) Ownable(index int) (Ownable, bool) {
	if !b.Valid(index) {
		return nil, false
	}
	o, ok := b.spaces[index].(Ownable)
	return o, ok
}

// Property returns the street at index
func (b *Board) Property(index int) (*PropertySpace, bool) {
	if !b.Valid(index) {
		return nil, false
	}
	p, ok := b.spaces[index].(*PropertySpace)
	return p, ok
}

// Ownables returns every buyable space in board order
func (b *Board) Ownables() []Ownable {
	var out []Ownable
	for _, s := range b.spaces {
		if o, ok := s.(Ownable); ok {
			out = append(out, o)
		}
	}
	return out
}

// FindNearest returns the first space of kind strictly ahead of from, wrapping
// around the board, or -1 when the board has none.
func (b *Board) FindNearest(kind SpaceKind, from int) int {
	n := len(b.spaces)
	for step := 1; step <= n; step++ {
		idx := (from + step) % n
		if b.spaces[idx].Kind() == kind {
			return idx
		}
	}
	return -1
}

// Group returns the properties of a color group in board order
func (b *Board) Group(colorGroup string) []*PropertySpace {
	return b.groups[colorGroup]
}

// HasMonopoly reports whether player owns every property of the color group
func (b *Board) HasMonopoly(player int, colorGroup string) bool {
	members := b.groups[colorGroup]
	if len(members) == 0 || player == NoPlayer {
		return false
	}
	for _, p := range members {
		if p.owner != player {
			return false
		}
	}
	return true
}

// CountOwned counts the spaces of kind held by player
func (b *Board) CountOwned(player int, kind SpaceKind) int {
	count := 0
	for _, s := range b.spaces {
		if s.Kind() != kind {
			continue
		}
		if o, ok := s.(Ownable); ok && o.Owner() == player {
			count++
		}
	}
	return count
}

// RentContext gathers what o's rent depends on for its current owner
func (b *Board) RentContext(o Ownable) RentContext {
	if !o.IsOwned() {
		return RentContext{}
	}
	switch s := o.(type) {
	case *PropertySpace:
		return RentContext{Monopoly: b.HasMonopoly(s.owner, s.colorGroup)}
	default:
		return RentContext{OwnedOfKind: b.CountOwned(o.Owner(), o.Kind())}
	}
}

// CanBuildHouse checks monopoly, the four-house cap, mortgage state and even development
func (b *Board) CanBuildHouse(p *PropertySpace) bool {
	if !p.IsOwned() || p.mortgaged || p.hotel || p.houses >= MaxHouses {
		return false
	}
	if !b.HasMonopoly(p.owner, p.colorGroup) {
		return false
	}
	for _, sibling := range b.groups[p.colorGroup] {
		if sibling != p && sibling.Level() < p.houses {
			return false
		}
	}
	return true
}

// CanBuildHotel requires four houses, no hotel yet and the full color group
func (b *Board) CanBuildHotel(p *PropertySpace) bool {
	if !p.IsOwned() || p.mortgaged || p.hotel || p.houses != MaxHouses {
		return false
	}
	return b.HasMonopoly(p.owner, p.colorGroup)
}

// Holdings returns the spaces owned by player in board order
func (b *Board) Holdings(player int) []Ownable {
	var out []Ownable
	for _, s := range b.spaces {
		if o, ok := s.(Ownable); ok && o.Owner() == player {
			out = append(out, o)
		}
	}
	return out
}
