package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard_ClassicLayout(t *testing.T) {
	b := NewBoard()
	require.Equal(t, BoardSize, b.Size())

	counts := map[SpaceKind]int{}
	for i, s := range b.Spaces() {
		assert.Equal(t, i, s.Index())
		counts[s.Kind()]++
	}
	assert.Equal(t, 22, counts[KindProperty])
	assert.Equal(t, 4, counts[KindRailroad])
	assert.Equal(t, 2, counts[KindUtility])
	assert.Equal(t, 2, counts[KindTax])
	assert.Equal(t, 3, counts[KindChance])
	assert.Equal(t, 3, counts[KindCommunityChest])

	assert.Equal(t, KindGo, b.SpaceAt(GoIndex).Kind())
	assert.Equal(t, KindJail, b.SpaceAt(JailIndex).Kind())
	assert.Equal(t, KindGoToJail, b.SpaceAt(GoToJailIndex).Kind())
	assert.Equal(t, "Boardwalk", b.SpaceAt(39).Name())

	assert.False(t, b.Valid(-1))
	assert.False(t, b.Valid(BoardSize))
	assert.Len(t, b.Ownables(), 28)
}

func TestBoard_FindNearest(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		kind SpaceKind
		from int
		want int
	}{
		{KindRailroad, 7, 15},
		{KindRailroad, 36, 5},
		{KindRailroad, 5, 15},
		{KindUtility, 22, 28},
		{KindUtility, 36, 12},
		{KindGoToJail, 30, 30},
		{KindProperty, 39, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.FindNearest(tt.kind, tt.from), "nearest %s from %d", tt.kind, tt.from)
	}
}

func TestBoard_Monopoly(t *testing.T) {
	b := NewBoard()
	for _, idx := range []int{37, 39} {
		o, _ := b.Ownable(idx)
		o.SetOwner(2)
	}
	parkPlace, _ := b.Property(37)

	assert.True(t, b.HasMonopoly(2, parkPlace.ColorGroup()))
	assert.False(t, b.HasMonopoly(1, parkPlace.ColorGroup()))
	assert.True(t, b.RentContext(parkPlace).Monopoly)
	assert.Len(t, b.Holdings(2), 2)

	boardwalk, _ := b.Ownable(39)
	boardwalk.ResetOwner()
	assert.False(t, b.HasMonopoly(2, parkPlace.ColorGroup()))
}

func TestPropertyRent(t *testing.T) {
	b := NewBoard()
	baltic, ok := b.Property(3)
	require.True(t, ok)
	baltic.SetOwner(0)

	assert.Equal(t, 60, baltic.CalculateRent(RentContext{}))
	assert.Equal(t, 120, baltic.CalculateRent(RentContext{Monopoly: true}))

	table := baltic.RentTable()
	for houses := 1; houses <= MaxHouses; houses++ {
		baltic.houses = houses
		assert.Equal(t, table[houses], baltic.CalculateRent(RentContext{Monopoly: true}))
	}
	baltic.houses = 0
	baltic.hotel = true
	assert.Equal(t, table[HotelLevel], baltic.CalculateRent(RentContext{Monopoly: true}))
	assert.Equal(t, HotelLevel, baltic.Level())
}

func TestRailroadAndUtilityRent(t *testing.T) {
	b := NewBoard()
	reading, _ := b.Ownable(5)
	reading.SetOwner(0)
	for owned, want := range map[int]int{1: 25, 2: 50, 3: 100, 4: 200} {
		assert.Equal(t, want, reading.CalculateRent(RentContext{OwnedOfKind: owned}), "%d railroads", owned)
	}

	electric, _ := b.Ownable(12)
	electric.SetOwner(0)
	assert.Equal(t, 4, electric.CalculateRent(RentContext{OwnedOfKind: 1}))
	assert.Equal(t, 10, electric.CalculateRent(RentContext{OwnedOfKind: 2}))
}

func TestMortgageValues(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		space int
		value int
		cost  int
	}{
		{1, 30, 33},
		{39, 200, 220},
		{5, 100, 110},
		{12, 75, 82},
	}
	for _, tt := range tests {
		o, _ := b.Ownable(tt.space)
		assert.Equal(t, tt.value, o.MortgageValue(), o.Name())
		assert.Equal(t, tt.cost, o.UnmortgageCost(), o.Name())
	}
}

func TestMortgageService(t *testing.T) {
	b := NewBoard()
	var svc MortgageService
	owner := NewPlayer(0, "Alice", 100)
	other := NewPlayer(1, "Bob", 100)

	mediterranean, _ := b.Property(1)
	assert.False(t, svc.CanMortgage(mediterranean), "unowned")

	mediterranean.SetOwner(owner.ID)
	owner.addProperty(1)

	assert.Equal(t, 0, svc.Mortgage(mediterranean, other), "wrong owner")
	assert.Equal(t, 30, svc.Mortgage(mediterranean, owner))
	assert.Equal(t, 130, owner.Money)
	assert.True(t, mediterranean.IsMortgaged())

	owner.Money = 32
	assert.False(t, svc.CanUnmortgage(mediterranean, owner))
	owner.Money = 33
	assert.Equal(t, 33, svc.Unmortgage(mediterranean, owner))
	assert.Equal(t, 0, owner.Money)
	assert.False(t, mediterranean.IsMortgaged())

	mediterranean.houses = 1
	assert.False(t, svc.CanMortgage(mediterranean), "developed")
}

func TestPlayerPay(t *testing.T) {
	b := NewBoard()

	t.Run("cash covers the debt", func(t *testing.T) {
		p := NewPlayer(0, "Alice", 100)
		assert.True(t, p.Pay(100, b))
		assert.Equal(t, 0, p.Money)
		assert.False(t, p.Bankrupt)
	})

	t.Run("short on cash and net worth", func(t *testing.T) {
		p := NewPlayer(0, "Alice", 40)
		assert.False(t, p.Pay(100, b))
		assert.Equal(t, 40, p.Money)
		assert.True(t, p.Bankrupt)
	})

	t.Run("short on cash but solvent on paper", func(t *testing.T) {
		p := NewPlayer(0, "Alice", 40)
		boardwalk, _ := b.Ownable(39)
		boardwalk.SetOwner(0)
		p.addProperty(39)

		assert.Equal(t, 440, p.NetWorth(b))
		assert.False(t, p.Pay(100, b))
		assert.Equal(t, 40, p.Money)
		assert.False(t, p.Bankrupt)
	})

	t.Run("non-positive amounts are free", func(t *testing.T) {
		p := NewPlayer(0, "Alice", 0)
		assert.True(t, p.Pay(0, b))
		assert.True(t, p.Pay(-5, b))
		assert.Equal(t, 0, p.Money)
	})
}

func TestDice(t *testing.T) {
	d := NewDice(dice(2, 2, 3, 3, 6, 6, 1, 5))

	d.Roll()
	assert.True(t, d.IsDoubles())
	assert.Equal(t, 1, d.ConsecutiveDoubles())
	d.Roll()
	assert.False(t, d.IsThreeConsecutiveDoubles())
	d.Roll()
	assert.True(t, d.IsThreeConsecutiveDoubles())
	assert.Equal(t, 12, d.Total())

	d1, d2 := d.Roll()
	assert.Equal(t, 1, d1)
	assert.Equal(t, 5, d2)
	assert.Equal(t, 0, d.ConsecutiveDoubles(), "a non-double breaks the streak")
}

func TestDice_SeededFacesInRange(t *testing.T) {
	d := NewDice(NewSeededSource(7))
	seen := map[int]bool{}
	for i := 0; i < 600; i++ {
		d1, d2 := d.Roll()
		require.True(t, d1 >= 1 && d1 <= 6)
		require.True(t, d2 >= 1 && d2 <= 6)
		seen[d1] = true
	}
	assert.Len(t, seen, 6)
}
