package main

import (
	"sort"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
)

// Strategy decides the driver actions of every seat. A player only spends
// money while it keeps Reserve in cash afterwards.
type Strategy struct {
	Reserve int
}

func NewStrategy(reserve int) *Strategy {
	return &Strategy{Reserve: reserve}
}

// Development is one building action
type Development struct {
	Player int
	Space  int
	Hotel  bool
}

// ShouldBuy reports whether the holder of the open purchase offer buys
func (s *Strategy) ShouldBuy(state *engine.GameState) bool {
	if state == nil || state.PendingOffer == engine.NoPlayer {
		return false
	}
	p, ok := player(state, state.PendingOffer)
	if !ok {
		return false
	}
	space, ok := spaceAt(state, p.Position)
	if !ok || space.Owner != engine.NoPlayer || space.Price == 0 {
		return false
	}
	return p.Money-space.Price >= s.Reserve
}

// Developments lists at most one building step per player. The least
// developed property of a complete, unmortgaged color group goes first so
// building stays even.
func (s *Strategy) Developments(state *engine.GameState) []Development {
	if state == nil || state.GameOver {
		return nil
	}

	var out []Development
	for _, p := range state.Players {
		if p.Bankrupt {
			continue
		}
		for _, group := range ownedGroups(state, p.ID) {
			target, ok := leastDeveloped(group)
			if !ok || p.Money-target.HouseCost < s.Reserve {
				continue
			}
			out = append(out, Development{Player: p.ID, Space: target.Index, Hotel: target.Houses == engine.MaxHouses})
			break
		}
	}
	return out
}

// Unmortgages lists mortgaged spaces whose owner can repay them and keep
// twice the reserve
func (s *Strategy) Unmortgages(state *engine.GameState) []int {
	if state == nil || state.GameOver {
		return nil
	}

	spent := map[int]int{}
	var out []int
	for _, space := range state.Board {
		if !space.Mortgaged || space.Owner == engine.NoPlayer {
			continue
		}
		p, ok := player(state, space.Owner)
		if !ok || p.Bankrupt {
			continue
		}
		if p.Money-spent[p.ID]-space.UnmortgageCost >= 2*s.Reserve {
			spent[p.ID] += space.UnmortgageCost
			out = append(out, space.Index)
		}
	}
	return out
}

// ownedGroups returns the color groups seat owns completely with no mortgage
func ownedGroups(state *engine.GameState, seat int) [][]engine.SpaceState {
	groups := map[string][]engine.SpaceState{}
	for _, space := range state.Board {
		if space.Kind == engine.KindProperty && space.ColorGroup != "" {
			groups[space.ColorGroup] = append(groups[space.ColorGroup], space)
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var out [][]engine.SpaceState
	for _, name := range names {
		group := groups[name]
		complete := true
		for _, space := range group {
			if space.Owner != seat || space.Mortgaged {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, group)
		}
	}
	return out
}

func leastDeveloped(group []engine.SpaceState) (engine.SpaceState, bool) {
	var best engine.SpaceState
	found := false
	for _, space := range group {
		if space.Hotel {
			continue
		}
		if !found || space.Houses < best.Houses {
			best = space
			found = true
		}
	}
	return best, found
}

func player(state *engine.GameState, seat int) (engine.Player, bool) {
	if seat < 0 || seat >= len(state.Players) {
		return engine.Player{}, false
	}
	return state.Players[seat], true
}

func spaceAt(state *engine.GameState, index int) (engine.SpaceState, bool) {
	if index < 0 || index >= len(state.Board) {
		return engine.SpaceState{}, false
	}
	return state.Board[index], true
}
