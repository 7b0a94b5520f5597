package engine

import "fmt"

type jailOutcome int

const (
	// jailFree means the player left jail without rolling and takes a normal turn
	jailFree jailOutcome = iota
	// jailMoved means the release roll already moved the player; the turn ends after landing
	jailMoved
	// jailStay means the turn ends in jail, or in bankruptcy over the fee
	jailStay
)

// PlayTurn plays one turn for the current player and returns its log.
// After doubles the same player keeps the turn for the next call.
func (e *GameEngine) PlayTurn() (*TurnLog, error) {
	if e.gameOver {
		return nil, ErrGameOver
	}

	p := e.CurrentPlayer()
	e.turn++
	e.offeredTo = NoPlayer
	e.begin(ActionTurn, p.ID)

	if p.Bankrupt {
		e.emit(newEvent(EventTurnSkipped, p.ID, fmt.Sprintf("%s is bankrupt and skips the turn", p.Name)))
		e.advance()
		return e.finish(), nil
	}
	e.emit(newEvent(EventTurnStarted, p.ID, fmt.Sprintf("Turn %d: %s", e.turn, p.Name)))

	if p.InJail {
		if outcome := e.handleJail(p); outcome != jailFree {
			e.endTurn(p, false)
			return e.finish(), nil
		}
	}

	d1, d2 := e.roll(p)
	if e.dice.IsThreeConsecutiveDoubles() {
		e.dice.ResetConsecutiveDoubles()
		e.sendToJail(p, "rolled doubles three times in a row")
		e.endTurn(p, false)
		return e.finish(), nil
	}

	e.moveAndResolve(p, d1+d2)
	e.endTurn(p, d1 == d2)
	return e.finish(), nil
}

// handleJail tries to get p out of jail: a held card first, then a roll for
// doubles, then the forced fee on the last allowed attempt.
func (e *GameEngine) handleJail(p *Player) jailOutcome {
	if id, ok := p.takeJailCard(); ok {
		card, found := cardByID(id)
		if found {
			e.decks[card.Deck].PutBack(card)
		}
		p.ReleaseFromJail()
		ev := newEvent(EventJailCardUsed, p.ID, fmt.Sprintf("%s used a Get Out of Jail Free card", p.Name))
		ev.Card = &card
		ev.Deck = card.Deck
		e.emit(ev)
		return jailFree
	}

	d1, d2 := e.roll(p)
	// Jail rolls never count toward the three-doubles streak
	e.dice.ResetConsecutiveDoubles()

	if d1 == d2 {
		p.ReleaseFromJail()
		e.emit(newEvent(EventJailReleased, p.ID, fmt.Sprintf("%s rolled doubles and leaves jail", p.Name)))
		e.moveAndResolve(p, d1+d2)
		return jailMoved
	}

	p.JailTurns = min(p.JailTurns+1, e.config.MaxJailTurns)
	if p.JailTurns < e.config.MaxJailTurns {
		e.emit(newEvent(EventStayedInJail, p.ID,
			fmt.Sprintf("%s stays in jail (attempt %d of %d)", p.Name, p.JailTurns, e.config.MaxJailTurns)))
		return jailStay
	}

	// A fee that cash cannot cover keeps the player in jail at the cap, so
	// the next turn owes it again. charge bankrupts only past net worth.
	fee := e.config.JailFee
	if !e.charge(p, fee, "jail fee") {
		return jailStay
	}
	p.ReleaseFromJail()
	ev := newEvent(EventJailFeePaid, p.ID, fmt.Sprintf("%s paid the $%d jail fee", p.Name, fee))
	ev.Amount = fee
	e.emit(ev)
	e.moveAndResolve(p, d1+d2)
	return jailMoved
}

func (e *GameEngine) roll(p *Player) (int, int) {
	d1, d2 := e.dice.Roll()
	e.log.Dice = []int{d1, d2}
	ev := newEvent(EventDiceRolled, p.ID, fmt.Sprintf("%s rolled %d and %d", p.Name, d1, d2))
	ev.Dice = []int{d1, d2}
	ev.Amount = d1 + d2
	e.emit(ev)
	return d1, d2
}

// endTurn keeps the turn with p after doubles, otherwise passes it on
func (e *GameEngine) endTurn(p *Player, doubles bool) {
	if e.gameOver {
		return
	}
	if doubles && !p.InJail && !p.Bankrupt {
		e.log.ExtraTurn = true
		e.emit(newEvent(EventExtraTurn, p.ID, fmt.Sprintf("%s rolled doubles and goes again", p.Name)))
		return
	}
	e.advance()
}

// advance hands the turn to the next solvent player in seat order
func (e *GameEngine) advance() {
	e.dice.ResetConsecutiveDoubles()
	n := len(e.players)
	for step := 1; step <= n; step++ {
		next := (e.current + step) % n
		if !e.players[next].Bankrupt {
			e.current = next
			return
		}
	}
}
