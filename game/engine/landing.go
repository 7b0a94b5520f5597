package engine

import "fmt"

// resolveLanding applies the space p stands on. Cards that move the player
// recurse with depth+1; MaxCardChain bounds the recursion.
func (e *GameEngine) resolveLanding(p *Player, diceTotal, depth int, doubleRent bool) {
	if p.Bankrupt || e.gameOver {
		return
	}

	space := e.board.SpaceAt(p.Position)
	switch space.Kind() {
	case KindProperty, KindRailroad, KindUtility:
		e.resolveOwnable(p, space.(Ownable), diceTotal, doubleRent)
	case KindTax:
		tax := space.(*BasicSpace).TaxValue()
		if e.charge(p, tax, space.Name()) {
			ev := newEvent(EventTaxPaid, p.ID, fmt.Sprintf("%s paid $%d %s", p.Name, tax, space.Name()))
			ev.Space = space.Index()
			ev.Amount = tax
			e.emit(ev)
		}
	case KindGoToJail:
		e.sendToJail(p, "landed on Go To Jail")
	case KindChance:
		e.drawCard(p, DeckChance, diceTotal, depth)
	case KindCommunityChest:
		e.drawCard(p, DeckCommunityChest, diceTotal, depth)
	}
}

func (e *GameEngine) resolveOwnable(p *Player, o Ownable, diceTotal int, doubleRent bool) {
	switch {
	case !o.IsOwned():
		switch {
		case !p.CanAfford(o.Price()):
			ev := newEvent(EventPurchaseDeclined, p.ID, fmt.Sprintf("%s cannot afford %s ($%d)", p.Name, o.Name(), o.Price()))
			ev.Space = o.Index()
			ev.Amount = o.Price()
			e.emit(ev)
		case e.config.AutoBuy:
			e.purchase(p, o)
		default:
			e.offeredTo = p.ID
			ev := newEvent(EventPurchaseOffered, p.ID, fmt.Sprintf("%s may buy %s for $%d", p.Name, o.Name(), o.Price()))
			ev.Space = o.Index()
			ev.Amount = o.Price()
			e.emit(ev)
		}
	case o.Owner() == p.ID, o.IsMortgaged():
		return
	default:
		rent := o.CalculateRent(e.board.RentContext(o))
		if o.Kind() == KindUtility {
			rent *= diceTotal
		}
		if doubleRent {
			rent *= 2
		}
		if rent <= 0 {
			return
		}
		owner := e.players[o.Owner()]
		if !e.charge(p, rent, "rent for "+o.Name()) {
			return
		}
		owner.Credit(rent)
		ev := newEvent(EventRentPaid, p.ID, fmt.Sprintf("%s paid $%d rent to %s for %s", p.Name, rent, owner.Name, o.Name()))
		ev.Space = o.Index()
		ev.Amount = rent
		ev.Payee = owner.ID
		e.emit(ev)
	}
}

func (e *GameEngine) purchase(p *Player, o Ownable) {
	p.Money -= o.Price()
	o.SetOwner(p.ID)
	p.addProperty(o.Index())

	ev := newEvent(EventPropertyPurchased, p.ID, fmt.Sprintf("%s bought %s for $%d", p.Name, o.Name(), o.Price()))
	ev.Space = o.Index()
	ev.Amount = o.Price()
	e.emit(ev)
}

func (e *GameEngine) drawCard(p *Player, kind DeckKind, diceTotal, depth int) {
	if depth >= e.config.MaxCardChain {
		e.emit(newEvent(EventCardChainLimit, p.ID, fmt.Sprintf("card chain stopped after %d draws", depth)))
		return
	}

	deck := e.decks[kind]
	card := deck.Draw()
	ev := newEvent(EventCardDrawn, p.ID, fmt.Sprintf("%s drew: %s", p.Name, card.Description))
	ev.Deck = kind
	ev.Card = &card
	e.emit(ev)

	e.applyCard(p, card, diceTotal, depth)

	if card.Effect == EffectGetOutOfJailFree {
		p.JailCards = append(p.JailCards, card.ID)
		return
	}
	deck.PutBack(card)
}

func (e *GameEngine) applyCard(p *Player, card Card, diceTotal, depth int) {
	switch card.Effect {
	case EffectMovement:
		e.relocate(p, card.Value, true)
		e.resolveLanding(p, diceTotal, depth+1, false)

	case EffectNearestRailroad, EffectNearestUtility:
		kind := KindRailroad
		if card.Effect == EffectNearestUtility {
			kind = KindUtility
		}
		dest := e.board.FindNearest(kind, p.Position)
		if dest < 0 {
			return
		}
		e.relocate(p, dest, true)
		e.resolveLanding(p, diceTotal, depth+1, e.config.NearestCardDoubleRent)

	case EffectMoveBackward:
		size := e.board.Size()
		e.relocate(p, ((p.Position-card.Value)%size+size)%size, false)
		e.resolveLanding(p, diceTotal, depth+1, false)

	case EffectGoToJail:
		e.sendToJail(p, card.Description)

	case EffectCollectMoney:
		p.Credit(card.Value)
		ev := newEvent(EventMoneyCollected, p.ID, fmt.Sprintf("%s collected $%d", p.Name, card.Value))
		ev.Amount = card.Value
		e.emit(ev)

	case EffectPayMoney:
		e.payBank(p, card.Value)

	case EffectRepairs:
		houses, hotels := e.buildings(p)
		e.payBank(p, houses*card.Value+hotels*card.ExtraValue)

	case EffectPayEachPlayer:
		others := e.opponents(p)
		total := card.Value * len(others)
		if total <= 0 || !e.charge(p, total, card.Description) {
			return
		}
		for _, o := range others {
			o.Credit(card.Value)
			e.emitTransfer(p, o, card.Value)
		}

	case EffectCollectFromEachPlayer:
		for _, o := range e.opponents(p) {
			if e.charge(o, card.Value, card.Description) {
				p.Credit(card.Value)
				e.emitTransfer(o, p, card.Value)
			}
		}
	}
}

func (e *GameEngine) payBank(p *Player, amount int) {
	if amount <= 0 || !e.charge(p, amount, "bank") {
		return
	}
	ev := newEvent(EventMoneyPaid, p.ID, fmt.Sprintf("%s paid $%d to the bank", p.Name, amount))
	ev.Amount = amount
	e.emit(ev)
}

func (e *GameEngine) emitTransfer(from, to *Player, amount int) {
	ev := newEvent(EventMoneyPaid, from.ID, fmt.Sprintf("%s paid $%d to %s", from.Name, amount, to.Name))
	ev.Amount = amount
	ev.Payee = to.ID
	e.emit(ev)
}

// opponents returns the solvent players other than p
func (e *GameEngine) opponents(p *Player) []*Player {
	var out []*Player
	for _, o := range e.players {
		if o.ID != p.ID && !o.Bankrupt {
			out = append(out, o)
		}
	}
	return out
}

func (e *GameEngine) buildings(p *Player) (houses, hotels int) {
	for _, idx := range p.Properties {
		prop, ok := e.board.Property(idx)
		if !ok {
			continue
		}
		if prop.HasHotel() {
			hotels++
		} else {
			houses += prop.Houses()
		}
	}
	return houses, hotels
}

// charge debits p. A failed payment either leaves p untouched (solvent on
// paper) or bankrupts p when net worth cannot cover amount.
func (e *GameEngine) charge(p *Player, amount int, reason string) bool {
	if p.Bankrupt {
		return false
	}
	if p.Pay(amount, e.board) {
		return true
	}

	ev := newEvent(EventPaymentFailed, p.ID, fmt.Sprintf("%s cannot pay $%d (%s)", p.Name, amount, reason))
	ev.Amount = amount
	e.emit(ev)
	if p.Bankrupt {
		e.declareBankruptcy(p)
	}
	return false
}

// declareBankruptcy returns p's holdings to the bank and checks for game over
func (e *GameEngine) declareBankruptcy(p *Player) {
	e.liquidate(p)
	e.emit(newEvent(EventPlayerBankrupt, p.ID, fmt.Sprintf("%s is bankrupt", p.Name)))
	e.logger.Info().Int("turn", e.turn).Str("player", p.Name).Msg("player bankrupt")
	e.checkGameOver()
}

// liquidate resets every owned space and returns held jail cards to their decks
func (e *GameEngine) liquidate(p *Player) {
	for _, idx := range p.Properties {
		if o, ok := e.board.Ownable(idx); ok {
			o.ResetOwner()
		}
	}
	p.Properties = []int{}

	for _, id := range p.JailCards {
		if card, ok := cardByID(id); ok {
			e.decks[card.Deck].PutBack(card)
		}
	}
	p.JailCards = []string{}
}

func (e *GameEngine) checkGameOver() {
	var solvent []*Player
	for _, p := range e.players {
		if !p.Bankrupt {
			solvent = append(solvent, p)
		}
	}
	if len(solvent) >= 2 {
		return
	}

	winner := NoPlayer
	if len(solvent) == 1 {
		winner = solvent[0].ID
	}
	e.endGame(winner)
}

func (e *GameEngine) endGame(winner int) {
	e.gameOver = true
	e.winner = winner

	msg := "Game over: no winner"
	if winner != NoPlayer {
		msg = fmt.Sprintf("Game over: %s wins", e.players[winner].Name)
	}
	ev := newEvent(EventGameOver, winner, msg)
	ev.Winner = winner
	e.emit(ev)
	e.logger.Info().Int("turn", e.turn).Int("winner", winner).Msg("game over")
}
