package engine

import "fmt"

// moveAndResolve walks p forward by steps, pays GO salary on wrap and resolves the landing
func (e *GameEngine) moveAndResolve(p *Player, steps int) {
	from, to, passedGo := p.Advance(steps, e.board.Size())
	e.recordMove(p, from, to, passedGo)
	e.resolveLanding(p, steps, 0, false)
}

// relocate places p on dest as a card does; GO salary is paid when the card
// moves forward past GO.
func (e *GameEngine) relocate(p *Player, dest int, collectGo bool) {
	from := p.Position
	p.MoveTo(dest)
	e.recordMove(p, from, dest, collectGo && dest < from)
}

func (e *GameEngine) recordMove(p *Player, from, to int, passedGo bool) {
	ev := newEvent(EventPlayerMoved, p.ID,
		fmt.Sprintf("%s moved from %s to %s", p.Name, e.board.SpaceAt(from).Name(), e.board.SpaceAt(to).Name()))
	ev.From = from
	ev.To = to
	ev.Space = to
	ev.PassedGo = passedGo
	e.emit(ev)

	if passedGo {
		p.Credit(e.config.GoSalary)
		salary := newEvent(EventSalaryCollected, p.ID, fmt.Sprintf("%s passed GO and collected $%d", p.Name, e.config.GoSalary))
		salary.Amount = e.config.GoSalary
		e.emit(salary)
	}
}

// sendToJail locks p up without passing GO
func (e *GameEngine) sendToJail(p *Player, reason string) {
	from := p.Position
	p.SendToJail()
	ev := newEvent(EventPlayerJailed, p.ID, fmt.Sprintf("%s goes to jail: %s", p.Name, reason))
	ev.From = from
	ev.To = JailIndex
	ev.Space = JailIndex
	e.emit(ev)
}
