package engine

// Dice rolls two six-sided dice and tracks the consecutive doubles streak
type Dice struct {
	src                Source
	last               [2]int
	consecutiveDoubles int
}

// NewDice creates dice drawing from src
func NewDice(src Source) *Dice {
	return &Dice{src: src}
}

// Roll throws both dice and updates the doubles streak
func (d *Dice) Roll() (int, int) {
	d1 := d.src.Intn(6) + 1
	d2 := d.src.Intn(6) + 1
	d.last = [2]int{d1, d2}

	if d1 == d2 {
		d.consecutiveDoubles++
	} else {
		d.consecutiveDoubles = 0
	}
	return d1, d2
}

// Last returns the faces of the most recent roll
func (d *Dice) Last() (int, int) {
	return d.last[0], d.last[1]
}

// Total returns the sum of the most recent roll
func (d *Dice) Total() int {
	return d.last[0] + d.last[1]
}

// IsDoubles reports whether the most recent roll was a pair
func (d *Dice) IsDoubles() bool {
	return d.last[0] != 0 && d.last[0] == d.last[1]
}

// ConsecutiveDoubles returns the current doubles streak
func (d *Dice) ConsecutiveDoubles() int {
	return d.consecutiveDoubles
}

// IsThreeConsecutiveDoubles reports whether the streak reached three
func (d *Dice) IsThreeConsecutiveDoubles() bool {
	return d.consecutiveDoubles >= 3
}

// ResetConsecutiveDoubles clears the streak once the engine has acted on it
func (d *Dice) ResetConsecutiveDoubles() {
	d.consecutiveDoubles = 0
}
