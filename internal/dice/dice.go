// Package dice implements the dice rolls the GM asks the player to make.
package dice

import "math/rand/v2"

// D20Sides is the die used for skill checks.
const D20Sides = 20

// Roll returns a uniform roll of a die with the given number of sides,
// in [1, sides]. Sides below 1 are treated as 1.
func Roll(sides int) int {
	if sides < 1 {
		return 1
	}
	return rand.IntN(sides) + 1
}

// D20 rolls the standard skill-check die.
func D20() int {
	return Roll(D20Sides)
}
