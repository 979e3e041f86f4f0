package rules

/*
ApplyRule decides the next state of a cell from its neighborhood count.

The count is self-inclusive: it is the sum of the whole 3x3 block centred on
the cell, so a live cell contributes to its own count.

	dead  && neighbors == 3          -> alive
	alive && neighbors in {3, 4}     -> alive
	everything else                  -> dead
*/
func ApplyRule(neighbors int, alive bool) bool {
	if alive {
		return neighbors == 3 || neighbors == 4
	}
	return neighbors == 3
}
