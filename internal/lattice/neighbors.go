package lattice

// Neighbor positions in the slice returned by Neighbors.
const (
	Left = iota
	Right
	Below
	Above
)

// Neighbors returns the flat indices of the four nearest neighbours of site
// i on a toroidal lattice of side h, ordered left, right, below, above.
func Neighbors(i, h int) [4]int {
	var nb [4]int
	n := h * h

	if i%h == 0 {
		nb[Left] = i + h - 1
	} else {
		nb[Left] = i - 1
	}

	if (i+1)%h == 0 {
		nb[Right] = i - h + 1
	} else {
		nb[Right] = i + 1
	}

	if i+h >= n {
		nb[Below] = i % h
	} else {
		nb[Below] = i + h
	}

	if i-h < 0 {
		nb[Above] = h*(h-1) + i%h
	} else {
		nb[Above] = i - h
	}

	return nb
}
