package lattice

// TotalEnergy sums -s_i*s_j over every site and each of its four
// neighbours, then halves the total since every bond is visited from both
// ends.
func TotalEnergy(spins []Spin, h int) float64 {
	e := 0
	for i, s := range spins {
		for _, j := range Neighbors(i, h) {
			e -= int(s) * int(spins[j])
		}
	}
	return float64(e) / 2
}

// EnergyPerSite returns TotalEnergy divided by the number of sites.
func (l *Lattice) EnergyPerSite() float64 {
	if len(l.Spins) == 0 {
		return 0
	}
	return l.Energy() / float64(len(l.Spins))
}
