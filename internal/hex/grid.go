package hex

// Ring returns the hexes at exactly distance k from c, starting from the
// south-west corner and walking counter-clockwise. Ring(c, 0) is [c].
func Ring(c Axial, k int) []Axial {
	if k <= 0 {
		return []Axial{c}
	}
	out := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[4].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			out = append(out, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return out
}

// Disk returns every hex within distance r of c, center first, ring by ring.
func Disk(c Axial, r int) []Axial {
	out := make([]Axial, 0, 1+3*r*(r+1))
	for k := 0; k <= r; k++ {
		out = append(out, Ring(c, k)...)
	}
	return out
}
