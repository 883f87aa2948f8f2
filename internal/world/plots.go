package world

// Plots returns n distinct hex coordinates filling rings outward from the
// origin, so neighbouring households sit on neighbouring plots.
func Plots(n int) []HexCoord {
	if n <= 0 {
		return nil
	}
	out := make([]HexCoord, 0, n)
	out = append(out, HexCoord{})
	for radius := 1; len(out) < n; radius++ {
		// Start at the ring's corner and walk its six sides.
		c := HexCoord{Q: -radius, R: radius}
		for side := 0; side < 6 && len(out) < n; side++ {
			dir := HexNeighborDirections[side]
			for step := 0; step < radius && len(out) < n; step++ {
				out = append(out, c)
				c = HexCoord{Q: c.Q + dir.Q, R: c.R + dir.R}
			}
		}
	}
	return out
}

// Radius returns the smallest ring radius containing every coordinate.
func Radius(coords []HexCoord) int {
	r := 0
	for _, c := range coords {
		r = max(r, Distance(HexCoord{}, c))
	}
	return r
}
