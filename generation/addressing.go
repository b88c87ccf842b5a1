package generation

// resolveIndex wraps or clamps i into [0,n), matching imageview's own
// edge-mode rule, duplicated here because the blur and distance-field
// passes address a plain intermediate float buffer rather than an
// imageview.View.
func resolveIndex(i, n int, tilable bool) int {
	if tilable {
		m := i % n
		if m < 0 {
			m += n
		}
		return m
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
