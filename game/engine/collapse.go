package engine

// lineAxis maps a logical (line, position) pair onto physical grid coordinates for one
// direction. Position 0 is the leading edge, the edge tiles slide toward.
type lineAxis struct {
	cell func(line, pos int) (col, row int)
	sign int
}

var axes = map[Direction]lineAxis{
	Left: {
		cell: func(line, pos int) (int, int) { return pos, line },
		sign: -1,
	},
	Right: {
		cell: func(line, pos int) (int, int) { return Size - 1 - pos, line },
		sign: 1,
	},
	Up: {
		cell: func(line, pos int) (int, int) { return line, pos },
		sign: -1,
	},
	Down: {
		cell: func(line, pos int) (int, int) { return line, Size - 1 - pos },
		sign: 1,
	},
}

// CollapseLine slides and merges one line toward index 0.
//
// Equal neighbours in the compacted line merge pairwise, and a merged tile never merges
// again in the same pass. shifts holds, for every non-empty input position, how many cells
// that tile travelled; empty positions record 0.
func CollapseLine(line [Size]int) (merged [Size]int, shifts [Size]int, changed bool) {
	filtered := make([]int, 0, Size)
	for _, v := range line {
		if v != 0 {
			filtered = append(filtered, v)
		}
	}

	out := 0
	for i := 0; i < len(filtered); {
		if i+1 < len(filtered) && filtered[i] == filtered[i+1] {
			merged[out] = filtered[i] * 2
			i += 2
		} else {
			merged[out] = filtered[i]
			i++
		}
		out++
	}

	for i := range line {
		if line[i] != merged[i] {
			changed = true
		}
	}

	last, shift := 0, 0
	for i, v := range line {
		if v == 0 {
			shift++
			continue
		}
		if v == last {
			shift++
			last = v * 2
		} else {
			last = v
		}
		shifts[i] = shift
	}

	return merged, shifts, changed
}

// Collapse applies a move to g without touching it. The returned transformation holds the
// signed slide distance of every tile, in physical coordinates.
func Collapse(g Grid, dir Direction) (Grid, Transformation, bool) {
	axis, ok := axes[dir]
	if !ok {
		return g, Transformation{}, false
	}

	var next Grid
	var transform Transformation
	changed := false

	for line := 0; line < Size; line++ {
		var values [Size]int
		for pos := 0; pos < Size; pos++ {
			col, row := axis.cell(line, pos)
			values[pos] = g[row][col]
		}

		merged, shifts, lineChanged := CollapseLine(values)
		if lineChanged {
			changed = true
		}

		for pos := 0; pos < Size; pos++ {
			col, row := axis.cell(line, pos)
			next[row][col] = merged[pos]
			transform[row][col] = axis.sign * shifts[pos]
		}
	}

	return next, transform, changed
}
