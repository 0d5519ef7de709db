package engine

import "hash/fnv"

// StringToSeed maps an arbitrary string to a stable 64-bit value (FNV-1a).
func StringToSeed(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// CellsToSeed hashes the 16 cell values in row-major order.
// Position matters: two grids holding the same tiles in different cells hash differently.
func CellsToSeed(g Grid) uint64 {
	var h uint64 = 0xcbf29ce484222325
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			h ^= uint64(g[row][col]) + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
			h = mix64(h)
		}
	}
	return h
}

// CombinedSeed is the scalar fed to Rand for a spawn decision.
// Overflow wraps, which keeps the sum defined for every input.
func CombinedSeed(seed string, g Grid) uint64 {
	return StringToSeed(seed) + CellsToSeed(g)
}

// Rand maps n to a reproducible value in [0, 1). It has no state.
func Rand(n uint64) float64 {
	z := n + 0x9e3779b97f4a7c15
	z = mix64(z)
	return float64(z>>11) / (1 << 53)
}

// mix64 is the SplitMix64 finalizer.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
