package world

import "sort"

// sortedSurfaceIndices/sortedEntityIDs/sortedPlayerIndices give
// Checksum a stable iteration order over Go's randomized map iteration,
// so repeated calls against identical state are reproducible.

func sortedSurfaceIndices(m map[SurfaceIndex]*Surface) []SurfaceIndex {
	out := make([]SurfaceIndex, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedEntityIDs(m map[EntityID]*Entity) []EntityID {
	out := make([]EntityID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedPlayerIndices(m map[PlayerIndex]*Player) []PlayerIndex {
	out := make([]PlayerIndex, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
