package skipgram

// Source is the random source used to pick context positions. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// drawsPerSlot bounds the rejection loop at drawsPerSlot*span draws per pick.
const drawsPerSlot = 64

// pickContext chooses n distinct window positions in [0, span) other than center.
// Positions are drawn uniformly and redrawn on collision; if a pick runs out of
// draws it takes the lowest free position instead.
func pickContext(rng Source, span, center, n int) []int {
	if n > span-1 {
		panic("more context positions requested than the window holds")
	}
	used := make([]bool, span)
	used[center] = true
	picks := make([]int, 0, n)
	for len(picks) < n {
		pos := -1
		for draws := 0; draws < drawsPerSlot*span; draws++ {
			if p := rng.Intn(span); !used[p] {
				pos = p
				break
			}
		}
		if pos < 0 {
			pos = firstFree(used)
		}
		used[pos] = true
		picks = append(picks, pos)
	}
	return picks
}

func firstFree(used []bool) int {
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}
