// Package levenshtein measures the edit distance between identifiers and
// picks the closest one from a candidate list.
package levenshtein

// Distance returns the number of single-rune insertions, deletions and
// substitutions needed to turn a into b.
func Distance(a, b string) int {
	s, t := []rune(a), []rune(b)

	if len(s) < len(t) {
		s, t = t, s
	}

	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s); i++ {
		curr[0] = i

		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(t)]
}

// Closest returns the candidate nearest to target. Ties go to the earlier
// candidate; ok is false when none lies within maxDistance.
func Closest(target string, candidates []string, maxDistance int) (best string, ok bool) {
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		d := Distance(target, candidate)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best, bestDistance <= maxDistance
}
