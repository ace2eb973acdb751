package omnibox

import "sort"

// DefaultSuggestionLimit is the number of repositories suggested while a name is being typed.
const DefaultSuggestionLimit = 5

// LongestCommonSubstring returns the length of the longest run of consecutive
// characters shared by a and b. The comparison is case-sensitive and rune-wise.
func LongestCommonSubstring(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// prev[j+1] holds the length of the common run ending at ra[i-1] and rb[j].
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	longest := 0
	for i := range ra {
		for j := range rb {
			if ra[i] == rb[j] {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > longest {
					longest = cur[j+1]
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
	}
	return longest
}

type rankedName struct {
	name       string
	similarity int
	length     int
}

// Rank returns up to limit candidates ordered by relevance to query.
//
// Relevance is the longest common substring with the query, highest first. At
// equal similarity shorter names come first, so "mov" prefers "movid" over
// "movida-account-setup-scripts". Remaining ties keep the input order.
// The candidates slice is not modified.
func Rank(query string, candidates []string, limit int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return []string{}
	}

	scored := make([]rankedName, len(candidates))
	for i, c := range candidates {
		scored[i] = rankedName{
			name:       c,
			similarity: LongestCommonSubstring(query, c),
			length:     len([]rune(c)),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].similarity != scored[j].similarity {
			return scored[i].similarity > scored[j].similarity
		}
		return scored[i].length < scored[j].length
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	names := make([]string, len(scored))
	for i, r := range scored {
		names[i] = r.name
	}
	return names
}
