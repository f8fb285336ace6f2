package search

import "unicode"

// Scoring constants. A matched rune earns scoreMatch; runs of adjacent
// matches earn bonusConsecutive per extension, and a match landing on a
// token boundary (string start or a letter/digit class change) earns
// bonusBoundary. There are no negative penalties, so raw scores stay
// within [0, maxRawScore(len(query))].
const (
	scoreMatch       = 16
	bonusConsecutive = 8
	bonusBoundary    = 8
)

// maxRawScore is the raw score of a query matching itself exactly: every
// rune matched, every adjacency bonus earned, and the boundary bonus at
// the start.
func maxRawScore(n int) int {
	if n <= 0 {
		return 0
	}
	return n*scoreMatch + (n-1)*bonusConsecutive + bonusBoundary
}

// alignment is the best subsequence embedding of a query in a candidate:
// its raw score and the candidate span it occupies.
type alignment struct {
	raw  int
	span int
}

// bestAlignment finds the highest-scoring embedding of query in cand as a
// subsequence. Both inputs must already be normalized. It reports false
// when query is empty or cannot be embedded at all.
//
// The DP keeps, per candidate position, the best score of an alignment
// whose last match sits exactly there, together with where that alignment
// started. Ties prefer the later start so the reported span is minimal.
func bestAlignment(query, cand string) (alignment, bool) {
	q := []rune(query)
	c := []rune(cand)
	if len(q) == 0 || len(c) == 0 || len(q) > len(c) {
		return alignment{}, false
	}

	const invalid = -1

	// endHere[j]: best score with q[0..i] ending at c[j]; start[j]: where
	// that alignment begins. bestUpTo/bestUpToStart carry the running max
	// over endHere[0..j] for the gap transition.
	endHere := make([]int, len(c))
	start := make([]int, len(c))
	prevEnd := make([]int, len(c))
	prevStart := make([]int, len(c))

	for i, qr := range q {
		bestUpTo := invalid
		bestUpToStart := 0
		for j, cr := range c {
			if j > 0 && prevEnd[j-1] != invalid {
				if prevEnd[j-1] > bestUpTo || (prevEnd[j-1] == bestUpTo && prevStart[j-1] > bestUpToStart) {
					bestUpTo = prevEnd[j-1]
					bestUpToStart = prevStart[j-1]
				}
			}
			score := invalid
			from := 0
			if cr == qr {
				if i == 0 {
					score = scoreMatch + boundaryBonus(c, j)
					from = j
				} else {
					if j > 0 && prevEnd[j-1] != invalid {
						score = prevEnd[j-1] + scoreMatch + bonusConsecutive
						from = prevStart[j-1]
					}
					if bestUpTo != invalid {
						if s := bestUpTo + scoreMatch + boundaryBonus(c, j); s > score {
							score = s
							from = bestUpToStart
						}
					}
				}
			}
			endHere[j] = score
			start[j] = from
		}
		endHere, prevEnd = prevEnd, endHere
		start, prevStart = prevStart, start
	}

	best := alignment{raw: invalid}
	for j := range prevEnd {
		if prevEnd[j] == invalid {
			continue
		}
		span := j - prevStart[j] + 1
		if prevEnd[j] > best.raw || (prevEnd[j] == best.raw && span < best.span) {
			best = alignment{raw: prevEnd[j], span: span}
		}
	}
	if best.raw == invalid {
		return alignment{}, false
	}
	return best, true
}

// boundaryBonus reports the bonus for a match at c[j]: the string start and
// any letter/digit/other class transition count as token boundaries.
func boundaryBonus(c []rune, j int) int {
	if j == 0 || runeClass(c[j-1]) != runeClass(c[j]) {
		return bonusBoundary
	}
	return 0
}

func runeClass(r rune) int {
	switch {
	case unicode.IsLetter(r):
		return 0
	case unicode.IsDigit(r):
		return 1
	default:
		return 2
	}
}

// scoreNormalized scores a normalized query against a normalized candidate
// and returns a value in [0, 1]. Two strategies run over the same best
// alignment and the higher one wins:
//
//   - whole-candidate: raw score normalized by the query's perfect score,
//     damped by the length ratio min(len)/max(len). Exact matches score 1.0
//     and long candidates containing a short query are penalized.
//   - best-window: raw score normalized the same way, damped by how tightly
//     the alignment packs, len(query)/span. A short query sitting as a
//     contiguous run inside a long name scores near 1.0.
func scoreNormalized(query, cand string) float64 {
	qLen := len([]rune(query))
	cLen := len([]rune(cand))
	if qLen == 0 || cLen == 0 {
		return 0
	}

	a, ok := bestAlignment(query, cand)
	if !ok {
		return 0
	}
	norm := float64(a.raw) / float64(maxRawScore(qLen))

	lo, hi := qLen, cLen
	if lo > hi {
		lo, hi = hi, lo
	}
	whole := norm * float64(lo) / float64(hi)
	window := norm * float64(qLen) / float64(a.span)

	score := whole
	if window > score {
		score = window
	}
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
