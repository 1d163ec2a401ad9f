package match

import (
	"sort"
)

// Candidate is one name scored against a wanted identifier.
type Candidate struct {
	Name  string
	Index int // position of the name in the ranked input

	// NameScore is the normalized Levenshtein similarity (0-1), the better of
	// the plain and the NormalizeMemberName comparison.
	NameScore float64

	// Metadata for debugging/explanation
	NormalizedName   string
	NormalizedWanted string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every name against wanted and returns the candidates
// sorted by score (descending). Ties keep the input order.
func RankCandidates(wanted string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))

	wantedNorm := NormalizeIdent(wanted)

	for i, name := range names {
		norm := NormalizeIdent(name)

		score := max(NormalizedLevenshteinScore(name, wanted), MemberNameScore(name, wanted))

		candidates = append(candidates, Candidate{
			Name:             name,
			Index:            i,
			NameScore:        score,
			NormalizedName:   norm,
			NormalizedWanted: wantedNorm,
		})
	}

	sort.Stable(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by input position for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].NameScore != c[j].NameScore {
		return c[i].NameScore > c[j].NameScore
	}
	return c[i].Index < c[j].Index
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}
	return c[:n]
}

// AboveThreshold returns candidates with a score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.NameScore >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// DefaultSuggestThreshold is the minimum score of a "did you mean" suggestion.
const DefaultSuggestThreshold = 0.5
