// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking for fuzzy member lookups.
//
// Key functions:
//   - NormalizeIdent, NormalizeMemberName: normalize identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks member names against a wanted name
package match
