// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyMatch reports whether every rune of query appears in order in target,
// ignoring case, and scores the match. Consecutive runes, word starts and the
// start of the target score higher; longer targets score slightly lower.
//
// "wkp" matches "Weekend plans"; "xyz" does not.
func FuzzyMatch(query, target string) (score int, matched bool) {
	if query == "" {
		return 0, true
	}
	q := []rune(strings.ToLower(query))
	t := []rune(strings.ToLower(target))
	if len(q) > len(t) {
		return 0, false
	}

	qi, last := 0, -1
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			continue
		}
		s := 1
		if last == ti-1 {
			s += 5
		}
		if ti == 0 {
			s += 10
		}
		if isWordStart(t, ti) {
			s += 7
		}
		score += s
		last = ti
		qi++
	}
	if qi != len(q) {
		return 0, false
	}
	return score - len(t)/4, true
}

func isWordStart(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	prev := runes[pos-1]
	return prev == ' ' || prev == '-' || prev == '_' || prev == '/' || unicode.IsPunct(prev)
}

// FilterIndices returns the indices of targets matching query, best match
// first. Equal scores keep their original order. An empty query returns every
// index in order.
func FilterIndices(query string, targets []string) []int {
	type scored struct{ idx, score int }
	var hits []scored
	for i, target := range targets {
		if s, ok := FuzzyMatch(query, target); ok {
			hits = append(hits, scored{i, s})
		}
	}
	if query != "" {
		sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	}
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.idx
	}
	return out
}
