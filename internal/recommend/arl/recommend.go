// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package arl

import (
	"sort"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// Recommend returns up to count item keys for the seed item, ranked by rule
// lift. Rules are scanned in lift-descending order with a stable tie-break
// (rules with equal lift keep their generation order); whenever a rule's
// antecedent contains the seed, the consequent's items are appended in
// order. Duplicates keep their first-seen position. Returns fewer than
// count items when there are not enough distinct candidates, and an empty
// slice when the seed appears in no antecedent.
func Recommend(rules []Rule, seed recommend.ItemKey, count int) []recommend.ItemKey {
	if count <= 0 || len(rules) == 0 {
		return nil
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Lift > sorted[j].Lift
	})

	seen := make(map[recommend.ItemKey]struct{})
	var out []recommend.ItemKey

	for _, rule := range sorted {
		if !rule.AntecedentContains(seed) {
			continue
		}
		for _, item := range rule.Consequent {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
			if len(out) == count {
				return out
			}
		}
	}

	return out
}
