// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package cf

// HybridRecommend concatenates the two engines' lists into one: the first
// half (rounding up on odd totals) comes from the user-based list, the rest
// from the item-based list, each source keeping its internal order. The two
// signals are independent evidence, so an item present in both halves is
// deliberately returned twice. Short inputs are not padded or backfilled.
func HybridRecommend(userBased, itemBased []string, total int) []string {
	if total <= 0 {
		return nil
	}

	userN := (total + 1) / 2
	itemN := total - userN

	if userN > len(userBased) {
		userN = len(userBased)
	}
	if itemN > len(itemBased) {
		itemN = len(itemBased)
	}

	out := make([]string, 0, userN+itemN)
	out = append(out, userBased[:userN]...)
	out = append(out, itemBased[:itemN]...)
	return out
}
