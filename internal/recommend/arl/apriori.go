// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package arl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// Itemset is a frequent set of item keys with its observed support: the
// fraction of baskets containing every member. Items are kept sorted so the
// set has one canonical representation.
type Itemset struct {
	Items   []recommend.ItemKey `json:"items"`
	Support float64             `json:"support"`
}

// Key returns the canonical lookup key for the itemset. Item keys are pairs
// of integers, so the rendered form cannot collide on separators.
func (s Itemset) Key() string {
	return itemsetKey(s.Items)
}

func itemsetKey(items []recommend.ItemKey) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ",")
}

// MineFrequentItemsets runs a level-wise Apriori search over the incidence
// matrix and returns every itemset with support >= minSupport, ordered by
// size then lexicographically. maxSize caps the search depth; zero means
// unbounded.
//
// Support is monotonically non-increasing in itemset size, so any candidate
// with an infrequent subset is pruned before counting.
func MineFrequentItemsets(ctx context.Context, m *Matrix, minSupport float64, maxSize int) ([]Itemset, error) {
	if minSupport <= 0 || minSupport > 1 {
		return nil, fmt.Errorf("%w: min support must be in (0, 1], got %f", recommend.ErrInvalidConfig, minSupport)
	}
	if maxSize < 0 {
		return nil, fmt.Errorf("%w: max itemset size must be non-negative, got %d", recommend.ErrInvalidConfig, maxSize)
	}

	total := m.BasketCount()
	if total == 0 {
		return nil, nil
	}

	// Level 1: single items.
	level := mineSingletons(m, minSupport, total)

	var result []Itemset
	result = append(result, level...)

	for size := 2; len(level) > 0 && (maxSize == 0 || size <= maxSize); size++ {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}

		frequent := make(map[string]struct{}, len(level))
		for _, s := range level {
			frequent[s.Key()] = struct{}{}
		}

		candidates := generateCandidates(level, frequent)

		next := make([]Itemset, 0, len(candidates))
		for _, cand := range candidates {
			count := 0
			for _, basket := range m.Baskets() {
				if m.ContainsAll(basket, cand) {
					count++
				}
			}
			support := float64(count) / float64(total)
			if support >= minSupport {
				next = append(next, Itemset{Items: cand, Support: support})
			}
		}

		result = append(result, next...)
		level = next
	}

	return result, nil
}

// mineSingletons returns the frequent 1-itemsets in item order.
func mineSingletons(m *Matrix, minSupport float64, total int) []Itemset {
	level := make([]Itemset, 0, m.ItemCount())
	for _, item := range m.Items() {
		count := 0
		for _, basket := range m.Baskets() {
			if m.Contains(basket, item) {
				count++
			}
		}
		support := float64(count) / float64(total)
		if support >= minSupport {
			level = append(level, Itemset{
				Items:   []recommend.ItemKey{item},
				Support: support,
			})
		}
	}
	return level
}

// generateCandidates joins each pair of frequent k-itemsets sharing their
// first k-1 items into a (k+1)-candidate, then prunes any candidate with an
// infrequent k-subset. The level is already sorted, so candidates come out
// in deterministic order.
func generateCandidates(level []Itemset, frequent map[string]struct{}) [][]recommend.ItemKey {
	var candidates [][]recommend.ItemKey

	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i].Items, level[j].Items
			if !sharePrefix(a, b) {
				continue
			}

			joined := make([]recommend.ItemKey, len(a), len(a)+1)
			copy(joined, a)
			joined = append(joined, b[len(b)-1])
			sort.Slice(joined, func(x, y int) bool { return joined[x].Less(joined[y]) })

			if hasInfrequentSubset(joined, frequent) {
				continue
			}
			candidates = append(candidates, joined)
		}
	}

	return candidates
}

// sharePrefix reports whether two equal-length sorted itemsets agree on all
// but their last item.
func sharePrefix(a, b []recommend.ItemKey) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hasInfrequentSubset checks every (n-1)-subset of the candidate against the
// frequent set of the previous level.
func hasInfrequentSubset(candidate []recommend.ItemKey, frequent map[string]struct{}) bool {
	subset := make([]recommend.ItemKey, 0, len(candidate)-1)
	for skip := range candidate {
		subset = subset[:0]
		for i, it := range candidate {
			if i != skip {
				subset = append(subset, it)
			}
		}
		if _, ok := frequent[itemsetKey(subset)]; !ok {
			return true
		}
	}
	return false
}

// contextCancelled checks if the context has been canceled.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
