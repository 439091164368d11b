// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package cf

import (
	"fmt"
	"sort"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// SimilarItems ranks titles by the Pearson correlation of their rating
// columns with the seed title's column, computed pairwise-complete (only
// over users who rated both). Undefined correlations (fewer than two shared
// raters, constant columns) are dropped, not surfaced as NaN.
//
// The seed itself correlates at 1.0 and is NOT removed: by convention it
// appears at index 0 of the result and callers wanting "other" titles must
// skip it. An unknown seed title yields an empty result, not an error.
//
// Results are sorted by correlation descending, title ascending on ties,
// and truncated to topN entries (seed included in the count).
func SimilarItems(m *Matrix, seed string, topN int) ([]recommend.ScoredItem, error) {
	if topN < 1 {
		return nil, fmt.Errorf("%w: top n must be positive, got %d", recommend.ErrInvalidConfig, topN)
	}

	if !m.HasTitle(seed) {
		return nil, nil
	}

	// Seed column as user -> rating.
	seedCol := make(map[int64]float64)
	for _, user := range m.Users() {
		if r, ok := m.Rating(user, seed); ok {
			seedCol[user] = r
		}
	}

	items := make([]recommend.ScoredItem, 0, m.TitleCount())
	for _, title := range m.Titles() {
		var seedVec, otherVec []float64
		for _, user := range m.Users() {
			sr, ok := seedCol[user]
			if !ok {
				continue
			}
			or, ok := m.Rating(user, title)
			if !ok {
				continue
			}
			seedVec = append(seedVec, sr)
			otherVec = append(otherVec, or)
		}

		corr, ok := pearson(seedVec, otherVec)
		if !ok {
			continue
		}
		items = append(items, recommend.ScoredItem{ID: title, Score: corr})
	}

	// Ties break seed-first so the documented index-0 convention holds even
	// when another column also correlates at 1.0, then title ascending.
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].ID == seed {
			return true
		}
		if items[j].ID == seed {
			return false
		}
		return items[i].ID < items[j].ID
	})

	if len(items) > topN {
		items = items[:topN]
	}
	return items, nil
}
