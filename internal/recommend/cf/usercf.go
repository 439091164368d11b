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

// UserCFConfig contains the thresholds for user-based recommendation.
type UserCFConfig struct {
	// CoverageRatio is the fraction of the target's watched set another
	// user must exceed, strictly, to qualify. Must be in [0, 1].
	CoverageRatio float64

	// CorrThreshold is the minimum Pearson correlation, inclusive, for a
	// neighbor to contribute. Must be in [0, 1].
	CorrThreshold float64

	// RatingThreshold is the mean weighted rating a candidate must exceed,
	// strictly, to be recommended.
	RatingThreshold float64

	// TopN is the maximum number of recommendations returned.
	TopN int
}

// DefaultUserCFConfig returns the reference analysis defaults.
func DefaultUserCFConfig() UserCFConfig {
	return UserCFConfig{
		CoverageRatio:   0.6,
		CorrThreshold:   0.65,
		RatingThreshold: 3.5,
		TopN:            5,
	}
}

// validate checks every threshold against its valid domain.
func (c UserCFConfig) validate() error {
	if c.CoverageRatio < 0 || c.CoverageRatio > 1 {
		return fmt.Errorf("%w: coverage ratio must be in [0, 1], got %f", recommend.ErrInvalidConfig, c.CoverageRatio)
	}
	if c.CorrThreshold < 0 || c.CorrThreshold > 1 {
		return fmt.Errorf("%w: correlation threshold must be in [0, 1], got %f", recommend.ErrInvalidConfig, c.CorrThreshold)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top n must be positive, got %d", recommend.ErrInvalidConfig, c.TopN)
	}
	return nil
}

// neighbor is a user whose rating overlap and correlation with the target
// both qualified.
type neighbor struct {
	userID int64
	corr   float64
}

// RecommendForUser predicts items for the target user from the ratings of
// correlated neighbors:
//
//  1. Collect the target's watched set (titles with a rating present).
//  2. Keep users who rated strictly more than CoverageRatio of it.
//  3. Keep those whose Pearson correlation with the target, over commonly
//     rated watched titles, is at least CorrThreshold. Undefined
//     correlations (fewer than two shared titles, constant ratings) are
//     silently non-qualifying.
//  4. For every neighbor rating of an unwatched title, take corr * rating;
//     average per title across neighbors and keep titles whose mean exceeds
//     RatingThreshold strictly.
//
// Results are sorted by score descending, title ascending on ties, and
// truncated to TopN. A target with an empty watched set yields an empty
// result, not an error.
func RecommendForUser(m *Matrix, target int64, cfg UserCFConfig) ([]recommend.ScoredItem, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	watched := m.RatedTitles(target)
	if len(watched) == 0 {
		return nil, nil
	}
	watchedSet := make(map[string]struct{}, len(watched))
	for _, title := range watched {
		watchedSet[title] = struct{}{}
	}

	neighbors := qualifyNeighbors(m, target, watched, cfg)

	// Mean of corr * rating per unwatched title across all qualifying
	// neighbors.
	type agg struct {
		sum   float64
		count int
	}
	weighted := make(map[string]agg)
	for _, nb := range neighbors {
		for _, title := range m.RatedTitles(nb.userID) {
			if _, ok := watchedSet[title]; ok {
				continue
			}
			rating, _ := m.Rating(nb.userID, title)
			a := weighted[title]
			a.sum += nb.corr * rating
			a.count++
			weighted[title] = a
		}
	}

	items := make([]recommend.ScoredItem, 0, len(weighted))
	for title, a := range weighted {
		mean := a.sum / float64(a.count)
		if mean > cfg.RatingThreshold {
			items = append(items, recommend.ScoredItem{ID: title, Score: mean})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	if len(items) > cfg.TopN {
		items = items[:cfg.TopN]
	}
	return items, nil
}

// qualifyNeighbors applies the coverage and correlation filters, returning
// neighbors in user id order.
func qualifyNeighbors(m *Matrix, target int64, watched []string, cfg UserCFConfig) []neighbor {
	minShared := cfg.CoverageRatio * float64(len(watched))

	var neighbors []neighbor
	for _, other := range m.Users() {
		if other == target {
			continue
		}

		// Ratings restricted to the target's watched columns.
		var targetVec, otherVec []float64
		shared := 0
		for _, title := range watched {
			or, ok := m.Rating(other, title)
			if !ok {
				continue
			}
			shared++
			tr, _ := m.Rating(target, title)
			targetVec = append(targetVec, tr)
			otherVec = append(otherVec, or)
		}

		if float64(shared) <= minShared {
			continue
		}

		corr, ok := pearson(targetVec, otherVec)
		if !ok || corr < cfg.CorrThreshold {
			continue
		}
		neighbors = append(neighbors, neighbor{userID: other, corr: corr})
	}
	return neighbors
}
