// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package cf

import "github.com/tomtom215/basketrec/internal/recommend"

// topRating is the rating that marks a clear favorite for seed selection.
const topRating = 5.0

// LatestTopRated returns the movie the user most recently rated at the top
// of the scale, as the seed for item-based similarity. Equal timestamps
// break toward the higher movie id so the choice is deterministic. The
// second return is false when the user has no top-rated movie.
func LatestTopRated(ratings []recommend.Rating, user int64) (int64, bool) {
	var (
		best  recommend.Rating
		found bool
	)
	for _, r := range ratings {
		if r.UserID != user || r.Rating != topRating {
			continue
		}
		if !found || newerSeed(r, best) {
			best = r
			found = true
		}
	}
	return best.MovieID, found
}

// TopRatedSeeds computes the seed movie for every user with at least one
// top-rated movie, in a single pass over the ratings.
func TopRatedSeeds(ratings []recommend.Rating) map[int64]int64 {
	best := make(map[int64]recommend.Rating)
	for _, r := range ratings {
		if r.Rating != topRating {
			continue
		}
		cur, ok := best[r.UserID]
		if !ok || newerSeed(r, cur) {
			best[r.UserID] = r
		}
	}

	seeds := make(map[int64]int64, len(best))
	for user, r := range best {
		seeds[user] = r.MovieID
	}
	return seeds
}

// newerSeed reports whether a should replace b as the seed choice.
func newerSeed(a, b recommend.Rating) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.MovieID > b.MovieID
}
