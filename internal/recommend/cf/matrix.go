// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package cf implements neighborhood-based collaborative filtering over a
// user-item rating matrix: user-based prediction, item-based similarity and
// the hybrid merge of the two.
package cf

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// Matrix is the filtered user-title rating matrix. Absent cells mean
// "unrated": the sparse representation is the missing-value sentinel, so an
// unrated pair is never confused with a zero rating.
type Matrix struct {
	users   []int64
	titles  []string
	ratings map[int64]map[string]float64
}

// BuildMatrix joins ratings to catalog titles, drops rare titles (rated
// minRatingCount times or fewer) and pivots the rest into a user-title
// matrix. Duplicate ratings of the same title by the same user are averaged.
// Ratings whose movie id has no catalog entry are ignored.
func BuildMatrix(movies []recommend.Movie, ratings []recommend.Rating, minRatingCount int) (*Matrix, error) {
	if minRatingCount < 0 {
		return nil, fmt.Errorf("%w: min rating count must be non-negative, got %d", recommend.ErrInvalidConfig, minRatingCount)
	}
	for i, m := range movies {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("movie %d: %w", i, err)
		}
	}
	for i, r := range ratings {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rating %d: %w", i, err)
		}
	}

	titleByID := make(map[int64]string, len(movies))
	for _, m := range movies {
		titleByID[m.ID] = m.Title
	}

	// Rating rows per title; titles at or below the threshold are rare and
	// dropped before pivoting.
	counts := make(map[string]int)
	for _, r := range ratings {
		if title, ok := titleByID[r.MovieID]; ok {
			counts[title]++
		}
	}

	common := make(map[string]struct{}, len(counts))
	for title, n := range counts {
		if n > minRatingCount {
			common[title] = struct{}{}
		}
	}

	type cell struct {
		sum   float64
		count int
	}
	sums := make(map[int64]map[string]cell)
	for _, r := range ratings {
		title, ok := titleByID[r.MovieID]
		if !ok {
			continue
		}
		if _, ok := common[title]; !ok {
			continue
		}
		if sums[r.UserID] == nil {
			sums[r.UserID] = make(map[string]cell)
		}
		c := sums[r.UserID][title]
		c.sum += r.Rating
		c.count++
		sums[r.UserID][title] = c
	}

	matrix := make(map[int64]map[string]float64, len(sums))
	users := make([]int64, 0, len(sums))
	for user, row := range sums {
		cells := make(map[string]float64, len(row))
		for title, c := range row {
			cells[title] = c.sum / float64(c.count)
		}
		matrix[user] = cells
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	titles := make([]string, 0, len(common))
	for title := range common {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	return &Matrix{users: users, titles: titles, ratings: matrix}, nil
}

// Users returns the user ids in deterministic order.
func (m *Matrix) Users() []int64 {
	return m.users
}

// Titles returns the surviving titles in deterministic order.
func (m *Matrix) Titles() []string {
	return m.titles
}

// UserCount returns the number of users with at least one surviving rating.
func (m *Matrix) UserCount() int {
	return len(m.users)
}

// TitleCount returns the number of titles surviving the rare-item filter.
func (m *Matrix) TitleCount() int {
	return len(m.titles)
}

// Rating returns the rating for (user, title) and whether the cell is set.
// The second return is the missing-value sentinel: false means unrated,
// which is distinct from any numeric rating including zero.
func (m *Matrix) Rating(user int64, title string) (float64, bool) {
	r, ok := m.ratings[user][title]
	return r, ok
}

// RatedTitles returns the titles the user has rated, in title order.
func (m *Matrix) RatedTitles(user int64) []string {
	row := m.ratings[user]
	titles := make([]string, 0, len(row))
	for title := range row {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// HasTitle reports whether the title survived the rare-item filter.
func (m *Matrix) HasTitle(title string) bool {
	i := sort.SearchStrings(m.titles, title)
	return i < len(m.titles) && m.titles[i] == title
}

// Triple is one set cell of the rating matrix in serializable form. Only
// present cells are emitted, so the explicit-missing semantics survive a
// round trip: an absent triple stays "unrated", never a zero default.
type Triple struct {
	User   int64   `json:"user"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

// Triples emits every set cell in deterministic (user, title) order.
func (m *Matrix) Triples() []Triple {
	var out []Triple
	for _, user := range m.users {
		for _, title := range m.RatedTitles(user) {
			r := m.ratings[user][title]
			out = append(out, Triple{User: user, Title: title, Rating: r})
		}
	}
	return out
}

// FromTriples rebuilds a matrix from its serialized cells. The rare-item
// filter is assumed to have been applied before serialization.
func FromTriples(triples []Triple) *Matrix {
	ratings := make(map[int64]map[string]float64)
	titleSet := make(map[string]struct{})

	for _, t := range triples {
		if ratings[t.User] == nil {
			ratings[t.User] = make(map[string]float64)
		}
		ratings[t.User][t.Title] = t.Rating
		titleSet[t.Title] = struct{}{}
	}

	users := make([]int64, 0, len(ratings))
	for user := range ratings {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	titles := make([]string, 0, len(titleSet))
	for title := range titleSet {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	return &Matrix{users: users, titles: titles, ratings: ratings}
}

// pearson computes the Pearson correlation of two paired samples. The
// second return is false when the statistic is undefined: fewer than two
// pairs, or zero variance on either side. Undefined correlations are
// filtered out of candidate sets, never surfaced as NaN.
func pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}

	if denX == 0 || denY == 0 {
		return 0, false
	}

	return num / (math.Sqrt(denX) * math.Sqrt(denY)), true
}
