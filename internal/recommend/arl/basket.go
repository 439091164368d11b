// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package arl implements association rule learning over purchase baskets:
// basket construction, level-wise (Apriori) frequent itemset mining, rule
// generation and rule-based recommendation.
package arl

import (
	"fmt"
	"sort"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// Matrix is the binary basket-item incidence matrix. Rows are baskets (one
// user's purchases within one calendar month), columns are composite item
// keys. Membership is set semantics: buying the same service twice in a
// month still yields a single 1.
type Matrix struct {
	baskets []recommend.BasketKey
	items   []recommend.ItemKey
	cells   map[recommend.BasketKey]map[recommend.ItemKey]struct{}
}

// BuildMatrix groups transactions into monthly baskets and produces the
// incidence matrix. Every record is validated first; nothing is built if
// any record is malformed.
func BuildMatrix(transactions []recommend.Transaction) (*Matrix, error) {
	for i, tx := range transactions {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	cells := make(map[recommend.BasketKey]map[recommend.ItemKey]struct{})
	itemSet := make(map[recommend.ItemKey]struct{})

	for _, tx := range transactions {
		basket := recommend.BasketKey{
			UserID:    tx.UserID,
			YearMonth: tx.CreateDate.Format("2006-01"),
		}
		item := tx.Item()

		if cells[basket] == nil {
			cells[basket] = make(map[recommend.ItemKey]struct{})
		}
		cells[basket][item] = struct{}{}
		itemSet[item] = struct{}{}
	}

	baskets := make([]recommend.BasketKey, 0, len(cells))
	for b := range cells {
		baskets = append(baskets, b)
	}
	sort.Slice(baskets, func(i, j int) bool { return baskets[i].Less(baskets[j]) })

	items := make([]recommend.ItemKey, 0, len(itemSet))
	for it := range itemSet {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })

	return &Matrix{baskets: baskets, items: items, cells: cells}, nil
}

// Baskets returns the basket identities in deterministic order.
func (m *Matrix) Baskets() []recommend.BasketKey {
	return m.baskets
}

// Items returns the item keys in deterministic order.
func (m *Matrix) Items() []recommend.ItemKey {
	return m.items
}

// BasketCount returns the number of distinct baskets.
func (m *Matrix) BasketCount() int {
	return len(m.baskets)
}

// ItemCount returns the number of distinct item keys.
func (m *Matrix) ItemCount() int {
	return len(m.items)
}

// Contains reports whether the given basket holds the given item.
// Absent cells are 0; there are no missing values in an incidence matrix.
func (m *Matrix) Contains(basket recommend.BasketKey, item recommend.ItemKey) bool {
	_, ok := m.cells[basket][item]
	return ok
}

// ContainsAll reports whether the basket holds every item of the itemset.
func (m *Matrix) ContainsAll(basket recommend.BasketKey, items []recommend.ItemKey) bool {
	row := m.cells[basket]
	if len(row) < len(items) {
		return false
	}
	for _, it := range items {
		if _, ok := row[it]; !ok {
			return false
		}
	}
	return true
}
