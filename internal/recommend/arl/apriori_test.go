// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package arl

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/basketrec/internal/recommend"
)

var (
	itemA = recommend.ItemKey{Service: 1, Category: 0}
	itemB = recommend.ItemKey{Service: 2, Category: 0}
	itemC = recommend.ItemKey{Service: 3, Category: 0}
)

// fourBasketMatrix builds the matrix
//
//	basket 1: {A, B, C}
//	basket 2: {A, B}
//	basket 3: {A, C}
//	basket 4: {B}
//
// giving supports A=0.75, B=0.75, C=0.5, AB=0.5, AC=0.5, BC=0.25, ABC=0.25.
func fourBasketMatrix(t *testing.T) *Matrix {
	t.Helper()
	transactions := []recommend.Transaction{
		tx(1, 1, 0, "2024-01-02"), tx(1, 2, 0, "2024-01-03"), tx(1, 3, 0, "2024-01-04"),
		tx(2, 1, 0, "2024-01-02"), tx(2, 2, 0, "2024-01-03"),
		tx(3, 1, 0, "2024-01-02"), tx(3, 3, 0, "2024-01-03"),
		tx(4, 2, 0, "2024-01-02"),
	}
	m, err := BuildMatrix(transactions)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	return m
}

func supportByKey(itemsets []Itemset) map[string]float64 {
	out := make(map[string]float64, len(itemsets))
	for _, s := range itemsets {
		out[s.Key()] = s.Support
	}
	return out
}

func TestMineFrequentItemsets(t *testing.T) {
	m := fourBasketMatrix(t)

	itemsets, err := MineFrequentItemsets(context.Background(), m, 0.5, 0)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}

	got := supportByKey(itemsets)
	want := map[string]float64{
		"1_0":     0.75,
		"2_0":     0.75,
		"3_0":     0.5, // support == threshold is frequent
		"1_0,2_0": 0.5,
		"1_0,3_0": 0.5,
	}

	if len(got) != len(want) {
		t.Fatalf("mined %d itemsets %v, want %d", len(got), got, len(want))
	}
	for key, sup := range want {
		if math.Abs(got[key]-sup) > 1e-12 {
			t.Errorf("support(%s) = %f, want %f", key, got[key], sup)
		}
	}
}

func TestMineFrequentItemsetsMonotonicity(t *testing.T) {
	m := fourBasketMatrix(t)

	itemsets, err := MineFrequentItemsets(context.Background(), m, 0.25, 0)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}

	supports := supportByKey(itemsets)

	// Every itemset's support must not exceed any single member's support.
	for _, s := range itemsets {
		for _, item := range s.Items {
			single := supports[item.String()]
			if s.Support > single+1e-12 {
				t.Errorf("support(%s) = %f exceeds support(%s) = %f", s.Key(), s.Support, item, single)
			}
		}
	}

	// At 0.25 the triple {A,B,C} itself qualifies.
	if _, ok := supports["1_0,2_0,3_0"]; !ok {
		t.Errorf("itemset 1_0,2_0,3_0 missing from %v", supports)
	}
}

func TestMineFrequentItemsetsMaxSize(t *testing.T) {
	m := fourBasketMatrix(t)

	itemsets, err := MineFrequentItemsets(context.Background(), m, 0.25, 1)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}

	for _, s := range itemsets {
		if len(s.Items) > 1 {
			t.Errorf("itemset %s has size %d, want <= 1", s.Key(), len(s.Items))
		}
	}
	if got, want := len(itemsets), 3; got != want {
		t.Errorf("mined %d singletons, want %d", got, want)
	}
}

func TestMineFrequentItemsetsDeterministic(t *testing.T) {
	m := fourBasketMatrix(t)

	first, err := MineFrequentItemsets(context.Background(), m, 0.25, 0)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}
	second, err := MineFrequentItemsets(context.Background(), m, 0.25, 0)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Errorf("itemset %d differs: %s vs %s", i, first[i].Key(), second[i].Key())
		}
	}
}

func TestMineFrequentItemsetsInvalidSupport(t *testing.T) {
	m := fourBasketMatrix(t)

	for _, sup := range []float64{0, -0.1, 1.5} {
		_, err := MineFrequentItemsets(context.Background(), m, sup, 0)
		if !errors.Is(err, recommend.ErrInvalidConfig) {
			t.Errorf("MineFrequentItemsets(minSupport=%f) error = %v, want ErrInvalidConfig", sup, err)
		}
	}
}

func TestMineFrequentItemsetsEmptyMatrix(t *testing.T) {
	m, err := BuildMatrix(nil)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	itemsets, err := MineFrequentItemsets(context.Background(), m, 0.5, 0)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}
	if len(itemsets) != 0 {
		t.Errorf("mined %d itemsets from empty matrix, want 0", len(itemsets))
	}
}

func TestMineFrequentItemsetsCancelled(t *testing.T) {
	m := fourBasketMatrix(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MineFrequentItemsets(ctx, m, 0.25, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("MineFrequentItemsets() error = %v, want context.Canceled", err)
	}
}
