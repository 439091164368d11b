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

func TestGenerateRulesPair(t *testing.T) {
	itemsets := []Itemset{
		{Items: []recommend.ItemKey{itemA}, Support: 0.75},
		{Items: []recommend.ItemKey{itemB}, Support: 0.5},
		{Items: []recommend.ItemKey{itemA, itemB}, Support: 0.5},
	}

	rules, err := GenerateRules(itemsets, 0.5)
	if err != nil {
		t.Fatalf("GenerateRules() error = %v", err)
	}

	if got, want := len(rules), 2; got != want {
		t.Fatalf("generated %d rules, want %d", got, want)
	}

	// A -> B: confidence 0.5/0.75, lift confidence/0.5.
	ab := rules[0]
	if !ab.AntecedentContains(itemA) {
		ab = rules[1]
	}
	wantConf := 0.5 / 0.75
	if math.Abs(ab.Confidence-wantConf) > 1e-12 {
		t.Errorf("confidence(A->B) = %f, want %f", ab.Confidence, wantConf)
	}
	if wantLift := wantConf / 0.5; math.Abs(ab.Lift-wantLift) > 1e-12 {
		t.Errorf("lift(A->B) = %f, want %f", ab.Lift, wantLift)
	}
	if math.Abs(ab.Support-0.5) > 1e-12 {
		t.Errorf("support(A->B) = %f, want 0.5", ab.Support)
	}

	// B -> A: confidence 0.5/0.5 = 1, lift 1/0.75.
	ba := rules[1]
	if !ba.AntecedentContains(itemB) {
		ba = rules[0]
	}
	if math.Abs(ba.Confidence-1.0) > 1e-12 {
		t.Errorf("confidence(B->A) = %f, want 1.0", ba.Confidence)
	}
	if wantLift := 1.0 / 0.75; math.Abs(ba.Lift-wantLift) > 1e-12 {
		t.Errorf("lift(B->A) = %f, want %f", ba.Lift, wantLift)
	}
}

func TestGenerateRulesBipartitions(t *testing.T) {
	// A 3-itemset yields all six non-trivial directional bipartitions.
	itemsets := []Itemset{
		{Items: []recommend.ItemKey{itemA}, Support: 0.75},
		{Items: []recommend.ItemKey{itemB}, Support: 0.75},
		{Items: []recommend.ItemKey{itemC}, Support: 0.5},
		{Items: []recommend.ItemKey{itemA, itemB}, Support: 0.5},
		{Items: []recommend.ItemKey{itemA, itemC}, Support: 0.5},
		{Items: []recommend.ItemKey{itemB, itemC}, Support: 0.25},
		{Items: []recommend.ItemKey{itemA, itemB, itemC}, Support: 0.25},
	}

	rules, err := GenerateRules(itemsets, 0.25)
	if err != nil {
		t.Fatalf("GenerateRules() error = %v", err)
	}

	var fromTriple int
	for _, r := range rules {
		if len(r.Antecedent) == 0 || len(r.Consequent) == 0 {
			t.Errorf("rule %v has an empty side", r)
		}
		if got := len(r.Antecedent) + len(r.Consequent); got >= 3 {
			fromTriple++
			if got != 3 {
				t.Errorf("rule %v covers %d items, want 3", r, got)
			}
		}
		for _, a := range r.Antecedent {
			for _, c := range r.Consequent {
				if a == c {
					t.Errorf("rule %v: item %s on both sides", r, a)
				}
			}
		}
		if r.Confidence <= 0 || r.Confidence > 1 {
			t.Errorf("rule %v: confidence %f out of (0, 1]", r, r.Confidence)
		}
		if r.Lift <= 0 {
			t.Errorf("rule %v: lift %f, want > 0", r, r.Lift)
		}
	}

	if fromTriple != 6 {
		t.Errorf("triple produced %d rules, want 6", fromTriple)
	}
}

func TestGenerateRulesMinSupport(t *testing.T) {
	itemsets := []Itemset{
		{Items: []recommend.ItemKey{itemA}, Support: 0.75},
		{Items: []recommend.ItemKey{itemB}, Support: 0.5},
		{Items: []recommend.ItemKey{itemA, itemB}, Support: 0.3},
	}

	rules, err := GenerateRules(itemsets, 0.5)
	if err != nil {
		t.Fatalf("GenerateRules() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("generated %d rules below min support, want 0", len(rules))
	}

	// support == threshold qualifies
	itemsets[2].Support = 0.5
	rules, err = GenerateRules(itemsets, 0.5)
	if err != nil {
		t.Fatalf("GenerateRules() error = %v", err)
	}
	if got, want := len(rules), 2; got != want {
		t.Errorf("generated %d rules at threshold support, want %d", got, want)
	}
}

func TestGenerateRulesInvalidSupport(t *testing.T) {
	_, err := GenerateRules(nil, 0)
	if !errors.Is(err, recommend.ErrInvalidConfig) {
		t.Errorf("GenerateRules(minSupport=0) error = %v, want ErrInvalidConfig", err)
	}
}

func TestGenerateRulesFromMinedItemsets(t *testing.T) {
	// End to end: matrix -> itemsets -> rules with hand-checked numbers.
	m := fourBasketMatrix(t)

	itemsets, err := MineFrequentItemsets(context.Background(), m, 0.5, 0)
	if err != nil {
		t.Fatalf("MineFrequentItemsets() error = %v", err)
	}
	rules, err := GenerateRules(itemsets, 0.5)
	if err != nil {
		t.Fatalf("GenerateRules() error = %v", err)
	}

	// Frequent pairs are AB and AC, two directional rules each.
	if got, want := len(rules), 4; got != want {
		t.Fatalf("generated %d rules, want %d", got, want)
	}

	for _, r := range rules {
		if r.AntecedentContains(itemC) {
			// C -> A: confidence 0.5/0.5 = 1, lift 1/0.75.
			if math.Abs(r.Confidence-1.0) > 1e-12 {
				t.Errorf("confidence(C->A) = %f, want 1.0", r.Confidence)
			}
			if want := 1.0 / 0.75; math.Abs(r.Lift-want) > 1e-12 {
				t.Errorf("lift(C->A) = %f, want %f", r.Lift, want)
			}
		}
	}
}
