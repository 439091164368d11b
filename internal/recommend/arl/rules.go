// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package arl

import (
	"fmt"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// Rule is a directional association rule. Antecedent and consequent are
// disjoint non-empty sets of item keys; (A -> B) and (B -> A) are distinct
// rules and both are retained when both qualify.
type Rule struct {
	Antecedent []recommend.ItemKey `json:"antecedent"`
	Consequent []recommend.ItemKey `json:"consequent"`

	// Support is the support of antecedent and consequent together.
	Support float64 `json:"support"`

	// Confidence is P(consequent | antecedent) within baskets.
	Confidence float64 `json:"confidence"`

	// Lift is the confidence normalized by the consequent's baseline
	// support; above 1 indicates positive association.
	Lift float64 `json:"lift"`
}

// AntecedentContains reports whether the rule's antecedent holds the item.
func (r Rule) AntecedentContains(item recommend.ItemKey) bool {
	for _, it := range r.Antecedent {
		if it == item {
			return true
		}
	}
	return false
}

// GenerateRules derives every directional rule from the frequent itemsets by
// enumerating all non-trivial bipartitions of each itemset of size two or
// more, keeping rules whose support meets minSupport. Rule order follows the
// itemset order and, within an itemset, the bipartition enumeration order,
// so repeated runs produce identical output.
func GenerateRules(itemsets []Itemset, minSupport float64) ([]Rule, error) {
	if minSupport <= 0 || minSupport > 1 {
		return nil, fmt.Errorf("%w: rule min support must be in (0, 1], got %f", recommend.ErrInvalidConfig, minSupport)
	}

	// Supports of every frequent itemset, for antecedent/consequent lookup.
	// Any subset of a frequent itemset is itself frequent, so lookups hit.
	supports := make(map[string]float64, len(itemsets))
	for _, s := range itemsets {
		supports[s.Key()] = s.Support
	}

	var rules []Rule
	for _, s := range itemsets {
		n := len(s.Items)
		if n < 2 {
			continue
		}
		if s.Support < minSupport {
			continue
		}

		// Every non-empty proper subset as antecedent; the complement is
		// the consequent.
		for mask := 1; mask < (1<<n)-1; mask++ {
			antecedent := make([]recommend.ItemKey, 0, n-1)
			consequent := make([]recommend.ItemKey, 0, n-1)
			for i, it := range s.Items {
				if mask&(1<<i) != 0 {
					antecedent = append(antecedent, it)
				} else {
					consequent = append(consequent, it)
				}
			}

			antSupport, ok := supports[itemsetKey(antecedent)]
			if !ok || antSupport == 0 {
				continue
			}
			conSupport, ok := supports[itemsetKey(consequent)]
			if !ok || conSupport == 0 {
				continue
			}

			confidence := s.Support / antSupport
			rules = append(rules, Rule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    s.Support,
				Confidence: confidence,
				Lift:       confidence / conSupport,
			})
		}
	}

	return rules, nil
}
