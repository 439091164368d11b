// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package recommend defines the shared domain types and configuration for
// the hybrid recommendation engine.
//
// # Architecture
//
// Two independent model families are combined to produce recommendations:
//
//   - Association Rules: Apriori frequent-itemset mining over monthly
//     purchase baskets, producing directional rules scored by lift
//     (subpackage arl)
//   - Collaborative Filtering: user-based and item-based Pearson
//     correlation over a sparse rating matrix, merged into a single
//     hybrid list (subpackage cf)
//
// The pipeline subpackage ties both families behind one Engine with
// explicit train and query phases.
//
// # Design Principles
//
//   - Deterministic: same inputs produce identical outputs; every sort
//     carries a total tie-break order
//   - Explicit missingness: an absent rating is absent, never zero
//   - Validated at the boundary: malformed records are rejected before
//     any aggregate is touched
//   - Auditable: training and query operations log structured fields
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := pipeline.NewEngine(cfg, logger)
//	if err != nil {
//		return err
//	}
//	if err := engine.TrainBaskets(ctx, transactions); err != nil {
//		return err
//	}
//	items, err := engine.RecommendByRule(ctx, seed)
package recommend
