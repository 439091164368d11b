// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package recommend

import "fmt"

// Config contains all thresholds and limits for the recommendation pipeline.
// Every knob is passed explicitly; nothing is read from ambient state.
type Config struct {
	// Apriori contains parameters for basket mining.
	Apriori AprioriConfig `json:"apriori" koanf:"apriori"`

	// CF contains parameters for the collaborative filtering engines.
	CF CFConfig `json:"cf" koanf:"cf"`
}

// AprioriConfig contains parameters for frequent itemset mining and rule
// generation.
type AprioriConfig struct {
	// MinSupport is the minimum fraction of baskets an itemset must appear
	// in to be considered frequent. Must be in (0, 1].
	// Default: 0.01.
	MinSupport float64 `json:"min_support" koanf:"min_support"`

	// RuleMinSupport is the minimum support a generated rule must meet.
	// Must be in (0, 1]. Default: 0.01.
	RuleMinSupport float64 `json:"rule_min_support" koanf:"rule_min_support"`

	// MaxItemsetSize bounds the level-wise search. Zero means unbounded;
	// set it to cap worst-case mining time on dense matrices.
	MaxItemsetSize int `json:"max_itemset_size" koanf:"max_itemset_size"`

	// RecommendCount is the default number of rule-based recommendations.
	// Default: 4.
	RecommendCount int `json:"recommend_count" koanf:"recommend_count"`
}

// CFConfig contains parameters for the neighborhood engines and the hybrid
// merge.
type CFConfig struct {
	// MinRatingCount is the rare-item threshold: titles rated by this many
	// users or fewer are dropped from the rating matrix. Default: 1000.
	MinRatingCount int `json:"min_rating_count" koanf:"min_rating_count"`

	// CoverageRatio is the fraction of the target user's watched set
	// another user must exceed (strictly) to qualify as a neighbor
	// candidate. Must be in [0, 1]. Default: 0.6.
	CoverageRatio float64 `json:"coverage_ratio" koanf:"coverage_ratio"`

	// CorrThreshold is the minimum Pearson correlation (inclusive) for a
	// neighbor to contribute ratings. Must be in [0, 1]. Default: 0.65.
	CorrThreshold float64 `json:"corr_threshold" koanf:"corr_threshold"`

	// RatingThreshold is the mean weighted rating a candidate item must
	// exceed (strictly) to be recommended. Default: 3.5.
	RatingThreshold float64 `json:"rating_threshold" koanf:"rating_threshold"`

	// UserTopN is the number of user-based recommendations. Default: 5.
	UserTopN int `json:"user_top_n" koanf:"user_top_n"`

	// ItemTopN is the number of item-based similarity results, counting the
	// seed itself. Default: 10.
	ItemTopN int `json:"item_top_n" koanf:"item_top_n"`

	// HybridTotal is the combined length of the hybrid list. Default: 10.
	HybridTotal int `json:"hybrid_total" koanf:"hybrid_total"`
}

// DefaultConfig returns a Config matching the reference analysis defaults.
func DefaultConfig() *Config {
	return &Config{
		Apriori: AprioriConfig{
			MinSupport:     0.01,
			RuleMinSupport: 0.01,
			MaxItemsetSize: 0,
			RecommendCount: 4,
		},
		CF: CFConfig{
			MinRatingCount:  1000,
			CoverageRatio:   0.6,
			CorrThreshold:   0.65,
			RatingThreshold: 3.5,
			UserTopN:        5,
			ItemTopN:        10,
			HybridTotal:     10,
		},
	}
}

// Validate checks every threshold against its valid domain.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Apriori.MinSupport <= 0 || c.Apriori.MinSupport > 1 {
		return fmt.Errorf("%w: apriori.min_support must be in (0, 1], got %f", ErrInvalidConfig, c.Apriori.MinSupport)
	}
	if c.Apriori.RuleMinSupport <= 0 || c.Apriori.RuleMinSupport > 1 {
		return fmt.Errorf("%w: apriori.rule_min_support must be in (0, 1], got %f", ErrInvalidConfig, c.Apriori.RuleMinSupport)
	}
	if c.Apriori.MaxItemsetSize < 0 {
		return fmt.Errorf("%w: apriori.max_itemset_size must be non-negative, got %d", ErrInvalidConfig, c.Apriori.MaxItemsetSize)
	}
	if c.Apriori.RecommendCount < 1 {
		return fmt.Errorf("%w: apriori.recommend_count must be positive, got %d", ErrInvalidConfig, c.Apriori.RecommendCount)
	}

	if c.CF.MinRatingCount < 0 {
		return fmt.Errorf("%w: cf.min_rating_count must be non-negative, got %d", ErrInvalidConfig, c.CF.MinRatingCount)
	}
	if c.CF.CoverageRatio < 0 || c.CF.CoverageRatio > 1 {
		return fmt.Errorf("%w: cf.coverage_ratio must be in [0, 1], got %f", ErrInvalidConfig, c.CF.CoverageRatio)
	}
	if c.CF.CorrThreshold < 0 || c.CF.CorrThreshold > 1 {
		return fmt.Errorf("%w: cf.corr_threshold must be in [0, 1], got %f", ErrInvalidConfig, c.CF.CorrThreshold)
	}
	if c.CF.UserTopN < 1 {
		return fmt.Errorf("%w: cf.user_top_n must be positive, got %d", ErrInvalidConfig, c.CF.UserTopN)
	}
	if c.CF.ItemTopN < 1 {
		return fmt.Errorf("%w: cf.item_top_n must be positive, got %d", ErrInvalidConfig, c.CF.ItemTopN)
	}
	if c.CF.HybridTotal < 1 {
		return fmt.Errorf("%w: cf.hybrid_total must be positive, got %d", ErrInvalidConfig, c.CF.HybridTotal)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - nested structs contain only value types
	return &Config{
		Apriori: c.Apriori,
		CF:      c.CF,
	}
}
