// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package recommend

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero min support", mutate: func(c *Config) { c.Apriori.MinSupport = 0 }},
		{name: "min support above one", mutate: func(c *Config) { c.Apriori.MinSupport = 1.5 }},
		{name: "zero rule min support", mutate: func(c *Config) { c.Apriori.RuleMinSupport = 0 }},
		{name: "negative max itemset size", mutate: func(c *Config) { c.Apriori.MaxItemsetSize = -1 }},
		{name: "zero recommend count", mutate: func(c *Config) { c.Apriori.RecommendCount = 0 }},
		{name: "negative min rating count", mutate: func(c *Config) { c.CF.MinRatingCount = -1 }},
		{name: "coverage ratio above one", mutate: func(c *Config) { c.CF.CoverageRatio = 1.2 }},
		{name: "negative coverage ratio", mutate: func(c *Config) { c.CF.CoverageRatio = -0.1 }},
		{name: "corr threshold above one", mutate: func(c *Config) { c.CF.CorrThreshold = 1.1 }},
		{name: "zero user top n", mutate: func(c *Config) { c.CF.UserTopN = 0 }},
		{name: "zero item top n", mutate: func(c *Config) { c.CF.ItemTopN = 0 }},
		{name: "zero hybrid total", mutate: func(c *Config) { c.CF.HybridTotal = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	orig := DefaultConfig()
	clone := orig.Clone()

	clone.Apriori.MinSupport = 0.5
	clone.CF.UserTopN = 99

	if orig.Apriori.MinSupport == 0.5 {
		t.Error("mutating the clone changed the original apriori config")
	}
	if orig.CF.UserTopN == 99 {
		t.Error("mutating the clone changed the original cf config")
	}
}
