// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package pipeline ties the basket-mining and collaborative-filtering
// engines behind a single Engine with explicit train and query phases.
//
// Training replaces the engine's model atomically under a write lock;
// queries run under a read lock against whichever model version was
// current when they acquired it. An Engine with no trained model answers
// every query with ErrNotTrained.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketrec/internal/recommend"
	"github.com/tomtom215/basketrec/internal/recommend/arl"
	"github.com/tomtom215/basketrec/internal/recommend/cf"
)

// Engine coordinates the rule-based and collaborative recommenders.
// It is safe for concurrent use.
type Engine struct {
	config *recommend.Config
	logger zerolog.Logger

	mu sync.RWMutex

	// Basket model. basketTrained marks a completed training or load;
	// rules may legitimately be empty when no itemset of size two or
	// more clears the support threshold.
	basketTrained   bool
	rules           []arl.Rule
	basketCount     int
	basketItemCount int
	itemsetCount    int

	// Rating model
	ratingTrained bool
	ratings       *cf.Matrix

	// seeds maps each user to the title of their most recent top-rated
	// movie, the anchor for the item-based half of the hybrid list.
	seeds map[int64]string

	version       int
	lastTrainedAt time.Time
}

// NewEngine creates a recommendation engine from the given configuration.
// A nil config uses defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *recommend.Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// TrainBaskets builds the monthly basket incidence matrix from raw
// transactions, mines frequent itemsets, and derives association rules.
// On success the previous basket model is replaced atomically; on failure
// it is left untouched.
func (e *Engine) TrainBaskets(ctx context.Context, transactions []recommend.Transaction) error {
	runID := uuid.New().String()
	start := time.Now()
	logger := e.logger.With().Str("run_id", runID).Str("phase", "train_baskets").Logger()

	logger.Info().Int("transactions", len(transactions)).Msg("basket training started")

	matrix, err := arl.BuildMatrix(transactions)
	if err != nil {
		return fmt.Errorf("build basket matrix: %w", err)
	}

	itemsets, err := arl.MineFrequentItemsets(ctx, matrix, e.config.Apriori.MinSupport, e.config.Apriori.MaxItemsetSize)
	if err != nil {
		return fmt.Errorf("mine itemsets: %w", err)
	}

	rules, err := arl.GenerateRules(itemsets, e.config.Apriori.RuleMinSupport)
	if err != nil {
		return fmt.Errorf("generate rules: %w", err)
	}

	e.mu.Lock()
	e.basketTrained = true
	e.rules = rules
	e.basketCount = matrix.BasketCount()
	e.basketItemCount = matrix.ItemCount()
	e.itemsetCount = len(itemsets)
	e.version++
	e.lastTrainedAt = time.Now()
	version := e.version
	e.mu.Unlock()

	logger.Info().
		Int("baskets", matrix.BasketCount()).
		Int("items", matrix.ItemCount()).
		Int("itemsets", len(itemsets)).
		Int("rules", len(rules)).
		Int("model_version", version).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("basket training complete")

	return nil
}

// TrainRatings builds the filtered rating matrix from the catalog and raw
// rating events, and resolves each user's item-based seed title. On
// success the previous rating model is replaced atomically.
func (e *Engine) TrainRatings(ctx context.Context, movies []recommend.Movie, ratings []recommend.Rating) error {
	runID := uuid.New().String()
	start := time.Now()
	logger := e.logger.With().Str("run_id", runID).Str("phase", "train_ratings").Logger()

	logger.Info().
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Msg("rating training started")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rating training cancelled: %w", err)
	}

	matrix, err := cf.BuildMatrix(movies, ratings, e.config.CF.MinRatingCount)
	if err != nil {
		return fmt.Errorf("build rating matrix: %w", err)
	}

	titleByID := make(map[int64]string, len(movies))
	for _, m := range movies {
		titleByID[m.ID] = m.Title
	}

	// Resolve seed movie ids to titles up front. Seeds whose title fell to
	// the rare-item filter are dropped: the item-based half has nothing to
	// anchor on for those users.
	seeds := make(map[int64]string)
	for user, movieID := range cf.TopRatedSeeds(ratings) {
		title, ok := titleByID[movieID]
		if !ok || !matrix.HasTitle(title) {
			continue
		}
		seeds[user] = title
	}

	e.mu.Lock()
	e.ratingTrained = true
	e.ratings = matrix
	e.seeds = seeds
	e.version++
	e.lastTrainedAt = time.Now()
	version := e.version
	e.mu.Unlock()

	logger.Info().
		Int("users", matrix.UserCount()).
		Int("titles", matrix.TitleCount()).
		Int("seeds", len(seeds)).
		Int("model_version", version).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("rating training complete")

	return nil
}

// RecommendByRule returns up to the configured number of item keys
// implied by the association rules whose antecedents contain seed.
// A seed appearing in no antecedent yields an empty result, not an error.
func (e *Engine) RecommendByRule(ctx context.Context, seed recommend.ItemKey) ([]recommend.ItemKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.basketTrained {
		return nil, fmt.Errorf("rule recommendation: %w", recommend.ErrNotTrained)
	}

	items := arl.Recommend(e.rules, seed, e.config.Apriori.RecommendCount)

	e.logger.Debug().
		Str("seed", seed.String()).
		Int("returned", len(items)).
		Msg("rule recommendation")

	return items, nil
}

// RecommendForUser returns the user-based collaborative recommendations
// for the given user. An unknown user yields an empty result.
func (e *Engine) RecommendForUser(ctx context.Context, userID int64) ([]recommend.ScoredItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ratingTrained {
		return nil, fmt.Errorf("user recommendation: %w", recommend.ErrNotTrained)
	}

	recs, err := cf.RecommendForUser(e.ratings, userID, e.userCFConfig())
	if err != nil {
		return nil, fmt.Errorf("user recommendation: %w", err)
	}

	e.logger.Debug().
		Int64("user_id", userID).
		Int("returned", len(recs)).
		Msg("user recommendation")

	return recs, nil
}

// SimilarItems returns titles ranked by Pearson correlation with the seed
// title. The seed itself is the first entry with correlation 1.0; callers
// wanting only other titles skip index 0. An unknown seed yields an empty
// result.
func (e *Engine) SimilarItems(ctx context.Context, title string) ([]recommend.ScoredItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ratingTrained {
		return nil, fmt.Errorf("item similarity: %w", recommend.ErrNotTrained)
	}

	sims, err := cf.SimilarItems(e.ratings, title, e.config.CF.ItemTopN)
	if err != nil {
		return nil, fmt.Errorf("item similarity: %w", err)
	}

	e.logger.Debug().
		Str("seed_title", title).
		Int("returned", len(sims)).
		Msg("item similarity")

	return sims, nil
}

// HybridRecommend merges the user-based list with item-based similars of
// the user's seed title into one list of titles. The user-based half
// fills the larger share when the total is odd. Duplicates across the two
// halves are kept.
func (e *Engine) HybridRecommend(ctx context.Context, userID int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ratingTrained {
		return nil, fmt.Errorf("hybrid recommendation: %w", recommend.ErrNotTrained)
	}

	userRecs, err := cf.RecommendForUser(e.ratings, userID, e.userCFConfig())
	if err != nil {
		return nil, fmt.Errorf("hybrid recommendation: %w", err)
	}

	userTitles := make([]string, 0, len(userRecs))
	for _, r := range userRecs {
		userTitles = append(userTitles, r.ID)
	}

	var itemTitles []string
	if seed, ok := e.seeds[userID]; ok {
		sims, err := cf.SimilarItems(e.ratings, seed, e.config.CF.ItemTopN)
		if err != nil {
			return nil, fmt.Errorf("hybrid recommendation: %w", err)
		}
		// Index 0 is the seed itself.
		if len(sims) > 0 {
			for _, s := range sims[1:] {
				itemTitles = append(itemTitles, s.ID)
			}
		}
	}

	merged := cf.HybridRecommend(userTitles, itemTitles, e.config.CF.HybridTotal)

	e.logger.Debug().
		Int64("user_id", userID).
		Int("user_based", len(userTitles)).
		Int("item_based", len(itemTitles)).
		Int("returned", len(merged)).
		Msg("hybrid recommendation")

	return merged, nil
}

// Status reports the trained state of both models.
func (e *Engine) Status() recommend.Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := recommend.Status{
		BasketCount:     e.basketCount,
		BasketItemCount: e.basketItemCount,
		ItemsetCount:    e.itemsetCount,
		RuleCount:       len(e.rules),
		Version:         e.version,
		LastTrainedAt:   e.lastTrainedAt,
	}
	if e.ratings != nil {
		s.UserCount = e.ratings.UserCount()
		s.TitleCount = e.ratings.TitleCount()
	}
	return s
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *recommend.Config {
	return e.config.Clone()
}

func (e *Engine) userCFConfig() cf.UserCFConfig {
	return cf.UserCFConfig{
		CoverageRatio:   e.config.CF.CoverageRatio,
		CorrThreshold:   e.config.CF.CorrThreshold,
		RatingThreshold: e.config.CF.RatingThreshold,
		TopN:            e.config.CF.UserTopN,
	}
}
