// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/basketrec/internal/recommend"
	"github.com/tomtom215/basketrec/internal/recommend/cf"
	"github.com/tomtom215/basketrec/internal/recommend/storage"
)

// SaveModels persists whichever models are trained. An engine with no
// trained model at all returns ErrNotTrained.
func (e *Engine) SaveModels(ctx context.Context, store *storage.Store) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.basketTrained && !e.ratingTrained {
		return fmt.Errorf("save models: %w", recommend.ErrNotTrained)
	}

	if e.basketTrained {
		state := storage.BasketModelState{
			Rules:           e.rules,
			BasketCount:     e.basketCount,
			BasketItemCount: e.basketItemCount,
			ItemsetCount:    e.itemsetCount,
			TrainedAt:       e.lastTrainedAt,
		}
		meta, err := store.Save(ctx, storage.ModelBaskets, state, e.lastTrainedAt)
		if err != nil {
			return fmt.Errorf("save basket model: %w", err)
		}
		e.logger.Info().
			Int("model_version", meta.Version).
			Int64("size_bytes", meta.SizeBytes).
			Msg("basket model saved")
	}

	if e.ratingTrained {
		state := storage.RatingModelState{
			Triples:   e.ratings.Triples(),
			Seeds:     e.seeds,
			TrainedAt: e.lastTrainedAt,
		}
		meta, err := store.Save(ctx, storage.ModelRatings, state, e.lastTrainedAt)
		if err != nil {
			return fmt.Errorf("save rating model: %w", err)
		}
		e.logger.Info().
			Int("model_version", meta.Version).
			Int64("size_bytes", meta.SizeBytes).
			Msg("rating model saved")
	}

	return nil
}

// LoadModels restores the latest stored models, replacing whatever the
// engine currently holds. A missing model of one kind is not an error as
// long as the other kind loads; both missing returns an error. A model
// file that exists but cannot be read back, a checksum mismatch included,
// always fails the load.
func (e *Engine) LoadModels(ctx context.Context, store *storage.Store) error {
	var basketState storage.BasketModelState
	basketMeta, basketErr := store.Load(ctx, storage.ModelBaskets, 0, &basketState)
	if basketErr != nil && !errors.Is(basketErr, storage.ErrModelNotFound) {
		return fmt.Errorf("load basket model: %w", basketErr)
	}

	var ratingState storage.RatingModelState
	ratingMeta, ratingErr := store.Load(ctx, storage.ModelRatings, 0, &ratingState)
	if ratingErr != nil && !errors.Is(ratingErr, storage.ErrModelNotFound) {
		return fmt.Errorf("load rating model: %w", ratingErr)
	}

	if basketErr != nil && ratingErr != nil {
		return fmt.Errorf("load models: no stored model found (baskets: %v; ratings: %v)", basketErr, ratingErr)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if basketErr == nil {
		e.basketTrained = true
		e.rules = basketState.Rules
		e.basketCount = basketState.BasketCount
		e.basketItemCount = basketState.BasketItemCount
		e.itemsetCount = basketState.ItemsetCount
		e.version++
		e.lastTrainedAt = basketState.TrainedAt
		e.logger.Info().
			Int("stored_version", basketMeta.Version).
			Int("rules", len(basketState.Rules)).
			Msg("basket model loaded")
	}

	if ratingErr == nil {
		e.ratingTrained = true
		e.ratings = cf.FromTriples(ratingState.Triples)
		e.seeds = ratingState.Seeds
		e.version++
		if ratingState.TrainedAt.After(e.lastTrainedAt) {
			e.lastTrainedAt = ratingState.TrainedAt
		}
		e.logger.Info().
			Int("stored_version", ratingMeta.Version).
			Int("users", e.ratings.UserCount()).
			Int("titles", e.ratings.TitleCount()).
			Msg("rating model loaded")
	}

	return nil
}
