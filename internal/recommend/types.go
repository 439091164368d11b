// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package recommend

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the failure taxonomy. Empty recommendation lists are
// legitimate results and are never reported through these.
var (
	// ErrInvalidInput indicates a malformed or incomplete input record.
	// Rejected before any matrix is constructed; nothing is partially built.
	ErrInvalidInput = errors.New("invalid input record")

	// ErrInvalidConfig indicates a threshold or parameter outside its valid
	// domain, rejected at call time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotTrained indicates a query against a model that has not been
	// trained yet.
	ErrNotTrained = errors.New("model not trained")
)

// Transaction is a single service purchase event. Immutable input.
type Transaction struct {
	// UserID is the purchasing customer.
	UserID int64 `json:"user_id"`

	// ServiceID identifies the service within its category. The same
	// ServiceID denotes different services under different categories.
	ServiceID int64 `json:"service_id"`

	// CategoryID is the service category.
	CategoryID int64 `json:"category_id"`

	// CreateDate is when the purchase happened.
	CreateDate time.Time `json:"create_date"`
}

// Validate checks the transaction's required fields.
func (t Transaction) Validate() error {
	if t.UserID < 0 {
		return fmt.Errorf("%w: negative user id %d", ErrInvalidInput, t.UserID)
	}
	if t.ServiceID < 0 || t.CategoryID < 0 {
		return fmt.Errorf("%w: negative service key %d_%d", ErrInvalidInput, t.ServiceID, t.CategoryID)
	}
	if t.CreateDate.IsZero() {
		return fmt.Errorf("%w: missing create date", ErrInvalidInput)
	}
	return nil
}

// Item returns the composite item key for this transaction.
func (t Transaction) Item() ItemKey {
	return ItemKey{Service: t.ServiceID, Category: t.CategoryID}
}

// ItemKey is the composite identity of a service: the same ServiceID can
// denote different services across categories, so the pair is the key.
// Two integer fields give value equality and hashing without any separator
// ambiguity a concatenated string key would have.
type ItemKey struct {
	Service  int64 `json:"service"`
	Category int64 `json:"category"`
}

// String renders the key in the conventional "service_category" form.
func (k ItemKey) String() string {
	return fmt.Sprintf("%d_%d", k.Service, k.Category)
}

// Less orders item keys by (Service, Category). Used for all deterministic
// itemset and column orderings.
func (k ItemKey) Less(other ItemKey) bool {
	if k.Service != other.Service {
		return k.Service < other.Service
	}
	return k.Category < other.Category
}

// BasketKey identifies one basket: the purchases of one user within one
// calendar month. Day and time are deliberately discarded.
type BasketKey struct {
	UserID    int64  `json:"user_id"`
	YearMonth string `json:"year_month"` // "2006-01"
}

// String renders the key in the conventional "user_yearmonth" form.
func (b BasketKey) String() string {
	return fmt.Sprintf("%d_%s", b.UserID, b.YearMonth)
}

// Less orders basket keys by (UserID, YearMonth).
func (b BasketKey) Less(other BasketKey) bool {
	if b.UserID != other.UserID {
		return b.UserID < other.UserID
	}
	return b.YearMonth < other.YearMonth
}

// Rating is a single user-movie rating event. Immutable input.
type Rating struct {
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Rating    float64   `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the rating's required fields.
func (r Rating) Validate() error {
	if r.UserID < 0 {
		return fmt.Errorf("%w: negative user id %d", ErrInvalidInput, r.UserID)
	}
	if r.MovieID < 0 {
		return fmt.Errorf("%w: negative movie id %d", ErrInvalidInput, r.MovieID)
	}
	if r.Rating < 0 {
		return fmt.Errorf("%w: negative rating %f", ErrInvalidInput, r.Rating)
	}
	return nil
}

// Movie is a catalog entry joining movie ids to display titles.
type Movie struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres,omitempty"`
}

// Validate checks the catalog entry's required fields.
func (m Movie) Validate() error {
	if m.ID < 0 {
		return fmt.Errorf("%w: negative movie id %d", ErrInvalidInput, m.ID)
	}
	if m.Title == "" {
		return fmt.Errorf("%w: movie %d has empty title", ErrInvalidInput, m.ID)
	}
	return nil
}

// ScoredItem is an item id with its recommendation score. For the
// collaborative engines the id is the item title and the score is a mean
// weighted rating (user-based) or a Pearson correlation (item-based).
type ScoredItem struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Status reports the trained state of the engine, mirroring what the
// training log lines carry.
type Status struct {
	// BasketCount is the number of distinct baskets in the incidence matrix.
	BasketCount int `json:"basket_count"`

	// BasketItemCount is the number of distinct item keys across baskets.
	BasketItemCount int `json:"basket_item_count"`

	// ItemsetCount is the number of frequent itemsets mined.
	ItemsetCount int `json:"itemset_count"`

	// RuleCount is the number of association rules retained.
	RuleCount int `json:"rule_count"`

	// UserCount is the number of users in the filtered rating matrix.
	UserCount int `json:"user_count"`

	// TitleCount is the number of titles surviving the rare-item filter.
	TitleCount int `json:"title_count"`

	// Version increments on every successful training pass.
	Version int `json:"version"`

	// LastTrainedAt is when either model was last trained.
	LastTrainedAt time.Time `json:"last_trained_at"`
}
