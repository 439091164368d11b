// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package recommend

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		UserID:     1,
		ServiceID:  2,
		CategoryID: 0,
		CreateDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "negative user", mutate: func(tx *Transaction) { tx.UserID = -1 }, wantErr: true},
		{name: "negative service", mutate: func(tx *Transaction) { tx.ServiceID = -1 }, wantErr: true},
		{name: "negative category", mutate: func(tx *Transaction) { tx.CategoryID = -1 }, wantErr: true},
		{name: "zero date", mutate: func(tx *Transaction) { tx.CreateDate = time.Time{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestTransactionItem(t *testing.T) {
	tx := Transaction{UserID: 1, ServiceID: 2, CategoryID: 7}
	if got := tx.Item(); got != (ItemKey{Service: 2, Category: 7}) {
		t.Errorf("Item() = %v, want {2 7}", got)
	}
}

func TestItemKeyString(t *testing.T) {
	k := ItemKey{Service: 2, Category: 0}
	if got, want := k.String(), "2_0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestItemKeyLess(t *testing.T) {
	tests := []struct {
		name string
		a, b ItemKey
		want bool
	}{
		{name: "service orders first", a: ItemKey{Service: 1, Category: 9}, b: ItemKey{Service: 2, Category: 0}, want: true},
		{name: "category breaks ties", a: ItemKey{Service: 1, Category: 0}, b: ItemKey{Service: 1, Category: 1}, want: true},
		{name: "equal is not less", a: ItemKey{Service: 1, Category: 1}, b: ItemKey{Service: 1, Category: 1}, want: false},
		{name: "reverse", a: ItemKey{Service: 2, Category: 0}, b: ItemKey{Service: 1, Category: 9}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestItemKeyDistinctAcrossCategories(t *testing.T) {
	// The same service id under different categories is a different item.
	a := ItemKey{Service: 2, Category: 0}
	b := ItemKey{Service: 2, Category: 1}
	if a == b {
		t.Error("item keys with different categories compare equal")
	}
}

func TestRatingValidate(t *testing.T) {
	valid := Rating{UserID: 1, MovieID: 2, Rating: 4.5, Timestamp: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	for _, bad := range []Rating{
		{UserID: -1, MovieID: 2, Rating: 4},
		{UserID: 1, MovieID: -2, Rating: 4},
		{UserID: 1, MovieID: 2, Rating: -1},
	} {
		if err := bad.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Validate(%+v) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestMovieValidate(t *testing.T) {
	if err := (Movie{ID: 1, Title: "Alpha"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := (Movie{ID: 1}).Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate(empty title) error = %v, want ErrInvalidInput", err)
	}
	if err := (Movie{ID: -1, Title: "Alpha"}).Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate(negative id) error = %v, want ErrInvalidInput", err)
	}
}

func TestBasketKeyString(t *testing.T) {
	b := BasketKey{UserID: 7, YearMonth: "2024-03"}
	if got, want := b.String(), "7_2024-03"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
