// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

package arl

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// tx builds a transaction on a given day of a month.
func tx(user, service, category int64, date string) recommend.Transaction {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return recommend.Transaction{
		UserID:     user,
		ServiceID:  service,
		CategoryID: category,
		CreateDate: t,
	}
}

func TestBuildMatrixGroupsByUserMonth(t *testing.T) {
	transactions := []recommend.Transaction{
		tx(1, 2, 0, "2024-01-05"),
		tx(1, 9, 4, "2024-01-20"),
		tx(1, 2, 0, "2024-02-01"), // same user, next month: new basket
		tx(2, 2, 0, "2024-01-09"),
	}

	m, err := BuildMatrix(transactions)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if got, want := m.BasketCount(), 3; got != want {
		t.Errorf("BasketCount() = %d, want %d", got, want)
	}
	if got, want := m.ItemCount(), 2; got != want {
		t.Errorf("ItemCount() = %d, want %d", got, want)
	}

	jan := recommend.BasketKey{UserID: 1, YearMonth: "2024-01"}
	feb := recommend.BasketKey{UserID: 1, YearMonth: "2024-02"}

	if !m.Contains(jan, recommend.ItemKey{Service: 2, Category: 0}) {
		t.Error("january basket should contain item 2_0")
	}
	if !m.Contains(jan, recommend.ItemKey{Service: 9, Category: 4}) {
		t.Error("january basket should contain item 9_4")
	}
	if m.Contains(feb, recommend.ItemKey{Service: 9, Category: 4}) {
		t.Error("february basket should not contain item 9_4")
	}
}

func TestBuildMatrixSetSemantics(t *testing.T) {
	// The same service bought twice in one month is a single cell.
	transactions := []recommend.Transaction{
		tx(7, 2, 0, "2024-03-01"),
		tx(7, 2, 0, "2024-03-28"),
	}

	m, err := BuildMatrix(transactions)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	if got, want := m.BasketCount(), 1; got != want {
		t.Errorf("BasketCount() = %d, want %d", got, want)
	}
	basket := recommend.BasketKey{UserID: 7, YearMonth: "2024-03"}
	if !m.Contains(basket, recommend.ItemKey{Service: 2, Category: 0}) {
		t.Error("basket should contain item 2_0")
	}
}

func TestBuildMatrixRejectsInvalidTransaction(t *testing.T) {
	transactions := []recommend.Transaction{
		tx(1, 2, 0, "2024-01-05"),
		{UserID: -1, ServiceID: 2, CategoryID: 0, CreateDate: time.Now()},
	}

	_, err := BuildMatrix(transactions)
	if err == nil {
		t.Fatal("BuildMatrix() error = nil, want error")
	}
	if !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("BuildMatrix() error = %v, want ErrInvalidInput", err)
	}
}

func TestBuildMatrixEmpty(t *testing.T) {
	m, err := BuildMatrix(nil)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if got := m.BasketCount(); got != 0 {
		t.Errorf("BasketCount() = %d, want 0", got)
	}
	if got := m.ItemCount(); got != 0 {
		t.Errorf("ItemCount() = %d, want 0", got)
	}
}

func TestContainsAll(t *testing.T) {
	transactions := []recommend.Transaction{
		tx(1, 1, 0, "2024-01-05"),
		tx(1, 2, 0, "2024-01-06"),
		tx(2, 1, 0, "2024-01-07"),
	}

	m, err := BuildMatrix(transactions)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}

	both := []recommend.ItemKey{{Service: 1}, {Service: 2}}
	b1 := recommend.BasketKey{UserID: 1, YearMonth: "2024-01"}
	b2 := recommend.BasketKey{UserID: 2, YearMonth: "2024-01"}

	if !m.ContainsAll(b1, both) {
		t.Error("ContainsAll(basket 1) = false, want true")
	}
	if m.ContainsAll(b2, both) {
		t.Error("ContainsAll(basket 2) = true, want false")
	}
	if !m.ContainsAll(b2, nil) {
		t.Error("ContainsAll(empty itemset) = false, want true")
	}
}
