// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package ingest loads transaction, catalog, and rating datasets from CSV
// files into domain records. Every row is validated as it is read; a
// malformed row fails the whole load with its line number rather than
// being silently skipped.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// createDateLayout matches the transaction export's timestamp column.
const createDateLayout = "2006-01-02 15:04:05"

// LoadTransactions reads purchase transactions from a CSV file with
// columns UserId, ServiceId, CategoryId, CreateDate.
func LoadTransactions(path string) ([]recommend.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open transactions file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after read is not actionable

	return ReadTransactions(f)
}

// ReadTransactions reads purchase transactions from r. The first row must
// be a header naming the four expected columns.
func ReadTransactions(r io.Reader) ([]recommend.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	if err := expectHeader(cr, []string{"userid", "serviceid", "categoryid", "createdate"}); err != nil {
		return nil, fmt.Errorf("transactions header: %w", err)
	}

	var transactions []recommend.Transaction
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w", row, err)
		}

		userID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w: user id %q", row, recommend.ErrInvalidInput, record[0])
		}
		serviceID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w: service id %q", row, recommend.ErrInvalidInput, record[1])
		}
		categoryID, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w: category id %q", row, recommend.ErrInvalidInput, record[2])
		}
		createDate, err := time.Parse(createDateLayout, record[3])
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %w: create date %q", row, recommend.ErrInvalidInput, record[3])
		}

		tx := recommend.Transaction{
			UserID:     userID,
			ServiceID:  serviceID,
			CategoryID: categoryID,
			CreateDate: createDate,
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transactions row %d: %w", row, err)
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}

// LoadMovies reads the movie catalog from a CSV file with columns
// movieId, title, genres. Genres are pipe-separated.
func LoadMovies(path string) ([]recommend.Movie, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open movies file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after read is not actionable

	return ReadMovies(f)
}

// ReadMovies reads the movie catalog from r.
func ReadMovies(r io.Reader) ([]recommend.Movie, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	if err := expectHeader(cr, []string{"movieid", "title", "genres"}); err != nil {
		return nil, fmt.Errorf("movies header: %w", err)
	}

	var movies []recommend.Movie
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("movies row %d: %w", row, err)
		}

		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("movies row %d: %w: movie id %q", row, recommend.ErrInvalidInput, record[0])
		}

		movie := recommend.Movie{
			ID:    id,
			Title: record[1],
		}
		if record[2] != "" && record[2] != "(no genres listed)" {
			movie.Genres = strings.Split(record[2], "|")
		}
		if err := movie.Validate(); err != nil {
			return nil, fmt.Errorf("movies row %d: %w", row, err)
		}

		movies = append(movies, movie)
	}

	return movies, nil
}

// LoadRatings reads rating events from a CSV file with columns userId,
// movieId, rating, timestamp. Timestamps are Unix epoch seconds.
func LoadRatings(path string) ([]recommend.Rating, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after read is not actionable

	return ReadRatings(f)
}

// ReadRatings reads rating events from r.
func ReadRatings(r io.Reader) ([]recommend.Rating, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	if err := expectHeader(cr, []string{"userid", "movieid", "rating", "timestamp"}); err != nil {
		return nil, fmt.Errorf("ratings header: %w", err)
	}

	var ratings []recommend.Rating
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ratings row %d: %w", row, err)
		}

		userID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings row %d: %w: user id %q", row, recommend.ErrInvalidInput, record[0])
		}
		movieID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings row %d: %w: movie id %q", row, recommend.ErrInvalidInput, record[1])
		}
		value, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("ratings row %d: %w: rating %q", row, recommend.ErrInvalidInput, record[2])
		}
		epoch, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings row %d: %w: timestamp %q", row, recommend.ErrInvalidInput, record[3])
		}

		rating := recommend.Rating{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    value,
			Timestamp: time.Unix(epoch, 0).UTC(),
		}
		if err := rating.Validate(); err != nil {
			return nil, fmt.Errorf("ratings row %d: %w", row, err)
		}

		ratings = append(ratings, rating)
	}

	return ratings, nil
}

// expectHeader reads one row and matches it, case-insensitively, against
// the expected column names.
func expectHeader(cr *csv.Reader, want []string) error {
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) != want[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", recommend.ErrInvalidInput, i+1, col, want[i])
		}
	}

	return nil
}
