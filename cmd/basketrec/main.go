// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Command basketrec trains the hybrid recommendation models from CSV
// datasets and answers queries against them.
//
// Rule-based query (seed item is service 2 in category 0):
//
//	basketrec -seed-service 2 -seed-category 0
//
// Hybrid query for a user, as JSON:
//
//	basketrec -user 108170 -json
//
// Train once, persist, and query the stored models later:
//
//	basketrec -save
//	basketrec -load -user 108170
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/basketrec/internal/config"
	"github.com/tomtom215/basketrec/internal/ingest"
	"github.com/tomtom215/basketrec/internal/logging"
	"github.com/tomtom215/basketrec/internal/recommend"
	"github.com/tomtom215/basketrec/internal/recommend/pipeline"
	"github.com/tomtom215/basketrec/internal/recommend/storage"
)

func main() {
	if err := run(); err != nil {
		logging.Err(err).Msg("basketrec failed")
		os.Exit(1)
	}
}

//nolint:gocyclo // top-level command dispatch
func run() error {
	var (
		configPath   = flag.String("config", "", "path to config file")
		userID       = flag.Int64("user", -1, "user id for hybrid recommendations")
		seedService  = flag.Int64("seed-service", -1, "service id of the rule-based seed item")
		seedCategory = flag.Int64("seed-category", -1, "category id of the rule-based seed item")
		jsonOut      = flag.Bool("json", false, "emit results as JSON")
		showStatus   = flag.Bool("status", false, "print model status after training or loading")
		saveModels   = flag.Bool("save", false, "persist trained models to the models directory")
		loadModels   = flag.Bool("load", false, "load stored models instead of training")
	)
	flag.Parse()

	if *configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, *configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := pipeline.NewEngine(&cfg.Recommend, logging.Logger())
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	wantRules := *seedService >= 0 || *seedCategory >= 0
	wantHybrid := *userID >= 0

	var store *storage.Store
	if *saveModels || *loadModels {
		if cfg.Models.Dir == "" {
			return fmt.Errorf("models.dir must be set to save or load models")
		}
		store, err = storage.NewStore(cfg.Models.Dir)
		if err != nil {
			return fmt.Errorf("open model store: %w", err)
		}
	}

	if *loadModels {
		if err := engine.LoadModels(ctx, store); err != nil {
			return err
		}
	} else {
		if wantRules || *saveModels {
			if err := trainBaskets(ctx, engine, cfg.Data.TransactionsPath); err != nil {
				return err
			}
		}
		if wantHybrid || *saveModels {
			if err := trainRatings(ctx, engine, cfg.Data.MoviesPath, cfg.Data.RatingsPath); err != nil {
				return err
			}
		}
	}

	if *saveModels {
		if err := engine.SaveModels(ctx, store); err != nil {
			return err
		}
		if err := store.Prune(ctx, storage.ModelBaskets, cfg.Models.KeepVersions); err != nil {
			return err
		}
		if err := store.Prune(ctx, storage.ModelRatings, cfg.Models.KeepVersions); err != nil {
			return err
		}
	}

	out := os.Stdout

	if wantRules {
		if *seedService < 0 || *seedCategory < 0 {
			return fmt.Errorf("both -seed-service and -seed-category are required for rule queries")
		}
		seed := recommend.ItemKey{Service: *seedService, Category: *seedCategory}
		items, err := engine.RecommendByRule(ctx, seed)
		if err != nil {
			return err
		}
		if err := printRuleResults(out, seed, items, *jsonOut); err != nil {
			return err
		}
	}

	if wantHybrid {
		titles, err := engine.HybridRecommend(ctx, *userID)
		if err != nil {
			return err
		}
		if err := printHybridResults(out, *userID, titles, *jsonOut); err != nil {
			return err
		}
	}

	if *showStatus {
		if err := printStatus(out, engine.Status(), *jsonOut); err != nil {
			return err
		}
	}

	if !wantRules && !wantHybrid && !*showStatus && !*saveModels {
		flag.Usage()
	}

	return nil
}

func trainBaskets(ctx context.Context, engine *pipeline.Engine, path string) error {
	transactions, err := ingest.LoadTransactions(path)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	return engine.TrainBaskets(ctx, transactions)
}

func trainRatings(ctx context.Context, engine *pipeline.Engine, moviesPath, ratingsPath string) error {
	movies, err := ingest.LoadMovies(moviesPath)
	if err != nil {
		return fmt.Errorf("load movies: %w", err)
	}
	ratings, err := ingest.LoadRatings(ratingsPath)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	return engine.TrainRatings(ctx, movies, ratings)
}

func printRuleResults(out *os.File, seed recommend.ItemKey, items []recommend.ItemKey, jsonOut bool) error {
	if jsonOut {
		payload := struct {
			Seed  string   `json:"seed"`
			Items []string `json:"items"`
		}{Seed: seed.String(), Items: make([]string, 0, len(items))}
		for _, item := range items {
			payload.Items = append(payload.Items, item.String())
		}
		return encodeJSON(out, payload)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "rule recommendations for %s:\n", seed)
	for i, item := range items {
		fmt.Fprintf(w, "%d\t%s\n", i+1, item)
	}
	return w.Flush()
}

func printHybridResults(out *os.File, userID int64, titles []string, jsonOut bool) error {
	if jsonOut {
		payload := struct {
			UserID int64    `json:"user_id"`
			Titles []string `json:"titles"`
		}{UserID: userID, Titles: titles}
		return encodeJSON(out, payload)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "hybrid recommendations for user %d:\n", userID)
	for i, title := range titles {
		fmt.Fprintf(w, "%d\t%s\n", i+1, title)
	}
	return w.Flush()
}

func printStatus(out *os.File, status recommend.Status, jsonOut bool) error {
	if jsonOut {
		return encodeJSON(out, status)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "baskets\t%d\n", status.BasketCount)
	fmt.Fprintf(w, "basket items\t%d\n", status.BasketItemCount)
	fmt.Fprintf(w, "frequent itemsets\t%d\n", status.ItemsetCount)
	fmt.Fprintf(w, "rules\t%d\n", status.RuleCount)
	fmt.Fprintf(w, "users\t%d\n", status.UserCount)
	fmt.Fprintf(w, "titles\t%d\n", status.TitleCount)
	fmt.Fprintf(w, "model version\t%d\n", status.Version)
	if !status.LastTrainedAt.IsZero() {
		fmt.Fprintf(w, "last trained\t%s\n", status.LastTrainedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func encodeJSON(out *os.File, payload interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
