// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package storage provides on-disk persistence for trained models.
//
// Models are gob-encoded, gzip-compressed, and written as versioned files
// with a SHA-256 checksum in the metadata. Loading verifies the checksum
// before decoding, so a truncated or corrupted file fails loudly instead
// of producing a silently wrong model.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/basketrec/internal/recommend/arl"
	"github.com/tomtom215/basketrec/internal/recommend/cf"
)

// ErrModelNotFound reports that no stored file exists for the requested
// model name and version. Callers use it to tell a missing model apart
// from a present but unreadable one.
var ErrModelNotFound = errors.New("model not found")

// Model names used as filename prefixes.
const (
	ModelBaskets = "baskets"
	ModelRatings = "ratings"
)

// BasketModelState is the persisted form of the association-rule model.
type BasketModelState struct {
	Rules           []arl.Rule
	BasketCount     int
	BasketItemCount int
	ItemsetCount    int
	TrainedAt       time.Time
}

// RatingModelState is the persisted form of the collaborative model. The
// matrix is stored as explicit (user, title, rating) triples so absent
// cells stay absent across a save/load round trip.
type RatingModelState struct {
	Triples   []cf.Triple
	Seeds     map[int64]string
	TrainedAt time.Time
}

// ModelMetadata describes a stored model file.
type ModelMetadata struct {
	// Name is the model name (ModelBaskets or ModelRatings).
	Name string `json:"name"`

	// Version is monotonically increasing per model name.
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was written to disk.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed gob payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Store manages model persistence under one directory. It is safe for
// concurrent use.
type Store struct {
	baseDir string

	mu       sync.RWMutex
	versions map[string]int
}

// NewStore creates a model store at baseDir, creating the directory if
// needed and scanning it for existing model files.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// scanModels picks up the latest version per model name from filenames.
func (s *Store) scanModels() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name, ok := strippedModelName(entry.Name())
		if !ok {
			continue
		}

		modelName, version := parseModelFilename(name)
		if modelName == "" {
			continue
		}

		if current, ok := s.versions[modelName]; !ok || version > current {
			s.versions[modelName] = version
		}
	}

	return nil
}

// strippedModelName removes the model file extension, reporting whether
// the filename looks like a model file at all.
func strippedModelName(filename string) (string, bool) {
	const ext = ".gob.gz"
	if len(filename) <= len(ext) || filename[len(filename)-len(ext):] != ext {
		return "", false
	}
	return filename[:len(filename)-len(ext)], true
}

// parseModelFilename splits "{name}_v{version}" on the last "_v".
func parseModelFilename(name string) (modelName string, version int) {
	lastVIdx := -1
	for i := len(name) - 1; i >= 1; i-- {
		if name[i] == 'v' && name[i-1] == '_' {
			lastVIdx = i - 1
			break
		}
	}
	if lastVIdx < 0 {
		return "", 0
	}

	version, err := strconv.Atoi(name[lastVIdx+2:])
	if err != nil || version < 1 {
		return "", 0
	}

	return name[:lastVIdx], version
}

// Save stores a model under the given name at the next version.
func (s *Store) Save(ctx context.Context, name string, data interface{}, trainedAt time.Time) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	version := s.versions[name] + 1
	meta := ModelMetadata{
		Name:      name,
		Version:   version,
		TrainedAt: trainedAt,
		SavedAt:   time.Now(),
		Checksum:  hex.EncodeToString(hash[:]),
		SizeBytes: int64(compressed.Len()),
	}

	f, err := os.Create(s.modelPath(name, version)) //nolint:gosec // path is built from trusted model names
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after write error surfaces via Encode

	sf := storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return nil, fmt.Errorf("write model file: %w", err)
	}

	s.versions[name] = version

	return &meta, nil
}

// Load loads a model by name into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("no stored model named %q: %w", name, ErrModelNotFound)
		}
	}

	f, err := os.Open(s.modelPath(name, version)) //nolint:gosec // path is built from trusted model names
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model %s v%d: %w", name, version, ErrModelNotFound)
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch for %s v%d: expected %s, got %s",
			name, version, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return &sf.Metadata, nil
}

// LatestVersion returns the latest stored version for a model name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// Prune removes all but the newest keepVersions files for a model name.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keepVersions < 1 {
		return fmt.Errorf("keepVersions must be positive, got %d", keepVersions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read storage directory: %w", err)
	}

	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stripped, ok := strippedModelName(entry.Name())
		if !ok {
			continue
		}
		modelName, version := parseModelFilename(stripped)
		if modelName == name {
			versions = append(versions, version)
		}
	}

	if len(versions) <= keepVersions {
		return nil
	}

	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	for _, version := range versions[keepVersions:] {
		if err := os.Remove(s.modelPath(name, version)); err != nil {
			return fmt.Errorf("remove model %s v%d: %w", name, version, err)
		}
	}

	return nil
}

func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d.gob.gz", name, version))
}
