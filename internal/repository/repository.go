// Package repository defines the persistence gateway for the application state blob.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

// StorageKey names the single persisted record in every backend.
const StorageKey = "stockflow_data_v1"

// ErrStateNotFound is returned by Load when nothing has been persisted yet.
var ErrStateNotFound = errors.New("state not found")

// StateRepository loads and saves the whole application state at once.
type StateRepository interface {
	Load(ctx context.Context) (*models.AppData, error)
	Save(ctx context.Context, data *models.AppData) error
}

// LoadOrSeed loads the persisted state, falling back to the seed dataset when none exists.
// The seed is not written back; the first mutation persists it.
func LoadOrSeed(ctx context.Context, repo StateRepository, now time.Time) (models.AppData, error) {
	data, err := repo.Load(ctx)
	if errors.Is(err, ErrStateNotFound) {
		return models.Seed(now), nil
	}
	if err != nil {
		return models.AppData{}, fmt.Errorf("load state: %w", err)
	}
	return data.Clone(), nil
}

// Encode serializes the state into the blob format shared by all backends.
func Encode(data *models.AppData) ([]byte, error) {
	if data == nil {
		return nil, errors.New("encode state: nil data")
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return blob, nil
}

// Decode parses a blob produced by Encode.
func Decode(blob []byte) (*models.AppData, error) {
	var data models.AppData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &data, nil
}
