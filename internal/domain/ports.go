package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// PropertyLoader is the read contract consumed by the API.
type PropertyLoader interface {
	// GetAll returns every property in stable order for the current snapshot.
	GetAll(ctx context.Context) ([]Property, error)
	// GetByID returns ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (Property, error)
}

// PropertyRepository is the MySQL mirror filled by the ingestor.
type PropertyRepository interface {
	PropertyLoader

	// Write paths
	UpsertProperty(ctx context.Context, p Property) error
	LogMiss(ctx context.Context, source, reason string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
