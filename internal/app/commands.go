package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eiendom_showcase/internal/domain"
)

// IngestionService mirrors authored properties into the repository.
type IngestionService struct {
	repo  domain.PropertyRepository
	cache domain.Cache
}

func NewIngestionService(r domain.PropertyRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{repo: r, cache: cache}
}

var errMissingID = errors.New("property has no id")

func (s *IngestionService) IngestProperty(ctx context.Context, p domain.Property) error {
	if strings.TrimSpace(p.ID) == "" {
		return errMissingID
	}
	if err := s.repo.UpsertProperty(ctx, p); err != nil {
		return fmt.Errorf("upsert property %s: %w", p.ID, err)
	}
	// the listing changes with every upsert
	invalidate(ctx, s.cache, p.ID)
	return nil
}

// maxReasonChars matches ingest_misses.reason, which counts characters.
const maxReasonChars = 255

// RecordMiss stores a source that could not be ingested. Failures to log are ignored.
func (s *IngestionService) RecordMiss(ctx context.Context, source string, reason error) {
	msg := "unknown"
	if reason != nil {
		msg = reason.Error()
	}
	if r := []rune(msg); len(r) > maxReasonChars {
		msg = string(r[:maxReasonChars])
	}
	_ = s.repo.LogMiss(ctx, source, msg)
}
