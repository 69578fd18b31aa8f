package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/ports"
)

// ReferenceService resolves the static geography tables at start-up.
type ReferenceService struct {
	repo     ports.ReferenceRepository
	fallback domain.ReferenceData
}

// NewReferenceService creates a new ReferenceService. With a nil repo, Load
// always returns fallback.
func NewReferenceService(repo ports.ReferenceRepository, fallback domain.ReferenceData) *ReferenceService {
	return &ReferenceService{repo: repo, fallback: fallback}
}

// Load returns the stored tables. A table that is empty in the store is
// taken from the fallback.
func (s *ReferenceService) Load(ctx context.Context) (domain.ReferenceData, error) {
	if s.repo == nil {
		return s.fallback, nil
	}

	ref, err := s.repo.Load(ctx)
	if err != nil {
		return domain.ReferenceData{}, fmt.Errorf("load reference data: %w", err)
	}

	if len(ref.Landmarks) == 0 {
		slog.Warn("no landmarks stored, using defaults")
		ref.Landmarks = s.fallback.Landmarks
	}
	if len(ref.MeetingPoints) == 0 {
		slog.Warn("no meeting points stored, using defaults")
		ref.MeetingPoints = s.fallback.MeetingPoints
	}
	if len(ref.PoliceStations) == 0 {
		ref.PoliceStations = s.fallback.PoliceStations
	}
	if len(ref.TouristAreas) == 0 {
		ref.TouristAreas = s.fallback.TouristAreas
	}
	return ref, nil
}

// Seed writes the fallback tables to the store.
func (s *ReferenceService) Seed(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("seed reference data: no repository configured")
	}
	if err := s.repo.Save(ctx, s.fallback); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	return nil
}
