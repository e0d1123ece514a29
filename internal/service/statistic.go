package service

import (
	"context"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/storage"
)

// statistics is the concrete implementation of the Statistics interface.
type statistics struct {
	core
}

// NewStatistics creates a new Statistics service backed by the provided
// storage.
func NewStatistics(st storage.Storage, options Options) Statistics {
	return &statistics{core: newCore(st, options)}
}

// Get returns the platform-wide counter snapshot. The read is public.
func (s *statistics) Get(ctx context.Context, p *domain.Principal) (*domain.Statistic, error) {
	if err := s.gate.CanRead(p, domain.KindStatistic, 0); err != nil {
		return nil, err
	}

	snapshot, err := s.storage.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get statistics: %w", err)
	}

	return &snapshot, nil
}
