package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

// ActivityService is read-only from the outside. Ledger writes happen inside
// the other services' transactions; nothing here exposes a write path.
type ActivityService struct {
	repo domain.ActivityRepository
	log  *zap.Logger
}

func NewActivityService(repo domain.ActivityRepository, log *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, log: log}
}

func (s *ActivityService) ListRecent(ctx context.Context, limit int, patientID *uuid.UUID) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.repo.ListRecent(ctx, limit, patientID)
}
