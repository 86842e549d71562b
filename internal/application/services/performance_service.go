package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/performance"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// UserPerformance is the aggregated view returned to clients: the overall
// summary plus the per-task records it was derived from.
type UserPerformance struct {
	UserID  uuid.UUID            `json:"user_id"`
	Summary performance.Summary  `json:"summary"`
	Records []performance.Record `json:"records"`
}

// PerformanceService aggregates per-user task execution records into
// overall scores and levels.
type PerformanceService struct {
	perfRepo ports.PerformanceRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewPerformanceService creates a new performance service.
func NewPerformanceService(perfRepo ports.PerformanceRepository, userRepo ports.UserRepository, logger *logger.Logger) *PerformanceService {
	return &PerformanceService{
		perfRepo: perfRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetUserPerformance aggregates all of a user's records. A user with no
// records gets the no_data summary, never an error.
func (s *PerformanceService) GetUserPerformance(ctx context.Context, userID uuid.UUID) (*UserPerformance, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.perfRepo.GetUserRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load performance records: %w", err)
	}

	return &UserPerformance{
		UserID:  userID,
		Summary: performance.Aggregate(records),
		Records: records,
	}, nil
}

// RecordExecution upserts the tracked rates for one user on one catalog
// task.
func (s *PerformanceService) RecordExecution(ctx context.Context, record performance.Record) error {
	if record.UserID == "" || record.TaskID == 0 {
		return fmt.Errorf("performance record needs a user and a task")
	}

	if err := s.perfRepo.Upsert(ctx, &record); err != nil {
		return fmt.Errorf("failed to store performance record: %w", err)
	}

	s.logger.Infow("Performance record stored", "user_id", record.UserID, "task_id", record.TaskID, "executions", record.TotalExecutions)
	return nil
}
