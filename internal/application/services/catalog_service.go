package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/domain/schedule"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// CatalogService manages the catalog of task templates used for expected
// effort planning.
type CatalogService struct {
	catalogRepo ports.CatalogRepository
	logger      *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo ports.CatalogRepository, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// CreateTemplate creates a new catalog task template.
func (s *CatalogService) CreateTemplate(ctx context.Context, req ports.CreateCatalogTaskRequest) (*entities.ExtendedTask, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown catalog task type %q", entities.ErrValidation, req.Type)
	}
	if !req.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrValidation, req.Priority)
	}
	if err := validateTimeRanges(req.RestrictedTimeRanges); err != nil {
		return nil, err
	}
	if req.Type == entities.CatalogTaskTimeSpecific && len(req.RestrictedTimeRanges) == 0 {
		return nil, fmt.Errorf("%w: time_specific tasks need at least one time range", entities.ErrValidation)
	}

	now := time.Now()
	task := &entities.ExtendedTask{
		Title:                req.Title,
		Type:                 req.Type,
		BaseTimeMinutes:      req.BaseTimeMinutes,
		BaseCountPerShift:    req.BaseCountPerShift,
		RestrictedTimeRanges: entities.TimeRanges(req.RestrictedTimeRanges),
		Priority:             req.Priority,
		Difficulty:           req.Difficulty,
		Tags:                 req.Tags,
		ValidFrom:            req.ValidFrom,
		ValidTo:              req.ValidTo,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.catalogRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create catalog task: %w", err)
	}

	s.logger.Infow("Catalog task created", "catalog_task_id", task.ID, "title", task.Title, "type", task.Type)
	return task, nil
}

// GetTemplate retrieves a catalog template by ID.
func (s *CatalogService) GetTemplate(ctx context.Context, id int) (*entities.ExtendedTask, error) {
	return s.catalogRepo.GetByID(ctx, id)
}

// ListActiveTemplates lists the templates valid at the given instant.
func (s *CatalogService) ListActiveTemplates(ctx context.Context, at time.Time) ([]entities.ExtendedTask, error) {
	return s.catalogRepo.ListActive(ctx, at)
}

// DeactivateTemplate retires a template without deleting its history.
func (s *CatalogService) DeactivateTemplate(ctx context.Context, id int) (*entities.ExtendedTask, error) {
	task, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.IsActive = false
	task.UpdatedAt = time.Now()
	if err := s.catalogRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to deactivate catalog task: %w", err)
	}

	s.logger.Infow("Catalog task deactivated", "catalog_task_id", id)
	return task, nil
}

// ExpectedShiftMinutes sums the effort budget of every template valid at the
// given instant. Schedulers compare this against the staffed minutes of a
// shift to spot under-staffed days.
func (s *CatalogService) ExpectedShiftMinutes(ctx context.Context, at time.Time) (int, error) {
	templates, err := s.catalogRepo.ListActive(ctx, at)
	if err != nil {
		return 0, fmt.Errorf("failed to list catalog tasks: %w", err)
	}

	var total int
	for i := range templates {
		total += templates[i].ExpectedMinutesPerShift()
	}
	return total, nil
}

func validateTimeRanges(ranges []entities.TimeRange) error {
	for _, r := range ranges {
		start, err := schedule.ParseClock(r.StartTime)
		if err != nil {
			return err
		}
		end, err := schedule.ParseClock(r.EndTime)
		if err != nil {
			return err
		}
		if end <= start {
			return fmt.Errorf("%w: time range end %s not after start %s", entities.ErrValidation, r.EndTime, r.StartTime)
		}
	}
	return nil
}
