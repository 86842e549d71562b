package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/domain/performance"
)

// ShiftRepository defines the persistence interface for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, shift *entities.Shift) error
	GetByID(ctx context.Context, id int) (*entities.Shift, error)
	Update(ctx context.Context, shift *entities.Shift) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter ShiftFilter) ([]*entities.Shift, error)
	GetUserShifts(ctx context.Context, userID uuid.UUID, from, to string) ([]*entities.Shift, error)
}

// BoardTaskRepository defines the persistence interface for board tasks and
// their memos. Memos live here because their lifetime is bound to the task.
type BoardTaskRepository interface {
	Create(ctx context.Context, task *entities.BoardTask) error
	GetByID(ctx context.Context, id int) (*entities.BoardTask, error)
	Update(ctx context.Context, task *entities.BoardTask) error
	Delete(ctx context.Context, id int) error
	ListByStore(ctx context.Context, storeID int) ([]entities.BoardTask, error)
	AddMemo(ctx context.Context, memo *entities.TaskMemo) error
	ListMemos(ctx context.Context, taskID int) ([]entities.TaskMemo, error)
}

// CatalogRepository defines the persistence interface for catalog task
// templates.
type CatalogRepository interface {
	Create(ctx context.Context, task *entities.ExtendedTask) error
	GetByID(ctx context.Context, id int) (*entities.ExtendedTask, error)
	Update(ctx context.Context, task *entities.ExtendedTask) error
	Delete(ctx context.Context, id int) error
	ListActive(ctx context.Context, at time.Time) ([]entities.ExtendedTask, error)
}

// UserRepository defines the persistence interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStore(ctx context.Context, storeID int) ([]*entities.User, error)
}

// StoreRepository defines the persistence interface for stores.
type StoreRepository interface {
	Create(ctx context.Context, store *entities.Store) error
	GetByID(ctx context.Context, id int) (*entities.Store, error)
	List(ctx context.Context) ([]entities.Store, error)
}

// PerformanceRepository reads per-user-per-task execution records.
type PerformanceRepository interface {
	GetUserRecords(ctx context.Context, userID uuid.UUID) ([]performance.Record, error)
	Upsert(ctx context.Context, record *performance.Record) error
}

// ShiftFilter narrows shift listings. Purged shifts are hidden unless
// explicitly requested.
type ShiftFilter struct {
	UserID        *uuid.UUID
	StoreID       *int
	Status        *entities.ShiftStatus
	DateFrom      *string
	DateTo        *string
	IncludePurged bool
	Limit         int
	Offset        int
}
