package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/domain/performance"
	"github.com/shiftops/core/internal/infrastructure/config"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(config.LoggerConfig{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return l
}

type mockShiftRepo struct {
	CreateFunc        func(ctx context.Context, shift *entities.Shift) error
	GetByIDFunc       func(ctx context.Context, id int) (*entities.Shift, error)
	UpdateFunc        func(ctx context.Context, shift *entities.Shift) error
	DeleteFunc        func(ctx context.Context, id int) error
	ListFunc          func(ctx context.Context, filter ports.ShiftFilter) ([]*entities.Shift, error)
	GetUserShiftsFunc func(ctx context.Context, userID uuid.UUID, from, to string) ([]*entities.Shift, error)
}

func (m *mockShiftRepo) Create(ctx context.Context, shift *entities.Shift) error {
	return m.CreateFunc(ctx, shift)
}

func (m *mockShiftRepo) GetByID(ctx context.Context, id int) (*entities.Shift, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockShiftRepo) Update(ctx context.Context, shift *entities.Shift) error {
	return m.UpdateFunc(ctx, shift)
}

func (m *mockShiftRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockShiftRepo) List(ctx context.Context, filter ports.ShiftFilter) ([]*entities.Shift, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockShiftRepo) GetUserShifts(ctx context.Context, userID uuid.UUID, from, to string) ([]*entities.Shift, error) {
	return m.GetUserShiftsFunc(ctx, userID, from, to)
}

type mockUserRepo struct {
	CreateFunc      func(ctx context.Context, user *entities.User) error
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmailFunc  func(ctx context.Context, email string) (*entities.User, error)
	UpdateFunc      func(ctx context.Context, user *entities.User) error
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
	ListByStoreFunc func(ctx context.Context, storeID int) ([]*entities.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entities.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, user *entities.User) error {
	return m.UpdateFunc(ctx, user)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockUserRepo) ListByStore(ctx context.Context, storeID int) ([]*entities.User, error) {
	return m.ListByStoreFunc(ctx, storeID)
}

type mockStoreRepo struct {
	CreateFunc  func(ctx context.Context, store *entities.Store) error
	GetByIDFunc func(ctx context.Context, id int) (*entities.Store, error)
	ListFunc    func(ctx context.Context) ([]entities.Store, error)
}

func (m *mockStoreRepo) Create(ctx context.Context, store *entities.Store) error {
	return m.CreateFunc(ctx, store)
}

func (m *mockStoreRepo) GetByID(ctx context.Context, id int) (*entities.Store, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockStoreRepo) List(ctx context.Context) ([]entities.Store, error) {
	return m.ListFunc(ctx)
}

type mockTaskRepo struct {
	CreateFunc      func(ctx context.Context, task *entities.BoardTask) error
	GetByIDFunc     func(ctx context.Context, id int) (*entities.BoardTask, error)
	UpdateFunc      func(ctx context.Context, task *entities.BoardTask) error
	DeleteFunc      func(ctx context.Context, id int) error
	ListByStoreFunc func(ctx context.Context, storeID int) ([]entities.BoardTask, error)
	AddMemoFunc     func(ctx context.Context, memo *entities.TaskMemo) error
	ListMemosFunc   func(ctx context.Context, taskID int) ([]entities.TaskMemo, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task *entities.BoardTask) error {
	return m.CreateFunc(ctx, task)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int) (*entities.BoardTask, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTaskRepo) Update(ctx context.Context, task *entities.BoardTask) error {
	return m.UpdateFunc(ctx, task)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockTaskRepo) ListByStore(ctx context.Context, storeID int) ([]entities.BoardTask, error) {
	return m.ListByStoreFunc(ctx, storeID)
}

func (m *mockTaskRepo) AddMemo(ctx context.Context, memo *entities.TaskMemo) error {
	return m.AddMemoFunc(ctx, memo)
}

func (m *mockTaskRepo) ListMemos(ctx context.Context, taskID int) ([]entities.TaskMemo, error) {
	return m.ListMemosFunc(ctx, taskID)
}

type mockPerfRepo struct {
	GetUserRecordsFunc func(ctx context.Context, userID uuid.UUID) ([]performance.Record, error)
	UpsertFunc         func(ctx context.Context, record *performance.Record) error
}

func (m *mockPerfRepo) GetUserRecords(ctx context.Context, userID uuid.UUID) ([]performance.Record, error) {
	return m.GetUserRecordsFunc(ctx, userID)
}

func (m *mockPerfRepo) Upsert(ctx context.Context, record *performance.Record) error {
	return m.UpsertFunc(ctx, record)
}

// mockNotifier records which channels were poked.
type mockNotifier struct {
	boardNotifies []int
	memoNotifies  []int
}

func (m *mockNotifier) NotifyBoardChanged(ctx context.Context, storeID int) {
	m.boardNotifies = append(m.boardNotifies, storeID)
}

func (m *mockNotifier) NotifyMemosChanged(ctx context.Context, taskID int, storeID int) {
	m.memoNotifies = append(m.memoNotifies, taskID)
	m.NotifyBoardChanged(ctx, storeID)
}

type mockFeed struct {
	SubscribeBoardFunc func(ctx context.Context, storeID int, handler ports.BoardSnapshotHandler) (func(), error)
	SubscribeMemosFunc func(ctx context.Context, taskID int, handler ports.MemoSnapshotHandler) (func(), error)
}

func (m *mockFeed) SubscribeBoard(ctx context.Context, storeID int, handler ports.BoardSnapshotHandler) (func(), error) {
	return m.SubscribeBoardFunc(ctx, storeID, handler)
}

func (m *mockFeed) SubscribeMemos(ctx context.Context, taskID int, handler ports.MemoSnapshotHandler) (func(), error) {
	return m.SubscribeMemosFunc(ctx, taskID, handler)
}

// Common fixtures

func activeManager(id uuid.UUID) *entities.User {
	return &entities.User{
		ID:          id,
		Email:       "manager@example.com",
		DisplayName: "Manager",
		Role:        entities.UserRoleManager,
		StoreID:     1,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func activeStaff(id uuid.UUID) *entities.User {
	return &entities.User{
		ID:          id,
		Email:       "staff@example.com",
		DisplayName: "Staff",
		Role:        entities.UserRoleStaff,
		StoreID:     1,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}
