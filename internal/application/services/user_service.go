package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// UserService manages staff accounts.
type UserService struct {
	userRepo  ports.UserRepository
	storeRepo ports.StoreRepository
	logger    *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo ports.UserRepository, storeRepo ports.StoreRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// CreateUser creates a new staff account with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, req ports.CreateUserRequest) (*entities.User, error) {
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrValidation, req.Role)
	}
	if _, err := s.storeRepo.GetByID(ctx, req.StoreID); err != nil {
		return nil, fmt.Errorf("user store: %w", err)
	}
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email %s already registered", entities.ErrValidation, req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		StoreID:      req.StoreID,
		HourlyWage:   req.HourlyWage,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User created", "user_id", user.ID, "email", user.Email, "role", user.Role)

	user.PasswordHash = ""
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser updates a user's profile fields.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req ports.UpdateUserRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", entities.ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.StoreID != nil {
		if _, err := s.storeRepo.GetByID(ctx, *req.StoreID); err != nil {
			return nil, fmt.Errorf("user store: %w", err)
		}
		user.StoreID = *req.StoreID
	}
	if req.HourlyWage != nil {
		user.HourlyWage = req.HourlyWage
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Infow("User updated", "user_id", user.ID)

	user.PasswordHash = ""
	return user, nil
}

// DeactivateUser soft-deletes a user account.
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Infow("User deactivated", "user_id", id)
	return nil
}

// ListStoreUsers lists the users attached to a store.
func (s *UserService) ListStoreUsers(ctx context.Context, storeID int) ([]*entities.User, error) {
	users, err := s.userRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// StoreService manages locations.
type StoreService struct {
	storeRepo ports.StoreRepository
	logger    *logger.Logger
}

// NewStoreService creates a new store service.
func NewStoreService(storeRepo ports.StoreRepository, logger *logger.Logger) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// CreateStore registers a new location.
func (s *StoreService) CreateStore(ctx context.Context, req ports.CreateStoreRequest) (*entities.Store, error) {
	now := time.Now()
	store := &entities.Store{
		Name:      req.Name,
		Code:      req.Code,
		Timezone:  req.Timezone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	s.logger.Infow("Store created", "store_id", store.ID, "code", store.Code)
	return store, nil
}

// GetStore retrieves a store by ID.
func (s *StoreService) GetStore(ctx context.Context, id int) (*entities.Store, error) {
	return s.storeRepo.GetByID(ctx, id)
}

// ListStores lists all stores.
func (s *StoreService) ListStores(ctx context.Context) ([]entities.Store, error) {
	return s.storeRepo.List(ctx)
}
