package ports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shiftops/core/internal/domain/entities"
)

// Request/response types shared between handlers and services.

// Shift related types

type CreateShiftRequest struct {
	UserID    uuid.UUID                `json:"user_id" validate:"required"`
	StoreID   int                      `json:"store_id" validate:"required"`
	Date      string                   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string                   `json:"start_time" validate:"required"`
	EndTime   string                   `json:"end_time" validate:"required"`
	Classes   []entities.ClassTimeSlot `json:"classes"`
	Notes     *string                  `json:"notes" validate:"omitempty,max=1000"`
	Submit    bool                     `json:"submit"`
}

type UpdateShiftRequest struct {
	Date      *string                   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string                   `json:"start_time"`
	EndTime   *string                   `json:"end_time"`
	Classes   *[]entities.ClassTimeSlot `json:"classes"`
	Notes     *string                   `json:"notes" validate:"omitempty,max=1000"`
}

type RejectShiftRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type RequestShiftChangesRequest struct {
	Date      *string                   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string                   `json:"start_time"`
	EndTime   *string                   `json:"end_time"`
	Classes   *[]entities.ClassTimeSlot `json:"classes"`
	Notes     *string                   `json:"notes" validate:"omitempty,max=1000"`
}

// Board task related types

type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	Priority    entities.Priority `json:"priority" validate:"required"`
	StoreID     int               `json:"store_id" validate:"required"`
	DueDate     *time.Time        `json:"due_date"`
	Tags        []string          `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	IsPublic    bool              `json:"is_public"`
}

type UpdateTaskRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Priority    *entities.Priority `json:"priority"`
	DueDate     *time.Time         `json:"due_date"`
	Tags        *[]string          `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	IsPublic    *bool              `json:"is_public"`
}

type SetTaskStatusRequest struct {
	Status entities.TaskStatus `json:"status" validate:"required"`
}

type AddMemoRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Catalog related types

type CreateCatalogTaskRequest struct {
	Title                string                   `json:"title" validate:"required,max=200"`
	Type                 entities.CatalogTaskType `json:"type" validate:"required"`
	BaseTimeMinutes      int                      `json:"base_time_minutes" validate:"required,min=1"`
	BaseCountPerShift    int                      `json:"base_count_per_shift" validate:"required,min=1"`
	RestrictedTimeRanges []entities.TimeRange     `json:"restricted_time_ranges"`
	Priority             entities.Priority        `json:"priority" validate:"required"`
	Difficulty           int                      `json:"difficulty" validate:"min=1,max=5"`
	Tags                 []string                 `json:"tags" validate:"omitempty,max=10,dive,max=50"`
	ValidFrom            *time.Time               `json:"valid_from"`
	ValidTo              *time.Time               `json:"valid_to"`
}

// User and store related types

type CreateUserRequest struct {
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password" validate:"required,min=8"`
	DisplayName string            `json:"display_name" validate:"required,max=100"`
	Role        entities.UserRole `json:"role" validate:"required"`
	StoreID     int               `json:"store_id" validate:"required"`
	HourlyWage  *float64          `json:"hourly_wage" validate:"omitempty,gt=0"`
}

type UpdateUserRequest struct {
	DisplayName *string            `json:"display_name" validate:"omitempty,max=100"`
	Role        *entities.UserRole `json:"role"`
	StoreID     *int               `json:"store_id"`
	HourlyWage  *float64           `json:"hourly_wage" validate:"omitempty,gt=0"`
	IsActive    *bool              `json:"is_active"`
}

type CreateStoreRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Code     string `json:"code" validate:"required,max=20"`
	Timezone string `json:"timezone" validate:"required"`
}

// Auth related types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *entities.User `json:"user"`
}

type Claims struct {
	UserID      string            `json:"user_id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Role        entities.UserRole `json:"role"`
}
