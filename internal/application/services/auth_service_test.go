package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/domain/performance"
	"github.com/shiftops/core/internal/infrastructure/config"
	"github.com/shiftops/core/internal/ports"
)

func newAuthFixture(t *testing.T, user *entities.User) *AuthService {
	t.Helper()

	userRepo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*entities.User, error) {
			if user == nil || user.Email != email {
				return nil, entities.ErrUserNotFound
			}
			return user, nil
		},
	}

	jwtCfg := config.JWTConfig{Secret: "test-secret-key", ExpiresIn: time.Hour, Issuer: "shiftops-test"}
	return NewAuthService(userRepo, jwtCfg, newTestLogger(t))
}

func TestLoginAndValidateToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	user := activeStaff(uuid.New())
	user.PasswordHash = string(hash)
	svc := newAuthFixture(t, user)

	resp, err := svc.Login(context.Background(), ports.LoginRequest{Email: user.Email, Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("bad auth response: %+v", resp)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash must not leak in the response")
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("claims user = %s, want %s", claims.UserID, user.ID)
	}
	if claims.DisplayName != user.DisplayName {
		t.Errorf("claims name = %s, want %s", claims.DisplayName, user.DisplayName)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	user := activeStaff(uuid.New())
	user.PasswordHash = string(hash)
	svc := newAuthFixture(t, user)

	_, err := svc.Login(context.Background(), ports.LoginRequest{Email: user.Email, Password: "wrong"})
	if !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret11"), bcrypt.MinCost)
	user := activeStaff(uuid.New())
	user.PasswordHash = string(hash)
	user.IsActive = false
	svc := newAuthFixture(t, user)

	_, err := svc.Login(context.Background(), ports.LoginRequest{Email: user.Email, Password: "secret11"})
	if !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthFixture(t, nil)
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should not validate")
	}
}

func TestGetUserPerformanceNoData(t *testing.T) {
	userID := uuid.New()
	perfRepo := &mockPerfRepo{
		GetUserRecordsFunc: func(ctx context.Context, id uuid.UUID) ([]performance.Record, error) {
			return nil, nil
		},
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entities.User, error) {
			return activeStaff(id), nil
		},
	}
	svc := NewPerformanceService(perfRepo, userRepo, newTestLogger(t))

	perf, err := svc.GetUserPerformance(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perf.Summary.Level != performance.LevelNoData {
		t.Errorf("level = %s, want no_data", perf.Summary.Level)
	}
}

func TestGetUserPerformanceAggregates(t *testing.T) {
	userID := uuid.New()
	perfRepo := &mockPerfRepo{
		GetUserRecordsFunc: func(ctx context.Context, id uuid.UUID) ([]performance.Record, error) {
			return []performance.Record{
				{UserID: id.String(), TaskID: 1, EfficiencyRate: 90, ConsistencyRate: 90, ProactivityRate: 90, FrequencyRate: 90, CompletionRate: 90, AccuracyRate: 90, TotalExecutions: 12},
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entities.User, error) {
			return activeStaff(id), nil
		},
	}
	svc := NewPerformanceService(perfRepo, userRepo, newTestLogger(t))

	perf, err := svc.GetUserPerformance(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perf.Summary.Score != 90 {
		t.Errorf("score = %.1f, want 90", perf.Summary.Score)
	}
	if perf.Summary.Level != performance.LevelHigh {
		t.Errorf("level = %s, want high", perf.Summary.Level)
	}
	if perf.Summary.TotalExecutions != 12 {
		t.Errorf("executions = %d, want 12", perf.Summary.TotalExecutions)
	}
}
