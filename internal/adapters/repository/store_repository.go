package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/ports"
)

// StoreRepositoryImpl implements the StoreRepository interface.
type StoreRepositoryImpl struct {
	db *sqlx.DB
}

// NewStoreRepository creates a new store repository.
func NewStoreRepository(db *sqlx.DB) ports.StoreRepository {
	return &StoreRepositoryImpl{db: db}
}

func (r *StoreRepositoryImpl) Create(ctx context.Context, store *entities.Store) error {
	query := `
		INSERT INTO stores (name, code, timezone, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		store.Name, store.Code, store.Timezone, store.IsActive,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	return nil
}

func (r *StoreRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Store, error) {
	query := `
		SELECT id, name, code, timezone, is_active, created_at, updated_at
		FROM stores WHERE id = $1`

	var store entities.Store
	err := r.db.GetContext(ctx, &store, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrStoreNotFound
		}
		return nil, fmt.Errorf("get store by id: %w", err)
	}

	return &store, nil
}

func (r *StoreRepositoryImpl) List(ctx context.Context) ([]entities.Store, error) {
	query := `
		SELECT id, name, code, timezone, is_active, created_at, updated_at
		FROM stores ORDER BY name`

	var stores []entities.Store
	err := r.db.SelectContext(ctx, &stores, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	return stores, nil
}
