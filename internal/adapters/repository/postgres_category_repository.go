package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var _ domain.CategoryRepository = (*PostgresCategoryRepository)(nil)

type PostgresCategoryRepository struct {
	db *sqlx.DB
}

func NewPostgresCategoryRepository(db *sqlx.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO categories (id, user_id, name, created_at)
		VALUES (:id, :user_id, :name, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return domain.ErrCategoryExists
		case pgForeignKeyViolation:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: create category failed: %w", err)
	}

	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c domain.Category
	query := `SELECT id, user_id, name, created_at FROM categories WHERE id = $1`

	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("repository: get category failed: %w", err)
	}

	return &c, nil
}

func (r *PostgresCategoryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	categories := []*domain.Category{}
	query := `
		SELECT id, user_id, name, created_at FROM categories
		WHERE user_id = $1
		ORDER BY name ASC`

	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list categories failed: %w", err)
	}

	return categories, nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("repository: delete category failed: %w", err)
	}

	return expectOneRow(result, domain.ErrCategoryNotFound)
}
