package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

type CategoryRepository struct {
	DB *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.DB.SelectContext(ctx, &categories, "SELECT id, name, created_at, updated_at FROM categories ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	return categories, nil
}

// List は名前の部分一致でカテゴリをページングして返します。
func (r *CategoryRepository) List(ctx context.Context, keyword string, limit, offset int) ([]models.Category, int, error) {
	where := ""
	var args []interface{}
	if keyword != "" {
		where = " WHERE name LIKE ?"
		args = append(args, "%"+keyword+"%")
	}
	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM categories"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("could not count categories: %w", err)
	}
	categories := []models.Category{}
	query := "SELECT id, name, created_at, updated_at FROM categories" + where + " ORDER BY id ASC LIMIT ? OFFSET ?"
	if err := r.DB.SelectContext(ctx, &categories, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("could not list categories: %w", err)
	}
	return categories, total, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := r.DB.GetContext(ctx, &c, "SELECT id, name, created_at, updated_at FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("could not query category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("could not insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

func (r *CategoryRepository) Update(ctx context.Context, id int, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE categories SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("could not update category: %w", err)
	}
	return requireAffected(res, ErrCategoryNotFound)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete category: %w", err)
	}
	return requireAffected(res, ErrCategoryNotFound)
}

// RegularHolidayRepository は定休日マスタを読み出します。
type RegularHolidayRepository struct {
	DB *sqlx.DB
}

func NewRegularHolidayRepository(db *sqlx.DB) *RegularHolidayRepository {
	return &RegularHolidayRepository{DB: db}
}

func (r *RegularHolidayRepository) All(ctx context.Context) ([]models.RegularHoliday, error) {
	holidays := []models.RegularHoliday{}
	if err := r.DB.SelectContext(ctx, &holidays,
		"SELECT id, day, holiday_code, created_at FROM regular_holidays ORDER BY holiday_code ASC"); err != nil {
		return nil, fmt.Errorf("could not list regular holidays: %w", err)
	}
	return holidays, nil
}
