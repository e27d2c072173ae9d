package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

const reviewSelect = `SELECT rv.id, rv.score, rv.content, rv.restaurant_id, rv.user_id, u.name AS user_name,
	rv.created_at, rv.updated_at
	FROM reviews rv JOIN users u ON u.id = rv.user_id`

type ReviewRepository struct {
	DB *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) (*models.Review, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (score, content, restaurant_id, user_id) VALUES (?, ?, ?, ?)",
		rv.Score, rv.Content, rv.RestaurantID, rv.UserID)
	if err != nil {
		return nil, fmt.Errorf("could not insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.GetContext(ctx, &rv, reviewSelect+" WHERE rv.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("could not query review: %w", err)
	}
	return &rv, nil
}

// ListLatest は店舗の最新レビューを最大 limit 件返します (ページングなし)。
func (r *ReviewRepository) ListLatest(ctx context.Context, restaurantID, limit int) ([]models.Review, error) {
	list := []models.Review{}
	query := reviewSelect + " WHERE rv.restaurant_id = ? ORDER BY rv.created_at DESC, rv.id DESC LIMIT ?"
	if err := r.DB.SelectContext(ctx, &list, query, restaurantID, limit); err != nil {
		return nil, fmt.Errorf("could not list reviews: %w", err)
	}
	return list, nil
}

// ListPaged は店舗のレビューを新しい順にページングして返します。
func (r *ReviewRepository) ListPaged(ctx context.Context, restaurantID, limit, offset int) ([]models.Review, int, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM reviews WHERE restaurant_id = ?", restaurantID); err != nil {
		return nil, 0, fmt.Errorf("could not count reviews: %w", err)
	}
	list := []models.Review{}
	query := reviewSelect + " WHERE rv.restaurant_id = ? ORDER BY rv.created_at DESC, rv.id DESC LIMIT ? OFFSET ?"
	if err := r.DB.SelectContext(ctx, &list, query, restaurantID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("could not list reviews: %w", err)
	}
	return list, total, nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv *models.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET score = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		rv.Score, rv.Content, rv.ID)
	if err != nil {
		return fmt.Errorf("could not update review: %w", err)
	}
	return requireAffected(res, ErrReviewNotFound)
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete review: %w", err)
	}
	return requireAffected(res, ErrReviewNotFound)
}
