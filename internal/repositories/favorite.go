package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

// FavoriteRepository は restaurant_user (お気に入り) を操作します。
type FavoriteRepository struct {
	DB *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// Attach はお気に入りに追加します。登録済みの場合は何もしません。
func (r *FavoriteRepository) Attach(ctx context.Context, userID, restaurantID int) error {
	_, err := r.DB.ExecContext(ctx, "INSERT INTO restaurant_user (restaurant_id, user_id) VALUES (?, ?)", restaurantID, userID)
	if err != nil && !isDuplicateEntry(err) {
		return fmt.Errorf("could not attach favorite: %w", err)
	}
	return nil
}

// Detach はお気に入りから外します。未登録でもエラーにしません。
func (r *FavoriteRepository) Detach(ctx context.Context, userID, restaurantID int) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM restaurant_user WHERE restaurant_id = ? AND user_id = ?", restaurantID, userID); err != nil {
		return fmt.Errorf("could not detach favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, restaurantID int) (bool, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM restaurant_user WHERE restaurant_id = ? AND user_id = ?", restaurantID, userID); err != nil {
		return false, fmt.Errorf("could not query favorite: %w", err)
	}
	return n > 0, nil
}

// ListByUser はお気に入り登録日時の新しい順に店舗を返します。
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.FavoriteRestaurant, int, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM restaurant_user WHERE user_id = ?", userID); err != nil {
		return nil, 0, fmt.Errorf("could not count favorites: %w", err)
	}
	list := []models.FavoriteRestaurant{}
	query := "SELECT " + restaurantColumns + `, ru.created_at AS favorited_at
		FROM restaurant_user ru JOIN restaurants r ON r.id = ru.restaurant_id
		WHERE ru.user_id = ? ORDER BY ru.created_at DESC, ru.id DESC LIMIT ? OFFSET ?`
	if err := r.DB.SelectContext(ctx, &list, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("could not list favorites: %w", err)
	}

	restaurants := make([]models.Restaurant, len(list))
	for i := range list {
		restaurants[i] = list[i].Restaurant
	}
	if err := attachCategories(ctx, r.DB, restaurants); err != nil {
		return nil, 0, err
	}
	for i := range list {
		list[i].Restaurant = restaurants[i]
	}
	return list, total, nil
}
