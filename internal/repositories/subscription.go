package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

// SubscriptionRepository は課金プロバイダの契約状態をキャッシュします。
type SubscriptionRepository struct {
	DB *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

const subscriptionColumns = "id, user_id, name, stripe_id, stripe_status, stripe_price, ends_at, created_at, updated_at"

func (r *SubscriptionRepository) Create(ctx context.Context, s *models.Subscription) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO subscriptions (user_id, name, stripe_id, stripe_status, stripe_price, ends_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.UserID, s.Name, s.StripeID, s.StripeStatus, s.StripePrice, s.EndsAt)
	if err != nil {
		return fmt.Errorf("could not insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert ID: %w", err)
	}
	s.ID = int(id)
	return nil
}

// FindActive は有効 (active / trialing) な契約のうち最新のものを返します。
func (r *SubscriptionRepository) FindActive(ctx context.Context, userID int, name string) (*models.Subscription, error) {
	var s models.Subscription
	err := r.DB.GetContext(ctx, &s, "SELECT "+subscriptionColumns+` FROM subscriptions
		WHERE user_id = ? AND name = ? AND stripe_status IN ('active', 'trialing')
		ORDER BY id DESC LIMIT 1`, userID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionMissing
		}
		return nil, fmt.Errorf("could not query subscription: %w", err)
	}
	return &s, nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, s *models.Subscription) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE subscriptions SET stripe_status = ?, ends_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		s.StripeStatus, s.EndsAt, s.ID)
	if err != nil {
		return fmt.Errorf("could not update subscription: %w", err)
	}
	return requireAffected(res, ErrSubscriptionMissing)
}

// CountActiveMembers は有効な契約を持つ会員数を返します。
func (r *SubscriptionRepository) CountActiveMembers(ctx context.Context, name string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(DISTINCT user_id) FROM subscriptions
		WHERE name = ? AND stripe_status IN ('active', 'trialing')`, name)
	if err != nil {
		return 0, fmt.Errorf("could not count subscriptions: %w", err)
	}
	return n, nil
}
