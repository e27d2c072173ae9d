package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nagoyameshi/internal/billing"
	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

// PremiumPlan は有料プランの契約名です。
const PremiumPlan = "premium_plan"

// SubscriptionService は有料プランの契約を管理します。
// 決済そのものは billing.Provider に委譲し、契約状態のみローカルに保持します。
type SubscriptionService struct {
	users    *repositories.UserRepository
	subs     *repositories.SubscriptionRepository
	provider billing.Provider
	priceID  string
}

func NewSubscriptionService(users *repositories.UserRepository, subs *repositories.SubscriptionRepository, provider billing.Provider, priceID string) *SubscriptionService {
	return &SubscriptionService{users: users, subs: subs, provider: provider, priceID: priceID}
}

// IsPremium は会員が有効な有料プラン契約を持つかを返します。
func (s *SubscriptionService) IsPremium(ctx context.Context, userID int) (bool, error) {
	_, err := s.subs.FindActive(ctx, userID, PremiumPlan)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionMissing) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Current は有効な契約を返します。
func (s *SubscriptionService) Current(ctx context.Context, userID int) (*models.Subscription, error) {
	sub, err := s.subs.FindActive(ctx, userID, PremiumPlan)
	if errors.Is(err, repositories.ErrSubscriptionMissing) {
		return nil, ErrNotSubscribed
	}
	return sub, err
}

// CreateSetupIntent は支払い方法入力フォーム用のクライアントシークレットを返します。
func (s *SubscriptionService) CreateSetupIntent(ctx context.Context, userID int) (string, error) {
	customerID, err := s.ensureCustomer(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.provider.CreateSetupIntent(ctx, customerID)
}

// Subscribe は有料プランに登録します。
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int, paymentMethodID string) (*models.Subscription, error) {
	premium, err := s.IsPremium(ctx, userID)
	if err != nil {
		return nil, err
	}
	if premium {
		return nil, ErrAlreadySubscribed
	}

	customerID, err := s.ensureCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}
	remote, err := s.provider.Subscribe(ctx, customerID, s.priceID, paymentMethodID)
	if err != nil {
		log.Printf("Failed to subscribe user %d: %v", userID, err)
		return nil, err
	}
	if !remote.IsActive() {
		// 未完了の契約は残さない。再試行で二重契約にならないよう即時解約する
		log.Printf("Subscription %s for user %d is %s; canceling", remote.ID, userID, remote.Status)
		if _, err := s.provider.Cancel(ctx, remote.ID); err != nil {
			log.Printf("Failed to cancel incomplete subscription %s: %v", remote.ID, err)
		}
		return nil, ErrPaymentIncomplete
	}

	price := s.priceID
	sub := &models.Subscription{
		UserID:       userID,
		Name:         PremiumPlan,
		StripeID:     remote.ID,
		StripeStatus: remote.Status,
		StripePrice:  &price,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdatePaymentMethod はデフォルトの支払い方法を変更します。
func (s *SubscriptionService) UpdatePaymentMethod(ctx context.Context, userID int, paymentMethodID string) error {
	customerID, err := s.ensureCustomer(ctx, userID)
	if err != nil {
		return err
	}
	return s.provider.UpdateDefaultPaymentMethod(ctx, customerID, paymentMethodID)
}

// Cancel は有料プランを即時解約します。
func (s *SubscriptionService) Cancel(ctx context.Context, userID int) error {
	sub, err := s.Current(ctx, userID)
	if err != nil {
		return err
	}
	remote, err := s.provider.Cancel(ctx, sub.StripeID)
	if err != nil {
		log.Printf("Failed to cancel subscription %s: %v", sub.StripeID, err)
		return err
	}

	now := time.Now()
	sub.StripeStatus = remote.Status
	sub.EndsAt = &now
	return s.subs.UpdateStatus(ctx, sub)
}

// CountPremium は有料会員数です。
func (s *SubscriptionService) CountPremium(ctx context.Context) (int, error) {
	return s.subs.CountActiveMembers(ctx, PremiumPlan)
}

func (s *SubscriptionService) ensureCustomer(ctx context.Context, userID int) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.StripeID != nil && *user.StripeID != "" {
		return *user.StripeID, nil
	}
	customerID, err := s.provider.CreateCustomer(ctx, user.Email, user.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create billing customer: %w", err)
	}
	if err := s.users.SetStripeID(ctx, userID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}
