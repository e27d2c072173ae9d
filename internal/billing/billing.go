// Package billing は有料プランの決済を外部の課金プロバイダに委譲します。
package billing

import (
	"context"
	"time"
)

// Subscription はプロバイダ側の契約状態です。
type Subscription struct {
	ID               string
	Status           string
	CurrentPeriodEnd time.Time
}

// IsActive は契約が有料機能を解放する状態 (active / trialing) かを返します。
func (s *Subscription) IsActive() bool {
	return s != nil && (s.Status == "active" || s.Status == "trialing")
}

// Provider は課金プロバイダとのやり取りを抽象化します。
type Provider interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	// CreateSetupIntent は支払い方法登録用のクライアントシークレットを返します。
	CreateSetupIntent(ctx context.Context, customerID string) (string, error)
	Subscribe(ctx context.Context, customerID, priceID, paymentMethodID string) (*Subscription, error)
	UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	// Cancel は契約を即時解約します。
	Cancel(ctx context.Context, subscriptionID string) (*Subscription, error)
}
