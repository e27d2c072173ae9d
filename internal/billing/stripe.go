package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider は Stripe API を使う Provider です。
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, nil)}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	c, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create customer: %w", err)
	}
	return c.ID, nil
}

func (p *StripeProvider) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	params := &stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	si, err := p.api.SetupIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create setup intent: %w", err)
	}
	return si.ClientSecret, nil
}

func (p *StripeProvider) Subscribe(ctx context.Context, customerID, priceID, paymentMethodID string) (*Subscription, error) {
	if err := p.UpdateDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		return nil, err
	}
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		DefaultPaymentMethod: stripe.String(paymentMethodID),
		// 初回決済が完了しない場合は契約を作らずエラーにする
		PaymentBehavior: stripe.String("error_if_incomplete"),
	}
	params.Context = ctx
	sub, err := p.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create subscription: %w", err)
	}
	return toSubscription(sub), nil
}

// UpdateDefaultPaymentMethod は支払い方法を顧客に紐付け、請求のデフォルトにします。
func (p *StripeProvider) UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	attach := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	attach.Context = ctx
	if _, err := p.api.PaymentMethods.Attach(paymentMethodID, attach); err != nil {
		return fmt.Errorf("stripe: attach payment method: %w", err)
	}

	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx
	if _, err := p.api.Customers.Update(customerID, params); err != nil {
		return fmt.Errorf("stripe: update customer: %w", err)
	}
	return nil
}

func (p *StripeProvider) Cancel(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	sub, err := p.api.Subscriptions.Cancel(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: cancel subscription: %w", err)
	}
	return toSubscription(sub), nil
}

func toSubscription(sub *stripe.Subscription) *Subscription {
	return &Subscription{
		ID:               sub.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0),
	}
}
