package models

import "time"

// Term は利用規約です。最新の1件が有効になります。
type Term struct {
	ID        int       `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type TermRequest struct {
	Content string `form:"content" json:"content" binding:"required"`
}

// Company は運営会社の概要です。
type Company struct {
	ID                int       `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	PostalCode        string    `db:"postal_code" json:"postal_code"`
	Address           string    `db:"address" json:"address"`
	Representative    string    `db:"representative" json:"representative"`
	EstablishmentDate string    `db:"establishment_date" json:"establishment_date"`
	Capital           string    `db:"capital" json:"capital"`
	Business          string    `db:"business" json:"business"`
	NumberOfEmployees string    `db:"number_of_employees" json:"number_of_employees"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

type CompanyRequest struct {
	Name              string `form:"name" json:"name" binding:"required,max=255"`
	PostalCode        string `form:"postal_code" json:"postal_code" binding:"required,len=7,numeric"`
	Address           string `form:"address" json:"address" binding:"required,max=255"`
	Representative    string `form:"representative" json:"representative" binding:"required,max=255"`
	EstablishmentDate string `form:"establishment_date" json:"establishment_date" binding:"required,max=255"`
	Capital           string `form:"capital" json:"capital" binding:"required,max=255"`
	Business          string `form:"business" json:"business" binding:"required,max=255"`
	NumberOfEmployees string `form:"number_of_employees" json:"number_of_employees" binding:"required,max=255"`
}

// Subscription は課金プロバイダの契約状態をローカルにキャッシュしたものです。
type Subscription struct {
	ID           int        `db:"id" json:"id"`
	UserID       int        `db:"user_id" json:"user_id"`
	Name         string     `db:"name" json:"name"`
	StripeID     string     `db:"stripe_id" json:"stripe_id"`
	StripeStatus string     `db:"stripe_status" json:"stripe_status"`
	StripePrice  *string    `db:"stripe_price" json:"stripe_price"`
	EndsAt       *time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type PaymentMethodRequest struct {
	PaymentMethodID string `form:"payment_method_id" json:"payment_method_id" binding:"required"`
}
