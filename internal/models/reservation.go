package models

import "time"

// Reservation は会員の予約です。RestaurantName は一覧表示用に結合して取得します。
type Reservation struct {
	ID               int       `db:"id" json:"id"`
	ReservedDatetime time.Time `db:"reserved_datetime" json:"reserved_datetime"`
	NumberOfPeople   int       `db:"number_of_people" json:"number_of_people"`
	RestaurantID     int       `db:"restaurant_id" json:"restaurant_id"`
	UserID           int       `db:"user_id" json:"user_id"`
	RestaurantName   string    `db:"restaurant_name" json:"restaurant_name"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Reservation) OwnerID() int { return r.UserID }

type ReservationRequest struct {
	ReservationDate string `form:"reservation_date" json:"reservation_date" binding:"required,datetime=2006-01-02"`
	ReservationTime string `form:"reservation_time" json:"reservation_time" binding:"required,datetime=15:04"`
	NumberOfPeople  int    `form:"number_of_people" json:"number_of_people" binding:"required,min=1,max=50"`
}

// Review は会員の店舗レビューです。
type Review struct {
	ID           int       `db:"id" json:"id"`
	Score        int       `db:"score" json:"score"`
	Content      string    `db:"content" json:"content"`
	RestaurantID int       `db:"restaurant_id" json:"restaurant_id"`
	UserID       int       `db:"user_id" json:"user_id"`
	UserName     string    `db:"user_name" json:"user_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Review) OwnerID() int { return r.UserID }

type ReviewRequest struct {
	Score   int    `form:"score" json:"score" binding:"required,oneof=1 2 3 4 5"`
	Content string `form:"content" json:"content" binding:"required"`
}
