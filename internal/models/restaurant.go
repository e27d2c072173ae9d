package models

import "time"

// Restaurant は店舗情報です。
type Restaurant struct {
	ID              int              `db:"id" json:"id"`
	Name            string           `db:"name" json:"name"`
	Image           string           `db:"image" json:"image"`
	ImageURL        string           `db:"-" json:"image_url,omitempty"`
	Description     string           `db:"description" json:"description"`
	LowestPrice     int              `db:"lowest_price" json:"lowest_price"`
	HighestPrice    int              `db:"highest_price" json:"highest_price"`
	PostalCode      string           `db:"postal_code" json:"postal_code"`
	Address         string           `db:"address" json:"address"`
	OpeningTime     string           `db:"opening_time" json:"opening_time"`
	ClosingTime     string           `db:"closing_time" json:"closing_time"`
	SeatingCapacity int              `db:"seating_capacity" json:"seating_capacity"`
	AverageScore    *float64         `db:"average_score" json:"average_score"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
	Categories      []Category       `db:"-" json:"categories"`
	RegularHolidays []RegularHoliday `db:"-" json:"regular_holidays"`
}

// FavoriteRestaurant はお気に入り一覧の1件です。
type FavoriteRestaurant struct {
	Restaurant
	FavoritedAt time.Time `db:"favorited_at" json:"favorited_at"`
}

type Category struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RegularHoliday は定休日マスタ (マイグレーションで投入) です。
type RegularHoliday struct {
	ID          int       `db:"id" json:"id"`
	Day         string    `db:"day" json:"day"`
	HolidayCode int       `db:"holiday_code" json:"holiday_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// RestaurantRequest は店舗の登録・更新フォームです。
// 画像は multipart の "image" フィールドで別途受け取ります。
type RestaurantRequest struct {
	Name              string `form:"name" json:"name" binding:"required,max=255"`
	Description       string `form:"description" json:"description" binding:"required"`
	LowestPrice       int    `form:"lowest_price" json:"lowest_price" binding:"min=0,ltefield=HighestPrice"`
	HighestPrice      int    `form:"highest_price" json:"highest_price" binding:"required,min=0,gtefield=LowestPrice"`
	PostalCode        string `form:"postal_code" json:"postal_code" binding:"required,len=7,numeric"`
	Address           string `form:"address" json:"address" binding:"required,max=255"`
	OpeningTime       string `form:"opening_time" json:"opening_time" binding:"required,datetime=15:04,time_before=ClosingTime"`
	ClosingTime       string `form:"closing_time" json:"closing_time" binding:"required,datetime=15:04"`
	SeatingCapacity   int    `form:"seating_capacity" json:"seating_capacity" binding:"min=0"`
	CategoryIDs       []int  `form:"category_ids" json:"category_ids" binding:"dive,min=1"`
	RegularHolidayIDs []int  `form:"regular_holiday_ids" json:"regular_holiday_ids" binding:"dive,min=1"`
}

type CategoryRequest struct {
	Name string `form:"name" json:"name" binding:"required,max=255"`
}
