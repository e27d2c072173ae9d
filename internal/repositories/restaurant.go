package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

const restaurantColumns = `r.id, r.name, r.image, r.description, r.lowest_price, r.highest_price,
	r.postal_code, r.address, r.opening_time, r.closing_time, r.seating_capacity,
	(SELECT AVG(rv.score) FROM reviews rv WHERE rv.restaurant_id = r.id) AS average_score,
	r.created_at, r.updated_at`

// RestaurantRepository は店舗と、そのカテゴリ・定休日の中間テーブルを操作します。
type RestaurantRepository struct {
	DB *sqlx.DB
}

func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

// Search は優先順位適用済みの条件で店舗を検索します。
// f は models.RestaurantFilter.Effective() を通したものを渡してください。
func (r *RestaurantRepository) Search(ctx context.Context, f models.RestaurantFilter, limit, offset int) ([]models.Restaurant, int, error) {
	where := ""
	var args []interface{}
	switch {
	case f.Keyword != "":
		like := "%" + f.Keyword + "%"
		where = ` WHERE (r.name LIKE ? OR r.address LIKE ? OR EXISTS (
			SELECT 1 FROM category_restaurant cr JOIN categories c ON c.id = cr.category_id
			WHERE cr.restaurant_id = r.id AND c.name LIKE ?))`
		args = append(args, like, like, like)
	case f.CategoryID != nil:
		where = ` WHERE EXISTS (SELECT 1 FROM category_restaurant cr WHERE cr.restaurant_id = r.id AND cr.category_id = ?)`
		args = append(args, *f.CategoryID)
	case f.MaxPrice != nil:
		where = ` WHERE r.lowest_price <= ?`
		args = append(args, *f.MaxPrice)
	}

	order := " ORDER BY r.created_at DESC, r.id DESC"
	if f.Sort == models.SortLowestPrice {
		order = " ORDER BY r.lowest_price ASC, r.created_at DESC, r.id DESC"
	}
	return r.page(ctx, where, order, args, limit, offset)
}

// AdminList は店舗名の部分一致で一覧を返します (管理画面用)。
func (r *RestaurantRepository) AdminList(ctx context.Context, keyword string, limit, offset int) ([]models.Restaurant, int, error) {
	where := ""
	var args []interface{}
	if keyword != "" {
		where = " WHERE r.name LIKE ?"
		args = append(args, "%"+keyword+"%")
	}
	return r.page(ctx, where, " ORDER BY r.id ASC", args, limit, offset)
}

func (r *RestaurantRepository) page(ctx context.Context, where, order string, args []interface{}, limit, offset int) ([]models.Restaurant, int, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM restaurants r"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("could not count restaurants: %w", err)
	}

	restaurants := []models.Restaurant{}
	query := "SELECT " + restaurantColumns + " FROM restaurants r" + where + order + " LIMIT ? OFFSET ?"
	if err := r.DB.SelectContext(ctx, &restaurants, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("could not list restaurants: %w", err)
	}
	if err := attachCategories(ctx, r.DB, restaurants); err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

// ListTopRated は平均評価の高い順に店舗を返します。レビューのない店舗は後ろに並びます。
func (r *RestaurantRepository) ListTopRated(ctx context.Context, limit int) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	query := "SELECT " + restaurantColumns + " FROM restaurants r ORDER BY average_score DESC, r.id ASC LIMIT ?"
	if err := r.DB.SelectContext(ctx, &restaurants, query, limit); err != nil {
		return nil, fmt.Errorf("could not list top rated restaurants: %w", err)
	}
	return restaurants, attachCategories(ctx, r.DB, restaurants)
}

// ListNewest は新着順に店舗を返します。
func (r *RestaurantRepository) ListNewest(ctx context.Context, limit int) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	query := "SELECT " + restaurantColumns + " FROM restaurants r ORDER BY r.created_at DESC, r.id DESC LIMIT ?"
	if err := r.DB.SelectContext(ctx, &restaurants, query, limit); err != nil {
		return nil, fmt.Errorf("could not list new restaurants: %w", err)
	}
	return restaurants, attachCategories(ctx, r.DB, restaurants)
}

// FindByID はカテゴリと定休日を含めて店舗を取得します。
func (r *RestaurantRepository) FindByID(ctx context.Context, id int) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.DB.GetContext(ctx, &rest, "SELECT "+restaurantColumns+" FROM restaurants r WHERE r.id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("could not query restaurant: %w", err)
	}

	list := []models.Restaurant{rest}
	if err := attachCategories(ctx, r.DB, list); err != nil {
		return nil, err
	}
	rest = list[0]

	rest.RegularHolidays = []models.RegularHoliday{}
	err = r.DB.SelectContext(ctx, &rest.RegularHolidays, `SELECT h.id, h.day, h.holiday_code, h.created_at
		FROM regular_holidays h JOIN regular_holiday_restaurant hr ON hr.regular_holiday_id = h.id
		WHERE hr.restaurant_id = ? ORDER BY h.holiday_code ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("could not query regular holidays: %w", err)
	}
	return &rest, nil
}

// Exists は店舗が存在するかを返します。
func (r *RestaurantRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM restaurants WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("could not query restaurant: %w", err)
	}
	return n > 0, nil
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM restaurants"); err != nil {
		return 0, fmt.Errorf("could not count restaurants: %w", err)
	}
	return n, nil
}

// Create は店舗と中間テーブルを1トランザクションで登録します。
func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant, categoryIDs, holidayIDs []int) (*models.Restaurant, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO restaurants (name, image, description, lowest_price, highest_price,
		postal_code, address, opening_time, closing_time, seating_capacity) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rest.Name, rest.Image, rest.Description, rest.LowestPrice, rest.HighestPrice,
		rest.PostalCode, rest.Address, rest.OpeningTime, rest.ClosingTime, rest.SeatingCapacity)
	if err != nil {
		return nil, fmt.Errorf("could not insert restaurant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	if err := syncRelations(ctx, tx, int(id), categoryIDs, holidayIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit restaurant: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

// Update は店舗を更新し、カテゴリ・定休日を置き換えます。
func (r *RestaurantRepository) Update(ctx context.Context, rest *models.Restaurant, categoryIDs, holidayIDs []int) (*models.Restaurant, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE restaurants SET name = ?, image = ?, description = ?, lowest_price = ?,
		highest_price = ?, postal_code = ?, address = ?, opening_time = ?, closing_time = ?, seating_capacity = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rest.Name, rest.Image, rest.Description, rest.LowestPrice, rest.HighestPrice,
		rest.PostalCode, rest.Address, rest.OpeningTime, rest.ClosingTime, rest.SeatingCapacity, rest.ID)
	if err != nil {
		return nil, fmt.Errorf("could not update restaurant: %w", err)
	}
	if err := requireAffected(res, ErrRestaurantNotFound); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM category_restaurant WHERE restaurant_id = ?", rest.ID); err != nil {
		return nil, fmt.Errorf("could not clear categories: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM regular_holiday_restaurant WHERE restaurant_id = ?", rest.ID); err != nil {
		return nil, fmt.Errorf("could not clear regular holidays: %w", err)
	}
	if err := syncRelations(ctx, tx, rest.ID, categoryIDs, holidayIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit restaurant: %w", err)
	}
	return r.FindByID(ctx, rest.ID)
}

// Delete は店舗を削除します。予約・レビュー・お気に入り・中間テーブルは外部キーで連鎖削除されます。
func (r *RestaurantRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM restaurants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete restaurant: %w", err)
	}
	return requireAffected(res, ErrRestaurantNotFound)
}

func syncRelations(ctx context.Context, tx *sqlx.Tx, restaurantID int, categoryIDs, holidayIDs []int) error {
	for _, cid := range uniqueIDs(categoryIDs) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO category_restaurant (restaurant_id, category_id) VALUES (?, ?)", restaurantID, cid); err != nil {
			return fmt.Errorf("could not attach category %d: %w", cid, err)
		}
	}
	for _, hid := range uniqueIDs(holidayIDs) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO regular_holiday_restaurant (restaurant_id, regular_holiday_id) VALUES (?, ?)", restaurantID, hid); err != nil {
			return fmt.Errorf("could not attach regular holiday %d: %w", hid, err)
		}
	}
	return nil
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

type restaurantCategory struct {
	RestaurantID int `db:"restaurant_id"`
	models.Category
}

// attachCategories は一覧の店舗にカテゴリをまとめて読み込みます。
// 定休日は詳細でのみ読み込むため、一覧では空配列にしておきます。
func attachCategories(ctx context.Context, db *sqlx.DB, restaurants []models.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}
	ids := make([]int, len(restaurants))
	for i := range restaurants {
		ids[i] = restaurants[i].ID
		restaurants[i].Categories = []models.Category{}
		if restaurants[i].RegularHolidays == nil {
			restaurants[i].RegularHolidays = []models.RegularHoliday{}
		}
	}

	query, args, err := sqlx.In(`SELECT cr.restaurant_id, c.id, c.name, c.created_at, c.updated_at
		FROM categories c JOIN category_restaurant cr ON cr.category_id = c.id
		WHERE cr.restaurant_id IN (?) ORDER BY c.id ASC`, ids)
	if err != nil {
		return fmt.Errorf("could not build category query: %w", err)
	}
	var rows []restaurantCategory
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return fmt.Errorf("could not query categories: %w", err)
	}

	index := make(map[int]int, len(restaurants))
	for i := range restaurants {
		index[restaurants[i].ID] = i
	}
	for _, row := range rows {
		if i, ok := index[row.RestaurantID]; ok {
			restaurants[i].Categories = append(restaurants[i].Categories, row.Category)
		}
	}
	return nil
}
