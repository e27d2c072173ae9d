package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

const reservationSelect = `SELECT rs.id, rs.reserved_datetime, rs.number_of_people, rs.restaurant_id, rs.user_id,
	r.name AS restaurant_name, rs.created_at, rs.updated_at
	FROM reservations rs JOIN restaurants r ON r.id = rs.restaurant_id`

type ReservationRepository struct {
	DB *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

func (r *ReservationRepository) Create(ctx context.Context, rs *models.Reservation) (*models.Reservation, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reservations (reserved_datetime, number_of_people, restaurant_id, user_id) VALUES (?, ?, ?, ?)",
		rs.ReservedDatetime, rs.NumberOfPeople, rs.RestaurantID, rs.UserID)
	if err != nil {
		return nil, fmt.Errorf("could not insert reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int) (*models.Reservation, error) {
	var rs models.Reservation
	if err := r.DB.GetContext(ctx, &rs, reservationSelect+" WHERE rs.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("could not query reservation: %w", err)
	}
	return &rs, nil
}

// ListByUser は会員の予約を予約日時の新しい順に返します。
func (r *ReservationRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.Reservation, int, error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM reservations WHERE user_id = ?", userID); err != nil {
		return nil, 0, fmt.Errorf("could not count reservations: %w", err)
	}
	list := []models.Reservation{}
	query := reservationSelect + " WHERE rs.user_id = ? ORDER BY rs.reserved_datetime DESC, rs.id DESC LIMIT ? OFFSET ?"
	if err := r.DB.SelectContext(ctx, &list, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("could not list reservations: %w", err)
	}
	return list, total, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete reservation: %w", err)
	}
	return requireAffected(res, ErrReservationNotFound)
}

func (r *ReservationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM reservations"); err != nil {
		return 0, fmt.Errorf("could not count reservations: %w", err)
	}
	return n, nil
}
