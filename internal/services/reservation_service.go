package services

import (
	"context"
	"fmt"
	"time"

	"nagoyameshi/internal/access"
	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

type ReservationService struct {
	reservations *repositories.ReservationRepository
	restaurants  *repositories.RestaurantRepository
}

func NewReservationService(reservations *repositories.ReservationRepository, restaurants *repositories.RestaurantRepository) *ReservationService {
	return &ReservationService{reservations: reservations, restaurants: restaurants}
}

// List は会員本人の予約一覧です。
func (s *ReservationService) List(ctx context.Context, userID, page int) (models.Page[models.Reservation], error) {
	page = max(page, 1)
	list, total, err := s.reservations.ListByUser(ctx, userID, reservationsPerPage, models.Offset(page, reservationsPerPage))
	if err != nil {
		return models.Page[models.Reservation]{}, err
	}
	return models.NewPage(list, total, page, reservationsPerPage), nil
}

func (s *ReservationService) Create(ctx context.Context, userID, restaurantID int, req models.ReservationRequest) (*models.Reservation, error) {
	ok, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrRestaurantNotFound
	}

	reservedAt, err := time.ParseInLocation("2006-01-02 15:04", req.ReservationDate+" "+req.ReservationTime, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation datetime: %w", err)
	}
	return s.reservations.Create(ctx, &models.Reservation{
		ReservedDatetime: reservedAt,
		NumberOfPeople:   req.NumberOfPeople,
		RestaurantID:     restaurantID,
		UserID:           userID,
	})
}

// Cancel は本人の予約のみ取り消します。
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID int) error {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if err := access.Authorize(userID, reservation); err != nil {
		return err
	}
	return s.reservations.Delete(ctx, reservationID)
}

func (s *ReservationService) Count(ctx context.Context) (int, error) {
	return s.reservations.Count(ctx)
}
