package services

import (
	"context"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

type FavoriteService struct {
	favorites   *repositories.FavoriteRepository
	restaurants *repositories.RestaurantRepository
}

func NewFavoriteService(favorites *repositories.FavoriteRepository, restaurants *repositories.RestaurantRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, restaurants: restaurants}
}

func (s *FavoriteService) List(ctx context.Context, userID, page int) (models.Page[models.FavoriteRestaurant], error) {
	page = max(page, 1)
	list, total, err := s.favorites.ListByUser(ctx, userID, favoritesPerPage, models.Offset(page, favoritesPerPage))
	if err != nil {
		return models.Page[models.FavoriteRestaurant]{}, err
	}
	return models.NewPage(list, total, page, favoritesPerPage), nil
}

func (s *FavoriteService) Add(ctx context.Context, userID, restaurantID int) error {
	ok, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return repositories.ErrRestaurantNotFound
	}
	return s.favorites.Attach(ctx, userID, restaurantID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, restaurantID int) error {
	return s.favorites.Detach(ctx, userID, restaurantID)
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, restaurantID int) (bool, error) {
	return s.favorites.IsFavorite(ctx, userID, restaurantID)
}
