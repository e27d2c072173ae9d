package services

import (
	"context"

	"nagoyameshi/internal/access"
	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

// ReviewList は閲覧者の契約状態に応じたレビュー一覧です。
type ReviewList struct {
	models.Page[models.Review]
	Paginated bool `json:"paginated"`
}

// ReviewService はレビューの閲覧と、本人による作成・編集・削除を扱います。
type ReviewService struct {
	reviews     *repositories.ReviewRepository
	restaurants *repositories.RestaurantRepository
}

func NewReviewService(reviews *repositories.ReviewRepository, restaurants *repositories.RestaurantRepository) *ReviewService {
	return &ReviewService{reviews: reviews, restaurants: restaurants}
}

// ListForViewer は無料会員には最新3件のみ、有料会員には全件をページングして返します。
func (s *ReviewService) ListForViewer(ctx context.Context, restaurantID int, tier access.Tier, page int) (*ReviewList, error) {
	if err := s.ensureRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	if tier != access.TierPremium {
		latest, err := s.reviews.ListLatest(ctx, restaurantID, freeReviewLimit)
		if err != nil {
			return nil, err
		}
		return &ReviewList{Page: models.NewPage(latest, len(latest), 1, freeReviewLimit)}, nil
	}

	page = max(page, 1)
	list, total, err := s.reviews.ListPaged(ctx, restaurantID, reviewsPerPage, models.Offset(page, reviewsPerPage))
	if err != nil {
		return nil, err
	}
	return &ReviewList{Page: models.NewPage(list, total, page, reviewsPerPage), Paginated: true}, nil
}

func (s *ReviewService) Create(ctx context.Context, userID, restaurantID int, req models.ReviewRequest) (*models.Review, error) {
	if err := s.ensureRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.reviews.Create(ctx, &models.Review{
		Score:        req.Score,
		Content:      req.Content,
		RestaurantID: restaurantID,
		UserID:       userID,
	})
}

// GetOwned は本人のレビューのみ返します。他の店舗に属するレビューは存在しない扱いです。
func (s *ReviewService) GetOwned(ctx context.Context, userID, restaurantID, reviewID int) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.RestaurantID != restaurantID {
		return nil, repositories.ErrReviewNotFound
	}
	if err := access.Authorize(userID, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, userID, restaurantID, reviewID int, req models.ReviewRequest) (*models.Review, error) {
	review, err := s.GetOwned(ctx, userID, restaurantID, reviewID)
	if err != nil {
		return nil, err
	}
	review.Score = req.Score
	review.Content = req.Content
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.reviews.FindByID(ctx, reviewID)
}

func (s *ReviewService) Delete(ctx context.Context, userID, restaurantID, reviewID int) error {
	if _, err := s.GetOwned(ctx, userID, restaurantID, reviewID); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, reviewID)
}

func (s *ReviewService) ensureRestaurant(ctx context.Context, restaurantID int) error {
	ok, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return repositories.ErrRestaurantNotFound
	}
	return nil
}
