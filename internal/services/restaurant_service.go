package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/storage"
)

// MaxImageSize は店舗画像の上限サイズ (2MB) です。
const MaxImageSize = 2 << 20

// ImageUpload はアップロードされた店舗画像です。
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// HomeData はトップページの表示内容です。
type HomeData struct {
	HighlyRated []models.Restaurant `json:"highly_rated_restaurants"`
	Categories  []models.Category   `json:"categories"`
	Newest      []models.Restaurant `json:"new_restaurants"`
}

// RestaurantForm は店舗登録・編集フォームの選択肢です。
type RestaurantForm struct {
	Categories      []models.Category       `json:"categories"`
	RegularHolidays []models.RegularHoliday `json:"regular_holidays"`
}

// RestaurantService は店舗の検索と管理を扱います。
type RestaurantService struct {
	restaurants *repositories.RestaurantRepository
	categories  *repositories.CategoryRepository
	holidays    *repositories.RegularHolidayRepository
	images      storage.ImageStore
}

func NewRestaurantService(restaurants *repositories.RestaurantRepository, categories *repositories.CategoryRepository,
	holidays *repositories.RegularHolidayRepository, images storage.ImageStore) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, categories: categories, holidays: holidays, images: images}
}

func (s *RestaurantService) Home(ctx context.Context) (*HomeData, error) {
	top, err := s.restaurants.ListTopRated(ctx, homeListSize)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}
	newest, err := s.restaurants.ListNewest(ctx, homeListSize)
	if err != nil {
		return nil, err
	}
	s.withImageURLs(top)
	s.withImageURLs(newest)
	return &HomeData{HighlyRated: top, Categories: categories, Newest: newest}, nil
}

// Search は検索条件 (優先順位適用済み) と結果を返します。
func (s *RestaurantService) Search(ctx context.Context, filter models.RestaurantFilter) (models.RestaurantFilter, models.Page[models.Restaurant], error) {
	f := filter.Effective()
	list, total, err := s.restaurants.Search(ctx, f, restaurantsPerPage, models.Offset(f.Page, restaurantsPerPage))
	if err != nil {
		return f, models.Page[models.Restaurant]{}, err
	}
	s.withImageURLs(list)
	return f, models.NewPage(list, total, f.Page, restaurantsPerPage), nil
}

func (s *RestaurantService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.All(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id int) (*models.Restaurant, error) {
	rest, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rest.ImageURL = s.imageURL(rest.Image)
	return rest, nil
}

func (s *RestaurantService) Exists(ctx context.Context, id int) (bool, error) {
	return s.restaurants.Exists(ctx, id)
}

func (s *RestaurantService) Count(ctx context.Context) (int, error) {
	return s.restaurants.Count(ctx)
}

// AdminList は管理画面の店舗一覧です。
func (s *RestaurantService) AdminList(ctx context.Context, keyword string, page int) (models.Page[models.Restaurant], error) {
	page = max(page, 1)
	list, total, err := s.restaurants.AdminList(ctx, strings.TrimSpace(keyword), adminPerPage, models.Offset(page, adminPerPage))
	if err != nil {
		return models.Page[models.Restaurant]{}, err
	}
	s.withImageURLs(list)
	return models.NewPage(list, total, page, adminPerPage), nil
}

func (s *RestaurantService) FormOptions(ctx context.Context) (*RestaurantForm, error) {
	categories, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := s.holidays.All(ctx)
	if err != nil {
		return nil, err
	}
	return &RestaurantForm{Categories: categories, RegularHolidays: holidays}, nil
}

// Create は店舗を登録します。画像は任意です。
func (s *RestaurantService) Create(ctx context.Context, req models.RestaurantRequest, image *ImageUpload) (*models.Restaurant, error) {
	key, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	rest := fromRequest(req)
	rest.Image = key
	created, err := s.restaurants.Create(ctx, rest, req.CategoryIDs, req.RegularHolidayIDs)
	if err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}
	created.ImageURL = s.imageURL(created.Image)
	return created, nil
}

// Update は店舗を更新します。画像が送られなかった場合は既存の画像を残します。
func (s *RestaurantService) Update(ctx context.Context, id int, req models.RestaurantRequest, image *ImageUpload) (*models.Restaurant, error) {
	current, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	rest := fromRequest(req)
	rest.ID = id
	rest.Image = current.Image
	if key != "" {
		rest.Image = key
	}
	updated, err := s.restaurants.Update(ctx, rest, req.CategoryIDs, req.RegularHolidayIDs)
	if err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}
	if key != "" {
		s.removeImage(ctx, current.Image)
	}
	updated.ImageURL = s.imageURL(updated.Image)
	return updated, nil
}

// Delete は店舗と保存済み画像を削除します。
func (s *RestaurantService) Delete(ctx context.Context, id int) error {
	current, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, current.Image)
	return nil
}

// ValidateImage は画像の種別とサイズを確認します。
func ValidateImage(image *ImageUpload) error {
	if image == nil {
		return nil
	}
	if image.Size > MaxImageSize || !strings.HasPrefix(image.ContentType, "image/") {
		return ErrInvalidImage
	}
	return nil
}

func (s *RestaurantService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	if err := ValidateImage(image); err != nil {
		return "", err
	}
	if s.images == nil {
		log.Printf("Image storage is not configured; skipping upload of %s", image.Filename)
		return "", nil
	}
	key := fmt.Sprintf("restaurants/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(image.Filename)))
	if err := s.images.Put(ctx, key, image.Body, image.ContentType); err != nil {
		return "", err
	}
	return key, nil
}

func (s *RestaurantService) removeImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.Printf("Failed to delete image %s: %v", key, err)
	}
}

func (s *RestaurantService) imageURL(key string) string {
	if key == "" || s.images == nil {
		return ""
	}
	return s.images.URL(key)
}

func (s *RestaurantService) withImageURLs(list []models.Restaurant) {
	for i := range list {
		list[i].ImageURL = s.imageURL(list[i].Image)
	}
}

func fromRequest(req models.RestaurantRequest) *models.Restaurant {
	return &models.Restaurant{
		Name:            req.Name,
		Description:     req.Description,
		LowestPrice:     req.LowestPrice,
		HighestPrice:    req.HighestPrice,
		PostalCode:      req.PostalCode,
		Address:         req.Address,
		OpeningTime:     req.OpeningTime,
		ClosingTime:     req.ClosingTime,
		SeatingCapacity: req.SeatingCapacity,
	}
}
