package services

import (
	"context"
	"strings"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(categories *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context, keyword string, page int) (models.Page[models.Category], error) {
	page = max(page, 1)
	list, total, err := s.categories.List(ctx, strings.TrimSpace(keyword), adminPerPage, models.Offset(page, adminPerPage))
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	return models.NewPage(list, total, page, adminPerPage), nil
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	return s.categories.Create(ctx, req.Name)
}

func (s *CategoryService) Update(ctx context.Context, id int, req models.CategoryRequest) (*models.Category, error) {
	if err := s.categories.Update(ctx, id, req.Name); err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}
