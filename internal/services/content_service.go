package services

import (
	"context"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

// TermService は利用規約を扱います。
type TermService struct {
	terms *repositories.TermRepository
}

func NewTermService(terms *repositories.TermRepository) *TermService {
	return &TermService{terms: terms}
}

func (s *TermService) Latest(ctx context.Context) (*models.Term, error) {
	return s.terms.Latest(ctx)
}

func (s *TermService) Create(ctx context.Context, req models.TermRequest) (*models.Term, error) {
	return s.terms.Create(ctx, req.Content)
}

func (s *TermService) Update(ctx context.Context, id int, req models.TermRequest) (*models.Term, error) {
	if err := s.terms.Update(ctx, id, req.Content); err != nil {
		return nil, err
	}
	return s.terms.FindByID(ctx, id)
}

func (s *TermService) Delete(ctx context.Context, id int) error {
	return s.terms.Delete(ctx, id)
}

// CompanyService は会社概要を扱います。
type CompanyService struct {
	companies *repositories.CompanyRepository
}

func NewCompanyService(companies *repositories.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

func (s *CompanyService) Get(ctx context.Context) (*models.Company, error) {
	return s.companies.First(ctx)
}

func (s *CompanyService) Update(ctx context.Context, id int, req models.CompanyRequest) (*models.Company, error) {
	c := &models.Company{
		ID:                id,
		Name:              req.Name,
		PostalCode:        req.PostalCode,
		Address:           req.Address,
		Representative:    req.Representative,
		EstablishmentDate: req.EstablishmentDate,
		Capital:           req.Capital,
		Business:          req.Business,
		NumberOfEmployees: req.NumberOfEmployees,
	}
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.companies.FindByID(ctx, id)
}
