package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

// TermRepository は利用規約を操作します。最新の行が有効な規約です。
type TermRepository struct {
	DB *sqlx.DB
}

func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{DB: db}
}

func (r *TermRepository) Latest(ctx context.Context) (*models.Term, error) {
	var t models.Term
	err := r.DB.GetContext(ctx, &t, "SELECT id, content, created_at, updated_at FROM terms ORDER BY created_at DESC, id DESC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("could not query term: %w", err)
	}
	return &t, nil
}

func (r *TermRepository) FindByID(ctx context.Context, id int) (*models.Term, error) {
	var t models.Term
	err := r.DB.GetContext(ctx, &t, "SELECT id, content, created_at, updated_at FROM terms WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("could not query term: %w", err)
	}
	return &t, nil
}

func (r *TermRepository) Create(ctx context.Context, content string) (*models.Term, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO terms (content) VALUES (?)", content)
	if err != nil {
		return nil, fmt.Errorf("could not insert term: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

func (r *TermRepository) Update(ctx context.Context, id int, content string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE terms SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", content, id)
	if err != nil {
		return fmt.Errorf("could not update term: %w", err)
	}
	return requireAffected(res, ErrTermNotFound)
}

func (r *TermRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM terms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete term: %w", err)
	}
	return requireAffected(res, ErrTermNotFound)
}

// CompanyRepository は会社概要を操作します。
type CompanyRepository struct {
	DB *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

const companyColumns = `id, name, postal_code, address, representative, establishment_date, capital, business,
	number_of_employees, created_at, updated_at`

// First は会社概要 (1件目) を返します。
func (r *CompanyRepository) First(ctx context.Context) (*models.Company, error) {
	var c models.Company
	if err := r.DB.GetContext(ctx, &c, "SELECT "+companyColumns+" FROM companies ORDER BY id ASC LIMIT 1"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("could not query company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id int) (*models.Company, error) {
	var c models.Company
	if err := r.DB.GetContext(ctx, &c, "SELECT "+companyColumns+" FROM companies WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("could not query company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *models.Company) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE companies SET name = ?, postal_code = ?, address = ?, representative = ?,
		establishment_date = ?, capital = ?, business = ?, number_of_employees = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Name, c.PostalCode, c.Address, c.Representative, c.EstablishmentDate, c.Capital, c.Business, c.NumberOfEmployees, c.ID)
	if err != nil {
		return fmt.Errorf("could not update company: %w", err)
	}
	return requireAffected(res, ErrCompanyNotFound)
}
