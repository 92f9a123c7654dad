package postgres

import (
	"context"
	"time"

	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/utils"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByEmail(ctx context.Context, email string) (*models.Company, error)
	GetByExternalAccountID(ctx context.Context, accountID string) (*models.Company, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	CNPJTaken(ctx context.Context, cnpj, exceptID string) (bool, error)
	Create(ctx context.Context, c *models.Company) error
	Update(ctx context.Context, c *models.Company) error
	SetExternalLink(ctx context.Context, id, accountID string, at time.Time, e *models.CompanyEnrichment) error
	ClearExternalLink(ctx context.Context, id string) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	return r.takeWhere(ctx, "id = ?", id)
}

func (r *companyRepo) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	return r.takeWhere(ctx, "email = ?", email)
}

func (r *companyRepo) GetByExternalAccountID(ctx context.Context, accountID string) (*models.Company, error) {
	return r.takeWhere(ctx, "external_account_id = ?", accountID)
}

func (r *companyRepo) takeWhere(ctx context.Context, cond string, arg any) (*models.Company, error) {
	var c models.Company
	if err := r.db.WithContext(ctx).Where(cond, arg).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *companyRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.taken(ctx, "email = ?", email, exceptID)
}

func (r *companyRepo) CNPJTaken(ctx context.Context, cnpj, exceptID string) (bool, error) {
	return r.taken(ctx, "cnpj = ?", cnpj, exceptID)
}

func (r *companyRepo) taken(ctx context.Context, cond string, arg any, exceptID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Company{}).Where(cond, arg)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// Update writes every profile column, including password hash.
func (r *companyRepo) Update(ctx context.Context, c *models.Company) error {
	res := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", c.ID).
		Select(
			"email", "cnpj", "password_hash", "name", "phone", "sector", "size",
			"website", "location", "description", "logo_url", "headline", "updated_at",
		).
		Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// SetExternalLink marks the company connected and applies whatever
// enrichment data is present. Absent enrichment fields keep stored values.
func (r *companyRepo) SetExternalLink(ctx context.Context, id, accountID string, at time.Time, e *models.CompanyEnrichment) error {
	cols := map[string]any{
		"external_account_id":   accountID,
		"external_connected":    true,
		"external_connected_at": at,
		"updated_at":            time.Now().UTC(),
	}
	if e != nil {
		set := func(col string, v *string) {
			if v != nil && *v != "" {
				cols[col] = *v
			}
		}
		set("name", e.Name)
		set("logo_url", e.AvatarURL)
		set("headline", e.Headline)
		set("location", e.Location)
		set("description", e.Description)
		set("website", e.Website)
		set("sector", e.Sector)
		set("size", e.Size)
		set("external_page_url", e.PageURL)
	}

	res := r.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *companyRepo) ClearExternalLink(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"external_account_id":   nil,
			"external_connected":    false,
			"external_connected_at": nil,
			"updated_at":            time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
