package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/recrutai/platform/internal/models"
	"github.com/recrutai/platform/internal/utils"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Candidate, error)
	GetByEmail(ctx context.Context, email string) (*models.Candidate, error)
	Create(ctx context.Context, c *models.Candidate) error
	Update(ctx context.Context, c *models.Candidate) error
	SaveResume(ctx context.Context, c *models.Candidate) error
	AppendBehavioralTest(ctx context.Context, candidateID string, t models.BehavioralTest) error
}

// A stored JSON null (or SQL NULL) is replaced by an empty array before
// concatenation; jsonb `null || [..]` would otherwise yield [null, ..].
const appendTestExpr = "(CASE WHEN jsonb_typeof(behavioral_tests) = 'array' THEN behavioral_tests ELSE '[]'::jsonb END) || ?::jsonb"

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	return r.takeWhere(ctx, "id = ?", id)
}

func (r *candidateRepo) GetByExternalID(ctx context.Context, externalID string) (*models.Candidate, error) {
	return r.takeWhere(ctx, "external_id = ?", externalID)
}

func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	return r.takeWhere(ctx, "email = ?", email)
}

func (r *candidateRepo) takeWhere(ctx context.Context, cond string, arg any) (*models.Candidate, error) {
	var c models.Candidate
	if err := r.db.WithContext(ctx).Where(cond, arg).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *candidateRepo) Create(ctx context.Context, c *models.Candidate) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// Update writes the identity and personal columns.
func (r *candidateRepo) Update(ctx context.Context, c *models.Candidate) error {
	res := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", c.ID).
		Select("external_id", "email", "name", "phone", "city", "state", "profile_url", "avatar_url", "objective", "updated_at").
		Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// SaveResume writes personal and résumé columns in one statement.
func (r *candidateRepo) SaveResume(ctx context.Context, c *models.Candidate) error {
	res := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", c.ID).
		Select(
			"name", "email", "phone", "city", "state", "profile_url", "avatar_url", "objective",
			"experiences", "educations", "skills", "languages", "certifications",
			"profile_complete", "resume_saved_at", "updated_at",
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

// AppendBehavioralTest appends to the JSONB history without reading it.
func (r *candidateRepo) AppendBehavioralTest(ctx context.Context, candidateID string, t models.BehavioralTest) error {
	b, err := json.Marshal([]models.BehavioralTest{t})
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", candidateID).
		Updates(map[string]any{
			"behavioral_tests": gorm.Expr(appendTestExpr, string(b)),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
