package postgres

import (
	"context"

	"github.com/recrutai/platform/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	Upsert(ctx context.Context, a *models.Application) (created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetByPair(ctx context.Context, candidateID, jobID string) (*models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.ApplicationListItem, error)
}

// mergedTestResult is the effective test result after an upsert: the incoming
// value when present, else the stored one.
const mergedTestResult = "COALESCE(NULLIF(EXCLUDED.test_result, 'null'::jsonb), NULLIF(applications.test_result, 'null'::jsonb))"

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

// Upsert inserts the application or, when one already exists for the
// (candidate, job) pair, updates it in the same statement. The snapshot is
// always replaced; the test result only when a new one is supplied; status is
// recomputed from the merged result.
func (r *applicationRepo) Upsert(ctx context.Context, a *models.Application) (bool, error) {
	proposedID := a.ID

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "candidate_id"}, {Name: "job_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"curriculum_snapshot": gorm.Expr("EXCLUDED.curriculum_snapshot"),
				"test_result":         gorm.Expr(mergedTestResult),
				"status": gorm.Expr("CASE WHEN "+mergedTestResult+" IS NULL THEN ? ELSE ? END",
					string(models.ApplicationAwaitingTests), string(models.ApplicationAnalysisComplete)),
				"updated_at": gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(a).Error
	if err != nil {
		return false, translate(err)
	}

	stored, err := r.GetByPair(ctx, a.CandidateID, a.JobID)
	if err != nil {
		return false, err
	}
	*a = *stored
	return stored.ID == proposedID, nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *applicationRepo) GetByPair(ctx context.Context, candidateID, jobID string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		Take(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.ApplicationListItem, error) {
	rows := []models.ApplicationListItem{}
	err := r.db.WithContext(ctx).
		Table("applications AS a").
		Select(`a.id, a.candidate_id, a.job_id, a.curriculum_snapshot, a.test_result, a.status, a.origin,
			a.data_candidatura AS applied_at,
			c.name AS candidate_name, c.email AS candidate_email, c.phone AS candidate_phone,
			c.city AS candidate_city, c.state AS candidate_state, c.avatar_url AS candidate_avatar_url`).
		Joins("JOIN candidates AS c ON c.id = a.candidate_id").
		Where("a.job_id = ?", jobID).
		Order("a.data_candidatura DESC").
		Scan(&rows).Error
	return rows, err
}
