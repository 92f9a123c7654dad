package postgres

import (
	"context"
	"time"

	"github.com/recrutai/platform/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	Create(ctx context.Context, j *models.Job) error
	UpdateDraft(ctx context.Context, j *models.Job) error
	Transition(ctx context.Context, id string, action models.JobAction) (*models.Job, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (r *jobRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *jobRepo) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&models.Job{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OwnerCompanyID != "" {
		q = q.Where("owner_company_id = ?", f.OwnerCompanyID)
	}

	var rows []models.Job
	err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(j).Error)
}

// UpdateDraft replaces the job content while the stored row is still a
// draft. The row is locked for the duration of the check.
func (r *jobRepo) UpdateDraft(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.Job
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", j.ID).
			Take(&cur).Error
		if err != nil {
			return translate(err)
		}
		if !cur.Status.Editable() {
			return models.ErrJobNotEditable
		}

		j.Status = cur.Status
		j.OwnerCompanyID = cur.OwnerCompanyID
		j.CreatedAt = cur.CreatedAt
		j.UpdatedAt = time.Now().UTC()
		return translate(tx.Save(j).Error)
	})
}

// Transition applies a lifecycle action under a row lock so concurrent
// publish/close calls observe each other.
func (r *jobRepo) Transition(ctx context.Context, id string, action models.JobAction) (*models.Job, error) {
	var out models.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&out).Error; err != nil {
			return translate(err)
		}

		next, err := out.Status.Next(action)
		if err != nil {
			return err
		}
		if next == out.Status {
			return nil
		}

		now := time.Now().UTC()
		cols := map[string]any{"status": next, "updated_at": now}
		switch next {
		case models.JobActive:
			cols["published_at"] = now
			out.PublishedAt = &now
		case models.JobClosed:
			cols["closed_at"] = now
			out.ClosedAt = &now
		}
		if err := tx.Model(&models.Job{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		out.Status = next
		out.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
