package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type ProjectRepo struct {
	q querier
}

func NewProjectRepo(q querier) *ProjectRepo {
	return &ProjectRepo{q}
}

func orderedScreenshots(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// FindAll returns projects newest first, each with its screenshots loaded by
// one batched query.
func (r *ProjectRepo) FindAll(ctx context.Context, filter ListFilter) ([]models.Project, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	query := db.Model(&models.Project{}).Preload("Screenshots", orderedScreenshots)
	if filter.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = projects.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}
	if filter.Featured {
		query = query.Where("projects.featured = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	projects := []models.Project{}
	if err := query.Order("projects.created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	for i := range projects {
		normalize(&projects[i])
	}
	return projects, nil
}

// FindBySlug returns one project with its category and screenshots.
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()
	return r.first(db, "slug = ?", slug)
}

func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()
	return r.first(db, "id = ?", id)
}

func (r *ProjectRepo) first(db *gorm.DB, query string, arg any) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Category").
		Preload("Screenshots", orderedScreenshots).
		Where(query, arg).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	normalize(&project)
	return &project, nil
}

// Add inserts the project and its screenshots in one transaction.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project, screenshots func(uuid.UUID) []models.Screenshot) (*models.Project, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		if rows := screenshots(project.ID); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.first(db, "id = ?", project.ID)
}

// Update applies the column assignments and, when screenshots is non-nil,
// replaces the whole screenshot set, all in one transaction.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any, screenshots []models.Screenshot) (*models.Project, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if screenshots == nil {
			return nil
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Screenshot{}).Error; err != nil {
			return err
		}
		if len(screenshots) > 0 {
			return tx.Create(&screenshots).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.first(db, "id = ?", id)
}

// Delete removes a project; its screenshots go with it through ON DELETE CASCADE.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db, cancel := r.q.session(ctx)
	defer cancel()

	res := db.Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountScreenshots reports how many screenshot rows reference a project.
func (r *ProjectRepo) CountScreenshots(ctx context.Context, id uuid.UUID) (int64, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	var n int64
	err := db.Model(&models.Screenshot{}).Where("project_id = ?", id).Count(&n).Error
	return n, err
}

func normalize(p *models.Project) {
	if p.Screenshots == nil {
		p.Screenshots = []models.Screenshot{}
	}
}
