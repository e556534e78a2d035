package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter holds the optional list query parameters.
type ListFilter struct {
	Status string
	// Featured only filters when true.
	Featured bool
	Limit    int
	// Category is a category slug; only projects support it.
	Category string
}

// TableConfig describes how one resource table is listed and looked up.
type TableConfig struct {
	Order string
	// Lookup is the column matched by Find, either "slug" or "id".
	Lookup   string
	Status   bool
	Featured bool
}

// Table is the repository shared by every plain CRUD resource.
type Table[M any] struct {
	q   querier
	cfg TableConfig
}

func NewTable[M any](q querier, cfg TableConfig) *Table[M] {
	return &Table[M]{q: q, cfg: cfg}
}

func (t *Table[M]) scope(db *gorm.DB, filter ListFilter) *gorm.DB {
	if t.cfg.Status && filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if t.cfg.Featured && filter.Featured {
		db = db.Where("featured = ?", true)
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	return db.Order(t.cfg.Order)
}

// FindAll returns the rows matching filter in the table's fixed order.
func (t *Table[M]) FindAll(ctx context.Context, filter ListFilter) ([]M, error) {
	db, cancel := t.q.session(ctx)
	defer cancel()

	rows := []M{}
	err := t.scope(db.Model(new(M)), filter).Find(&rows).Error
	return rows, err
}

// Find returns the row whose lookup column equals key.
func (t *Table[M]) Find(ctx context.Context, key string) (*M, error) {
	if t.cfg.Lookup == "id" {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, gorm.ErrRecordNotFound
		}
		return t.FindByID(ctx, id)
	}

	db, cancel := t.q.session(ctx)
	defer cancel()

	var row M
	if err := db.Where(t.cfg.Lookup+" = ?", key).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID returns a row by its ID
func (t *Table[M]) FindByID(ctx context.Context, id uuid.UUID) (*M, error) {
	db, cancel := t.q.session(ctx)
	defer cancel()

	var row M
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Add inserts a new row into the database
func (t *Table[M]) Add(ctx context.Context, row *M) error {
	db, cancel := t.q.session(ctx)
	defer cancel()
	return db.Create(row).Error
}

// Update applies the column assignments and returns the refreshed row.
func (t *Table[M]) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*M, error) {
	db, cancel := t.q.session(ctx)
	defer cancel()

	res := db.Model(new(M)).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var row M
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes a row by id and reports gorm.ErrRecordNotFound when nothing matched.
func (t *Table[M]) Delete(ctx context.Context, id uuid.UUID) error {
	db, cancel := t.q.session(ctx)
	defer cancel()

	res := db.Where("id = ?", id).Delete(new(M))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
