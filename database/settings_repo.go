package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type SettingsRepo struct {
	q querier
}

func NewSettingsRepo(q querier) *SettingsRepo {
	return &SettingsRepo{q}
}

// FindAll returns the whole settings table.
func (r *SettingsRepo) FindAll(ctx context.Context) ([]models.SiteSetting, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	rows := []models.SiteSetting{}
	err := db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error
	return rows, err
}

// Upsert inserts or overwrites every row in one transaction.
func (r *SettingsRepo) Upsert(ctx context.Context, rows []models.SiteSetting) error {
	if len(rows) == 0 {
		return nil
	}

	db, cancel := r.q.session(ctx)
	defer cancel()

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

type AdminUserRepo struct {
	q querier
}

func NewAdminUserRepo(q querier) *AdminUserRepo {
	return &AdminUserRepo{q}
}

func (r *AdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	var user models.AdminUser
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	var user models.AdminUser
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastSignIn records a successful login.
func (r *AdminUserRepo) TouchLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	db, cancel := r.q.session(ctx)
	defer cancel()

	return db.Model(&models.AdminUser{}).Where("id = ?", id).Update("last_sign_in", at).Error
}

// EnsureAdmin creates the admin account when no user has that email yet.
// It reports whether a row was inserted.
func (r *AdminUserRepo) EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	db, cancel := r.q.session(ctx)
	defer cancel()

	user := models.AdminUser{Email: email, PasswordHash: passwordHash, Role: models.RoleAdmin}
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&user)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes an admin account. No HTTP route reaches it.
func (r *AdminUserRepo) Remove(ctx context.Context, id uuid.UUID) error {
	db, cancel := r.q.session(ctx)
	defer cancel()
	return db.Where("id = ?", id).Delete(&models.AdminUser{}).Error
}
