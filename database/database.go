package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

const DefaultQueryTimeout = 5 * time.Second

type Database struct {
	db                *gorm.DB
	timeout           time.Duration
	projectRepo       *ProjectRepo
	certificationRepo *Table[models.Certification]
	hackathonRepo     *Table[models.Hackathon]
	educationRepo     *Table[models.Education]
	experienceRepo    *Table[models.Experience]
	articleRepo       *Table[models.Article]
	bookingRepo       *Table[models.Booking]
	categoryRepo      *Table[models.Category]
	settingsRepo      *SettingsRepo
	adminUserRepo     *AdminUserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance.
// Every query runs under timeout unless the request context expires first.
func New(db *gorm.DB, timeout time.Duration) Database {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	q := querier{db: db, timeout: timeout}
	return Database{
		db:          db,
		timeout:     timeout,
		projectRepo: NewProjectRepo(q),
		certificationRepo: NewTable[models.Certification](q, TableConfig{
			Order: "issue_date DESC, created_at DESC", Lookup: "slug", Status: true, Featured: true,
		}),
		hackathonRepo: NewTable[models.Hackathon](q, TableConfig{
			Order: "event_date DESC, created_at DESC", Lookup: "slug", Status: true, Featured: true,
		}),
		educationRepo: NewTable[models.Education](q, TableConfig{
			Order: "sort_order ASC, start_date DESC", Lookup: "id", Status: true,
		}),
		experienceRepo: NewTable[models.Experience](q, TableConfig{
			Order: "sort_order ASC, start_date DESC", Lookup: "id", Status: true,
		}),
		articleRepo: NewTable[models.Article](q, TableConfig{
			Order: "created_at DESC", Lookup: "slug", Status: true, Featured: true,
		}),
		bookingRepo: NewTable[models.Booking](q, TableConfig{
			Order: "created_at DESC", Lookup: "id", Status: true,
		}),
		categoryRepo: NewTable[models.Category](q, TableConfig{
			Order: "sort_order ASC, name ASC", Lookup: "slug",
		}),
		settingsRepo:  NewSettingsRepo(q),
		adminUserRepo: NewAdminUserRepo(q),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CertificationRepo() *Table[models.Certification] {
	return d.certificationRepo
}

func (d Database) HackathonRepo() *Table[models.Hackathon] {
	return d.hackathonRepo
}

func (d Database) EducationRepo() *Table[models.Education] {
	return d.educationRepo
}

func (d Database) ExperienceRepo() *Table[models.Experience] {
	return d.experienceRepo
}

func (d Database) ArticleRepo() *Table[models.Article] {
	return d.articleRepo
}

func (d Database) BookingRepo() *Table[models.Booking] {
	return d.bookingRepo
}

func (d Database) CategoryRepo() *Table[models.Category] {
	return d.categoryRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

func (d Database) AdminUserRepo() *AdminUserRepo {
	return d.adminUserRepo
}

// Ping checks that the pool can reach the database.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// querier scopes every statement to the caller's context plus the query timeout.
type querier struct {
	db      *gorm.DB
	timeout time.Duration
}

func (q querier) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	return q.db.WithContext(ctx), cancel
}
