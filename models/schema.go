package models

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Category{},
		&Project{},
		&Screenshot{},
		&Certification{},
		&Hackathon{},
		&Education{},
		&Experience{},
		&Article{},
		&Booking{},
		&SiteSetting{},
		&AdminUser{},
	}
}

// AutoMigrate builds the schema from the models. Production uses the SQL
// migrations in package database; this path serves tests and local sqlite runs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}

// ColumnMismatch describes one table whose live columns differ from its model.
type ColumnMismatch struct {
	Table string
	// Missing are model columns the database does not have.
	Missing []string
	// Extra are database columns the model does not map.
	Extra []string
}

// CheckSchema compares every model against the live database columns.
func CheckSchema(db *gorm.DB) ([]ColumnMismatch, error) {
	var report []ColumnMismatch
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			report = append(report, ColumnMismatch{Table: table, Missing: stmt.Schema.DBNames})
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", table, err)
		}
		live := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			live[ct.Name()] = true
		}

		mismatch := ColumnMismatch{Table: table}
		mapped := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			mapped[name] = true
			if !live[name] {
				mismatch.Missing = append(mismatch.Missing, name)
			}
		}
		for name := range live {
			if !mapped[name] {
				mismatch.Extra = append(mismatch.Extra, name)
			}
		}
		sort.Strings(mismatch.Extra)

		if len(mismatch.Missing) > 0 || len(mismatch.Extra) > 0 {
			report = append(report, mismatch)
		}
	}
	return report, nil
}
