package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SchemaError lists every table or column the database is missing
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "database schema mismatch, missing: " + strings.Join(e.Missing, ", ")
}

// VerifySchema checks that every model's table and mapped columns exist.
// It never alters the database; run the migrations to fix a mismatch.
func VerifySchema(db *gorm.DB, models ...any) error {
	migrator := db.Migrator()
	var missing []string

	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !migrator.HasTable(model) {
			missing = append(missing, table)
			continue
		}
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" || field.IgnoreMigration {
				continue
			}
			if !migrator.HasColumn(model, field.DBName) {
				missing = append(missing, table+"."+field.DBName)
			}
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

