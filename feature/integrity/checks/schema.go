package checks

import (
	"fmt"

	"clan-ledger/core/database"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors,omitempty"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns,omitempty"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies the database schema using the gorm models as the source of truth.
func CheckSchema(db *gorm.DB, models []any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{Matched: true, Tables: make(map[string]TableReport, len(models))}
	for _, model := range models {
		table, columns, err := database.ModelColumns(db, model)
		if err != nil {
			report.Matched = false
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		missing, err := database.MissingColumns(db, table, columns)
		if err != nil {
			report.Matched = false
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", table, err))
			report.Tables[table] = TableReport{Status: "error"}
			continue
		}
		if len(missing) > 0 {
			report.Matched = false
			report.Tables[table] = TableReport{MissingColumns: missing, Status: "error"}
			continue
		}
		report.Tables[table] = TableReport{Status: "ok"}
	}
	return report, nil
}
