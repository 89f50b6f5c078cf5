package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of a live table.
type ColumnInfo struct {
	Name string
	Type string
}

// TableColumns lists the columns of a table using the dialect's migrator.
// A table that does not exist yields an empty slice.
func TableColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	if !db.Migrator().HasTable(table) {
		return nil, nil
	}

	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		columns = append(columns, ColumnInfo{
			Name: strings.ToLower(ct.Name()),
			Type: strings.ToLower(ct.DatabaseTypeName()),
		})
	}
	return columns, nil
}

// MissingColumns returns the expected column names absent from the table, in input order.
// A missing table reports every expected column.
func MissingColumns(db *gorm.DB, table string, expected []string) ([]string, error) {
	columns, err := TableColumns(db, table)
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c.Name] = struct{}{}
	}

	var missing []string
	for _, name := range expected {
		if _, ok := present[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// ModelColumns returns the column names gorm derives for a model.
func ModelColumns(db *gorm.DB, model any) (table string, columns []string, err error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", nil, fmt.Errorf("failed to parse model: %w", err)
	}
	for _, f := range stmt.Schema.Fields {
		if f.DBName != "" {
			columns = append(columns, f.DBName)
		}
	}
	return stmt.Schema.Table, columns, nil
}
