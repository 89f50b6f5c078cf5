// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures the connection for the selected driver:
//   - mysql (default): DSN built from host/port/user/password/name with timeouts
//   - postgres: via gorm.io/driver/postgres (pgx underneath)
//   - sqlite: Name is used as the DSN, which is how tests get an in-memory database
//
// Server drivers get pool tuning; sqlite is pinned to a single connection.
//
// # Schema Inspection
//
// TableColumns and MissingColumns read the live schema through the GORM migrator so
// the migrate command can report drift between the models and the database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "economy_records", []string{"gold", "gems"})
package database
