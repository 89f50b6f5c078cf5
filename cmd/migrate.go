package cmd

import (
	"fmt"

	"clan-ledger/core/config"
	"clan-ledger/core/database"
	"clan-ledger/core/logger"
	economymodels "clan-ledger/feature/economy/models"
	identitymodels "clan-ledger/feature/identity/models"
	"clan-ledger/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCheck bool

// migrateCmd creates or updates the schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `AutoMigrates every model. With --check nothing is changed; the command reports
the columns each table is missing and fails if any are.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCheck, "check", false, "Only report missing columns")
	RootCmd.AddCommand(migrateCmd)
}

// schemaModels lists every persisted model.
func schemaModels() []any {
	return append(identitymodels.All(), economymodels.All()...)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrateCheck {
		return checkSchema(l, db)
	}
	if err := db.AutoMigrate(schemaModels()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	l.Info("Schema migrated", zap.Int("models", len(schemaModels())))
	return nil
}

func checkSchema(l *zap.Logger, db *gorm.DB) error {
	report, err := checks.CheckSchema(db, schemaModels())
	if err != nil {
		return err
	}
	for _, msg := range report.Errors {
		l.Error("Schema check error", zap.String("error", msg))
	}
	incomplete := 0
	for table, t := range report.Tables {
		if t.Status != "ok" {
			incomplete++
			l.Warn("Table is missing columns", zap.String("table", table), zap.Strings("columns", t.MissingColumns))
			continue
		}
		l.Info("Table up to date", zap.String("table", table))
	}
	if !report.Matched {
		return fmt.Errorf("%d tables need migration", incomplete)
	}
	return nil
}
