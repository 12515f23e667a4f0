package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/app"
	"github.com/jmehdipour/loyalty-admin/internal/logger"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ClickHouse archive tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		chDB, err := app.ClickHouse(cmd.Context(), cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("open clickhouse: %w", err)
		}
		defer chDB.Close()

		files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
		if err != nil {
			return fmt.Errorf("list migrations: %w", err)
		}
		sort.Strings(files)

		// ClickHouse runs one statement per Exec; files hold a single idempotent one
		for _, path := range files {
			sqlBytes, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read migration file %s: %w", path, err)
			}
			if _, err := chDB.ExecContext(cmd.Context(), string(sqlBytes)); err != nil {
				return fmt.Errorf("exec migration %s: %w", path, err)
			}
			logger.Log.Info("migration applied", zap.String("file", filepath.Base(path)))
		}

		logger.Log.Info("migration complete", zap.Int("files", len(files)))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "directory of *.sql files")
}
