package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alumniport/internal/db"
	"alumniport/internal/models"
)

// stageRows replaces batchID's rows in the staging table. The CSV has
// already been written by the time this runs.
func stageRows(cmd *cobra.Command, batchID string, rows []models.AlumniOutputRow) error {
	if err := db.Init(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}()

	n, err := db.ReplaceBatch(cmd.Context(), batchID, rows)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	logger.Info("rows staged", zap.String("batch", batchID), zap.Int("rows", n))
	return nil
}
