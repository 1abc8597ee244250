package job

import (
	"context"
	"fmt"

	"inkdrop-backend/internal/domains/migration"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// SizeBackfiller replaces unknown document sizes.
type SizeBackfiller interface {
	BackfillSizes(ctx context.Context) (*migration.BackfillReport, error)
}

// BackfillSizesHandler runs the scheduled size backfill.
type BackfillSizesHandler struct {
	service SizeBackfiller
}

func NewBackfillSizesHandler(service SizeBackfiller) *BackfillSizesHandler {
	return &BackfillSizesHandler{service: service}
}

func (h *BackfillSizesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	report, err := h.service.BackfillSizes(ctx)
	if err != nil {
		log.Error().Err(err).Str("task", task.Type()).Msg("Size backfill failed")
		return fmt.Errorf("backfill sizes: %w", err)
	}

	log.Info().
		Int("scanned", report.Scanned).
		Int("updated", report.Updated).
		Msg("Scheduled size backfill completed")
	return nil
}
