package audit

import (
	"context"
	"time"

	"shopseo/internal/infra"
	"shopseo/internal/sqlinline"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BulkRun is one bulk operation's ledger entry: what ran, over how many
// units, and how it went.
type BulkRun struct {
	ID        uuid.UUID
	Shop      string
	Area      string // "seo" or "alttext"
	Mode      string // "generate", "update" or "generate_update"
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
	CreatedAt time.Time
}

// Recorder persists bulk-run history. With no database configured it
// degrades to logging only, so the admin endpoints work without Postgres.
type Recorder struct {
	db     infra.SQLExecutor
	logger zerolog.Logger
}

func NewRecorder(db infra.SQLExecutor, logger zerolog.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Record writes one run to the ledger. Failures are logged, not returned: an
// audit miss must never fail the bulk operation it describes.
func (r *Recorder) Record(ctx context.Context, run BulkRun) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	r.logger.Info().
		Str("run_id", run.ID.String()).
		Str("shop", run.Shop).
		Str("area", run.Area).
		Str("mode", run.Mode).
		Int("total", run.Total).
		Int("succeeded", run.Succeeded).
		Int("failed", run.Failed).
		Dur("duration", run.Duration).
		Msg("bulk run finished")

	if r.db == nil {
		return
	}
	_, err := r.db.Exec(ctx, sqlinline.QInsertBulkRun,
		run.ID, run.Shop, run.Area, run.Mode,
		run.Total, run.Succeeded, run.Failed, run.Duration.Milliseconds())
	if err != nil {
		r.logger.Error().Err(err).Str("run_id", run.ID.String()).Msg("failed to record bulk run")
	}
}

// Recent lists the latest runs for one shop, newest first.
func (r *Recorder) Recent(ctx context.Context, shop string, limit int) ([]BulkRun, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, sqlinline.QListBulkRunsByShop, shop, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BulkRun
	for rows.Next() {
		var run BulkRun
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.Shop, &run.Area, &run.Mode,
			&run.Total, &run.Succeeded, &run.Failed, &durationMS, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, run)
	}
	return out, rows.Err()
}
