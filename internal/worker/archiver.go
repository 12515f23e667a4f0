package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/metrics"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
	"github.com/jmehdipour/loyalty-admin/internal/service/report"
)

// Archiver copies new sales into the analytics archive in date order.
// Delivery is at-least-once: the checkpoint only moves after the sink
// accepted the batch.
type Archiver struct {
	// Dependencies
	Purchases  repository.PurchasesRepository
	Sink       repository.SalesArchiveRepository
	Checkpoint CheckpointStore
	Log        *zap.Logger

	// Behavior
	Interval  time.Duration // pause between drains
	BatchSize int           // records per sink insert
}

// NewArchiver builds an archiver with sane defaults.
func NewArchiver(
	purchases repository.PurchasesRepository,
	sink repository.SalesArchiveRepository,
	checkpoint CheckpointStore,
	log *zap.Logger,
) *Archiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{
		Purchases:  purchases,
		Sink:       sink,
		Checkpoint: checkpoint,
		Log:        log,
		Interval:   time.Minute,
		BatchSize:  500,
	}
}

// Run drains immediately and then once per Interval, until ctx is cancelled.
// Batch failures are logged and retried on the next tick.
func (a *Archiver) Run(ctx context.Context) error {
	if a.Purchases == nil || a.Sink == nil || a.Checkpoint == nil {
		return errors.New("archiver: missing dependency")
	}
	if a.Interval <= 0 {
		a.Interval = time.Minute
	}
	if a.BatchSize <= 0 {
		a.BatchSize = 500
	}

	tick := time.NewTicker(a.Interval)
	defer tick.Stop()

	for {
		n, err := a.Drain(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			a.Log.Error("archive drain failed", zap.Int("archived", n), zap.Error(err))
		case n > 0:
			a.Log.Info("archive drained", zap.Int("archived", n))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

// Drain archives batches until a short batch shows the log is caught up.
// It returns how many records were archived.
func (a *Archiver) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := a.RunOnce(ctx)
		total += n
		if err != nil || n < a.batchSize() {
			return total, err
		}
	}
}

// RunOnce archives at most one batch after the checkpoint.
func (a *Archiver) RunOnce(ctx context.Context) (int, error) {
	cp, err := a.Checkpoint.Load(ctx)
	if err != nil {
		metrics.ArchiveBatchesTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	recs, err := a.Purchases.Ascending(ctx, cp.Date, cp.ID, a.batchSize())
	if err != nil {
		metrics.ArchiveBatchesTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	if len(recs) == 0 {
		metrics.ArchiveBatchesTotal.WithLabelValues("empty").Inc()
		return 0, nil
	}

	if err := a.Sink.InsertBatch(ctx, report.Archive(recs)); err != nil {
		metrics.ArchiveBatchesTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	last := recs[len(recs)-1]
	if err := a.Checkpoint.Save(ctx, Checkpoint{Date: last.Date, ID: last.ID}); err != nil {
		// the batch is in; the next run re-sends it and the table dedupes
		metrics.ArchiveBatchesTotal.WithLabelValues("error").Inc()
		return len(recs), err
	}

	metrics.ArchiveBatchesTotal.WithLabelValues("ok").Inc()
	metrics.ArchivedRowsTotal.Add(float64(len(recs)))
	a.Log.Debug("archive batch sent",
		zap.Int("rows", len(recs)),
		zap.String("checkpoint_id", last.ID),
		zap.Time("checkpoint_date", last.Date),
	)
	return len(recs), nil
}

func (a *Archiver) batchSize() int {
	if a.BatchSize <= 0 {
		return 500
	}
	return a.BatchSize
}
