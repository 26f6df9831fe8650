package summary

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/slotw/internal/domain"
)

const defaultWorkers = 4

// Report describes what a reconciliation pass consumed
type Report struct {
	Files   []string `json:"files"`
	Used    int      `json:"used"`
	Skipped []string `json:"skipped,omitempty"`
}

// Reconciler folds archived summary files into one snapshot
type Reconciler struct {
	// Workers bounds parallel decoding; <= 0 uses a default
	Workers int
	Logger  *zap.Logger
}

// NewReconciler creates a reconciler with default parallelism
func NewReconciler(logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Workers: defaultWorkers, Logger: logger}
}

type decoded struct {
	snap domain.Snapshot
	ok   bool
}

// Reconcile decodes each file and sums them in the given order. Unreadable
// files are skipped. The same file listed twice is counted twice.
// Cancelling ctx stops decoding of files not yet started; they are reported
// as skipped.
func (r *Reconciler) Reconcile(ctx context.Context, files []string) (domain.Snapshot, Report) {
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]decoded, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			snap, err := ReadFile(path)
			if err != nil {
				logger.Debug("skipping unreadable summary", zap.String("path", path), zap.Error(err))
				return nil
			}
			results[i] = decoded{snap: snap, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	// Fold sequentially so role first-seen order follows file order.
	var total domain.Snapshot
	report := Report{Files: files}
	for i, res := range results {
		if !res.ok {
			report.Skipped = append(report.Skipped, files[i])
			continue
		}
		total.Merge(res.snap)
		report.Used++
	}
	return total, report
}

// Reconcile folds files with a default reconciler
func Reconcile(ctx context.Context, files []string) (domain.Snapshot, Report) {
	return NewReconciler(nil).Reconcile(ctx, files)
}
