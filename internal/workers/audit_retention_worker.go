package workers

import (
	"context"
	"time"

	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/repositories"

	"gorm.io/gorm"
)

const defaultRetentionInterval = 24 * time.Hour

// AuditRetentionWorker периодически удаляет записи журнала старше срока хранения
type AuditRetentionWorker struct {
	db        *gorm.DB
	repo      repositories.AuditLogRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewAuditRetentionWorker(db *gorm.DB, repo repositories.AuditLogRepository, retentionDays int) *AuditRetentionWorker {
	return &AuditRetentionWorker{
		db:        db,
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  defaultRetentionInterval,
		now:       time.Now,
	}
}

// Start запускает фоновую очистку. Первый проход сразу, затем раз в interval.
func (w *AuditRetentionWorker) Start(ctx context.Context) {
	if w.retention <= 0 {
		logger.Info("Audit retention disabled")
		return
	}
	go w.run(ctx)
}

func (w *AuditRetentionWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.PurgeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Audit retention worker stopped")
			return
		case <-ticker.C:
			w.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce - один проход очистки, возвращает число удаленных записей
func (w *AuditRetentionWorker) PurgeOnce(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	purged, err := w.repo.PurgeBefore(w.db.WithContext(ctx), cutoff)
	if err != nil {
		logger.Error("Error purging audit logs", "error", err)
		return 0
	}
	if purged > 0 {
		logger.Info("Purged expired audit logs", "count", purged, "cutoff", cutoff)
	}
	return purged
}
