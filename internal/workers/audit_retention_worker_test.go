package workers

import (
	"context"
	"testing"
	"time"

	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRetentionWorker_PurgeOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewAuditLogRepository()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, age := range []time.Duration{time.Hour, 29 * 24 * time.Hour, 31 * 24 * time.Hour, 90 * 24 * time.Hour} {
		require.NoError(t, repo.Create(db, &models.AuditLog{
			ActorType: models.ActorTypeSystem,
			Module:    "vendors",
			Action:    models.AuditActionCreate,
			Status:    models.AuditStatusSuccess,
			CreatedAt: now.Add(-age),
		}))
	}

	w := NewAuditRetentionWorker(db, repo, 30)
	w.now = func() time.Time { return now }

	assert.EqualValues(t, 2, w.PurgeOnce(context.Background()))
	assert.EqualValues(t, 0, w.PurgeOnce(context.Background()))

	var left int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&left).Error)
	assert.EqualValues(t, 2, left)
}

func TestAuditRetentionWorker_DisabledDoesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	w := NewAuditRetentionWorker(db, repositories.NewAuditLogRepository(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
}
