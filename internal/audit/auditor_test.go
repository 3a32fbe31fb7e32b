package audit_test

import (
	"encoding/json"
	"testing"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ExcludesSecretsAndTimestamps(t *testing.T) {
	db := testutil.NewDB(t)
	user := &models.User{Name: "Jane", Email: "jane@test.com", PasswordHash: "hash", IsActive: true}
	user.ID = "user-1"

	snap, err := audit.Snapshot(db, user)
	require.NoError(t, err)

	assert.Equal(t, "jane@test.com", snap["email"])
	assert.Equal(t, "user-1", snap["id"])
	for _, key := range []string{"password", "created_at", "updated_at", "deleted_at"} {
		assert.NotContains(t, snap, key)
	}
	assert.NotContains(t, snap, "skills", "relations are not columns")
}

func TestDiff(t *testing.T) {
	before := map[string]any{"name": "Alpha", "phone": "1", "gone": true}
	after := map[string]any{"name": "Beta", "phone": "1", "added": float64(2)}

	oldValues, newValues := audit.Diff(before, after)

	assert.Equal(t, map[string]any{"name": "Alpha", "added": nil, "gone": true}, oldValues)
	assert.Equal(t, map[string]any{"name": "Beta", "added": float64(2), "gone": nil}, newValues)

	oldValues, newValues = audit.Diff(after, after)
	assert.Empty(t, oldValues)
	assert.Empty(t, newValues)
}

func TestEntityType(t *testing.T) {
	assert.Equal(t, "User", audit.EntityType(&models.User{}))
	assert.Equal(t, "ContactBook", audit.EntityType(&models.ContactBook{}))
}

func TestAuditor_Handle(t *testing.T) {
	db := testutil.NewDB(t)
	auditor := audit.NewAuditor(repositories.NewAuditLogRepository(), repositories.NewAdminRepository())
	adminUser, _ := testutil.CreateAdmin(t, db, "root@test.com")
	rc := audit.RequestContext{RequestID: "req-9", ActorID: adminUser.ID, IP: "10.0.0.1", Method: "PUT"}

	before := &models.Banner{Title: "Summer fair", Link: "https://fair.test", IsActive: true}
	before.ID = "banner-1"
	same := *before
	after := *before
	after.Title = "Autumn fair"

	t.Run("update without changes is skipped", func(t *testing.T) {
		require.NoError(t, auditor.Handle(audit.Updated(db, rc, before, &same)))

		var count int64
		require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("update records the changed field only", func(t *testing.T) {
		require.NoError(t, auditor.Handle(audit.Updated(db, rc, before, &after)))

		var log models.AuditLog
		require.NoError(t, db.Where("entity_id = ?", "banner-1").First(&log).Error)
		assert.Equal(t, models.AuditActionUpdate, log.Action)
		assert.Equal(t, models.ActorTypeAdmin, log.ActorType)
		assert.Equal(t, "Banner", log.EntityType)
		assert.Equal(t, "banners", log.Module)
		assert.Equal(t, "req-9", log.RequestID)
		assert.JSONEq(t, `{"title":"Summer fair"}`, string(log.OldValues))
		assert.JSONEq(t, `{"title":"Autumn fair"}`, string(log.NewValues))

		var meta map[string]any
		require.NoError(t, json.Unmarshal(log.Metadata, &meta))
		assert.Equal(t, "10.0.0.1", meta["ip"])
		assert.Equal(t, "PUT", meta["method"])
	})
}

func TestAuditor_RecordSystemActor(t *testing.T) {
	db := testutil.NewDB(t)
	auditor := audit.NewAuditor(repositories.NewAuditLogRepository(), repositories.NewAdminRepository())

	require.NoError(t, auditor.Record(db, audit.System(), audit.Entry{
		Module: "settings",
		Action: models.AuditActionBulkUpdate,
		New:    map[string]any{"keys": 2},
	}))

	var log models.AuditLog
	require.NoError(t, db.First(&log).Error)
	assert.Equal(t, models.ActorTypeSystem, log.ActorType)
	assert.Nil(t, log.ActorID)
	assert.Nil(t, log.EntityID)
	assert.Equal(t, models.AuditStatusSuccess, log.Status)
	assert.Empty(t, log.OldValues)
}
