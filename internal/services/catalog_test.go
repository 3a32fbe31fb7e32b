package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Теги
// ============================================

func TestTagCreate_DerivesSlug(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	tag, err := e.TagService.Create(ctx, e.db, rc, &dto.CreateTagRequest{Name: "  Home Delivery ", Category: models.TagCategoryService})
	require.NoError(t, err)
	assert.Equal(t, "Home Delivery", tag.Name)
	assert.Equal(t, "home-delivery", tag.Slug)
	assert.True(t, tag.IsActive)

	found, err := e.TagService.GetBySlug(ctx, e.db, "home-delivery")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, found.ID)

	_, err = e.TagService.Create(ctx, e.db, rc, &dto.CreateTagRequest{Name: "Home delivery!", Category: models.TagCategoryService})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyExists))

	_, err = e.TagService.Create(ctx, e.db, rc, &dto.CreateTagRequest{Name: "!!!", Category: models.TagCategoryService})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestTagGroupedByCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	testutil.CreateTag(t, e.db, "Delivery", "delivery", models.TagCategoryService)
	testutil.CreateTag(t, e.db, "Plumber", "plumber", models.TagCategoryProfession)
	testutil.CreateTag(t, e.db, "Electrician", "electrician", models.TagCategoryProfession)

	groups, err := e.TagService.GroupedByCategory(ctx, e.db)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, models.TagCategoryProfession, groups[0].Category)
	require.Len(t, groups[0].Tags, 2)
	assert.Equal(t, "Electrician", groups[0].Tags[0].Name)
	assert.Equal(t, models.TagCategoryService, groups[1].Category)
}

func TestTagPopular_CountsActiveContacts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	plumber := testutil.CreateTag(t, e.db, "Plumber", "plumber", models.TagCategoryProfession)
	doctor := testutil.CreateTag(t, e.db, "Doctor", "doctor", models.TagCategoryProfession)

	for _, name := range []string{"A", "B"} {
		_, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{Name: name, TagIDs: []string{plumber.ID}}, nil)
		require.NoError(t, err)
	}
	_, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{Name: "C", TagIDs: []string{doctor.ID}}, nil)
	require.NoError(t, err)

	popular, err := e.TagService.Popular(ctx, e.db, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, plumber.ID, popular[0].ID)
	assert.EqualValues(t, 2, popular[0].ContactsCount)
}

// ============================================
// Телефонная книга
// ============================================

func TestContactCreate_NumbersAndTags(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	plumber := testutil.CreateTag(t, e.db, "Plumber", "plumber", models.TagCategoryProfession)

	// Act
	resp, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{
		Name: "John",
		Numbers: []dto.ContactNumberInput{
			{Number: "555-0100"},
			{Number: "555-0101", Type: models.NumberTypeWhatsapp},
		},
		TagIDs: []string{plumber.ID},
	}, nil)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, models.ContactTypePerson, resp.Type)
	assert.True(t, resp.IsActive)
	assert.Equal(t, "555-0100", resp.Phone)
	require.Len(t, resp.ContactNumbers, 2)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "plumber", resp.Tags[0].Slug)
	assert.Nil(t, resp.Image)

	byTag, err := e.ContactBookService.ByTagSlug(ctx, e.db, "plumber", query.Spec{})
	require.NoError(t, err)
	require.Len(t, byTag.Items, 1)

	_, err = e.ContactBookService.ByTagSlug(ctx, e.db, "nobody", query.Spec{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestContactSearch_RecordsKeyword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	for _, name := range []string{"City Hospital", "Town Hall"} {
		_, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{Name: name}, nil)
		require.NoError(t, err)
	}

	page, err := e.ContactBookService.Search(ctx, e.db, rc, "  hospital ", query.Spec{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "City Hospital", page.Items[0].Name)

	var logs []models.AuditLog
	require.NoError(t, e.db.Where("action = ?", models.AuditActionSearch).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "contact_book", logs[0].Module)
	assert.JSONEq(t, `{"keyword":"hospital"}`, string(logs[0].NewValues))

	_, err = e.ContactBookService.Search(ctx, e.db, rc, "   ", query.Spec{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestContactBulkUpdateStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	ids := make([]string, 0, 3)
	for _, name := range []string{"A", "B", "C"} {
		resp, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{Name: name}, nil)
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	result, err := e.ContactBookService.BulkUpdateStatus(ctx, e.db, rc, &dto.BulkStatusRequest{IDs: ids[:2], IsActive: ptr(false)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Updated)

	// по умолчанию список показывает только активные
	page, err := e.ContactBookService.List(ctx, e.db, query.Spec{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[2], page.Items[0].ID)

	inactive, err := e.ContactBookService.List(ctx, e.db, query.Spec{}.Where("is_active", query.OpEq, false))
	require.NoError(t, err)
	assert.Len(t, inactive.Items, 2)

	var logs []models.AuditLog
	require.NoError(t, e.db.Where("action = ?", models.AuditActionBulkUpdate).Find(&logs).Error)
	require.Len(t, logs, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(logs[0].NewValues, &payload))
	assert.Equal(t, false, payload["is_active"])
	assert.EqualValues(t, 2, payload["updated"])
}

func TestContactGet_RecordsView(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	created, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{Name: "John"}, nil)
	require.NoError(t, err)

	_, err = e.ContactBookService.Get(ctx, e.db, rc, created.ID)
	require.NoError(t, err)

	views := e.logs(t, created.ID, models.AuditActionView)
	require.Len(t, views, 1)
	assert.Equal(t, models.ActorTypeAdmin, views[0].ActorType)
	assert.Equal(t, "req-1", views[0].RequestID)
}

func TestContactDeleteRestore_Audited(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	created, err := e.ContactBookService.Create(ctx, e.db, rc, &dto.CreateContactRequest{Name: "John"}, nil)
	require.NoError(t, err)

	require.NoError(t, e.ContactBookService.Delete(ctx, e.db, rc, created.ID, "moved away"))

	_, err = e.ContactBookService.Get(ctx, e.db, rc, created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	restored, err := e.ContactBookService.Restore(ctx, e.db, rc, created.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	// create, delete, restore - по одной записи
	for _, action := range []models.AuditAction{models.AuditActionCreate, models.AuditActionDelete, models.AuditActionRestore} {
		assert.Len(t, e.logs(t, created.ID, action), 1, action)
	}
}
