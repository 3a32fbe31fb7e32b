package repositories_test

import (
	"errors"
	"testing"

	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepository_SoftDeleteRoundTrip(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	repo := repositories.NewRepository[models.Banner](repositories.BannerSchema)
	banner := &models.Banner{Title: "Summer fair", IsActive: true}
	require.NoError(t, repo.Create(db, banner))

	// Act
	require.NoError(t, repo.Delete(db, banner.ID, repositories.DeleteOptions{ActorID: "admin-1", Reason: "expired"}))

	// Assert
	_, err := repo.Find(db, banner.ID, repositories.FindOptions{})
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	exists, err := repo.Exists(db, banner.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	trashed, err := repo.Find(db, banner.ID, repositories.FindOptions{IncludeDeleted: true})
	require.NoError(t, err)
	assert.True(t, trashed.IsDeleted())
	assert.True(t, trashed.IsActive)
	require.NotNil(t, trashed.DeletedBy)
	assert.Equal(t, "admin-1", *trashed.DeletedBy)
	require.NotNil(t, trashed.DeleteReason)
	assert.Equal(t, "expired", *trashed.DeleteReason)

	// повторное удаление не находит живую запись
	err = repo.Delete(db, banner.ID, repositories.DeleteOptions{})
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	_, err = repo.Update(db, banner.ID, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	restored, err := repo.Restore(db, banner.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
	assert.True(t, restored.IsActive, "restore keeps pre-delete columns")
	assert.Nil(t, restored.DeletedBy)
	assert.Nil(t, restored.DeleteReason)

	_, err = repo.Restore(db, banner.ID)
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
}

func TestGormRepository_RestoreKeepsInactiveFlag(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewRepository[models.Banner](repositories.BannerSchema)
	banner := &models.Banner{Title: "Draft"}
	require.NoError(t, repo.Create(db, banner))
	require.NoError(t, db.Model(banner).Update("is_active", false).Error)

	require.NoError(t, repo.Delete(db, banner.ID, repositories.DeleteOptions{}))
	restored, err := repo.Restore(db, banner.ID)
	require.NoError(t, err)

	assert.False(t, restored.IsActive)
}

func TestGormRepository_ForceDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewRepository[models.Banner](repositories.BannerSchema)
	banner := &models.Banner{Title: "Gone", IsActive: true}
	require.NoError(t, repo.Create(db, banner))

	require.NoError(t, repo.Delete(db, banner.ID, repositories.DeleteOptions{Force: true}))

	_, err := repo.Find(db, banner.ID, repositories.FindOptions{IncludeDeleted: true})
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
}

func TestGormRepository_Update(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewRepository[models.EmergencyContact](repositories.EmergencyContactSchema)
	contact := &models.EmergencyContact{Name: "Police", ContactNumber: "100", IsActive: true}
	require.NoError(t, repo.Create(db, contact))

	updated, err := repo.Update(db, contact.ID, map[string]any{"contact_number": "112", "sort_order": 3})
	require.NoError(t, err)
	assert.Equal(t, "112", updated.ContactNumber)
	assert.Equal(t, 3, updated.SortOrder)
	assert.Equal(t, "Police", updated.Name)

	_, err = repo.Update(db, "missing", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
}

func TestGormRepository_DuplicateTranslated(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewTagRepository()

	require.NoError(t, repo.Create(db, &models.Tag{Name: "Plumber", Slug: "plumber", Category: models.TagCategoryProfession}))
	err := repo.Create(db, &models.Tag{Name: "Plumber 2", Slug: "plumber", Category: models.TagCategoryProfession})

	assert.True(t, errors.Is(err, repositories.ErrDuplicate))
	assert.True(t, repositories.IsDuplicate(err))
}

func TestGormRepository_PaginateUsesSchema(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewRepository[models.EmergencyContact](repositories.EmergencyContactSchema)
	for i, c := range [][2]string{{"Police", "100"}, {"Fire", "101"}, {"Ambulance", "102"}} {
		require.NoError(t, repo.Create(db, &models.EmergencyContact{Name: c[0], ContactNumber: c[1], IsActive: true, SortOrder: i}))
	}

	page, err := repo.Paginate(db, query.Spec{SortBy: "name", SortOrder: query.Asc, PerPage: 2})
	require.NoError(t, err)

	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Ambulance", page.Items[0].Name)
}
