package query_test

import (
	"testing"
	"time"

	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FlatConvention(t *testing.T) {
	params := map[string]string{
		"price_min":      "10",
		"price_max":      "50.5",
		"is_active":      "yes",
		"shop.shop_name": "Corner",
		"search":         "tea",
		"sort_by":        "price",
		"sort_order":     "ASC",
		"page":           "2",
		"per_page":       "500",
	}

	spec, err := query.Parse(params, repositories.ShopProductSchema)
	require.NoError(t, err)

	assert.Equal(t, "tea", spec.Search)
	assert.Equal(t, "price", spec.SortBy)
	assert.Equal(t, query.Asc, spec.SortOrder)
	assert.Equal(t, 2, spec.Page)
	assert.Equal(t, query.MaxPerPage, spec.PerPage)

	// условия отсортированы: сначала без связи, затем по имени поля и оператору
	require.Len(t, spec.Conditions, 4)
	assert.Equal(t, query.Condition{Field: "is_active", Op: query.OpEq, Value: true}, spec.Conditions[0])
	assert.Equal(t, query.Condition{Field: "price", Op: query.OpMax, Value: 50.5}, spec.Conditions[1])
	assert.Equal(t, query.Condition{Field: "price", Op: query.OpMin, Value: 10.0}, spec.Conditions[2])
	assert.Equal(t, query.Condition{Relation: "shop", Field: "shop_name", Op: query.OpEq, Value: "Corner"}, spec.Conditions[3])
}

func TestParse_SkipsEmptyValues(t *testing.T) {
	spec, err := query.Parse(map[string]string{"name": "  ", "search": "", "price_min": ""}, repositories.ShopProductSchema)
	require.NoError(t, err)

	assert.Empty(t, spec.Conditions)
	assert.Empty(t, spec.Search)
}

func TestParse_RejectsUndeclaredFields(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown field":       {"password": "x"},
		"unknown relation":    {"owner.name": "x"},
		"range on string":     {"name_min": "a"},
		"date on number":      {"price_date": "2025-01-01"},
		"bad number":          {"price_min": "cheap"},
		"bad boolean":         {"is_active": "maybe"},
		"bad sort order":      {"sort_order": "sideways"},
		"bad date in created": {"created_at_date": "01/02/2025"},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := query.Parse(params, repositories.ShopProductSchema)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
		})
	}
}

func TestParse_DateMaxIsInclusive(t *testing.T) {
	spec, err := query.Parse(map[string]string{"created_at_max": "2025-03-01"}, repositories.ShopProductSchema)
	require.NoError(t, err)
	require.Len(t, spec.Conditions, 1)

	end, ok := spec.Conditions[0].Value.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), end)
}

func TestSpec_WhereDoesNotAliasConditions(t *testing.T) {
	base := query.Spec{}.Where("is_active", query.OpEq, true)
	a := base.Where("price", query.OpMin, 1.0)
	b := base.Where("price", query.OpMax, 2.0)

	assert.Len(t, base.Conditions, 1)
	assert.Equal(t, query.OpMin, a.Conditions[1].Op)
	assert.Equal(t, query.OpMax, b.Conditions[1].Op)
	assert.True(t, a.Has("price"))
	assert.False(t, base.Has("price"))
}

func TestNewPage_LastPage(t *testing.T) {
	assert.Equal(t, 1, query.NewPage[int](nil, 0, 1, 20).LastPage)
	assert.Equal(t, 1, query.NewPage([]int{1}, 20, 1, 20).LastPage)
	assert.Equal(t, 2, query.NewPage([]int{1}, 21, 2, 20).LastPage)
	assert.NotNil(t, query.NewPage[int](nil, 0, 1, 20).Items)
}

// ============================================
// Выполнение на базе
// ============================================

func TestPaginate_PriceRange(t *testing.T) {
	// Arrange
	db := testutil.NewDB(t)
	_, shop := testutil.CreateShop(t, db, "owner@test.com", "Corner Store")
	for _, p := range []struct {
		name  string
		price float64
	}{{"Pen", 5}, {"Notebook", 15}, {"Backpack", 50}, {"Lamp", 60}} {
		testutil.CreateProduct(t, db, shop.ID, p.name, p.price)
	}

	spec, err := query.Parse(map[string]string{"price_min": "10", "price_max": "50", "sort_by": "price", "sort_order": "asc"}, repositories.ShopProductSchema)
	require.NoError(t, err)

	// Act
	page, err := query.Paginate[models.ShopProduct](db, spec, repositories.ShopProductSchema)
	require.NoError(t, err)

	// Assert
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Notebook", page.Items[0].Name)
	assert.Equal(t, "Backpack", page.Items[1].Name)
	assert.EqualValues(t, 2, page.Total)
}

func TestPaginate_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.CreateShop(t, db, "owner@test.com", "Corner Store")
	for i, name := range []string{"Green Tea", "Black Tea", "Coffee", "Tea Pot"} {
		testutil.CreateProduct(t, db, shop.ID, name, float64(10+i))
	}

	spec, err := query.Parse(map[string]string{"search": "TEA", "per_page": "2"}, repositories.ShopProductSchema)
	require.NoError(t, err)

	first, err := query.Paginate[models.ShopProduct](db, spec, repositories.ShopProductSchema)
	require.NoError(t, err)
	second, err := query.Paginate[models.ShopProduct](db, spec, repositories.ShopProductSchema)
	require.NoError(t, err)

	assert.EqualValues(t, 3, first.Total)
	assert.Equal(t, 2, first.LastPage)
	assert.Equal(t, first, second)
}

func TestPaginate_RelationFilterAndSort(t *testing.T) {
	db := testutil.NewDB(t)
	_, alpha := testutil.CreateShop(t, db, "a@test.com", "Alpha")
	_, beta := testutil.CreateShop(t, db, "b@test.com", "Beta")
	testutil.CreateProduct(t, db, alpha.ID, "Apple", 1)
	testutil.CreateProduct(t, db, beta.ID, "Banana", 2)

	t.Run("filter by belongs-to field", func(t *testing.T) {
		spec, err := query.Parse(map[string]string{"shop.shop_name": "Beta"}, repositories.ShopProductSchema)
		require.NoError(t, err)

		page, err := query.Paginate[models.ShopProduct](db, spec, repositories.ShopProductSchema)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Banana", page.Items[0].Name)
	})

	t.Run("sort by belongs-to field", func(t *testing.T) {
		spec := query.Spec{SortBy: "shop.shop_name", SortOrder: query.Desc}

		page, err := query.Paginate[models.ShopProduct](db, spec, repositories.ShopProductSchema)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Banana", page.Items[0].Name)
	})
}

func TestPaginate_RejectsToManySort(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := query.Paginate[models.ContactBook](db, query.Spec{SortBy: "tags.name"}, repositories.ContactBookSchema)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnsupportedQuery))
}

func TestPaginate_SoftDeleteVisibility(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.CreateShop(t, db, "owner@test.com", "Corner Store")
	keep := testutil.CreateProduct(t, db, shop.ID, "Keep", 1)
	gone := testutil.CreateProduct(t, db, shop.ID, "Gone", 2)
	require.NoError(t, db.Model(gone).Update("deleted_at", time.Now()).Error)

	ids := func(spec query.Spec) []string {
		page, err := query.Paginate[models.ShopProduct](db, spec, repositories.ShopProductSchema)
		require.NoError(t, err)
		out := make([]string, 0, len(page.Items))
		for _, p := range page.Items {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{keep.ID}, ids(query.Spec{}))
	assert.ElementsMatch(t, []string{keep.ID, gone.ID}, ids(query.Spec{IncludeDeleted: true}))
	assert.Equal(t, []string{gone.ID}, ids(query.Spec{OnlyDeleted: true}))
}

func TestPaginate_SearchThroughManyToMany(t *testing.T) {
	db := testutil.NewDB(t)
	plumber := testutil.CreateTag(t, db, "Plumber", "plumber", models.TagCategoryProfession)

	withTag := &models.ContactBook{Name: "John", Type: models.ContactTypePerson, IsActive: true, Tags: []models.Tag{*plumber}}
	without := &models.ContactBook{Name: "Mary", Type: models.ContactTypePerson, IsActive: true}
	require.NoError(t, db.Create(withTag).Error)
	require.NoError(t, db.Create(without).Error)

	page, err := query.Paginate[models.ContactBook](db, query.Spec{Search: "PLUMB"}, repositories.ContactBookSchema)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, withTag.ID, page.Items[0].ID)

	// удаленный тег не находит контакт
	require.NoError(t, db.Model(plumber).Update("deleted_at", time.Now()).Error)
	page, err = query.Paginate[models.ContactBook](db, query.Spec{Search: "plumb"}, repositories.ContactBookSchema)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestAll_ReturnsEveryMatch(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.CreateShop(t, db, "owner@test.com", "Corner Store")
	for i := 0; i < query.DefaultPerPage+5; i++ {
		testutil.CreateProduct(t, db, shop.ID, "Item", float64(i))
	}

	items, err := query.All[models.ShopProduct](db, query.Spec{}.Where("price", query.OpMin, 5.0), repositories.ShopProductSchema)
	require.NoError(t, err)
	assert.Len(t, items, query.DefaultPerPage)
}
