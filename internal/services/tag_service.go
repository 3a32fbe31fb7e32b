package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/slug"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultPopularTags = 10

type TagService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateTagRequest) (*models.Tag, error)
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, tagID string, req *dto.UpdateTagRequest) (*models.Tag, error)
	Get(ctx context.Context, db *gorm.DB, tagID string) (*models.Tag, error)
	GetBySlug(ctx context.Context, db *gorm.DB, slug string) (*models.Tag, error)

	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Tag], error)
	// All - активные теги по имени, без пагинации
	All(ctx context.Context, db *gorm.DB) ([]models.Tag, error)
	GroupedByCategory(ctx context.Context, db *gorm.DB) ([]dto.TagGroup, error)
	Search(ctx context.Context, db *gorm.DB, term string) ([]models.Tag, error)
	Stats(ctx context.Context, db *gorm.DB) (*repositories.TagStats, error)
	// Popular - по числу активных контактов с тегом
	Popular(ctx context.Context, db *gorm.DB, limit int) ([]repositories.TagUsage, error)

	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, tagID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, tagID string) (*models.Tag, error)
}

type tagService struct {
	crud      *CrudService[models.Tag]
	tagRepo   repositories.TagRepository
	validator *validator.Validator
}

func NewTagService(tagRepo repositories.TagRepository, bus events.Bus, v *validator.Validator) TagService {
	return &tagService{
		crud:      NewCrudService[models.Tag](tagRepo, bus, "tag"),
		tagRepo:   tagRepo,
		validator: v,
	}
}

func (s *tagService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateTagRequest) (*models.Tag, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	tag := &models.Tag{
		Name:     strings.TrimSpace(req.Name),
		Slug:     slug.Make(req.Slug),
		Category: req.Category,
		IsActive: boolOr(req.IsActive, true),
	}
	if tag.Slug == "" {
		tag.Slug = slug.Make(tag.Name)
	}
	if tag.Slug == "" {
		return nil, apperrors.FieldError("slug", "slug cannot be derived from name")
	}

	err := withTx(db, func(tx *gorm.DB) error {
		if err := s.ensureSlugFree(tx, tag.Slug, ""); err != nil {
			return err
		}
		return s.crud.CreateTx(tx, rc, tag)
	})
	if err != nil {
		return nil, handleTagError(err)
	}
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, tagID string, req *dto.UpdateTagRequest) (*models.Tag, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	if req.Name != nil {
		values["name"] = strings.TrimSpace(*req.Name)
	}
	setIf(values, "category", req.Category)
	setIf(values, "is_active", req.IsActive)

	var updated *models.Tag
	err := withTx(db, func(tx *gorm.DB) error {
		if req.Slug != nil {
			newSlug := slug.Make(*req.Slug)
			if newSlug == "" && req.Name != nil {
				newSlug = slug.Make(*req.Name)
			}
			if newSlug == "" {
				return apperrors.FieldError("slug", "slug cannot be empty")
			}
			if err := s.ensureSlugFree(tx, newSlug, tagID); err != nil {
				return err
			}
			values["slug"] = newSlug
		}

		var err error
		updated, err = s.crud.UpdateTx(tx, rc, tagID, values)
		return err
	})
	if err != nil {
		return nil, handleTagError(err)
	}
	return updated, nil
}

func (s *tagService) ensureSlugFree(tx *gorm.DB, slug, exceptID string) error {
	taken, err := s.tagRepo.SlugExists(tx, slug, exceptID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if taken {
		return apperrors.ErrTagSlugTaken
	}
	return nil
}

func (s *tagService) Get(ctx context.Context, db *gorm.DB, tagID string) (*models.Tag, error) {
	return s.crud.Get(db, tagID, repositories.FindOptions{})
}

func (s *tagService) GetBySlug(ctx context.Context, db *gorm.DB, slug string) (*models.Tag, error) {
	tag, err := s.tagRepo.FindBySlug(db, slug)
	if err != nil {
		return nil, handleTagError(err)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Tag], error) {
	return s.crud.List(db, spec)
}

func (s *tagService) All(ctx context.Context, db *gorm.DB) ([]models.Tag, error) {
	tags, err := s.tagRepo.ActiveOrdered(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return tags, nil
}

// GroupedByCategory - активные теги, сгруппированные в порядке категорий
func (s *tagService) GroupedByCategory(ctx context.Context, db *gorm.DB) ([]dto.TagGroup, error) {
	tags, err := s.All(ctx, db)
	if err != nil {
		return nil, err
	}

	order := []models.TagCategory{
		models.TagCategoryProfession,
		models.TagCategorySkill,
		models.TagCategoryBusiness,
		models.TagCategoryService,
	}
	byCategory := make(map[models.TagCategory][]models.Tag, len(order))
	for _, tag := range tags {
		byCategory[tag.Category] = append(byCategory[tag.Category], tag)
	}

	groups := make([]dto.TagGroup, 0, len(order))
	for _, category := range order {
		if items, ok := byCategory[category]; ok {
			groups = append(groups, dto.TagGroup{Category: category, Tags: items})
		}
	}
	return groups, nil
}

func (s *tagService) Search(ctx context.Context, db *gorm.DB, term string) ([]models.Tag, error) {
	spec := query.Spec{Search: strings.TrimSpace(term), PerPage: query.MaxPerPage}.
		Where("is_active", query.OpEq, true)
	page, err := s.crud.List(db, spec)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *tagService) Stats(ctx context.Context, db *gorm.DB) (*repositories.TagStats, error) {
	stats, err := s.tagRepo.Stats(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return stats, nil
}

func (s *tagService) Popular(ctx context.Context, db *gorm.DB, limit int) ([]repositories.TagUsage, error) {
	if limit < 1 || limit > query.MaxPerPage {
		limit = defaultPopularTags
	}
	tags, err := s.tagRepo.Popular(db, limit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return tags, nil
}

func (s *tagService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, tagID, reason string) error {
	return s.crud.Delete(db, rc, tagID, reason)
}

func (s *tagService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, tagID string) (*models.Tag, error) {
	return s.crud.Restore(db, rc, tagID)
}

func handleTagError(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperrors.ErrTagSlugTaken.WithError(err)
	}
	return handleRepoError("tag", err)
}
