package services

import (
	"context"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

const contactModule = "contact_book"

// AuditRecorder пишет в журнал действия, не связанные с изменением сущности
type AuditRecorder interface {
	Record(db *gorm.DB, rc audit.RequestContext, entry audit.Entry) error
}

type ContactBookService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateContactRequest, image *media.FileInput) (*dto.ContactResponse, error)
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string, req *dto.UpdateContactRequest, image *media.FileInput) (*dto.ContactResponse, error)
	// Get отдает контакт со связями и пишет в журнал просмотр
	Get(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string) (*dto.ContactResponse, error)

	// List - по умолчанию только активные контакты
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.ContactBook], error)
	// Search - поиск по ключевому слову, пишет в журнал поиск
	Search(ctx context.Context, db *gorm.DB, rc audit.RequestContext, keyword string, spec query.Spec) (*query.Page[models.ContactBook], error)
	ByTag(ctx context.Context, db *gorm.DB, tagID string, spec query.Spec) (*query.Page[models.ContactBook], error)
	ByTagSlug(ctx context.Context, db *gorm.DB, slug string, spec query.Spec) (*query.Page[models.ContactBook], error)

	BulkUpdateStatus(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error)
	Stats(ctx context.Context, db *gorm.DB) (*repositories.ContactStats, error)
	// Export - все подходящие контакты без пагинации
	Export(ctx context.Context, db *gorm.DB, spec query.Spec) ([]models.ContactBook, error)

	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string) (*models.ContactBook, error)
}

type contactBookService struct {
	crud        *CrudService[models.ContactBook]
	contactRepo repositories.ContactBookRepository
	tagRepo     repositories.TagRepository
	media       *media.Manager
	auditor     AuditRecorder
	validator   *validator.Validator
}

func NewContactBookService(
	contactRepo repositories.ContactBookRepository,
	tagRepo repositories.TagRepository,
	mediaManager *media.Manager,
	auditor AuditRecorder,
	bus events.Bus,
	v *validator.Validator,
) ContactBookService {
	return &contactBookService{
		crud:        NewCrudService[models.ContactBook](contactRepo, bus, "contact"),
		contactRepo: contactRepo,
		tagRepo:     tagRepo,
		media:       mediaManager,
		auditor:     auditor,
		validator:   v,
	}
}

// ============================================
// Создание и изменение
// ============================================

func (s *contactBookService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateContactRequest, image *media.FileInput) (*dto.ContactResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	contact := &models.ContactBook{
		Name:        req.Name,
		Designation: req.Designation,
		Department:  req.Department,
		Email:       req.Email,
		Address:     req.Address,
		Description: req.Description,
		Type:        req.Type,
		IsActive:    boolOr(req.IsActive, true),
		SortOrder:   req.SortOrder,
	}
	if contact.Type == "" {
		contact.Type = models.ContactTypePerson
	}
	if len(req.Numbers) > 0 {
		contact.Phone = req.Numbers[0].Number
	}

	err := withTx(db, func(tx *gorm.DB) error {
		if err := s.crud.CreateTx(tx, rc, contact); err != nil {
			return err
		}
		if len(req.TagIDs) > 0 {
			if err := s.contactRepo.SyncTags(tx, contact, req.TagIDs); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		if len(req.Numbers) > 0 {
			if err := s.contactRepo.ReplaceNumbers(tx, contact.ID, contactNumbers(req.Numbers)); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		return s.uploadImage(ctx, tx, rc, contact, image)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, db, contact.ID)
}

func (s *contactBookService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string, req *dto.UpdateContactRequest, image *media.FileInput) (*dto.ContactResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	setIf(values, "name", req.Name)
	setIf(values, "designation", req.Designation)
	setIf(values, "department", req.Department)
	setIf(values, "email", req.Email)
	setIf(values, "address", req.Address)
	setIf(values, "description", req.Description)
	setIf(values, "type", req.Type)
	setIf(values, "is_active", req.IsActive)
	setIf(values, "sort_order", req.SortOrder)
	if len(req.Numbers) > 0 {
		values["phone"] = req.Numbers[0].Number
	}

	err := withTx(db, func(tx *gorm.DB) error {
		contact, err := s.crud.UpdateTx(tx, rc, contactID, values)
		if err != nil {
			return err
		}
		if req.TagIDs != nil {
			if err := s.contactRepo.SyncTags(tx, contact, req.TagIDs); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		if req.Numbers != nil {
			if err := s.contactRepo.ReplaceNumbers(tx, contact.ID, contactNumbers(req.Numbers)); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		return s.uploadImage(ctx, tx, rc, contact, image)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, db, contactID)
}

func (s *contactBookService) uploadImage(ctx context.Context, tx *gorm.DB, rc audit.RequestContext, contact *models.ContactBook, image *media.FileInput) error {
	if image == nil {
		return nil
	}
	_, err := s.media.Upload(ctx, tx, rc, *image, contact, media.Options{
		Collection: media.DefaultCollection,
		IsPrimary:  true,
		WithResize: true,
	})
	return err
}

func contactNumbers(in []dto.ContactNumberInput) []models.ContactNumber {
	out := make([]models.ContactNumber, 0, len(in))
	for _, n := range in {
		numberType := n.Type
		if numberType == "" {
			numberType = models.NumberTypePrimary
		}
		out = append(out, models.ContactNumber{Number: strings.TrimSpace(n.Number), Type: numberType})
	}
	return out
}

// ============================================
// Чтение
// ============================================

func (s *contactBookService) load(ctx context.Context, db *gorm.DB, contactID string) (*dto.ContactResponse, error) {
	contact, err := s.crud.Get(db, contactID, repositories.FindOptions{Preload: repositories.ContactRelations})
	if err != nil {
		return nil, err
	}
	image, err := presentPrimary(ctx, db, s.media, contact)
	if err != nil {
		return nil, err
	}
	return &dto.ContactResponse{ContactBook: contact, Image: image}, nil
}

func (s *contactBookService) Get(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string) (*dto.ContactResponse, error) {
	resp, err := s.load(ctx, db, contactID)
	if err != nil {
		return nil, err
	}

	if err := s.record(db, rc, audit.Entry{
		Action:     models.AuditActionView,
		EntityType: "ContactBook",
		EntityID:   resp.ID,
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// activeByDefault - без явного is_active показываются только активные
func activeByDefault(spec query.Spec) query.Spec {
	if !spec.Has("is_active") {
		spec = spec.Where("is_active", query.OpEq, true)
	}
	return spec
}

func (s *contactBookService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.ContactBook], error) {
	return s.crud.List(db, activeByDefault(spec), repositories.ContactRelations...)
}

func (s *contactBookService) Search(ctx context.Context, db *gorm.DB, rc audit.RequestContext, keyword string, spec query.Spec) (*query.Page[models.ContactBook], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperrors.FieldError("q", "search keyword is required")
	}
	spec.Search = keyword

	page, err := s.crud.List(db, activeByDefault(spec), repositories.ContactRelations...)
	if err != nil {
		return nil, err
	}

	if err := s.record(db, rc, audit.Entry{
		Action:     models.AuditActionSearch,
		EntityType: "ContactBook",
		New:        map[string]any{"keyword": keyword},
	}); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *contactBookService) ByTag(ctx context.Context, db *gorm.DB, tagID string, spec query.Spec) (*query.Page[models.ContactBook], error) {
	spec = spec.WhereHas("tags", "id", query.OpEq, tagID)
	return s.List(ctx, db, spec)
}

func (s *contactBookService) ByTagSlug(ctx context.Context, db *gorm.DB, slug string, spec query.Spec) (*query.Page[models.ContactBook], error) {
	if _, err := s.tagRepo.FindBySlug(db, slug); err != nil {
		return nil, handleRepoError("tag", err)
	}
	spec = spec.WhereHas("tags", "slug", query.OpEq, slug)
	return s.List(ctx, db, spec)
}

// ============================================
// Администрирование
// ============================================

func (s *contactBookService) BulkUpdateStatus(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	var updated int64
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		updated, err = s.contactRepo.BulkUpdateStatus(tx, req.IDs, *req.IsActive)
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		return s.record(tx, rc, audit.Entry{
			Action:     models.AuditActionBulkUpdate,
			EntityType: "ContactBook",
			New: map[string]any{
				"ids":       req.IDs,
				"is_active": *req.IsActive,
				"updated":   updated,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkStatusResponse{Updated: updated}, nil
}

func (s *contactBookService) Stats(ctx context.Context, db *gorm.DB) (*repositories.ContactStats, error) {
	stats, err := s.contactRepo.Stats(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return stats, nil
}

func (s *contactBookService) Export(ctx context.Context, db *gorm.DB, spec query.Spec) ([]models.ContactBook, error) {
	return s.crud.All(db, spec, repositories.ContactRelations...)
}

func (s *contactBookService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID, reason string) error {
	return s.crud.Delete(db, rc, contactID, reason)
}

func (s *contactBookService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string) (*models.ContactBook, error) {
	return s.crud.Restore(db, rc, contactID)
}

func (s *contactBookService) record(db *gorm.DB, rc audit.RequestContext, entry audit.Entry) error {
	if s.auditor == nil {
		return nil
	}
	entry.Module = contactModule
	if err := s.auditor.Record(db, rc, entry); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}
