package services

import (
	"context"
	"time"

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

// ============================================
// Баннеры
// ============================================

type BannerService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateBannerRequest, image *media.FileInput) (*dto.BannerResponse, error)
	// Update заменяет картинку, если передана новая: старая удаляется вместе с файлами
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, bannerID string, req *dto.UpdateBannerRequest, image *media.FileInput) (*dto.BannerResponse, error)
	Get(ctx context.Context, db *gorm.DB, bannerID string) (*dto.BannerResponse, error)
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[dto.BannerResponse], error)
	Active(ctx context.Context, db *gorm.DB) ([]dto.BannerResponse, error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, bannerID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, bannerID string) (*models.Banner, error)
}

type bannerService struct {
	crud      *CrudService[models.Banner]
	media     *media.Manager
	validator *validator.Validator
}

func NewBannerService(repo repositories.Repository[models.Banner], mediaManager *media.Manager, bus events.Bus, v *validator.Validator) BannerService {
	return &bannerService{
		crud:      NewCrudService[models.Banner](repo, bus, "banner"),
		media:     mediaManager,
		validator: v,
	}
}

func (s *bannerService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateBannerRequest, image *media.FileInput) (*dto.BannerResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	banner := &models.Banner{
		Title:    req.Title,
		Link:     req.Link,
		IsActive: boolOr(req.IsActive, true),
	}
	err := withTx(db, func(tx *gorm.DB) error {
		if err := s.crud.CreateTx(tx, rc, banner); err != nil {
			return err
		}
		return replacePrimary(ctx, tx, s.media, rc, banner, image, models.CollectionBanners)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, db, banner.ID)
}

func (s *bannerService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, bannerID string, req *dto.UpdateBannerRequest, image *media.FileInput) (*dto.BannerResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	setIf(values, "title", req.Title)
	setIf(values, "link", req.Link)
	setIf(values, "is_active", req.IsActive)

	err := withTx(db, func(tx *gorm.DB) error {
		banner, err := s.crud.UpdateTx(tx, rc, bannerID, values)
		if err != nil {
			return err
		}
		return replacePrimary(ctx, tx, s.media, rc, banner, image, models.CollectionBanners)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, db, bannerID)
}

func (s *bannerService) Get(ctx context.Context, db *gorm.DB, bannerID string) (*dto.BannerResponse, error) {
	banner, err := s.crud.Get(db, bannerID, repositories.FindOptions{})
	if err != nil {
		return nil, err
	}
	return s.present(ctx, db, banner)
}

func (s *bannerService) present(ctx context.Context, db *gorm.DB, banner *models.Banner) (*dto.BannerResponse, error) {
	image, err := presentPrimary(ctx, db, s.media, banner)
	if err != nil {
		return nil, err
	}
	return &dto.BannerResponse{Banner: banner, Image: image}, nil
}

func (s *bannerService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[dto.BannerResponse], error) {
	page, err := s.crud.List(db, spec)
	if err != nil {
		return nil, err
	}
	items, err := s.presentAll(ctx, db, page.Items)
	if err != nil {
		return nil, err
	}
	return query.NewPage(items, page.Total, page.Page, page.PerPage), nil
}

func (s *bannerService) Active(ctx context.Context, db *gorm.DB) ([]dto.BannerResponse, error) {
	spec := query.Spec{PerPage: query.PerPageAll}.Where("is_active", query.OpEq, true)
	banners, err := s.crud.All(db, spec)
	if err != nil {
		return nil, err
	}
	return s.presentAll(ctx, db, banners)
}

func (s *bannerService) presentAll(ctx context.Context, db *gorm.DB, banners []models.Banner) ([]dto.BannerResponse, error) {
	out := make([]dto.BannerResponse, 0, len(banners))
	for i := range banners {
		resp, err := s.present(ctx, db, &banners[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *bannerService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, bannerID, reason string) error {
	return s.crud.Delete(db, rc, bannerID, reason)
}

func (s *bannerService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, bannerID string) (*models.Banner, error) {
	return s.crud.Restore(db, rc, bannerID)
}

// ============================================
// Уведомления
// ============================================

type NotificationService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateNotificationRequest, images []media.FileInput) (*dto.NotificationResponse, error)
	// Update удаляет картинки из DeleteImages, затем добавляет новые
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, notificationID string, req *dto.UpdateNotificationRequest, images []media.FileInput) (*dto.NotificationResponse, error)
	Get(ctx context.Context, db *gorm.DB, notificationID string) (*dto.NotificationResponse, error)
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[dto.NotificationResponse], error)
	// ListPublic скрывает запланированные уведомления, время которых не пришло
	ListPublic(ctx context.Context, db *gorm.DB, spec query.Spec, rng dto.NotificationRange) (*query.Page[dto.NotificationResponse], error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, notificationID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, notificationID string) (*models.Notification, error)
}

type notificationService struct {
	crud      *CrudService[models.Notification]
	media     *media.Manager
	validator *validator.Validator
	now       func() time.Time
}

func NewNotificationService(repo repositories.Repository[models.Notification], mediaManager *media.Manager, bus events.Bus, v *validator.Validator) NotificationService {
	return &notificationService{
		crud:      NewCrudService[models.Notification](repo, bus, "notification"),
		media:     mediaManager,
		validator: v,
		now:       time.Now,
	}
}

func (s *notificationService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateNotificationRequest, images []media.FileInput) (*dto.NotificationResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Title:       req.Title,
		Message:     req.Message,
		Priority:    req.Priority,
		IsActive:    boolOr(req.IsActive, true),
		SortOrder:   req.SortOrder,
		IsScheduled: req.IsScheduled,
	}
	if notification.Priority == "" {
		notification.Priority = models.PriorityNormal
	}
	if req.IsScheduled {
		notification.ScheduledAt = req.ScheduledAt
	}

	err := withTx(db, func(tx *gorm.DB) error {
		if err := s.crud.CreateTx(tx, rc, notification); err != nil {
			return err
		}
		return s.uploadImages(ctx, tx, rc, notification, images)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, db, notification.ID)
}

func (s *notificationService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, notificationID string, req *dto.UpdateNotificationRequest, images []media.FileInput) (*dto.NotificationResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.IsScheduled != nil && *req.IsScheduled && req.ScheduledAt == nil {
		return nil, apperrors.FieldError("scheduled_at", "This field is required when is_scheduled is true")
	}

	values := map[string]any{}
	setIf(values, "title", req.Title)
	setIf(values, "message", req.Message)
	setIf(values, "priority", req.Priority)
	setIf(values, "is_active", req.IsActive)
	setIf(values, "sort_order", req.SortOrder)
	setIf(values, "is_scheduled", req.IsScheduled)
	setIf(values, "scheduled_at", req.ScheduledAt)
	if req.IsScheduled != nil && !*req.IsScheduled {
		values["scheduled_at"] = nil
	}

	err := withTx(db, func(tx *gorm.DB) error {
		notification, err := s.crud.UpdateTx(tx, rc, notificationID, values)
		if err != nil {
			return err
		}
		if len(req.DeleteImages) > 0 {
			if err := s.media.DeleteByIDs(ctx, tx, notification, req.DeleteImages); err != nil {
				return err
			}
		}
		return s.uploadImages(ctx, tx, rc, notification, images)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, db, notificationID)
}

func (s *notificationService) uploadImages(ctx context.Context, tx *gorm.DB, rc audit.RequestContext, notification *models.Notification, images []media.FileInput) error {
	for _, image := range images {
		if _, err := s.media.Upload(ctx, tx, rc, image, notification, media.Options{
			Collection: models.CollectionNotifications,
			WithResize: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *notificationService) Get(ctx context.Context, db *gorm.DB, notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.crud.Get(db, notificationID, repositories.FindOptions{})
	if err != nil {
		return nil, err
	}
	return s.present(ctx, db, notification)
}

func (s *notificationService) present(ctx context.Context, db *gorm.DB, notification *models.Notification) (*dto.NotificationResponse, error) {
	images, err := presentAll(ctx, db, s.media, notification)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationResponse{Notification: notification, Images: images}, nil
}

func (s *notificationService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[dto.NotificationResponse], error) {
	page, err := s.crud.List(db, spec)
	if err != nil {
		return nil, err
	}
	return s.presentPage(ctx, db, page)
}

func (s *notificationService) ListPublic(ctx context.Context, db *gorm.DB, spec query.Spec, rng dto.NotificationRange) (*query.Page[dto.NotificationResponse], error) {
	scoped := db.Where("is_scheduled = ? OR (is_scheduled = ? AND scheduled_at <= ?)", false, true, s.now())
	if rng.DateFrom != nil {
		scoped = scoped.Where("created_at >= ?", startOfDay(*rng.DateFrom))
	}
	if rng.DateTo != nil {
		scoped = scoped.Where("created_at < ?", startOfDay(*rng.DateTo).AddDate(0, 0, 1))
	}

	spec = spec.Where("is_active", query.OpEq, true)
	spec.IncludeDeleted = false
	spec.OnlyDeleted = false

	page, err := s.crud.List(scoped, spec)
	if err != nil {
		return nil, err
	}
	return s.presentPage(ctx, db, page)
}

func (s *notificationService) presentPage(ctx context.Context, db *gorm.DB, page *query.Page[models.Notification]) (*query.Page[dto.NotificationResponse], error) {
	items := make([]dto.NotificationResponse, 0, len(page.Items))
	for i := range page.Items {
		resp, err := s.present(ctx, db, &page.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return query.NewPage(items, page.Total, page.Page, page.PerPage), nil
}

func (s *notificationService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, notificationID, reason string) error {
	return s.crud.Delete(db, rc, notificationID, reason)
}

func (s *notificationService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, notificationID string) (*models.Notification, error) {
	return s.crud.Restore(db, rc, notificationID)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ============================================
// Экстренные контакты
// ============================================

type EmergencyContactService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateEmergencyContactRequest, image *media.FileInput) (*dto.EmergencyContactResponse, error)
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string, req *dto.UpdateEmergencyContactRequest, image *media.FileInput) (*dto.EmergencyContactResponse, error)
	Get(ctx context.Context, db *gorm.DB, contactID string) (*dto.EmergencyContactResponse, error)
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.EmergencyContact], error)
	// Active - активные контакты по sort_order
	Active(ctx context.Context, db *gorm.DB) ([]dto.EmergencyContactResponse, error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string) (*models.EmergencyContact, error)
}

type emergencyContactService struct {
	crud      *CrudService[models.EmergencyContact]
	media     *media.Manager
	validator *validator.Validator
}

func NewEmergencyContactService(repo repositories.Repository[models.EmergencyContact], mediaManager *media.Manager, bus events.Bus, v *validator.Validator) EmergencyContactService {
	return &emergencyContactService{
		crud:      NewCrudService[models.EmergencyContact](repo, bus, "emergency contact"),
		media:     mediaManager,
		validator: v,
	}
}

func (s *emergencyContactService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateEmergencyContactRequest, image *media.FileInput) (*dto.EmergencyContactResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	contact := &models.EmergencyContact{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Icon:          req.Icon,
		Badge:         req.Badge,
		Color:         req.Color,
		SortOrder:     req.SortOrder,
		Description:   req.Description,
		IsActive:      boolOr(req.IsActive, true),
	}
	err := withTx(db, func(tx *gorm.DB) error {
		if err := s.crud.CreateTx(tx, rc, contact); err != nil {
			return err
		}
		return replacePrimary(ctx, tx, s.media, rc, contact, image, models.CollectionEmergency)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, db, contact.ID)
}

func (s *emergencyContactService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string, req *dto.UpdateEmergencyContactRequest, image *media.FileInput) (*dto.EmergencyContactResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	setIf(values, "name", req.Name)
	setIf(values, "contact_number", req.ContactNumber)
	setIf(values, "icon", req.Icon)
	setIf(values, "badge", req.Badge)
	setIf(values, "color", req.Color)
	setIf(values, "sort_order", req.SortOrder)
	setIf(values, "description", req.Description)
	setIf(values, "is_active", req.IsActive)

	err := withTx(db, func(tx *gorm.DB) error {
		contact, err := s.crud.UpdateTx(tx, rc, contactID, values)
		if err != nil {
			return err
		}
		return replacePrimary(ctx, tx, s.media, rc, contact, image, models.CollectionEmergency)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, db, contactID)
}

func (s *emergencyContactService) Get(ctx context.Context, db *gorm.DB, contactID string) (*dto.EmergencyContactResponse, error) {
	contact, err := s.crud.Get(db, contactID, repositories.FindOptions{})
	if err != nil {
		return nil, err
	}
	return s.present(ctx, db, contact)
}

func (s *emergencyContactService) present(ctx context.Context, db *gorm.DB, contact *models.EmergencyContact) (*dto.EmergencyContactResponse, error) {
	image, err := presentPrimary(ctx, db, s.media, contact)
	if err != nil {
		return nil, err
	}
	return &dto.EmergencyContactResponse{EmergencyContact: contact, Image: image}, nil
}

func (s *emergencyContactService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.EmergencyContact], error) {
	return s.crud.List(db, spec)
}

func (s *emergencyContactService) Active(ctx context.Context, db *gorm.DB) ([]dto.EmergencyContactResponse, error) {
	spec := query.Spec{SortBy: "sort_order", SortOrder: query.Asc, PerPage: query.PerPageAll}.
		Where("is_active", query.OpEq, true)
	contacts, err := s.crud.All(db, spec)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EmergencyContactResponse, 0, len(contacts))
	for i := range contacts {
		resp, err := s.present(ctx, db, &contacts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *emergencyContactService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID, reason string) error {
	return s.crud.Delete(db, rc, contactID, reason)
}

func (s *emergencyContactService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, contactID string) (*models.EmergencyContact, error) {
	return s.crud.Restore(db, rc, contactID)
}
