package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/cache"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	settingCachePrefix = "setting:"
	settingsCollection = "settings"
	settingOwnerType   = "setting"
)

// Настройки-файлы: в Value хранится ключ хранилища, наружу отдается URL
var assetSettings = []string{models.SettingSiteLogo, models.SettingSiteFavicon}

type SettingService interface {
	// Get читает настройку через кеш и приводит значение к ее типу.
	// Если настройки нет, возвращается def (в кеш не попадает).
	Get(ctx context.Context, db *gorm.DB, key string, def any) (any, error)
	GetBool(ctx context.Context, db *gorm.DB, key string, def bool) (bool, error)
	GetString(ctx context.Context, db *gorm.DB, key string, def string) (string, error)

	// Set создает или меняет настройку и сбрасывает ее кеш
	Set(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.SetSettingRequest) (*models.Setting, error)
	UpdateMany(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.UpdateSettingsRequest) (map[string]any, error)
	// UploadAsset заменяет файл для site_logo / site_favicon
	UploadAsset(ctx context.Context, db *gorm.DB, rc audit.RequestContext, key string, file media.FileInput) (map[string]any, error)

	All(ctx context.Context, db *gorm.DB) (map[string]any, error)
	List(ctx context.Context, db *gorm.DB) ([]models.Setting, error)
	MaintenanceStatus(ctx context.Context, db *gorm.DB) (*dto.MaintenanceStatus, error)
	Maintenance(ctx context.Context, db *gorm.DB) (enabled bool, note string, err error)
}

type settingService struct {
	crud        *CrudService[models.Setting]
	settingRepo repositories.SettingRepository
	cache       cache.Store
	media       *media.Manager
	validator   *validator.Validator
}

func NewSettingService(
	settingRepo repositories.SettingRepository,
	store cache.Store,
	mediaManager *media.Manager,
	bus events.Bus,
	v *validator.Validator,
) SettingService {
	return &settingService{
		crud:        NewCrudService[models.Setting](repositories.NewRepository[models.Setting](repositories.SettingSchema), bus, "setting"),
		settingRepo: settingRepo,
		cache:       store,
		media:       mediaManager,
		validator:   v,
	}
}

// ============================================
// Чтение
// ============================================

func (s *settingService) Get(ctx context.Context, db *gorm.DB, key string, def any) (any, error) {
	if val, err := s.cache.Get(settingCachePrefix + key); err == nil {
		return cloneValue(val), nil
	}

	setting, err := s.settingRepo.FindByKey(db, key)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return def, nil
		}
		return nil, apperrors.DatabaseError(err)
	}

	val := decodeSetting(setting.Type, setting.Value)
	if err := s.cache.Set(settingCachePrefix+key, val); err != nil {
		logger.CtxWarn(ctx, "failed to cache setting", "key", key, "error", err)
	}
	return cloneValue(val), nil
}

// cloneValue копирует JSON-карты и срезы: значение в кеше общее для всех читателей
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

func (s *settingService) GetBool(ctx context.Context, db *gorm.DB, key string, def bool) (bool, error) {
	val, err := s.Get(ctx, db, key, def)
	if err != nil {
		return def, err
	}
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		return parseBool(v), nil
	case float64:
		return v != 0, nil
	}
	return def, nil
}

func (s *settingService) GetString(ctx context.Context, db *gorm.DB, key string, def string) (string, error) {
	val, err := s.Get(ctx, db, key, def)
	if err != nil {
		return def, err
	}
	if str, ok := val.(string); ok {
		return str, nil
	}
	return fmt.Sprint(val), nil
}

// decodeSetting приводит строковое значение к типу настройки
func decodeSetting(t models.SettingType, value string) any {
	switch t {
	case models.SettingTypeBoolean:
		return parseBool(value)
	case models.SettingTypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return float64(0)
		}
		return f
	case models.SettingTypeJSON:
		var out any
		if err := json.Unmarshal([]byte(value), &out); err != nil {
			return nil
		}
		return out
	}
	return value
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// encodeSetting - строковое представление и выведенный тип значения из JSON
func encodeSetting(value any) (string, models.SettingType, error) {
	switch v := value.(type) {
	case nil:
		return "", models.SettingTypeString, nil
	case string:
		return v, models.SettingTypeString, nil
	case bool:
		return strconv.FormatBool(v), models.SettingTypeBoolean, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), models.SettingTypeNumber, nil
	case int:
		return strconv.Itoa(v), models.SettingTypeNumber, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", "", err
		}
		return string(data), models.SettingTypeJSON, nil
	}
}

func (s *settingService) List(ctx context.Context, db *gorm.DB) ([]models.Setting, error) {
	settings, err := s.settingRepo.All(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return settings, nil
}

// All - все настройки с приведенными значениями, URL для файлов
// и вычисляемыми полями обслуживания
func (s *settingService) All(ctx context.Context, db *gorm.DB) (map[string]any, error) {
	settings, err := s.List(ctx, db)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(settings)+3)
	for _, setting := range settings {
		out[setting.Key] = decodeSetting(setting.Type, setting.Value)
	}

	for _, key := range assetSettings {
		path, ok := out[key].(string)
		if !ok || path == "" {
			continue
		}
		out[key] = s.assetURL(ctx, path)
	}

	status, err := s.MaintenanceStatus(ctx, db)
	if err != nil {
		return nil, err
	}
	out[models.SettingMaintenanceMode] = status.Enabled
	out[models.SettingMaintenanceNote] = status.Note
	out["allow_registration"] = status.AllowRegistration

	return out, nil
}

func (s *settingService) assetURL(ctx context.Context, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "data:") {
		return path
	}
	url, err := s.media.Storage().GetURL(ctx, strings.TrimPrefix(path, "/"))
	if err != nil {
		logger.CtxWarn(ctx, "failed to resolve setting asset url", "path", path, "error", err)
		return path
	}
	return url
}

func (s *settingService) MaintenanceStatus(ctx context.Context, db *gorm.DB) (*dto.MaintenanceStatus, error) {
	enabled, err := s.GetBool(ctx, db, models.SettingMaintenanceMode, false)
	if err != nil {
		return nil, err
	}
	note, err := s.GetString(ctx, db, models.SettingMaintenanceNote, models.DefaultMaintenanceNote)
	if err != nil {
		return nil, err
	}
	allow, err := s.GetBool(ctx, db, models.SettingAllowRegistration, true)
	if err != nil {
		return nil, err
	}
	return &dto.MaintenanceStatus{Enabled: enabled, Note: note, AllowRegistration: allow}, nil
}

func (s *settingService) Maintenance(ctx context.Context, db *gorm.DB) (bool, string, error) {
	status, err := s.MaintenanceStatus(ctx, db)
	if err != nil {
		return false, "", err
	}
	return status.Enabled, status.Note, nil
}

// ============================================
// Запись
// ============================================

func (s *settingService) Set(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.SetSettingRequest) (*models.Setting, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	var saved *models.Setting
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		saved, err = s.upsert(tx, rc, req.Key, req.Value, req.Type, true, req.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.Key)
	return saved, nil
}

func (s *settingService) UpdateMany(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.UpdateSettingsRequest) (map[string]any, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	err := withTx(db, func(tx *gorm.DB) error {
		for key, raw := range req.Settings {
			value, settingType, err := encodeSetting(raw)
			if err != nil {
				return apperrors.FieldError("settings."+key, "unsupported value")
			}
			if _, err := s.upsert(tx, rc, key, value, settingType, false, ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for key := range req.Settings {
		s.invalidate(ctx, key)
	}
	return s.All(ctx, db)
}

// upsert меняет значение существующей настройки или создает новую.
// Явно переданный тип применяется всегда; выведенный из значения тип
// не превращает типизированную настройку обратно в строку.
func (s *settingService) upsert(tx *gorm.DB, rc audit.RequestContext, key, value string, settingType models.SettingType, explicitType bool, description string) (*models.Setting, error) {
	setting, err := s.settingRepo.FindByKey(tx, key)
	if err != nil && !errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, apperrors.DatabaseError(err)
	}

	if setting == nil {
		if settingType == "" {
			settingType = models.SettingTypeString
		}
		setting = &models.Setting{Key: key, Value: value, Type: settingType, Description: description}
		if err := s.crud.CreateTx(tx, rc, setting); err != nil {
			return nil, err
		}
		return setting, nil
	}

	values := map[string]any{"value": value}
	switch {
	case settingType == "" || settingType == setting.Type:
	case explicitType:
		values["type"] = settingType
	case setting.Value != "" && settingType != models.SettingTypeString:
		values["type"] = settingType
	}
	if description != "" {
		values["description"] = description
	}
	if err := s.settingRepo.Update(tx, setting.ID, values); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return s.settingRepo.FindByKey(tx, key)
}

func (s *settingService) UploadAsset(ctx context.Context, db *gorm.DB, rc audit.RequestContext, key string, file media.FileInput) (map[string]any, error) {
	if !isAssetSetting(key) {
		return nil, apperrors.FieldError("key", fmt.Sprintf("%s is not a file setting", key))
	}

	err := withTx(db, func(tx *gorm.DB) error {
		setting, err := s.upsert(tx, rc, key, "", models.SettingTypeString, false, "")
		if err != nil {
			return err
		}
		owner := media.Ref(settingOwnerType, setting.ID)

		old, err := s.media.ForOwner(tx, owner)
		if err != nil {
			return err
		}
		uploaded, err := s.media.Upload(ctx, tx, rc, file, owner, media.Options{
			Collection: settingsCollection,
			IsPrimary:  true,
		})
		if err != nil {
			return err
		}
		if err := s.settingRepo.Update(tx, setting.ID, map[string]any{"value": uploaded.FilePath}); err != nil {
			return apperrors.DatabaseError(err)
		}

		ids := make([]string, 0, len(old))
		for _, m := range old {
			ids = append(ids, m.ID)
		}
		if len(ids) > 0 {
			return s.media.DeleteByIDs(ctx, tx, owner, ids)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, key)
	return s.All(ctx, db)
}

func isAssetSetting(key string) bool {
	for _, k := range assetSettings {
		if k == key {
			return true
		}
	}
	return false
}

func (s *settingService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(settingCachePrefix + key); err != nil && !errors.Is(err, cache.ErrKeyNotFound) {
		logger.CtxWarn(ctx, "failed to invalidate setting cache", "key", key, "error", err)
	}
}

// ============================================
// Настройки пользователя
// ============================================

type UserSettingService interface {
	GetSettings(ctx context.Context, db *gorm.DB, userID string) (map[string]string, error)
	UpdateSettings(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.UpdateUserSettingsRequest) (map[string]string, error)
}

type userSettingService struct {
	crud      *CrudService[models.UserSetting]
	repo      repositories.UserSettingRepository
	validator *validator.Validator
}

func NewUserSettingService(repo repositories.UserSettingRepository, bus events.Bus, v *validator.Validator) UserSettingService {
	return &userSettingService{
		crud:      NewCrudService[models.UserSetting](repositories.NewRepository[models.UserSetting](repositories.UserSettingSchema), bus, "user setting"),
		repo:      repo,
		validator: v,
	}
}

func (s *userSettingService) GetSettings(ctx context.Context, db *gorm.DB, userID string) (map[string]string, error) {
	items, err := s.repo.ForUser(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		out[item.Key] = item.Value
	}
	return out, nil
}

func (s *userSettingService) UpdateSettings(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.UpdateUserSettingsRequest) (map[string]string, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	err := withTx(db, func(tx *gorm.DB) error {
		for key, value := range req.Settings {
			existing, err := s.repo.Find(tx, userID, key)
			if err != nil && !isNotFound(err) {
				return apperrors.DatabaseError(err)
			}

			if existing == nil {
				setting := &models.UserSetting{UserID: userID, Key: key, Value: value}
				if err := s.crud.CreateTx(tx, rc, setting); err != nil {
					return err
				}
				continue
			}

			if existing.Value == value {
				continue
			}
			if _, err := s.crud.UpdateTx(tx, rc, existing.ID, map[string]any{"value": value}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetSettings(ctx, db, userID)
}
