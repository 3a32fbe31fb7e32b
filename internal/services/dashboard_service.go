package services

import (
	"context"

	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

const recentActivityLimit = 5

type DashboardService interface {
	Stats(ctx context.Context, db *gorm.DB) (*dto.DashboardStats, error)
}

type dashboardService struct {
	vendorRepo   repositories.VendorRepository
	auditLogRepo repositories.AuditLogRepository
}

func NewDashboardService(vendorRepo repositories.VendorRepository, auditLogRepo repositories.AuditLogRepository) DashboardService {
	return &dashboardService{vendorRepo: vendorRepo, auditLogRepo: auditLogRepo}
}

func (s *dashboardService) Stats(ctx context.Context, db *gorm.DB) (*dto.DashboardStats, error) {
	counts, err := s.vendorRepo.Stats(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	recent, err := s.auditLogRepo.Recent(db, recentActivityLimit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	activity := make([]dto.RecentActivity, 0, len(recent))
	for _, entry := range recent {
		// записи без автора сделаны системой
		name := "System"
		if entry.ActorName != nil && *entry.ActorName != "" {
			name = *entry.ActorName
		}
		activity = append(activity, dto.RecentActivity{
			ID:        entry.ID,
			ActorName: name,
			Module:    entry.Module,
			Action:    string(entry.Action),
			Time:      entry.CreatedAt,
		})
	}

	return &dto.DashboardStats{
		TotalVendors:     counts.Total,
		PendingApprovals: counts.Pending,
		ActiveServices:   counts.ActiveServices,
		RecentActivity:   activity,
	}, nil
}
