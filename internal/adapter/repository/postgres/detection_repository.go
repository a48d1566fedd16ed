package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/repository"
)

type detectionRepository struct {
	db *gorm.DB
}

// NewDetectionRepository creates a new detection repository
func NewDetectionRepository(db *gorm.DB) repository.DetectionRepository {
	return &detectionRepository{db: db}
}

func (r *detectionRepository) Create(ctx context.Context, detection *entity.Detection) error {
	return r.db.WithContext(ctx).Create(detection).Error
}

func (r *detectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error) {
	var detection entity.Detection
	err := r.db.WithContext(ctx).First(&detection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detection, nil
}

func (r *detectionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Detection, int64, error) {
	var detections []*entity.Detection
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Detection{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&detections).Error
	if err != nil {
		return nil, 0, err
	}

	return detections, total, nil
}

func (r *detectionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
