package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"
	"estimator-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore persists calculators and submissions in Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ActiveCalculator(ctx context.Context) (*calculator.Calculator, error) {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var row models.CalculatorGorm
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveCalculator
	}
	if err != nil {
		return nil, fmt.Errorf("load active calculator: %w", err)
	}
	return row.ToCalculator(), nil
}

func (s *GormStore) SaveCalculator(ctx context.Context, calc *calculator.Calculator) (*calculator.Calculator, error) {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()

	row := models.NewCalculatorGorm(calc)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.IsActive = true
	now := time.Now().UTC()
	row.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CalculatorGorm{}).
			Where("is_active = ? AND id <> ?", true, row.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		var existing models.CalculatorGorm
		err := tx.Select("created_at").Where("id = ?", row.ID).First(&existing).Error
		switch {
		case err == nil:
			row.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			row.CreatedAt = now
		default:
			return err
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save calculator: %w", err)
	}
	return row.ToCalculator(), nil
}

func (s *GormStore) CreateSubmission(ctx context.Context, sub *models.CalculatorSubmission) error {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	row := models.NewCalculatorSubmissionGorm(sub)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *GormStore) ListSubmissions(ctx context.Context, opts ListOptions) ([]models.CalculatorSubmission, int64, error) {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()
	opts = opts.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.CalculatorSubmissionGorm{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	var rows []models.CalculatorSubmissionGorm
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}

	out := make([]models.CalculatorSubmission, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToSubmission())
	}
	return out, total, nil
}

func (s *GormStore) GetSubmission(ctx context.Context, id string) (*models.CalculatorSubmission, error) {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var row models.CalculatorSubmissionGorm
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return row.ToSubmission(), nil
}

func (s *GormStore) DeleteSubmission(ctx context.Context, id string) error {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CalculatorSubmissionGorm{})
	if res.Error != nil {
		return fmt.Errorf("delete submission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (s *GormStore) PurgeSubmissionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := utils.GetSlowQueryContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.CalculatorSubmissionGorm{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge submissions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
