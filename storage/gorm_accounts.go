package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estimator-backend/models"
	"estimator-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// taken reports whether another account uses a's username or e-mail.
func taken(tx *gorm.DB, a *models.AdminUser) (bool, error) {
	var n int64
	err := tx.Model(&models.AdminUserGorm{}).
		Where("id <> ? AND (username = ? OR LOWER(email) = ?)", a.ID, a.Username, strings.ToLower(a.Email)).
		Count(&n).Error
	return n > 0, err
}

func insertAdmin(tx *gorm.DB, a *models.AdminUser) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	exists, err := taken(tx, a)
	if err != nil {
		return err
	}
	if exists {
		return ErrAdminExists
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	row := models.NewAdminUserGorm(a)
	if err := tx.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAdminExists
		}
		return err
	}
	return nil
}

func adminError(op string, err error) error {
	if errors.Is(err, ErrAdminExists) || errors.Is(err, ErrSetupDone) || errors.Is(err, ErrAdminNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *GormStore) CountAdmins(ctx context.Context) (int64, error) {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.AdminUserGorm{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (s *GormStore) CreateFirstAdmin(ctx context.Context, a *models.AdminUser) error {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Two concurrent setups must not both see an empty table.
		if err := tx.Exec("LOCK TABLE admin_users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.AdminUserGorm{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSetupDone
		}
		return insertAdmin(tx, a)
	})
	return adminError("create first admin", err)
}

func (s *GormStore) CreateAdmin(ctx context.Context, a *models.AdminUser) error {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertAdmin(tx, a)
	})
	return adminError("create admin", err)
}

func (s *GormStore) GetAdmin(ctx context.Context, id string) (*models.AdminUser, error) {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var row models.AdminUserGorm
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return row.ToAdminUser(), nil
}

func (s *GormStore) FindAdminByLogin(ctx context.Context, login string) (*models.AdminUser, error) {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var row models.AdminUserGorm
	err := s.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = ?", login, strings.ToLower(login)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return row.ToAdminUser(), nil
}

func (s *GormStore) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()

	var rows []models.AdminUserGorm
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	out := make([]models.AdminUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToAdminUser())
	}
	return out, nil
}

func (s *GormStore) UpdateAdmin(ctx context.Context, a *models.AdminUser) error {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AdminUserGorm
		err := tx.Select("id", "created_at").Where("id = ?", a.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		if err != nil {
			return err
		}
		exists, err := taken(tx, a)
		if err != nil {
			return err
		}
		if exists {
			return ErrAdminExists
		}
		a.CreatedAt = existing.CreatedAt
		a.UpdatedAt = time.Now().UTC()
		row := models.NewAdminUserGorm(a)
		if err := tx.Save(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAdminExists
			}
			return err
		}
		return nil
	})
	return adminError("update admin", err)
}

func (s *GormStore) DeleteAdmin(ctx context.Context, id string) error {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminUserGorm{})
	if res.Error != nil {
		return fmt.Errorf("delete admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (s *GormStore) ActiveContactForm(ctx context.Context) (*models.ContactForm, error) {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var row models.ContactFormGorm
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoContactForm
	}
	if err != nil {
		return nil, fmt.Errorf("load contact form: %w", err)
	}
	return row.ToContactForm(), nil
}

func (s *GormStore) SaveContactForm(ctx context.Context, form *models.ContactForm) (*models.ContactForm, error) {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()

	row := models.NewContactFormGorm(form)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	row.IsActive = true

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ContactFormGorm{}).
			Where("is_active = ? AND id <> ?", true, row.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save contact form: %w", err)
	}
	return row.ToContactForm(), nil
}

func (s *GormStore) CreateContactSubmission(ctx context.Context, sub *models.ContactSubmission) error {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	row := models.NewContactSubmissionGorm(sub)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create contact submission: %w", err)
	}
	return nil
}

func (s *GormStore) ListContactSubmissions(ctx context.Context, opts ListOptions) ([]models.ContactSubmission, int64, error) {
	ctx, cancel := utils.GetDefaultQueryContext(ctx)
	defer cancel()
	opts = opts.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ContactSubmissionGorm{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count contact submissions: %w", err)
	}

	var rows []models.ContactSubmissionGorm
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list contact submissions: %w", err)
	}

	out := make([]models.ContactSubmission, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToContactSubmission())
	}
	return out, total, nil
}

func (s *GormStore) DeleteContactSubmission(ctx context.Context, id string) error {
	ctx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ContactSubmissionGorm{})
	if res.Error != nil {
		return fmt.Errorf("delete contact submission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrContactSubmissionNotFound
	}
	return nil
}
