package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sigeu/internal/model"
)

// UserRepository defines persistence operations for users.
// Lookups used by authentication only see active users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindActiveByID(ctx context.Context, id uint) (*model.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, id uint, changes map[string]interface{}) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	SetActive(ctx context.Context, id uint, active bool) error
	List(ctx context.Context, page model.Page) ([]model.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindActiveByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ? AND activo = ?", id, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ? AND activo = ?", email, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks every user, active or not, except excludeID.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) error {
	changes["fecha_actualizacion"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ? AND activo = ?", id, true).Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.Update(ctx, id, map[string]interface{}{"password": hash})
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"activo":              active,
		"fecha_actualizacion": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, page model.Page) ([]model.User, int64, error) {
	var (
		users []model.User
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).Order("fecha_registro DESC").Limit(page.Size).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
