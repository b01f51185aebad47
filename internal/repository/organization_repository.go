package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sigeu/internal/model"
)

// OrganizationRepository defines persistence operations for external organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uint) (*model.Organization, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Organization, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Search(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error)
	List(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error)
	Update(ctx context.Context, id uint, changes map[string]interface{}) error
	Deactivate(ctx context.Context, id uint) (bool, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository builds a GORM-backed repository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) FindByID(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindActiveByID(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Where("id = ? AND activo = ?", id, true).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ExistsByName checks active and inactive rows alike.
func (r *organizationRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Organization{}).Where("nombre = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search matches the name by substring. Results are not paginated.
func (r *organizationRepository) Search(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error) {
	var orgs []model.Organization
	if err := r.filtered(ctx, filter).Order("nombre ASC").Find(&orgs).Error; err != nil {
		return nil, 0, err
	}
	return orgs, int64(len(orgs)), nil
}

func (r *organizationRepository) List(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error) {
	var (
		orgs  []model.Organization
		total int64
	)
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.filtered(ctx, filter).
		Order("nombre ASC").
		Limit(filter.Page.Size).
		Offset(filter.Page.Offset()).
		Find(&orgs).Error; err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

func (r *organizationRepository) filtered(ctx context.Context, filter model.OrganizationFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Organization{}).Where("activo = ?", filter.Active)
	if filter.Name != "" {
		q = q.Where("nombre LIKE ?", "%"+escapeLike(filter.Name)+"%")
	}
	if filter.Type != "" {
		q = q.Where("tipo_organizacion = ?", filter.Type)
	}
	return q
}

func (r *organizationRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) error {
	changes["fecha_actualizacion"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate flips activo to false. It reports false when the organization
// was missing or already inactive.
func (r *organizationRepository) Deactivate(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Organization{}).
		Where("id = ? AND activo = ?", id, true).
		Updates(map[string]interface{}{
			"activo":              false,
			"fecha_actualizacion": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
