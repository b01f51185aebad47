package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/model"
	"sigeu/internal/repository"
)

var (
	errOrganizationNotFound = apperrors.New(apperrors.ErrNotFound, "Organización no encontrada")
	errOrganizationExists   = apperrors.New(apperrors.ErrConflict, "Ya existe una organización con ese nombre")
)

// OrganizationInput carries the fields accepted when registering an organization.
type OrganizationInput struct {
	Name        string
	Email       *string
	Phone       *string
	Address     *string
	Description *string
	Type        string
}

// OrganizationService manages external organizations.
type OrganizationService interface {
	Create(ctx context.Context, in OrganizationInput) (*model.Organization, error)
	Search(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error)
	List(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Organization, error)
	Update(ctx context.Context, id uint, patch model.OrganizationPatch) (*model.Organization, error)
	Delete(ctx context.Context, id uint) error
}

type organizationService struct {
	repo repository.OrganizationRepository
}

// NewOrganizationService builds an OrganizationService.
func NewOrganizationService(repo repository.OrganizationRepository) OrganizationService {
	return &organizationService{repo: repo}
}

func (s *organizationService) Create(ctx context.Context, in OrganizationInput) (*model.Organization, error) {
	name := strings.TrimSpace(in.Name)
	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check organization name: %w", err)
	}
	if exists {
		return nil, errOrganizationExists
	}

	orgType := strings.TrimSpace(in.Type)
	if orgType == "" {
		orgType = model.DefaultCategory
	}
	org := &model.Organization{
		Name:        name,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		Description: in.Description,
		Type:        orgType,
		Active:      true,
	}
	if err := s.repo.Create(ctx, org); err != nil {
		if isDuplicate(err) {
			return nil, errOrganizationExists
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Search(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Type = strings.TrimSpace(filter.Type)
	orgs, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("search organizations: %w", err)
	}
	return orgs, total, nil
}

func (s *organizationService) List(ctx context.Context, filter model.OrganizationFilter) ([]model.Organization, int64, error) {
	orgs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, total, nil
}

func (s *organizationService) GetByID(ctx context.Context, id uint) (*model.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errOrganizationNotFound
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Update(ctx context.Context, id uint, patch model.OrganizationPatch) (*model.Organization, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		exists, err := s.repo.ExistsByName(ctx, name, id)
		if err != nil {
			return nil, fmt.Errorf("check organization name: %w", err)
		}
		if exists {
			return nil, errOrganizationExists
		}
	}

	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.New(apperrors.ErrNoFieldsProvided, "No se proporcionaron campos para actualizar")
	}
	if err := s.repo.Update(ctx, id, changes); err != nil {
		switch {
		case isNotFound(err):
			return nil, errOrganizationNotFound
		case isDuplicate(err):
			return nil, errOrganizationExists
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *organizationService) Delete(ctx context.Context, id uint) error {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !org.Active {
		return apperrors.New(apperrors.ErrInvalidState, "La organización ya está inactiva")
	}
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate organization: %w", err)
	}
	if !ok {
		// deactivated concurrently
		return apperrors.New(apperrors.ErrInvalidState, "La organización ya está inactiva")
	}
	return nil
}
