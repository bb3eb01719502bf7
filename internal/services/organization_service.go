package services

import (
	"context"
	"strings"

	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/metrics"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/revalidate"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo     repository.OrganizationRepository
	auditRepo   repository.AuditLogRepository
	audit       *AuditRecorder
	revalidator revalidate.Revalidator
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	auditRepo repository.AuditLogRepository,
	audit *AuditRecorder,
	revalidator revalidate.Revalidator,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:     orgRepo,
		auditRepo:   auditRepo,
		audit:       audit,
		revalidator: revalidator,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Title string
	Image string
}

// CreateOrganization creates an organization with no members.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (org *models.Organization, err error) {
	defer func() { metrics.ObserveMutation("createOrganization", err) }()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	org = &models.Organization{
		Title: title,
		Image: input.Image,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, classify(err, nil, "Failed to create organization")
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    org.ID,
		EntityTitle: org.Title,
		EntityType:  models.EntityOrganization,
		Action:      models.ActionCreate,
		OrgID:       org.ID,
	})
	s.revalidator.Revalidate(ctx, constants.RootPath)

	return org, nil
}

// GetOrganization returns an organization with its members.
func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, id, "Members")
	if err != nil {
		return nil, classify(err, ErrOrganizationNotFound, "Failed to find organization")
	}
	return org, nil
}

// ListOrganizations returns every organization.
func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := s.orgRepo.List(ctx)
	if err != nil {
		return nil, classify(err, nil, "Failed to list organizations")
	}
	return orgs, nil
}

// DeleteOrganization removes an organization with everything it owns.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, id string) (org *models.Organization, err error) {
	defer func() { metrics.ObserveMutation("deleteOrganization", err) }()

	org, err = s.orgRepo.Delete(ctx, id)
	if err != nil {
		return nil, classify(err, ErrOrganizationNotFound, "Failed to delete organization")
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    org.ID,
		EntityTitle: org.Title,
		EntityType:  models.EntityOrganization,
		Action:      models.ActionDelete,
		OrgID:       org.ID,
	})
	s.revalidator.Revalidate(ctx, constants.RootPath, constants.OrganizationsPath)

	return org, nil
}

// ListAuditLogs returns an organization's audit trail, newest first.
func (s *OrganizationService) ListAuditLogs(ctx context.Context, orgID string, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	logs, total, err := s.auditRepo.ListByOrganization(ctx, orgID, params)
	if err != nil {
		return nil, 0, classify(err, nil, "Failed to list audit logs")
	}
	return logs, total, nil
}
