package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-board-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/services"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

type OrganizationHandler struct {
	orgService        *services.OrganizationService
	boardService      *services.BoardService
	membershipService *services.MembershipService
}

func NewOrganizationHandler(
	orgService *services.OrganizationService,
	boardService *services.BoardService,
	membershipService *services.MembershipService,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:        orgService,
		boardService:      boardService,
		membershipService: membershipService,
	}
}

// CreateOrganization creates a new organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	type CreateOrgRequest struct {
		Title string `json:"title" binding:"required"`
		Image string `json:"image"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), services.CreateOrganizationInput{
		Title: req.Title,
		Image: req.Image,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Result{Result: dto.ToOrganizationDTO(*org)})
}

// ListOrganizations returns all organizations
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgService.ListOrganizations(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToOrganizationDTOs(orgs)})
}

// GetOrganization returns organization details
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, err := h.orgService.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToOrganizationDTO(*org)})
}

// DeleteOrganization deletes an organization with its boards
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	org, err := h.orgService.DeleteOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToOrganizationDTO(*org)})
}

// ListBoards returns the boards of an organization
func (h *OrganizationHandler) ListBoards(c *gin.Context) {
	boards, err := h.boardService.ListBoards(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToBoardDTOs(boards)})
}

// ListNonMembers returns users that are not members of the organization
func (h *OrganizationHandler) ListNonMembers(c *gin.Context) {
	users, err := h.membershipService.OrgNonMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToUserDTOs(users)})
}

// UpdateMember replaces both sides of a user's organization membership
func (h *OrganizationHandler) UpdateMember(c *gin.Context) {
	type UpdateMemberRequest struct {
		OrgIDs  []string `json:"org_ids"`
		UserIDs []string `json:"user_ids"`
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, org, err := h.membershipService.UpdateOrgMember(c.Request.Context(), services.UpdateOrgMemberInput{
		UserID:         c.Param("user_id"),
		OrganizationID: c.Param("id"),
		OrgIDs:         req.OrgIDs,
		UserIDs:        req.UserIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.OrgMemberUpdateDTO{
		UpdateUser: dto.ToUserDTO(*user),
		UpdateOrg:  dto.ToOrganizationDTO(*org),
	}})
}

// RemoveMember removes a user from the organization, its boards and their cards
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	if _, err := h.membershipService.RemoveOrgMember(c.Request.Context(), c.Param("user_id"), c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: services.MemberRemovedMessage})
}

// ListAuditLogs returns the organization's audit trail
func (h *OrganizationHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.orgService.ListAuditLogs(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.AuditLogListDTO{
		Logs: dto.ToAuditLogDTOs(logs),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}})
}
