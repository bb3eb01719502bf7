package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-board-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/services"
)

type BoardHandler struct {
	boardService      *services.BoardService
	membershipService *services.MembershipService
}

func NewBoardHandler(boardService *services.BoardService, membershipService *services.MembershipService) *BoardHandler {
	return &BoardHandler{
		boardService:      boardService,
		membershipService: membershipService,
	}
}

// CreateBoard creates a board in an organization
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	type CreateBoardRequest struct {
		Title string `json:"title" binding:"required"`
		Image string `json:"image"`
		OrgID string `json:"org_id" binding:"required,uuid"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), services.CreateBoardInput{
		Title: req.Title,
		Image: req.Image,
		OrgID: req.OrgID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Result{Result: dto.ToBoardDTO(*board)})
}

// GetBoard returns a board with its lists and cards in order
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, err := h.boardService.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToBoardDetailDTO(*board)})
}

// DeleteBoard deletes a board and tells the caller where to go next
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	redirect, err := h.boardService.DeleteBoard(c.Request.Context(), c.Param("id"), c.Query("org_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.DeleteBoardResult{Redirect: redirect}})
}

// CreateList appends a list to a board
func (h *BoardHandler) CreateList(c *gin.Context) {
	type CreateListRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.boardService.CreateList(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Result{Result: dto.ToListDTO(*list)})
}

// ListNonMembers returns organization members that are not on the board
func (h *BoardHandler) ListNonMembers(c *gin.Context) {
	users, err := h.membershipService.BoardNonMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToUserDTOs(users)})
}

// AddMember adds an organization member to the board
func (h *BoardHandler) AddMember(c *gin.Context) {
	type AddMemberRequest struct {
		UserID string `json:"user_id" binding:"required,uuid"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.membershipService.AddBoardMember(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToBoardDTO(*board)})
}
