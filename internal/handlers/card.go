package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-board-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/services"
)

type CardHandler struct {
	cardService       *services.CardService
	membershipService *services.MembershipService
}

func NewCardHandler(cardService *services.CardService, membershipService *services.MembershipService) *CardHandler {
	return &CardHandler{
		cardService:       cardService,
		membershipService: membershipService,
	}
}

// CreateCard appends a card to a list
func (h *CardHandler) CreateCard(c *gin.Context) {
	type CreateCardRequest struct {
		Title   string `json:"title" binding:"required"`
		ListID  string `json:"list_id" binding:"required,uuid"`
		BoardID string `json:"board_id" binding:"required,uuid"`
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), services.CreateCardInput{
		Title:   req.Title,
		ListID:  req.ListID,
		BoardID: req.BoardID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Result{Result: dto.ToCardDTO(*card)})
}

// NextOrder returns the order the next card appended to a list will receive
func (h *CardHandler) NextOrder(c *gin.Context) {
	next, err := h.cardService.NextOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.NextOrderDTO{ListID: c.Param("id"), Order: next}})
}

// UpdateCard applies a partial update. An explicit "description": null clears the description.
func (h *CardHandler) UpdateCard(c *gin.Context) {
	type UpdateCardRequest struct {
		BoardID     string          `json:"board_id" binding:"omitempty,uuid"`
		Title       *string         `json:"title"`
		Description json.RawMessage `json:"description"`
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateCardInput{
		ID:      c.Param("id"),
		BoardID: req.BoardID,
		Title:   req.Title,
	}
	switch {
	case len(req.Description) == 0:
	case string(req.Description) == "null":
		input.ClearDescription = true
	default:
		var description string
		if err := json.Unmarshal(req.Description, &description); err != nil {
			apierrors.BadRequest(c, "Invalid description")
			return
		}
		input.Description = &description
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToCardDTO(*card)})
}

// CopyCard duplicates a card at the end of its list
func (h *CardHandler) CopyCard(c *gin.Context) {
	type CopyCardRequest struct {
		BoardID string `json:"board_id" binding:"omitempty,uuid"`
	}

	var req CopyCardRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	card, err := h.cardService.CopyCard(c.Request.Context(), c.Param("id"), req.BoardID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Result{Result: dto.ToCardDTO(*card)})
}

// DeleteCard deletes a card and returns the deleted snapshot
func (h *CardHandler) DeleteCard(c *gin.Context) {
	card, err := h.cardService.DeleteCard(c.Request.Context(), c.Param("id"), c.Query("board_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToCardDTO(*card)})
}

// ListNonMembers returns board members that are not on the card
func (h *CardHandler) ListNonMembers(c *gin.Context) {
	users, err := h.membershipService.CardNonMembers(c.Request.Context(), c.Query("board_id"), c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToUserDTOs(users)})
}

// AddMember adds a board member to the card
func (h *CardHandler) AddMember(c *gin.Context) {
	type AddMemberRequest struct {
		UserID string `json:"user_id" binding:"required,uuid"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.membershipService.AddCardMember(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{Result: dto.ToCardDTO(*card)})
}
