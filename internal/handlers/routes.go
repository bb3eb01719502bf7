package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-board-api/internal/middleware"
)

// Routes groups the handlers mounted under /api
type Routes struct {
	Users         *UserHandler
	Organizations *OrganizationHandler
	Boards        *BoardHandler
	Cards         *CardHandler
}

// RegisterRoutes mounts every API route on api
func RegisterRoutes(api *gin.RouterGroup, h Routes) {
	id := middleware.RequireUUIDParams("id")
	member := middleware.RequireUUIDParams("id", "user_id")

	users := api.Group("/users")
	{
		users.POST("", h.Users.CreateUser)
		users.GET("/:id", id, h.Users.GetUser)
	}

	orgs := api.Group("/organizations")
	{
		orgs.POST("", h.Organizations.CreateOrganization)
		orgs.GET("", h.Organizations.ListOrganizations)
		orgs.GET("/:id", id, h.Organizations.GetOrganization)
		orgs.DELETE("/:id", id, h.Organizations.DeleteOrganization)
		orgs.GET("/:id/boards", id, h.Organizations.ListBoards)
		orgs.GET("/:id/non-members", id, h.Organizations.ListNonMembers)
		orgs.PUT("/:id/members/:user_id", member, h.Organizations.UpdateMember)
		orgs.DELETE("/:id/members/:user_id", member, h.Organizations.RemoveMember)
		orgs.GET("/:id/audit-logs", id, h.Organizations.ListAuditLogs)
	}

	boards := api.Group("/boards")
	{
		boards.POST("", h.Boards.CreateBoard)
		boards.GET("/:id", id, h.Boards.GetBoard)
		boards.DELETE("/:id", id, h.Boards.DeleteBoard)
		boards.POST("/:id/lists", id, h.Boards.CreateList)
		boards.GET("/:id/non-members", id, h.Boards.ListNonMembers)
		boards.POST("/:id/members", id, h.Boards.AddMember)
	}

	lists := api.Group("/lists")
	{
		lists.GET("/:id/next-order", id, h.Cards.NextOrder)
	}

	cards := api.Group("/cards")
	{
		cards.POST("", h.Cards.CreateCard)
		cards.PATCH("/:id", id, h.Cards.UpdateCard)
		cards.POST("/:id/copy", id, h.Cards.CopyCard)
		cards.DELETE("/:id", id, h.Cards.DeleteCard)
		cards.GET("/:id/non-members", id, h.Cards.ListNonMembers)
		cards.POST("/:id/members", id, h.Cards.AddMember)
	}
}
