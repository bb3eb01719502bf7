package dto

import (
	"time"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

// Result wraps every successful response body
type Result struct {
	Result interface{} `json:"result"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	UserIDs   []string  `json:"user_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// UserDetailDTO represents a user with the inverse membership sets
type UserDetailDTO struct {
	UserDTO
	OrgIDs   []string `json:"org_ids"`
	BoardIDs []string `json:"board_ids"`
	CardIDs  []string `json:"card_ids"`
}

// OrgMemberUpdateDTO is the result of updateOrgMember
type OrgMemberUpdateDTO struct {
	UpdateUser UserDTO         `json:"user"`
	UpdateOrg  OrganizationDTO `json:"organization"`
}

// AuditLogDTO represents an audit log entry
type AuditLogDTO struct {
	ID          string    `json:"id"`
	EntityID    string    `json:"entity_id"`
	EntityTitle string    `json:"entity_title"`
	EntityType  string    `json:"entity_type"`
	Action      string    `json:"action"`
	OrgID       string    `json:"org_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogListDTO is a page of audit log entries
type AuditLogListDTO struct {
	Logs       []AuditLogDTO            `json:"logs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	userIDs := make([]string, len(org.Members))
	for i, m := range org.Members {
		userIDs[i] = m.UserID
	}

	return OrganizationDTO{
		ID:        org.ID,
		Title:     org.Title,
		Image:     org.Image,
		UserIDs:   userIDs,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// ToOrganizationDTOs converts a slice of organizations
func ToOrganizationDTOs(orgs []models.Organization) []OrganizationDTO {
	out := make([]OrganizationDTO, len(orgs))
	for i, o := range orgs {
		out[i] = ToOrganizationDTO(o)
	}
	return out
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToUserDetailDTO converts a user and its memberships
func ToUserDetailDTO(user models.User, m *repository.UserMemberships) UserDetailDTO {
	dto := UserDetailDTO{
		UserDTO:  ToUserDTO(user),
		OrgIDs:   []string{},
		BoardIDs: []string{},
		CardIDs:  []string{},
	}
	if m != nil {
		dto.OrgIDs = nonNil(m.OrgIDs)
		dto.BoardIDs = nonNil(m.BoardIDs)
		dto.CardIDs = nonNil(m.CardIDs)
	}
	return dto
}

// ToAuditLogDTOs converts audit log entries
func ToAuditLogDTOs(logs []models.AuditLog) []AuditLogDTO {
	out := make([]AuditLogDTO, len(logs))
	for i, l := range logs {
		out[i] = AuditLogDTO{
			ID:          l.ID,
			EntityID:    l.EntityID,
			EntityTitle: l.EntityTitle,
			EntityType:  string(l.EntityType),
			Action:      string(l.Action),
			OrgID:       l.OrgID,
			CreatedAt:   l.CreatedAt,
		}
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
