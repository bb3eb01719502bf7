package dto

import (
	"time"

	"github.com/yukikurage/kanban-board-api/internal/models"
)

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	OrgID     string    `json:"org_id"`
	UserIDs   []string  `json:"user_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoardDetailDTO represents a board with its lists and cards
type BoardDetailDTO struct {
	BoardDTO
	Lists []ListDTO `json:"lists"`
}

// ListDTO represents a list in API responses
type ListDTO struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	BoardID string    `json:"board_id"`
	Order   int       `json:"order"`
	Cards   []CardDTO `json:"cards,omitempty"`
}

// CardDTO represents a card in API responses
type CardDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ListID      string    `json:"list_id"`
	BoardID     string    `json:"board_id"`
	Order       int       `json:"order"`
	UserIDs     []string  `json:"user_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NextOrderDTO is the order the next card appended to a list will receive
type NextOrderDTO struct {
	ListID string `json:"list_id"`
	Order  int    `json:"order"`
}

// DeleteBoardResult tells the caller where to navigate after a board is deleted
type DeleteBoardResult struct {
	Redirect string `json:"redirect"`
}

// Conversion functions

// ToBoardDTO converts a Board model to BoardDTO
func ToBoardDTO(board models.Board) BoardDTO {
	userIDs := make([]string, len(board.Members))
	for i, m := range board.Members {
		userIDs[i] = m.UserID
	}

	return BoardDTO{
		ID:        board.ID,
		Title:     board.Title,
		Image:     board.Image,
		OrgID:     board.OrgID,
		UserIDs:   userIDs,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

// ToBoardDetailDTO converts a Board with preloaded lists and cards
func ToBoardDetailDTO(board models.Board) BoardDetailDTO {
	lists := make([]ListDTO, len(board.Lists))
	for i, l := range board.Lists {
		lists[i] = ToListDTO(l)
		if lists[i].Cards == nil {
			lists[i].Cards = []CardDTO{}
		}
	}

	return BoardDetailDTO{
		BoardDTO: ToBoardDTO(board),
		Lists:    lists,
	}
}

// ToBoardDTOs converts a slice of boards
func ToBoardDTOs(boards []models.Board) []BoardDTO {
	out := make([]BoardDTO, len(boards))
	for i, b := range boards {
		out[i] = ToBoardDTO(b)
	}
	return out
}

// ToListDTO converts a List model to ListDTO
func ToListDTO(list models.List) ListDTO {
	dto := ListDTO{
		ID:      list.ID,
		Title:   list.Title,
		BoardID: list.BoardID,
		Order:   list.Order,
	}
	if len(list.Cards) > 0 {
		dto.Cards = make([]CardDTO, len(list.Cards))
		for i, c := range list.Cards {
			dto.Cards[i] = ToCardDTO(c)
		}
	}
	return dto
}

// ToCardDTO converts a Card model to CardDTO
func ToCardDTO(card models.Card) CardDTO {
	userIDs := make([]string, len(card.Members))
	for i, m := range card.Members {
		userIDs[i] = m.UserID
	}

	return CardDTO{
		ID:          card.ID,
		Title:       card.Title,
		Description: card.Description,
		ListID:      card.ListID,
		BoardID:     card.BoardID,
		Order:       card.Order,
		UserIDs:     userIDs,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}
