package services

import (
	"context"
	"strings"

	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/metrics"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/revalidate"
)

// CardService handles card business logic
type CardService struct {
	cardRepo    repository.CardRepository
	boardRepo   repository.BoardRepository
	ordering    *OrderingService
	audit       *AuditRecorder
	revalidator revalidate.Revalidator
}

// NewCardService creates a new CardService
func NewCardService(
	cardRepo repository.CardRepository,
	boardRepo repository.BoardRepository,
	ordering *OrderingService,
	audit *AuditRecorder,
	revalidator revalidate.Revalidator,
) *CardService {
	return &CardService{
		cardRepo:    cardRepo,
		boardRepo:   boardRepo,
		ordering:    ordering,
		audit:       audit,
		revalidator: revalidator,
	}
}

// CreateCardInput represents input for creating a card
type CreateCardInput struct {
	Title   string
	ListID  string
	BoardID string
}

// UpdateCardInput represents input for updating a card
type UpdateCardInput struct {
	ID               string
	BoardID          string
	Title            *string
	Description      *string
	ClearDescription bool
}

// CreateCard appends a new card to the end of a list.
func (s *CardService) CreateCard(ctx context.Context, input CreateCardInput) (card *models.Card, err error) {
	defer func() { metrics.ObserveMutation("cardCreate", err) }()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	card = &models.Card{
		Title:   title,
		ListID:  input.ListID,
		BoardID: input.BoardID,
	}
	if err := s.ordering.Append(ctx, card); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    card.ID,
		EntityTitle: card.Title,
		EntityType:  models.EntityCard,
		Action:      models.ActionCreate,
		OrgID:       s.orgOf(ctx, card.BoardID),
	})
	s.revalidator.Revalidate(ctx, constants.BoardPath(input.BoardID))

	return card, nil
}

// NextOrder returns the order the next card appended to the list will receive.
func (s *CardService) NextOrder(ctx context.Context, listID string) (int, error) {
	return s.ordering.NextOrder(ctx, listID)
}

// UpdateCard applies a partial update to a card.
func (s *CardService) UpdateCard(ctx context.Context, input UpdateCardInput) (card *models.Card, err error) {
	defer func() { metrics.ObserveMutation("updateCard", err) }()

	fields := repository.CardUpdate{
		Description:      input.Description,
		ClearDescription: input.ClearDescription,
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		fields.Title = &title
	}

	card, err = s.cardRepo.Update(ctx, input.ID, fields)
	if err != nil {
		return nil, classify(err, ErrCardNotFound, "Card not updated")
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    card.ID,
		EntityTitle: card.Title,
		EntityType:  models.EntityCard,
		Action:      models.ActionUpdate,
		OrgID:       s.orgOf(ctx, card.BoardID),
	})
	s.revalidator.Revalidate(ctx, constants.BoardPath(boardOr(input.BoardID, card.BoardID)))

	return card, nil
}

// CopyCard duplicates a card at the end of the source card's list.
// The copy stays on the source card's board; boardID only selects the view to revalidate.
func (s *CardService) CopyCard(ctx context.Context, id, boardID string) (card *models.Card, err error) {
	defer func() { metrics.ObserveMutation("CardCopy", err) }()

	source, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, ErrCardNotFound, "Card not created")
	}

	card = &models.Card{
		Title:       source.Title + constants.CopySuffix,
		Description: source.Description,
		ListID:      source.ListID,
		BoardID:     source.BoardID,
	}
	if err := s.ordering.Append(ctx, card); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    card.ID,
		EntityTitle: card.Title,
		EntityType:  models.EntityCard,
		Action:      models.ActionCreate,
		OrgID:       s.orgOf(ctx, card.BoardID),
	})
	s.revalidator.Revalidate(ctx, constants.BoardPath(boardOr(boardID, card.BoardID)))

	return card, nil
}

// DeleteCard removes a card and returns the deleted snapshot.
func (s *CardService) DeleteCard(ctx context.Context, id, boardID string) (card *models.Card, err error) {
	defer func() { metrics.ObserveMutation("CardDelete", err) }()

	card, err = s.cardRepo.Delete(ctx, id)
	if err != nil {
		return nil, classify(err, ErrCardNotFound, "Card not deleted")
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    card.ID,
		EntityTitle: card.Title,
		EntityType:  models.EntityCard,
		Action:      models.ActionDelete,
		OrgID:       s.orgOf(ctx, card.BoardID),
	})
	s.revalidator.Revalidate(ctx, constants.BoardPath(boardOr(boardID, card.BoardID)))

	return card, nil
}

// orgOf resolves the organization of a board for audit records; "" when unknown.
func (s *CardService) orgOf(ctx context.Context, boardID string) string {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return ""
	}
	return board.OrgID
}

func boardOr(boardID, fallback string) string {
	if boardID != "" {
		return boardID
	}
	return fallback
}
