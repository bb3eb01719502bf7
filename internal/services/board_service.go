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

// BoardService handles board and list business logic
type BoardService struct {
	boardRepo   repository.BoardRepository
	orgRepo     repository.OrganizationRepository
	audit       *AuditRecorder
	revalidator revalidate.Revalidator
}

// NewBoardService creates a new BoardService
func NewBoardService(
	boardRepo repository.BoardRepository,
	orgRepo repository.OrganizationRepository,
	audit *AuditRecorder,
	revalidator revalidate.Revalidator,
) *BoardService {
	return &BoardService{
		boardRepo:   boardRepo,
		orgRepo:     orgRepo,
		audit:       audit,
		revalidator: revalidator,
	}
}

// CreateBoardInput represents input for creating a board
type CreateBoardInput struct {
	Title string
	Image string
	OrgID string
}

// CreateBoard creates a board with no members inside an organization.
func (s *BoardService) CreateBoard(ctx context.Context, input CreateBoardInput) (board *models.Board, err error) {
	defer func() { metrics.ObserveMutation("createBoard", err) }()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	board = &models.Board{
		Title: title,
		Image: input.Image,
		OrgID: input.OrgID,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, classify(err, ErrOrganizationNotFound, "Failed to create board")
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    board.ID,
		EntityTitle: board.Title,
		EntityType:  models.EntityBoard,
		Action:      models.ActionCreate,
		OrgID:       board.OrgID,
	})
	s.revalidator.Revalidate(ctx, constants.RootPath)

	return board, nil
}

// DeleteBoard removes a board with its lists and cards. It returns the path
// the caller should navigate to afterwards.
func (s *BoardService) DeleteBoard(ctx context.Context, id, orgID string) (redirect string, err error) {
	defer func() { metrics.ObserveMutation("deleteBoard", err) }()

	board, err := s.boardRepo.Delete(ctx, id)
	if err != nil {
		return "", classify(err, ErrBoardNotFound, "Board not deleted")
	}

	if orgID == "" {
		orgID = board.OrgID
	}
	s.audit.Record(ctx, AuditEntry{
		EntityID:    board.ID,
		EntityTitle: board.Title,
		EntityType:  models.EntityBoard,
		Action:      models.ActionDelete,
		OrgID:       orgID,
	})
	s.revalidator.Revalidate(ctx, constants.OrganizationsPath)

	return constants.OrganizationsPath, nil
}

// GetBoard returns a board with its members, lists and cards in order.
func (s *BoardService) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	board, err := s.boardRepo.FindWithContent(ctx, id)
	if err != nil {
		return nil, classify(err, ErrBoardNotFound, "Failed to get board")
	}
	return board, nil
}

// ListBoards lists the boards of an organization.
func (s *BoardService) ListBoards(ctx context.Context, orgID string) ([]models.Board, error) {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, classify(err, ErrOrganizationNotFound, "Failed to list boards")
	}

	boards, err := s.boardRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, classify(err, nil, "Failed to list boards")
	}
	return boards, nil
}

// CreateList appends a list to a board.
func (s *BoardService) CreateList(ctx context.Context, boardID, title string) (list *models.List, err error) {
	defer func() { metrics.ObserveMutation("createList", err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	list = &models.List{Title: title, BoardID: boardID}
	if err := s.boardRepo.CreateList(ctx, list); err != nil {
		return nil, classify(err, ErrBoardNotFound, "Failed to create list")
	}

	orgID := ""
	if board, err := s.boardRepo.FindByID(ctx, boardID); err == nil {
		orgID = board.OrgID
	}
	s.audit.Record(ctx, AuditEntry{
		EntityID:    list.ID,
		EntityTitle: list.Title,
		EntityType:  models.EntityList,
		Action:      models.ActionCreate,
		OrgID:       orgID,
	})
	s.revalidator.Revalidate(ctx, constants.BoardPath(boardID))

	return list, nil
}
