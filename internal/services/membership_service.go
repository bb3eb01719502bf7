package services

import (
	"context"
	"errors"

	"github.com/yukikurage/kanban-board-api/internal/constants"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/metrics"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/revalidate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MemberRemovedMessage confirms a successful removeOrgMember.
const MemberRemovedMessage = "Member removed successfully"

// ErrMembershipTargetNotFound is returned when updateOrgMember references a missing user or organization.
var ErrMembershipTargetNotFound = apierrors.NotFoundError("User or organization not found")

// MembershipService keeps organization, board and card membership consistent.
type MembershipService struct {
	orgRepo     repository.OrganizationRepository
	boardRepo   repository.BoardRepository
	cardRepo    repository.CardRepository
	userRepo    repository.UserRepository
	audit       *AuditRecorder
	revalidator revalidate.Revalidator
	logger      *zap.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	orgRepo repository.OrganizationRepository,
	boardRepo repository.BoardRepository,
	cardRepo repository.CardRepository,
	userRepo repository.UserRepository,
	audit *AuditRecorder,
	revalidator revalidate.Revalidator,
	logger *zap.Logger,
) *MembershipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{
		orgRepo:     orgRepo,
		boardRepo:   boardRepo,
		cardRepo:    cardRepo,
		userRepo:    userRepo,
		audit:       audit,
		revalidator: revalidator,
		logger:      logger,
	}
}

// UpdateOrgMemberInput sets both sides of the organization membership relation.
type UpdateOrgMemberInput struct {
	UserID         string
	OrganizationID string
	OrgIDs         []string
	UserIDs        []string
}

// RemoveOrgMember removes a user from an organization and from every board and
// card of that organization as one atomic step.
func (s *MembershipService) RemoveOrgMember(ctx context.Context, userID, orgID string) (cascade *repository.MembershipCascade, err error) {
	defer func() { metrics.ObserveMutation("removeOrgMember", err) }()

	cascade, err = s.orgRepo.RemoveMemberCascade(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("membership cascade rolled back",
			zap.String("organization_id", orgID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, apierrors.OperationFailedError("Failed to remove organization member", err)
	}

	metrics.ObserveCascade(cascade.BoardsUpdated, cascade.CardsUpdated)
	s.logger.Info("organization member removed",
		zap.String("organization_id", orgID),
		zap.String("user_id", userID),
		zap.Int("boards", len(cascade.BoardIDs)),
		zap.Int("cards", len(cascade.CardIDs)),
		zap.Int64("board_memberships_removed", cascade.BoardsUpdated),
		zap.Int64("card_memberships_removed", cascade.CardsUpdated),
	)

	s.audit.Record(ctx, AuditEntry{
		EntityID:    orgID,
		EntityTitle: cascade.OrganizationTitle,
		EntityType:  models.EntityOrganization,
		Action:      models.ActionUpdate,
		OrgID:       orgID,
	})
	s.revalidator.Revalidate(ctx, constants.OrganizationMembersPath(orgID))

	return cascade, nil
}

// UpdateOrgMember replaces the user's orgIds and the organization's userIds atomically.
func (s *MembershipService) UpdateOrgMember(ctx context.Context, input UpdateOrgMemberInput) (user *models.User, org *models.Organization, err error) {
	defer func() { metrics.ObserveMutation("updateOrgMember", err) }()

	user, _, err = s.orgRepo.SetMemberships(ctx, input.UserID, input.OrganizationID, input.OrgIDs, input.UserIDs)
	if err != nil {
		return nil, nil, classify(err, ErrMembershipTargetNotFound, "Failed to update organization member")
	}

	org, err = s.orgRepo.FindByID(ctx, input.OrganizationID, "Members")
	if err != nil {
		return nil, nil, classify(err, ErrOrganizationNotFound, "Failed to update organization member")
	}

	s.revalidator.Revalidate(ctx, constants.OrganizationMembersPath(input.OrganizationID))

	return user, org, nil
}

// OrgNonMembers lists users that are not members of the organization.
func (s *MembershipService) OrgNonMembers(ctx context.Context, orgID string) ([]models.User, error) {
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, classify(err, ErrOrganizationNotFound, "Failed to list users")
	}

	users, err := s.orgRepo.ListNonMembers(ctx, orgID)
	if err != nil {
		return nil, classify(err, nil, "Failed to list users")
	}
	return users, nil
}

// BoardNonMembers lists organization members that are not on the board.
func (s *MembershipService) BoardNonMembers(ctx context.Context, boardID string) ([]models.User, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, classify(err, ErrBoardNotFound, "Board id not exist")
	}

	users, err := s.boardRepo.ListNonMembers(ctx, board)
	if err != nil {
		return nil, classify(err, nil, "Failed to list users")
	}
	return users, nil
}

// AddBoardMember adds an organization member to a board.
func (s *MembershipService) AddBoardMember(ctx context.Context, boardID, userID string) (board *models.Board, err error) {
	defer func() { metrics.ObserveMutation("addMemberInBoard", err) }()

	board, err = s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, classify(err, ErrBoardNotFound, "Failed to add board member")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, classify(err, ErrUserNotFound, "Failed to add board member")
	}

	isMember, err := s.orgRepo.IsMember(ctx, board.OrgID, userID)
	if err != nil {
		return nil, classify(err, nil, "Failed to add board member")
	}
	if !isMember {
		return nil, ErrNotOrganizationMember
	}

	if err := s.boardRepo.AddMember(ctx, boardID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyBoardMember
		}
		return nil, classify(err, nil, "Failed to add board member")
	}

	board, err = s.boardRepo.FindByID(ctx, boardID, "Members")
	if err != nil {
		return nil, classify(err, ErrBoardNotFound, "Failed to add board member")
	}

	s.audit.Record(ctx, AuditEntry{
		EntityID:    board.ID,
		EntityTitle: board.Title,
		EntityType:  models.EntityBoard,
		Action:      models.ActionUpdate,
		OrgID:       board.OrgID,
	})
	s.revalidator.Revalidate(ctx, constants.BoardPath(boardID))

	return board, nil
}

// CardNonMembers lists board members that are not on the card.
func (s *MembershipService) CardNonMembers(ctx context.Context, boardID, cardID string) ([]models.User, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, classify(err, ErrCardNotFound, "User not found")
	}

	users, err := s.cardRepo.ListNonMembers(ctx, boardOr(boardID, card.BoardID), cardID)
	if err != nil {
		return nil, classify(err, nil, "User not found")
	}
	return users, nil
}

// AddCardMember adds a board member to a card.
func (s *MembershipService) AddCardMember(ctx context.Context, cardID, userID string) (card *models.Card, err error) {
	defer func() { metrics.ObserveMutation("addCardMember", err) }()

	card, err = s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, classify(err, ErrCardNotFound, "Failed to add card member")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, classify(err, ErrUserNotFound, "Failed to add card member")
	}

	isMember, err := s.boardRepo.IsMember(ctx, card.BoardID, userID)
	if err != nil {
		return nil, classify(err, nil, "Failed to add card member")
	}
	if !isMember {
		return nil, ErrNotBoardMember
	}

	if err := s.cardRepo.AddMember(ctx, cardID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCardMember
		}
		return nil, classify(err, nil, "Failed to add card member")
	}

	card, err = s.cardRepo.FindByID(ctx, cardID, "Members")
	if err != nil {
		return nil, classify(err, ErrCardNotFound, "Failed to add card member")
	}

	orgID := ""
	if board, err := s.boardRepo.FindByID(ctx, card.BoardID); err == nil {
		orgID = board.OrgID
	}
	s.audit.Record(ctx, AuditEntry{
		EntityID:    card.ID,
		EntityTitle: card.Title,
		EntityType:  models.EntityCard,
		Action:      models.ActionUpdate,
		OrgID:       orgID,
	})
	s.revalidator.Revalidate(ctx, constants.RootPath)

	return card, nil
}
