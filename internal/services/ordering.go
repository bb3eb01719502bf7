package services

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/metrics"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderingService appends cards to the end of a list.
//
// The order is max(order)+1 within the list, or 1 for an empty list. The read
// and the insert share one transaction and (list_id, position) is unique, so
// two appenders that read the same max cannot both commit; the loser retries
// with a fresh max.
type OrderingService struct {
	cardRepo  repository.CardRepository
	boardRepo repository.BoardRepository
	attempts  uint
	logger    *zap.Logger
}

// NewOrderingService creates a new OrderingService.
func NewOrderingService(cardRepo repository.CardRepository, boardRepo repository.BoardRepository, attempts uint, logger *zap.Logger) *OrderingService {
	if attempts == 0 {
		attempts = constants.DefaultOrderRetryAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderingService{
		cardRepo:  cardRepo,
		boardRepo: boardRepo,
		attempts:  attempts,
		logger:    logger,
	}
}

// NextOrder returns the order a card appended to the list would receive.
func (s *OrderingService) NextOrder(ctx context.Context, listID string) (int, error) {
	if _, err := s.boardRepo.FindList(ctx, listID); err != nil {
		return 0, classify(err, ErrListNotFound, "Failed to find list")
	}

	next, err := s.cardRepo.NextOrder(ctx, listID)
	if err != nil {
		return 0, classify(err, ErrListNotFound, "Failed to compute card order")
	}
	return next, nil
}

// Append inserts card at the end of card.ListID. card.BoardID must be the
// list's board; a missing or foreign list is reported as ErrListNotFound.
func (s *OrderingService) Append(ctx context.Context, card *models.Card) error {
	err := retry.Do(
		func() error {
			return s.cardRepo.CreateInList(ctx, card)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(5*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, gorm.ErrDuplicatedKey)
		}),
		retry.OnRetry(func(n uint, err error) {
			metrics.IncOrderRetry()
			s.logger.Debug("card order taken, retrying",
				zap.String("list_id", card.ListID),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return classify(err, ErrListNotFound, "Failed to create card")
	}
	return nil
}
