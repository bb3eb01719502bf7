package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// flakyCardRepository fails CreateInList with the queued errors before succeeding.
type flakyCardRepository struct {
	repository.CardRepository
	failures []error
	calls    int
}

func (r *flakyCardRepository) CreateInList(_ context.Context, card *models.Card) error {
	r.calls++
	if len(r.failures) > 0 {
		err := r.failures[0]
		r.failures = r.failures[1:]
		return err
	}
	card.Order = r.calls
	return nil
}

type failingAuditRepository struct {
	repository.AuditLogRepository
	calls int
}

func (r *failingAuditRepository) Create(context.Context, *models.AuditLog) error {
	r.calls++
	return errors.New("audit store unavailable")
}

func TestAppend_RetriesWhenOrderIsTaken(t *testing.T) {
	repo := &flakyCardRepository{failures: []error{gorm.ErrDuplicatedKey}}
	ordering := NewOrderingService(repo, nil, 3, zap.NewNop())

	card := &models.Card{Title: "x", ListID: "l", BoardID: "b"}
	require.NoError(t, ordering.Append(context.Background(), card))
	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, 2, card.Order)
}

func TestAppend_GivesUpAfterAttempts(t *testing.T) {
	repo := &flakyCardRepository{failures: []error{gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey}}
	ordering := NewOrderingService(repo, nil, 2, zap.NewNop())

	err := ordering.Append(context.Background(), &models.Card{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.True(t, errors.Is(err, apierrors.ErrConflict))
}

func TestAppend_DoesNotRetryOtherErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "missing list", err: gorm.ErrRecordNotFound, wantErr: ErrListNotFound},
		{name: "storage failure", err: errors.New("disk full"), wantErr: apierrors.ErrOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &flakyCardRepository{failures: []error{tt.err}}
			ordering := NewOrderingService(repo, nil, 3, zap.NewNop())

			err := ordering.Append(context.Background(), &models.Card{Title: "x"})
			assert.Equal(t, 1, repo.calls)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestAuditRecorder_FailureIsSwallowed(t *testing.T) {
	auditRepo := &failingAuditRepository{}
	audit := NewAuditRecorder(auditRepo, zap.NewNop())
	revalidator := &recordingRevalidator{}

	repo := &flakyCardRepository{}
	ordering := NewOrderingService(repo, nil, 1, zap.NewNop())
	cards := NewCardService(repo, noBoardRepository{}, ordering, audit, revalidator)

	card, err := cards.CreateCard(context.Background(), CreateCardInput{Title: "x", ListID: "l", BoardID: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, card.Order)
	assert.Equal(t, 1, auditRepo.calls)
	assert.Equal(t, []string{"/board/b"}, revalidator.Paths())
}

// noBoardRepository reports every board as missing.
type noBoardRepository struct {
	repository.BoardRepository
}

func (noBoardRepository) FindByID(context.Context, string, ...string) (*models.Board, error) {
	return nil, gorm.ErrRecordNotFound
}
