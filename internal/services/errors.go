package services

import (
	"errors"

	apierrors "github.com/yukikurage/kanban-board-api/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound  = apierrors.NotFoundError("Organization not found")
	ErrBoardNotFound         = apierrors.NotFoundError("Board not found")
	ErrListNotFound          = apierrors.NotFoundError("List not found")
	ErrCardNotFound          = apierrors.NotFoundError("Card not found")
	ErrUserNotFound          = apierrors.NotFoundError("User not found")
	ErrTitleRequired         = apierrors.InvalidInputError("Title is required")
	ErrNameRequired          = apierrors.InvalidInputError("Name is required")
	ErrEmailRequired         = apierrors.InvalidInputError("Email is required")
	ErrNotOrganizationMember = apierrors.InvalidInputError("User is not a member of the organization")
	ErrNotBoardMember        = apierrors.InvalidInputError("User is not a member of the board")
	ErrAlreadyBoardMember    = apierrors.ConflictError("User is already a member of this board", nil)
	ErrAlreadyCardMember     = apierrors.ConflictError("User is already a member of this card", nil)
)

// classify converts a gateway error into an APIError. APIErrors pass through
// unchanged, missing rows become notFound, unique violations become Conflict
// and everything else becomes OperationFailed with failure as the message.
func classify(err error, notFound *apierrors.APIError, failure string) error {
	if err == nil {
		return nil
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierrors.ConflictError(failure+": already exists", err)
	default:
		return apierrors.OperationFailedError(failure, err)
	}
}
