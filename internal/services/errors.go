package services

import (
	"errors"

	apperrors "mykhata/internal/errors"
)

// asAppError passes AppErrors through and hides anything else behind
// ErrInternalServer.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
