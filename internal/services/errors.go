package services

import (
	"errors"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
