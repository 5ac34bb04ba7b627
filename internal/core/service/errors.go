package service

import (
	"errors"

	"github.com/blogsphere/api/internal/core/domain"
)

// storeErr passes client-facing repository errors through and marks
// everything else as an internal fault.
func storeErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.PublicMessage(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return err
	}
	return domain.WrapInternal(err, op)
}
