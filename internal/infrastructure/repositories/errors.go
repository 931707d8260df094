package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/you/eventauth/domain"
)

// mapStoreError folds driver-level failures into domain.ErrUnavailable
// so callers never mistake "could not check" for "checked and failed".
// Record-shape errors pass through untouched.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrInvalidData):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
}
