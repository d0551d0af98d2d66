package shop

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Service-level failure taxonomy. Handlers translate these into HTTP
// statuses; anything else is treated as a store failure and rolls the
// enclosing transaction back.
var (
	ErrNotFound           = stderrors.New("record not found")
	ErrForbidden          = stderrors.New("forbidden")
	ErrEmptyCart          = stderrors.New("cart is empty")
	ErrDuplicate          = stderrors.New("duplicate record")
	ErrValidation         = stderrors.New("invalid input")
	ErrInvalidCredentials = stderrors.New("invalid email or password")
	ErrInsufficientStock  = stderrors.New("insufficient stock")
)

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

// wrapDBError maps GORM lookup misses onto ErrNotFound and annotates
// everything else with the failed operation.
func wrapDBError(err error, op string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, op)
}
