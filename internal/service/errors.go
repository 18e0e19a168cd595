package service

import (
	"errors"
	"fmt"

	"go-inventory-tracker/internal/apperror"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/validator"
)

var (
	ErrItemNotFound        = apperror.New(apperror.KindNotFound, "inventory item not found")
	ErrTransactionNotFound = apperror.New(apperror.KindNotFound, "transaction not found")
	ErrAlertNotFound       = apperror.New(apperror.KindNotFound, "alert not found")
	ErrUserNotFound        = apperror.New(apperror.KindNotFound, "user not found")

	ErrInvalidQuantity   = apperror.New(apperror.KindValidation, "quantity must be greater than 0")
	ErrInvalidDirection  = apperror.New(apperror.KindValidation, "type must be stock-in or stock-out")
	ErrInsufficientStock = apperror.New(apperror.KindInsufficientStock, "insufficient stock")
	ErrHasTransactions   = apperror.New(apperror.KindHasTransactions, "cannot delete item with associated transactions")
	ErrAlertExists       = apperror.New(apperror.KindConflict, "an active alert already exists for this item")

	ErrInvalidCredentials      = apperror.New(apperror.KindAuth, "invalid credentials")
	ErrInvalidToken            = apperror.New(apperror.KindAuth, "invalid or expired token")
	ErrUsernameTaken           = apperror.New(apperror.KindConflict, "username already exists")
	ErrEmailTaken              = apperror.New(apperror.KindConflict, "email already exists")
	ErrUserExists              = apperror.New(apperror.KindConflict, "username or email already exists")
	ErrCurrentPasswordRequired = apperror.New(apperror.KindValidation, "current password is required to change password")
	ErrWrongPassword           = apperror.New(apperror.KindValidation, "current password is incorrect")
)

// validate runs struct validation and converts the first failure.
func validate(v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		return apperror.Validation("%s", validator.Message(errs))
	}
	return nil
}

// notFound swaps a repository miss for the domain error.
func notFound(err error, domain *apperror.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain
	}
	return err
}

func internal(op string, err error) error {
	return apperror.Wrap(apperror.KindInternal, "internal error", fmt.Errorf("%s: %w", op, err))
}

// passOrWrap returns typed errors unchanged and wraps anything else as internal.
func passOrWrap(op string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return internal(op, err)
}
