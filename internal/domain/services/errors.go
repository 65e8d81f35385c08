package services

import (
	"errors"
	"fmt"

	"resqwave-dispatch-service/internal/domain/repository"
)

// 业务错误分类
var (
	// ErrNotFound the referenced terminal, alert, group or form does not exist
	ErrNotFound = errors.New("not found")
	// ErrResourceConflict the terminal is occupied or a one-to-one form already exists
	ErrResourceConflict = errors.New("resource conflict")
	// ErrValidation required input is missing or malformed
	ErrValidation = errors.New("validation failed")
	// ErrPreconditionFailed the guard of a state transition is not met
	ErrPreconditionFailed = errors.New("precondition failed")
)

// notFound maps a repository miss onto ErrNotFound and passes other errors through.
func notFound(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
	}
	return err
}

// conflictOnDuplicate maps a unique constraint violation onto ErrResourceConflict.
func conflictOnDuplicate(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrResourceConflict, fmt.Sprintf(format, args...))
	}
	return err
}
