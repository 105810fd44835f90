package service

import (
	"errors"

	"go.uber.org/zap"

	"ActivityAdmin/logger"
	"ActivityAdmin/model"
)

// Coarse failure reasons returned by the services. Store errors never cross this boundary
// unwrapped; they are logged and replaced by ErrStore.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("wrong password")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrStore              = errors.New("store failure")
	ErrExportUnavailable  = errors.New("export target not configured")
)

// storeFailure logs err with the operation name and returns ErrStore.
func storeFailure(op string, err error, fields ...zap.Field) error {
	fields = append(fields, logger.String("op", op), logger.ErrorField(err))
	logger.Error("store operation failed", fields...)
	return ErrStore
}

// queryFailure passes paging errors through and turns everything else into ErrStore.
func queryFailure(op string, err error, fields ...zap.Field) error {
	if errors.Is(err, model.ErrInvalidPageSize) || errors.Is(err, model.ErrInvalidSortKey) {
		return err
	}
	return storeFailure(op, err, fields...)
}
