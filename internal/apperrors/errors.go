package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientStock indicates that an adjustment would drive a stock level below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrForbidden indicates that a precondition forbids the requested operation,
// e.g. voiding a mobile-originated sale.
var ErrForbidden = errors.New("operation forbidden")

// ErrConflict indicates a state conflict, e.g. a transaction code uniqueness race.
var ErrConflict = errors.New("resource conflict")

// ErrInternal indicates an unexpected storage or system failure.
var ErrInternal = errors.New("internal error")
