package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidTransition indicates an illegal transaction lifecycle move
// (e.g. posting a posted transaction, voiding a void one).
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnbalancedTemplate indicates a template whose lines do not balance when
// probe-evaluated.
var ErrUnbalancedTemplate = errors.New("template lines do not balance")

// ErrUnbalancedPosting indicates evaluated journal lines whose debit and
// credit sums differ.
var ErrUnbalancedPosting = errors.New("journal lines do not balance")

// ErrNegativeLineAmount indicates a template formula that evaluated to a
// negative magnitude. This is a template bug, not a runtime input problem.
var ErrNegativeLineAmount = errors.New("line amount is negative")

// ErrMissingReason indicates a void attempt without a reason.
var ErrMissingReason = errors.New("void reason is required")

// ErrInvalidHierarchy indicates a cycle or dangling parent in the chart of
// accounts.
var ErrInvalidHierarchy = errors.New("invalid account hierarchy")
