package services

import (
	"errors"
	"fmt"

	"backend/repository"
)

// ValidationError reports malformed input; it always names the violated
// field and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// StateTransitionError reports an operation attempted from a state that does
// not permit it. No partial mutation happens when this is returned.
type StateTransitionError struct {
	Entity string
	From   string
	Event  string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s in state %q does not permit %s", e.Entity, e.From, e.Event)
}

// NotFoundError reports a missing entity, or one outside the caller's
// company scope.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError reports a write-time race, e.g. a document-number collision
// that slipped past the scope lock. The caller retries the whole transaction.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %q", e.Resource, e.Key)
}

// ForbiddenError reports a policy denial for the acting user.
type ForbiddenError struct {
	Action string
	Role   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

// notFoundOr wraps repository.ErrNotFound with entity context and passes
// other errors through.
func notFoundOr(err error, entity string, id any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// conflictOr wraps repository.ErrDuplicateKey with resource context.
func conflictOr(err error, resource, key string) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return &ConflictError{Resource: resource, Key: key}
	}
	return err
}
