package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the user is not authorized to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrAlreadyExists indicates a uniqueness constraint violation.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrInvalidTransition indicates that the current order status does not permit the target status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidState indicates the entity is not in a state that permits the action.
	ErrInvalidState = errors.New("entity is in an invalid state for this action")
	// ErrFavoriteLimit indicates the user's favorite list is at capacity.
	ErrFavoriteLimit = errors.New("favorite list capacity exceeded")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
