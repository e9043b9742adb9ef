package services

import "errors"

var (
	ErrAuthRequired  = errors.New("must be authenticated")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderSubmit   = errors.New("failed to place order")
	ErrTotalMismatch = errors.New("total does not match items")
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrLockedOut     = errors.New("too many attempts, try again later")
)
