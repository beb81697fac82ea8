package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session errors
	ErrDecode          = errors.New("malformed session token")
	ErrSessionExpired  = errors.New("session has expired")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrTokenNotFound   = errors.New("no persisted token")

	// Authorization errors
	ErrForbidden = errors.New("action not permitted for this role")

	// Cart and checkout errors
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrMixedSuppliers     = errors.New("cart contains products from more than one supplier")
	ErrProductNotInCart   = errors.New("product is not in the cart")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")

	// Delivery errors
	ErrDeliveryNotFound  = errors.New("delivery not found")
	ErrInvalidStatus     = errors.New("invalid delivery status")
	ErrInvalidTransition = errors.New("delivery status transition not allowed")

	// Validation errors
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidUserUpdate = errors.New("invalid role or status")
	ErrInvalidSort       = errors.New("unknown catalog sort")
)

// GenericRejectionMessage is shown when the storefront gives no reason
const GenericRejectionMessage = "The request could not be completed"

// NetworkError means a request to the storefront could not complete
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RequestRejectedError means the storefront answered with a non-2xx status
type RequestRejectedError struct {
	StatusCode int
	Message    string
}

func (e *RequestRejectedError) Error() string {
	return fmt.Sprintf("request rejected (%d): %s", e.StatusCode, e.Message)
}

// IsSessionError checks if the error ends the session
func IsSessionError(err error) bool {
	return errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrSessionExpired)
}

// IsNetworkError checks if the error is a transport failure
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsRejected checks if the error is a non-2xx storefront response
func IsRejected(err error) bool {
	var re *RequestRejectedError
	return errors.As(err, &re)
}

// RejectedStatus returns the upstream status code of a rejection, or 0
func RejectedStatus(err error) int {
	var re *RequestRejectedError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrDeliveryNotFound) ||
		errors.Is(err, ErrProductNotInCart) ||
		errors.Is(err, ErrTokenNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrInvalidUserUpdate) ||
		errors.Is(err, ErrInvalidSort) ||
		errors.Is(err, ErrDecode)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrCheckoutInProgress) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrMixedSuppliers) ||
		errors.Is(err, ErrInvalidTransition)
}
