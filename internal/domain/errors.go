package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotAuthenticated() *AppError {
	return &AppError{Code: "NOT_AUTHENTICATED", Message: "no player loaded", Status: 401}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrInsufficientBalance(kind CurrencyKind) *AppError {
	return &AppError{Code: "INSUFFICIENT_BALANCE", Message: fmt.Sprintf("insufficient %s balance", kind), Status: 400}
}

func ErrInsufficientStock(listingID string) *AppError {
	return &AppError{Code: "INSUFFICIENT_STOCK", Message: fmt.Sprintf("listing %s is out of stock", listingID), Status: 409}
}

func ErrRemoteFailure(op string, cause error) *AppError {
	return &AppError{Code: "REMOTE_FAILURE", Message: fmt.Sprintf("authority call %s failed", op), Status: 502, Cause: cause}
}

func ErrAlreadyConsumed(code string) *AppError {
	return &AppError{Code: "ALREADY_CONSUMED", Message: fmt.Sprintf("code %s already redeemed by this player", code), Status: 409}
}

func ErrLimitReached(code string) *AppError {
	return &AppError{Code: "LIMIT_REACHED", Message: fmt.Sprintf("code %s has reached its usage cap", code), Status: 429}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
