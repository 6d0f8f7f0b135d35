package services

import (
	"errors"

	"gorm.io/gorm"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func notFound(message string) *ServiceError {
	return &ServiceError{StatusCode: 404, Message: message}
}

func badRequest(message string) *ServiceError {
	return &ServiceError{StatusCode: 400, Message: message}
}

func internal(message string) *ServiceError {
	return &ServiceError{StatusCode: 500, Message: message}
}

// configuration errors share the 500 class but keep their own constructor so
// call sites read as what they are.
func configuration(message string) *ServiceError {
	return &ServiceError{StatusCode: 500, Message: message}
}

func gatewayFailure(message string) *ServiceError {
	return &ServiceError{StatusCode: 502, Message: message}
}

func gone(message string) *ServiceError {
	return &ServiceError{StatusCode: 410, Message: message}
}

func limitReached(message string) *ServiceError {
	return &ServiceError{StatusCode: 429, Message: message}
}

// isRecordNotFound reports whether err is gorm's missing-row sentinel.
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
