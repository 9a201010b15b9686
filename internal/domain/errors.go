package domain

import (
	"errors"
	"fmt"
)

// Kind classifies why a URL could not be collected
type Kind string

const (
	KindConnection Kind = "connection"
	KindNotImage   Kind = "not_image"
	KindTooLarge   Kind = "too_large"
	KindInvalidURL Kind = "invalid_url"
	KindStorage    Kind = "storage"
	KindInternal   Kind = "internal"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Kind      Kind
	Code      string
	Message   string
	Err       error
	Retryable bool

	// Set for not_image and too_large rejections
	ContentType string
	Size        int64
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError of the same kind, so the sentinels below
// work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// Cause returns the wrapped error's message, or the domain message when nothing is wrapped
func (e *DomainError) Cause() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind Kind, code, message string, err error, retryable bool) *DomainError {
	return &DomainError{
		Kind:      kind,
		Code:      code,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// Common domain errors
var (
	ErrConnection = &DomainError{
		Kind:      KindConnection,
		Code:      "CONNECTION_FAILED",
		Message:   "Failed to fetch URL",
		Retryable: true,
	}

	ErrNotImage = &DomainError{
		Kind:    KindNotImage,
		Code:    "NOT_AN_IMAGE",
		Message: "Response is not an image",
	}

	ErrTooLarge = &DomainError{
		Kind:    KindTooLarge,
		Code:    "FILE_TOO_LARGE",
		Message: "File exceeds maximum size",
	}

	ErrInvalidURL = &DomainError{
		Kind:    KindInvalidURL,
		Code:    "INVALID_URL",
		Message: "The provided URL is invalid",
	}

	ErrStorageFailed = &DomainError{
		Kind:      KindStorage,
		Code:      "STORAGE_FAILED",
		Message:   "Failed to store file",
		Retryable: true,
	}
)

// NotImage builds a rejection for a response whose content type is not image/*
func NotImage(contentType string) *DomainError {
	e := NewDomainError(KindNotImage, ErrNotImage.Code, fmt.Sprintf("content type %q is not an image", contentType), nil, false)
	e.ContentType = contentType
	return e
}

// TooLarge builds a rejection for a body larger than the configured limit.
// size is the announced Content-Length, or the number of bytes seen when streaming.
func TooLarge(size, limit int64) *DomainError {
	e := NewDomainError(KindTooLarge, ErrTooLarge.Code, fmt.Sprintf("%d bytes exceeds limit of %d bytes", size, limit), nil, false)
	e.Size = size
	return e
}

// KindOf returns the kind of err, or KindInternal for errors outside the domain
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsRetryable reports whether err is a domain error that may succeed on a later attempt
func IsRetryable(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Retryable
}

// IsRejection reports whether the kind means the URL was refused rather than failed
func (k Kind) IsRejection() bool {
	switch k {
	case KindNotImage, KindTooLarge, KindInvalidURL:
		return true
	}
	return false
}
