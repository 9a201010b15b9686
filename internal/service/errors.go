package service

import (
	"fmt"

	"imagecollector/internal/domain"
)

// Error wrapping functions with context

func ErrInvalidURL(reason string, err error) *domain.DomainError {
	return domain.NewDomainError(domain.KindInvalidURL, domain.ErrInvalidURL.Code, reason, err, false)
}

func ErrHTTPRequest(err error) *domain.DomainError {
	return domain.NewDomainError(domain.KindConnection, domain.ErrConnection.Code, "HTTP request failed", err, true)
}

func ErrInvalidContentLength(value string, err error) *domain.DomainError {
	return domain.NewDomainError(domain.KindConnection, domain.ErrConnection.Code,
		fmt.Sprintf("invalid Content-Length %q", value), err, false)
}
