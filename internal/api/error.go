package api

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a failed API call for callers that branch on the failure
// mode rather than the raw status code.
type Kind int

const (
	// KindNetwork covers transport failures, timeouts and unexpected server
	// errors. Terminal for the attempt; never retried automatically.
	KindNetwork Kind = iota
	KindUnauthenticated
	KindValidation
	KindNotFound
	KindOutOfStock
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindOutOfStock:
		return "out_of_stock"
	default:
		return "network"
	}
}

// Error is the normalized failure surfaced by the client: the message comes
// from the response body when the server sent one, else a generic fallback.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// KindOf extracts the kind from any error produced by this package. Errors
// from outside the client (cancelled contexts, wrapped transport failures)
// classify as network.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }
func IsValidation(err error) bool      { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool        { return KindOf(err) == KindNotFound }
func IsOutOfStock(err error) bool      { return KindOf(err) == KindOutOfStock }

// classify maps a response status plus normalized message to a Kind. Business
// rejections arrive as 400s; the stock check is the only one the client
// distinguishes, by message, since the server sends no machine code.
func classify(status int, message string) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(message), "stock") {
			return KindOutOfStock
		}
		return KindValidation
	default:
		return KindNetwork
	}
}
