package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dreamware/stranalyzer/internal/api"
	"github.com/dreamware/stranalyzer/internal/filter"
	"github.com/dreamware/stranalyzer/internal/storage"
)

// Error messages returned to clients. Clients match on these strings, so
// they must not change.
const (
	MsgInvalidJSON        = "Invalid JSON format"
	MsgMissingValue       = "Missing 'value' field in request body"
	MsgValueNotString     = "'value' must be a string"
	MsgAlreadyExists      = "String already exists in the system"
	MsgNotFound           = "String does not exist in the system"
	MsgInvalidParameter   = "Invalid query parameter value or type"
	MsgInvalidCharacter   = "Invalid value for 'contains_character'. Must be a single character."
	MsgMissingQuery       = "Missing 'query' parameter"
	MsgUnparseableQuery   = "Unable to parse natural language query"
	MsgConflictingFilters = "Query parsed but resulted in conflicting filters"
	MsgMethodNotAllowed   = "Method not allowed"
	MsgRouteNotFound      = "Not found"
	MsgUnavailable        = "Service unavailable"
	MsgInternal           = "Internal server error"
)

// Kind classifies request failures
type Kind int

const (
	// KindValidation is a malformed or unacceptable request. Its status
	// varies (400, 404 or 422) and is carried on the Error.
	KindValidation Kind = iota
	KindConflict
	KindNotFound
	KindMethodNotAllowed
	KindUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Status is the default HTTP status for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error is a request failure with the exact status and message the client
// sees.
type Error struct {
	Err       error
	Message   string
	Conflicts string
	Kind      Kind
	Status    int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// invalid builds a KindValidation error with an explicit status
func invalid(status int, msg string) *Error {
	return &Error{Kind: KindValidation, Status: status, Message: msg}
}

// classify maps domain errors onto request failures
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: MsgNotFound, Err: err}
	case errors.Is(err, storage.ErrAlreadyExists):
		return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: MsgAlreadyExists, Err: err}
	case errors.Is(err, storage.ErrStoreClosed):
		return &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Message: MsgUnavailable, Err: err}
	case errors.Is(err, filter.ErrInvalidCharacter):
		return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: MsgInvalidCharacter, Err: err}
	case errors.Is(err, filter.ErrInvalidParameter):
		return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: MsgInvalidParameter, Err: err}
	}
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: MsgInternal, Err: err}
}

// respondError writes err as a JSON error body and aborts the chain. The
// error is attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	e := classify(err)
	status := e.Status
	if status == 0 {
		status = e.Kind.Status()
	}
	_ = c.Error(e)
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: e.Message, Conflicts: e.Conflicts})
}
