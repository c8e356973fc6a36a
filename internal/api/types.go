package api

import (
	"fmt"

	"github.com/dreamware/stranalyzer/internal/filter"
	"github.com/dreamware/stranalyzer/internal/nlquery"
	"github.com/dreamware/stranalyzer/internal/storage"
)

// CreateRequest is the body of POST /strings
type CreateRequest struct {
	Value string `json:"value"`
}

// ListResponse is the body of GET /strings
type ListResponse struct {
	Data           []storage.Record `json:"data"`
	Count          int              `json:"count"`
	FiltersApplied filter.Set       `json:"filters_applied"`
}

// QueryResponse is the body of GET /strings/filter-by-natural-language
type QueryResponse struct {
	Data             []storage.Record    `json:"data"`
	Count            int                 `json:"count"`
	InterpretedQuery nlquery.Interpreted `json:"interpreted_query"`
}

// HealthResponse is the body of GET / and GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	Conflicts string `json:"conflicts,omitempty"`
}

// Error is returned by Client when the server answers with a non-2xx status
type Error struct {
	Message    string
	Conflicts  string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Conflicts != "" {
		return fmt.Sprintf("http %d: %s (%s)", e.StatusCode, e.Message, e.Conflicts)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}
