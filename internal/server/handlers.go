package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dreamware/stranalyzer/internal/analysis"
	"github.com/dreamware/stranalyzer/internal/api"
	"github.com/dreamware/stranalyzer/internal/filter"
	"github.com/dreamware/stranalyzer/internal/nlquery"
	"github.com/dreamware/stranalyzer/internal/observability"
	"github.com/dreamware/stranalyzer/internal/storage"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Message: HealthMessage})
}

func (s *Server) handleMethodNotAllowed(c *gin.Context) {
	respondError(c, &Error{Kind: KindMethodNotAllowed, Status: http.StatusMethodNotAllowed, Message: MsgMethodNotAllowed})
}

// handleCreate decodes the body loosely so a missing field (404) and a
// non-string value (422) can be told apart from malformed JSON (400).
func (s *Server) handleCreate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, invalid(http.StatusBadRequest, MsgInvalidJSON))
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		respondError(c, invalid(http.StatusBadRequest, MsgInvalidJSON))
		return
	}

	raw, ok := payload["value"]
	if !ok {
		respondError(c, invalid(http.StatusNotFound, MsgMissingValue))
		return
	}
	value, ok := raw.(string)
	if !ok {
		respondError(c, invalid(http.StatusUnprocessableEntity, MsgValueNotString))
		return
	}

	rec, err := s.store.Insert(value)
	if err != nil {
		respondError(c, err)
		return
	}

	s.logger.Debug("string stored", "id", rec.ID, "length", rec.Properties.Length)
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleGet(c *gin.Context) {
	rec, err := s.store.Get(c.Param("value"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDelete(c *gin.Context) {
	value := c.Param("value")
	if err := s.store.Delete(value); err != nil {
		respondError(c, err)
		return
	}

	s.logger.Debug("string deleted", "id", analysis.Hash(value))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleList(c *gin.Context) {
	set, err := filter.FromQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	data := nonNil(filter.Apply(s.store.List(), set))
	c.JSON(http.StatusOK, api.ListResponse{
		Data:           data,
		Count:          len(data),
		FiltersApplied: set,
	})
}

func (s *Server) handleNLQuery(c *gin.Context) {
	var query string
	if vs := c.Request.URL.Query()["query"]; len(vs) > 0 {
		query = vs[len(vs)-1]
	}
	if query == "" {
		respondError(c, invalid(http.StatusBadRequest, MsgMissingQuery))
		return
	}

	_, span := s.tracer.Start(c.Request.Context(), "nlquery.parse")
	interpreted, ok := nlquery.Parse(query)
	span.SetAttributes(
		attribute.Bool("nlquery.parsed", ok),
		attribute.StringSlice("nlquery.rules", nlquery.Matched(query)),
	)
	span.End()

	if !ok {
		s.metrics.RecordNLQuery(observability.NLUnparseable)
		respondError(c, invalid(http.StatusBadRequest, MsgUnparseableQuery))
		return
	}

	if msg, conflict := interpreted.ParsedFilters.Conflict(); conflict {
		s.metrics.RecordNLQuery(observability.NLConflict)
		e := invalid(http.StatusUnprocessableEntity, MsgConflictingFilters)
		e.Conflicts = msg
		respondError(c, e)
		return
	}

	s.metrics.RecordNLQuery(observability.NLParsed)
	data := nonNil(filter.Apply(s.store.List(), interpreted.ParsedFilters))
	c.JSON(http.StatusOK, api.QueryResponse{
		Data:             data,
		Count:            len(data),
		InterpretedQuery: interpreted,
	})
}

// nonNil keeps an empty result serialized as [] rather than null
func nonNil(records []storage.Record) []storage.Record {
	if records == nil {
		return []storage.Record{}
	}
	return records
}
