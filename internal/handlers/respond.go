// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the inkpress JSON API.
// Handlers are grouped by resource and only translate between HTTP and
// the service layer.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"inkpress/internal/paging"
	"inkpress/internal/service"
)

// maxBodyBytes caps request bodies; article content is the largest field.
const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// badRequest answers 400 with msg.
func badRequest(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Field: field})
}

// writeError maps a service error to its HTTP status. Unexpected errors
// are logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		badRequest(w, ve.Field, ve.Message)
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// writeOutcome answers a state-changing call that has no body to return.
func writeOutcome(w http.ResponseWriter, o service.Outcome) {
	switch o {
	case service.OK:
		w.WriteHeader(http.StatusNoContent)
	case service.NotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decode reads a JSON body into dst. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id", "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// query reads typed URL query parameters, remembering the first failure.
type query struct {
	r     *http.Request
	field string
	err   error
}

func newQuery(r *http.Request) *query {
	return &query{r: r}
}

func (q *query) fail(field string, err error) {
	if q.err == nil {
		q.field, q.err = field, err
	}
}

func (q *query) str(key string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(key))
}

func (q *query) integer(key string, fallback int) int {
	v := q.str(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.fail(key, fmt.Errorf("%s must be an integer", key))
		return fallback
	}
	return n
}

func (q *query) id(key string) *uuid.UUID {
	v := q.str(key)
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		q.fail(key, fmt.Errorf("%s must be a UUID", key))
		return nil
	}
	return &id
}

func (q *query) flag(key string) *bool {
	v := q.str(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(key, fmt.Errorf("%s must be true or false", key))
		return nil
	}
	return &b
}

// date accepts RFC 3339 timestamps and plain dates. A plain date is the
// start of that day, or its last instant when it closes a range.
func (q *query) date(key string, upper bool) *time.Time {
	v := q.str(key)
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		if upper {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t
	}
	q.fail(key, fmt.Errorf("%s must be an RFC 3339 time or a date", key))
	return nil
}

func (q *query) paging() paging.Request {
	return paging.Request{
		Page:     q.integer("page", 1),
		PageSize: q.integer("page_size", paging.DefaultPageSize),
		SortBy:   q.str("sort_by"),
		SortDir:  q.str("sort_dir"),
	}
}

// ok reports whether every parameter parsed, answering 400 otherwise.
func (q *query) ok(w http.ResponseWriter) bool {
	if q.err != nil {
		badRequest(w, q.field, q.err.Error())
		return false
	}
	return true
}
