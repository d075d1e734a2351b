// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestIdentity(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name   string
		header string
		want   uuid.UUID
		ok     bool
	}{
		{"valid", id.String(), id, true},
		{"padded", "  " + id.String() + " ", id, true},
		{"missing", "", uuid.Nil, false},
		{"garbage", "user-42", uuid.Nil, false},
		{"nil uuid", uuid.Nil.String(), uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID
			var ok bool
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok = UserIDFrom(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			Identity(inner).ServeHTTP(httptest.NewRecorder(), req)

			if ok != tt.ok || got != tt.want {
				t.Errorf("UserIDFrom = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	handler := Identity(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	req.Header.Set(UserIDHeader, uuid.NewString())
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("identified: got %d, want 204", rr.Code)
	}
}
