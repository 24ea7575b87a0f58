package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func requestWithPathParam(key, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestReadPathInt64(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "plain id", value: "12", want: 12},
		{name: "trailing garbage rejected", value: "12abc", wantErr: true},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "float rejected", value: "1.5", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := readPathInt64(requestWithPathParam("id", tc.value), "id")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRetryOnConflict(t *testing.T) {
	conflict := &pgconn.PgError{Code: pgUniqueViolation}

	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(5, func() error {
			calls++
			if calls < 3 {
				return conflict
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Fatalf("expected 3 attempts, got %d", calls)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(5, func() error {
			calls++
			return conflict
		})
		if !isUniqueViolation(err) {
			t.Fatalf("expected the unique violation back, got %v", err)
		}
		if calls != 5 {
			t.Fatalf("expected 5 attempts, got %d", calls)
		}
	})

	t.Run("other errors abort immediately", func(t *testing.T) {
		sentinel := errors.New("connection lost")
		calls := 0
		err := retryOnConflict(5, func() error {
			calls++
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if calls != 1 {
			t.Fatalf("expected a single attempt, got %d", calls)
		}
	})
}
