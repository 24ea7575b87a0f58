package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"restro-pos-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var errMissingParam = errors.New("missing param")

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	return strconv.ParseInt(value, 10, 64)
}

func decodeBody(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

// Postgres error class codes used for the API error taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// writeDBError maps database failures onto the uniform error envelope:
// unique violations become DUPLICATE_ENTRY, foreign-key violations become
// INVALID_REFERENCE (on writes) or IN_USE (on deletes), missing rows become
// NOT_FOUND, anything else is a 500 carrying the action-scoped code.
func writeDBError(w http.ResponseWriter, err error, action string, deleting bool) {
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			response.Error(w, http.StatusConflict, "DUPLICATE_ENTRY", "A record with the same value already exists")
			return
		case pgForeignKeyViolation:
			if deleting {
				response.Error(w, http.StatusConflict, "IN_USE", "Record is referenced by other records and cannot be deleted")
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced record does not exist")
			return
		}
	}

	response.Error(w, http.StatusInternalServerError, strings.ToUpper(action)+"_ERROR", err.Error())
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// retryOnConflict reruns fn while it fails with a unique violation, up to
// maxAttempts times. fn must leave the surrounding transaction usable after
// a failed attempt (run its statements inside a savepoint); without that the
// retry would hit "current transaction is aborted".
func retryOnConflict(maxAttempts int, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if err == nil || !isUniqueViolation(err) {
			return err
		}
	}
	return err
}

func nullIfEmpty(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nullIfEmptyPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return nullIfEmpty(*value)
}

func textPtr(v pgtype.Text) *string {
	if v.Valid {
		return &v.String
	}
	return nil
}

func int8Ptr(v pgtype.Int8) *int64 {
	if v.Valid {
		return &v.Int64
	}
	return nil
}

func timePtr(v pgtype.Timestamptz) *time.Time {
	if v.Valid {
		return &v.Time
	}
	return nil
}
