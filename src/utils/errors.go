package utils

import (
	"errors"
	"strings"

	"portal/src/types"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUndefinedTable      = "42P01"
	pgUndefinedColumn     = "42703"
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInsufficientPrivs   = "42501"
	pgReadOnlyTransaction = "25006"
	pgInvalidTextRepr     = "22P02"
)

const (
	conflictMessage   = "Only one request can be active at a time. Move the current active request back to backlog or completed first."
	rlsDeniedMessage  = "Database policy denied this operation. Check the row-level security policy for API/server role access."
	readOnlyMessage   = "Database is in read-only mode for this connection. Verify DATABASE_HOST points to a writable primary."
	requestsSchemaMsg = "Client requests table is missing. Run the pending database migrations."
	requestsColumnMsg = "Client request columns are missing. Run the pending database migrations."
	messagesSchemaMsg = "Portal messages table is missing. Run the pending database migrations."
)

// PgError digs the structured postgres error out of a wrapped chain.
func PgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// ErrorText flattens message, detail and hint into one lowercase
// haystack for the substring fallback, covering drivers and proxies
// that phrase failures as free text without a SQLSTATE.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	parts := []string{err.Error()}
	if pgErr := PgError(err); pgErr != nil {
		parts = append(parts, pgErr.Detail, pgErr.Hint, pgErr.ConstraintName)
	}
	return strings.ToLower(strings.Join(parts, " | "))
}

func mapCommonWriteError(err error) *types.PortalError {
	if pgErr := PgError(err); pgErr != nil {
		switch pgErr.Code {
		case pgUniqueViolation:
			return types.NewPortalError(types.ErrKindConflict, conflictMessage, err)
		case pgForeignKeyViolation:
			return types.NewPortalError(types.ErrKindNotFound, "Customer or team record was not found for this operation.", err)
		case pgInsufficientPrivs:
			return types.NewPortalError(types.ErrKindForbidden, rlsDeniedMessage, err)
		case pgReadOnlyTransaction:
			return types.NewPortalError(types.ErrKindReadOnly, readOnlyMessage, err)
		case pgInvalidTextRepr:
			return types.NewPortalError(types.ErrKindValidation, "Invalid request ID format.", err)
		}
		return nil
	}

	errorText := ErrorText(err)
	if strings.Contains(errorText, "row-level security policy") ||
		strings.Contains(errorText, "permission denied for table") {
		return types.NewPortalError(types.ErrKindForbidden, rlsDeniedMessage, err)
	}
	if strings.Contains(errorText, "read-only transaction") {
		return types.NewPortalError(types.ErrKindReadOnly, readOnlyMessage, err)
	}
	return nil
}

// MapRequestWriteError classifies a storage failure from a client
// request write. A nil result means the error is unrecognized and
// must propagate unchanged as an infrastructure failure.
func MapRequestWriteError(err error) *types.PortalError {
	if err == nil {
		return nil
	}
	if pgErr := PgError(err); pgErr != nil {
		switch pgErr.Code {
		case pgUndefinedTable:
			return types.NewPortalError(types.ErrKindSchema, requestsSchemaMsg, err)
		case pgUndefinedColumn:
			return types.NewPortalError(types.ErrKindSchema, requestsColumnMsg, err)
		}
	}
	return mapCommonWriteError(err)
}

func MapRequestReadError(err error) *types.PortalError {
	if err == nil {
		return nil
	}
	if pgErr := PgError(err); pgErr != nil {
		switch pgErr.Code {
		case pgUndefinedTable:
			return types.NewPortalError(types.ErrKindSchema, requestsSchemaMsg, err)
		case pgUndefinedColumn:
			return types.NewPortalError(types.ErrKindSchema, requestsColumnMsg, err)
		}
	}
	return nil
}

func MapMessageWriteError(err error) *types.PortalError {
	if err == nil {
		return nil
	}
	if pgErr := PgError(err); pgErr != nil {
		if pgErr.Code == pgUndefinedTable {
			return types.NewPortalError(types.ErrKindSchema, messagesSchemaMsg, err)
		}
	}
	return mapCommonWriteError(err)
}

func MapMessageReadError(err error) *types.PortalError {
	if err == nil {
		return nil
	}
	if pgErr := PgError(err); pgErr != nil {
		if pgErr.Code == pgUndefinedTable {
			return types.NewPortalError(types.ErrKindSchema, messagesSchemaMsg, err)
		}
	}
	return nil
}
