package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres SQLSTATE values surfaced by the schema's constraints.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateNotNullViolation    = "23502"
	sqlStateInvalidTextRepr     = "22P02"
)

type driverError struct {
	state      string
	table      string
	constraint string
	column     string
	message    string
}

// TranslateError maps storage errors into the integrity error taxonomy. Already-typed
// errors pass through untouched; unknown failures become CodeInternal.
func TranslateError(err error, kind string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, kind+" not found").
			WithDetails(map[string]any{"kind": kind})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage operation timed out").
			WithDetails(map[string]any{"kind": kind})
	case isConnectionError(err):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage unavailable").
			WithDetails(map[string]any{"kind": kind})
	}

	de, ok := decode(err)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storage failure")
	}

	field := de.column
	if field == "" {
		field = columnFromConstraint(de.table, de.constraint)
	}

	var code pkgerrors.Code
	var message string
	switch de.state {
	case sqlStateUniqueViolation:
		code, message = pkgerrors.CodeUniqueViolation, kind+" "+field+" already exists"
	case sqlStateForeignKeyViolation:
		code, message = pkgerrors.CodeForeignKeyViolation, kind+" references a missing parent"
	case sqlStateCheckViolation:
		code, message = pkgerrors.CodeRangeViolation, kind+" value out of range"
	case sqlStateNotNullViolation:
		code, message = pkgerrors.CodeRequiredField, kind+" "+field+" is required"
	case sqlStateInvalidTextRepr:
		code, message = pkgerrors.CodeEnumViolation, kind+" value not allowed"
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storage failure")
	}

	return pkgerrors.Wrap(code, err, strings.TrimSpace(message)).WithDetails(map[string]any{
		"kind":       kind,
		"field":      field,
		"constraint": de.constraint,
	})
}

// IsUniqueViolation reports whether err is a unique-constraint failure from any
// supported driver. When constraintName is provided it must match as well.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	de, ok := decode(err)
	if !ok || de.state != sqlStateUniqueViolation {
		return false
	}
	if constraintName == "" {
		return true
	}
	return de.constraint == constraintName || strings.Contains(de.message, constraintName)
}

func decode(err error) (driverError, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return driverError{
			state:      pgxErr.Code,
			table:      pgxErr.TableName,
			constraint: pgxErr.ConstraintName,
			column:     pgxErr.ColumnName,
			message:    pgxErr.Message,
		}, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return driverError{
			state:      string(pqErr.Code),
			table:      pqErr.Table,
			constraint: pqErr.Constraint,
			column:     pqErr.Column,
			message:    pqErr.Message,
		}, true
	}

	return decodeSQLite(err.Error())
}

// decodeSQLite parses the constraint messages emitted by the SQLite driver, e.g.
// "UNIQUE constraint failed: users.email".
func decodeSQLite(msg string) (driverError, bool) {
	prefixes := []struct {
		prefix string
		state  string
	}{
		{"UNIQUE constraint failed", sqlStateUniqueViolation},
		{"FOREIGN KEY constraint failed", sqlStateForeignKeyViolation},
		{"CHECK constraint failed", sqlStateCheckViolation},
		{"NOT NULL constraint failed", sqlStateNotNullViolation},
	}
	for _, p := range prefixes {
		idx := strings.Index(msg, p.prefix)
		if idx < 0 {
			continue
		}
		de := driverError{state: p.state, message: msg}
		rest := strings.TrimPrefix(strings.TrimSpace(msg[idx+len(p.prefix):]), ":")
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return de, true
		}
		if p.state == sqlStateCheckViolation {
			de.constraint = rest
			return de, true
		}
		columns := []string{}
		for _, part := range strings.Split(rest, ",") {
			part = strings.TrimSpace(part)
			if table, column, ok := strings.Cut(part, "."); ok {
				de.table = table
				columns = append(columns, column)
			}
		}
		de.column = strings.Join(columns, ",")
		return de, true
	}
	return driverError{}, false
}

// columnFromConstraint recovers the column from Postgres default constraint names
// (<table>_<column>_key, <table>_<column>_fkey, <table>_<column>_check).
func columnFromConstraint(table, constraint string) string {
	name := constraint
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	}
	for _, suffix := range []string{"_fkey", "_key", "_check"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
