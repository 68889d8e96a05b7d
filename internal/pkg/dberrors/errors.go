package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsUniqueViolation checks for a unique violation. An empty constraint name
// matches any constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return pgCode(err, codeUniqueViolation, constraint)
}

// IsForeignKeyViolation checks for a foreign key violation. An empty
// constraint name matches any constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	return pgCode(err, codeForeignKeyViolation, constraint)
}

// IsCheckViolation checks for a CHECK constraint violation
func IsCheckViolation(err error, constraint string) bool {
	return pgCode(err, codeCheckViolation, constraint)
}
