package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeBySQLState classifies the SQLSTATEs the session table can raise
var codeBySQLState = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
	"08006": ErrorCodeUnavailable,     // connection_failure
}

// SQLState returns the SQLSTATE of the postgres error in err's chain
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

// FromPostgres wraps err with msg under the code its SQLSTATE maps to
// unmapped states and non-postgres errors become ErrorCodeDB; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if state, ok := SQLState(err); ok {
		if c, ok := codeBySQLState[state]; ok {
			code = c
		}
	}
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) && pgErr.ColumnName != "" {
		return &Error{code: code, msg: msg, orig: err, field: pgErr.ColumnName}
	}
	return &Error{code: code, msg: msg, orig: err}
}
