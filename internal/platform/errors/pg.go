package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// sqlStateCodes classifies the SQLSTATEs the record store can produce
// anything else from postgres is ErrorCodeDB
var sqlStateCodes = map[string]ErrorCode{
	sqlStateUniqueViolation:     ErrorCodeDuplicateKey,
	sqlStateForeignKeyViolation: ErrorCodeInvalidArgument,
	"22001":                     ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02":                     ErrorCodeInvalidArgument, // invalid_text_representation
	"23502":                     ErrorCodeValidation,      // not_null_violation
	"23514":                     ErrorCodeValidation,      // check_violation
	"25006":                     ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03":                     ErrorCodeUnavailable,     // cannot_connect_now
}

// contention states a transaction can be replayed after
var retryableStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

// pgx reports some aborts only as text on commit
var retryableText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
}

// AsPgError returns the *pgconn.PgError in err's chain
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	ok := stderrs.As(err, &pgErr)
	return pgErr, ok
}

func hasSQLState(err error, state string) bool {
	pgErr, ok := AsPgError(err)
	return ok && pgErr.Code == state
}

// IsDuplicateKey reports a unique constraint violation
func IsDuplicateKey(err error) bool { return hasSQLState(err, sqlStateUniqueViolation) }

// IsForeignKeyViolation reports a reference to a missing parent row
func IsForeignKeyViolation(err error) bool { return hasSQLState(err, sqlStateForeignKeyViolation) }

// DBErrorCode classifies a postgres error, ok is false for other errors
func DBErrorCode(err error) (code ErrorCode, ok bool) {
	pgErr, ok := AsPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, found := sqlStateCodes[pgErr.Code]; found {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err under its classified code, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a format
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports transient contention worth replaying the transaction for
// cancellation and deadlines never are
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := AsPgError(err); ok {
		return retryableStates[pgErr.Code]
	}
	msg := strings.ToLower(Root(err).Error())
	for _, frag := range retryableText {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
