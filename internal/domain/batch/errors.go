package batch

import "errors"

var (
	ErrBatchNotFound     = errors.New("payment batch not found")
	ErrNoEligibleRecords = errors.New("no unpaid records match the filter; nothing to batch")
	ErrZeroRowsAffected  = errors.New("no records were updated; they may have been changed by someone else")
	ErrBatchConflict     = errors.New("some records were batched concurrently; refresh and retry")
	ErrInvalidBatchID    = errors.New("invalid batch id")
	ErrUnsupportedFormat = errors.New("unsupported export format, use csv or xlsx")
)
