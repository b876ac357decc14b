package workrecord

import "errors"

var (
	ErrWorkRecordNotFound    = errors.New("work record not found")
	ErrDuplicateWorkRecord   = errors.New("a work record for this employee and date already exists")
	ErrEmployeeReferenceGone = errors.New("referenced employee may have been deleted; refresh and retry")
	ErrWorkRecordLocked      = errors.New("work record is paid and can no longer be changed")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
)
