package workrecord

import (
	"context"

	"github.com/repsboard/payroll-backend/internal/domain/user"
)

type WorkRecordService interface {
	// Save creates, merges or edits a record depending on the request and the stored records.
	Save(ctx context.Context, principal user.Principal, req SaveWorkRecordRequest) (SaveWorkRecordResponse, error)
	Get(ctx context.Context, principal user.Principal, id string) (WorkRecordResponse, error)
	List(ctx context.Context, principal user.Principal, req ListWorkRecordsRequest) ([]WorkRecordResponse, error)
	Delete(ctx context.Context, principal user.Principal, id string) error
	Preview(req PreviewRequest) PreviewResponse
}
