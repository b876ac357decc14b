package batch

import (
	"context"
	"io"

	"github.com/repsboard/payroll-backend/internal/domain/user"
)

// BatchService moves groups of work records through unpaid -> pending -> paid,
// with pending -> unpaid as the only way back.
type BatchService interface {
	GenerateBatch(ctx context.Context, principal user.Principal, req GenerateBatchRequest) (GenerateBatchResponse, error)
	MarkBatchPaid(ctx context.Context, principal user.Principal, batchID string) (TransitionResponse, error)
	RevertBatch(ctx context.Context, principal user.Principal, batchID string) (TransitionResponse, error)

	ListBatches(ctx context.Context, principal user.Principal) ([]BatchSummaryResponse, error)
	GetBatch(ctx context.Context, principal user.Principal, batchID string) (BatchDetailResponse, error)
	ExportBatch(ctx context.Context, principal user.Principal, batchID string, format ExportFormat, w io.Writer) error
}
