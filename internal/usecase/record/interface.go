package record

import (
	"context"

	"book-catalog/internal/auth"
)

// Service defines the owner-scoped operations on book records.
// Every operation requires an identity.
type Service interface {
	List(ctx context.Context, id *auth.Identity) ([]Record, error)
	Create(ctx context.Context, id *auth.Identity, in CreateRecordRequest) (*Record, error)
	Delete(ctx context.Context, id *auth.Identity, recordID string) (*DeleteRecordResponse, error)
}
