package driven

import (
	"context"

	"github.com/custodia-labs/agenda/internal/core/domain"
)

// RemoteContactSource fetches randomly generated user records.
type RemoteContactSource interface {
	// FetchUsers requests count records.
	// Fails with domain.ErrNetwork or domain.ErrDecode.
	FetchUsers(ctx context.Context, count int) ([]domain.RemoteUser, error)
}
