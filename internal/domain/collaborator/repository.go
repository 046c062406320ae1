package collaborator

import (
	"context"

	"github.com/google/uuid"

	"github.com/renovabill/backend/internal/domain/shared"
)

// Filter narrows collaborator queries
type Filter struct {
	ServiceType *ServiceType
	Active      *bool
	Search      string
	Page        int
	PageSize    int
}

// Repository defines persistence operations for collaborators
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Collaborator, error)
	FindByEmail(ctx context.Context, email string) (*Collaborator, error)
	FindAll(ctx context.Context, filter Filter) (shared.Paginated[Collaborator], error)
	Save(ctx context.Context, c *Collaborator) error
	Delete(ctx context.Context, id uuid.UUID) error
}
