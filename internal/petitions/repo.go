package petitions

import "context"

// Repo defines persistence operations for classified petitions.
type Repo interface {
	Create(ctx context.Context, p Petition) error
	GetByID(ctx context.Context, id string) (Petition, error)
	List(ctx context.Context, limit, offset int) ([]Petition, error)
}
