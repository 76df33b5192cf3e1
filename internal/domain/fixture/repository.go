package fixture

import "context"

// Repository exposes the persisted fixture state needed at the start of a run.
type Repository interface {
	List(ctx context.Context) ([]Fixture, error)
	ListFinished(ctx context.Context) ([]Finished, error)
}
