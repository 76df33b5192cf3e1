package team

import "context"

// Repository describes team read needs from use cases. Writes go through the
// run store as part of the bulk commit.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
}
