package checkpoint

import "context"

// Repository reads the checkpoint at the start of a run. The advance happens
// inside the run store's bulk commit, never through this interface.
type Repository interface {
	LastProcessedRound(ctx context.Context) (int, error)
}
