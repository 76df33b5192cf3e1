package checkpoint

// KeyLastProcessedRound is the singleton row key for the round checkpoint.
const KeyLastProcessedRound = "last_processed_round"

// Checkpoint is the persisted cross-run progress marker. Its value is
// monotonically non-decreasing across successful runs; that invariant is what
// makes restarted or overlapping runs safe without a distributed lock.
type Checkpoint struct {
	Key   string
	Round int
}
