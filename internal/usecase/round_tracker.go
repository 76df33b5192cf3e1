package usecase

import (
	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
)

// RoundState classifies one round's progress.
type RoundState string

const (
	RoundPending  RoundState = "PENDING"
	RoundPartial  RoundState = "PARTIAL"
	RoundComplete RoundState = "COMPLETE"
)

// RoundProgress holds the pure round-progression computation for one run.
// It is built once from the full fetched fixture set; completeness of a round
// cannot be judged from a partial set.
type RoundProgress struct {
	totalRounds     int
	fixturesByRound map[int]int
	finishedByRound map[int]int
}

func NewRoundProgress(fixtures []fixture.Fixture, finished []fixture.Finished, totalRounds int) RoundProgress {
	byRound := make(map[int]int, totalRounds)
	for _, item := range fixtures {
		if item.Round > 0 {
			byRound[item.Round]++
		}
	}

	finishedSet := make(map[int64]int, len(finished))
	for _, item := range finished {
		finishedSet[item.FixtureID] = item.Round
	}
	finishedByRound := make(map[int]int, totalRounds)
	for _, item := range fixtures {
		if _, ok := finishedSet[item.ID]; ok {
			finishedByRound[item.Round]++
		}
	}

	return RoundProgress{
		totalRounds:     totalRounds,
		fixturesByRound: byRound,
		finishedByRound: finishedByRound,
	}
}

// State reports PENDING, PARTIAL or COMPLETE for a round. A round with no
// known fixtures is PENDING; a round is COMPLETE only when every one of its
// fixtures has a finished record.
func (p RoundProgress) State(round int) RoundState {
	total := p.fixturesByRound[round]
	if total == 0 {
		return RoundPending
	}
	done := p.finishedByRound[round]
	switch {
	case done == 0:
		return RoundPending
	case done < total:
		return RoundPartial
	default:
		return RoundComplete
	}
}

// CurrentRound is the smallest round that is not COMPLETE. When every round is
// complete the season is over and the last round is terminal.
func (p RoundProgress) CurrentRound() int {
	for round := 1; round <= p.totalRounds; round++ {
		if p.State(round) != RoundComplete {
			return round
		}
	}
	return p.totalRounds
}

// TargetRound picks the round this run processes. Taking the max against the
// persisted checkpoint keeps the pipeline from regressing when the official
// source temporarily reports stale or incomplete data.
func (p RoundProgress) TargetRound(lastProcessed int) int {
	current := p.CurrentRound()
	next := lastProcessed + 1
	if next > current {
		current = next
	}
	if current > p.totalRounds {
		current = p.totalRounds
	}
	return current
}
