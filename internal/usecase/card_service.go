package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/playercard"
)

// CardConsolidator folds the official API's card events into one season
// ledger per (team, player). Every third yellow marks that round as the
// suspension round; a straight red records the round it was taken in.
type CardConsolidator struct {
	ledgers map[arenaKey]playercard.Ledger
	order   []arenaKey
}

func NewCardConsolidator() *CardConsolidator {
	return &CardConsolidator{
		ledgers: make(map[arenaKey]playercard.Ledger, 512),
	}
}

func (c *CardConsolidator) AddEvent(teamID int64, event CardEvent) error {
	name := strings.TrimSpace(event.PlayerName)
	if name == "" {
		return fmt.Errorf("%w: card event player name is required", ErrInvalidInput)
	}
	if teamID <= 0 {
		return fmt.Errorf("%w: card event team id is required", ErrInvalidInput)
	}

	key := arenaKey{teamID: teamID, normalizedName: identity.NormalizePlayerName(name)}
	ledger, ok := c.ledgers[key]
	if !ok {
		ledger = playercard.Ledger{
			TeamID:         teamID,
			PlayerName:     name,
			NormalizedName: key.normalizedName,
		}
		c.order = append(c.order, key)
	}

	if event.Yellow > 0 {
		for i := 0; i < event.Yellow; i++ {
			ledger.YellowCards++
			if ledger.YellowCards%3 == 0 {
				ledger.YellowSuspensionRound = event.Round
			}
		}
	}
	if event.Red > 0 {
		ledger.RedCards += event.Red
		if event.Round > ledger.LastRedRound {
			ledger.LastRedRound = event.Round
		}
	}

	c.ledgers[key] = ledger
	return nil
}

// Ledgers returns the consolidated card records in first-seen order.
func (c *CardConsolidator) Ledgers() []playercard.Ledger {
	out := make([]playercard.Ledger, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.ledgers[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].NormalizedName < out[j].NormalizedName
	})
	return out
}
