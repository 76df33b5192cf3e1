package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
	"github.com/brasilscore/brasileirao-sync/internal/domain/roster"
)

type arenaKey struct {
	teamID         int64
	normalizedName string
}

type lineupKey struct {
	fixtureID int64
	teamID    int64
	playerID  int64
}

// RosterConsolidator merges the lineup sightings of one run into a single
// roster entry per (team, player) and one lineup entry per sighting key.
// Player ids come from a monotonic counter scoped to the run; the persisted
// unique key on (team_id, normalized_name) is what makes re-runs converge.
type RosterConsolidator struct {
	photoIndex []identity.PhotoEntry
	nextID     int64

	entries map[arenaKey]roster.Entry
	order   []arenaKey
	lineups map[lineupKey]lineup.Entry
}

func NewRosterConsolidator(photoIndex []identity.PhotoEntry) *RosterConsolidator {
	return &RosterConsolidator{
		photoIndex: photoIndex,
		nextID:     1,
		entries:    make(map[arenaKey]roster.Entry, 512),
		lineups:    make(map[lineupKey]lineup.Entry, 1024),
	}
}

// AddSighting records one observation of a player. The team id must already be
// resolved; raw names never enter the arena.
func (c *RosterConsolidator) AddSighting(fixtureID, teamID int64, sighting LineupSighting) error {
	name := strings.TrimSpace(sighting.PlayerName)
	if name == "" {
		return fmt.Errorf("%w: sighting player name is required", ErrInvalidInput)
	}
	if teamID <= 0 || fixtureID <= 0 {
		return fmt.Errorf("%w: sighting fixture and team ids are required", ErrInvalidInput)
	}
	if !sighting.Role.Valid() {
		return fmt.Errorf("%w: sighting role %q is not valid", ErrInvalidInput, sighting.Role)
	}

	key := arenaKey{teamID: teamID, normalizedName: identity.NormalizePlayerName(name)}
	entry, ok := c.entries[key]
	if !ok {
		entry = roster.Entry{
			PlayerID:       c.nextID,
			TeamID:         teamID,
			DisplayName:    name,
			NormalizedName: key.normalizedName,
		}
		if url, found := identity.MatchPhoto(name, c.photoIndex); found {
			entry.PhotoURL = url
		}
		c.nextID++
		c.order = append(c.order, key)
	}
	entry = mergeSighting(entry, sighting)
	c.entries[key] = entry

	lk := lineupKey{fixtureID: fixtureID, teamID: teamID, playerID: entry.PlayerID}
	row, seen := c.lineups[lk]
	if !seen {
		row = lineup.Entry{FixtureID: fixtureID, TeamID: teamID, PlayerID: entry.PlayerID, Role: sighting.Role}
	}
	c.lineups[lk] = mergeLineupSighting(row, sighting)
	return nil
}

// mergeSighting folds one sighting into a roster entry. STARTER is sticky:
// a later bench or unavailable sighting never downgrades it. Shirt number and
// position fill in from whichever sighting first carries them.
func mergeSighting(entry roster.Entry, sighting LineupSighting) roster.Entry {
	if entry.ShirtNumber == "" {
		entry.ShirtNumber = strings.TrimSpace(sighting.ShirtNumber)
	}
	if parsed := roster.ParsePosition(sighting.Position); parsed != roster.PositionUnknown && entry.Position == roster.PositionUnknown {
		entry.Position = parsed
	}
	if entry.Position == "" {
		entry.Position = roster.PositionUnknown
	}
	return entry
}

// mergeLineupSighting applies the same stickiness at the per-fixture grain.
func mergeLineupSighting(row lineup.Entry, sighting LineupSighting) lineup.Entry {
	switch sighting.Role {
	case lineup.RoleStarter:
		row.Role = lineup.RoleStarter
		row.PosX = sighting.PosX
		row.PosY = sighting.PosY
		row.Reason = ""
	case lineup.RoleSubstitute:
		if row.Role != lineup.RoleStarter {
			row.Role = lineup.RoleSubstitute
		}
	case lineup.RoleUnavailable:
		if row.Role != lineup.RoleStarter {
			row.Role = lineup.RoleUnavailable
			row.Reason = strings.TrimSpace(sighting.Reason)
		}
	}
	if row.Role != lineup.RoleStarter {
		row.PosX = nil
		row.PosY = nil
	}
	if row.Role != lineup.RoleUnavailable {
		row.Reason = ""
	}
	return row
}

// Entries returns the consolidated roster in id order.
func (c *RosterConsolidator) Entries() []roster.Entry {
	out := make([]roster.Entry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.entries[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Lineups returns the per-fixture entries sorted deterministically.
func (c *RosterConsolidator) Lineups() []lineup.Entry {
	out := make([]lineup.Entry, 0, len(c.lineups))
	for _, row := range c.lineups {
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FixtureID != out[j].FixtureID {
			return out[i].FixtureID < out[j].FixtureID
		}
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
