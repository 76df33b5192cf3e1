package identity

import "strings"

// PhotoEntry is one row of the scraped player photo index. Order matters:
// ties inside a matcher tier resolve to the first entry encountered.
type PhotoEntry struct {
	Name string
	URL  string
}

// MatchPhoto binds a displayed player name to a photo URL using a tiered
// fallback: exact normalized match, then first-token containment, then
// surname suffix. Matching stops at the first tier with a hit.
//
// The surname tier is known to be imprecise when two players on the same team
// share a surname; the sources carry no disambiguating id, so the first index
// entry wins deliberately.
func MatchPhoto(displayName string, index []PhotoEntry) (string, bool) {
	normalized := NormalizePlayerName(displayName)
	if normalized == "" || len(index) == 0 {
		return "", false
	}

	for _, entry := range index {
		if NormalizePlayerName(entry.Name) == normalized {
			return entry.URL, true
		}
	}

	firstToken := firstNameToken(displayName)
	if firstToken != "" {
		for _, entry := range index {
			if strings.Contains(NormalizePlayerName(entry.Name), firstToken) {
				return entry.URL, true
			}
		}
	}

	for _, entry := range index {
		surname := surnameToken(entry.Name)
		if surname != "" && strings.HasSuffix(normalized, surname) {
			return entry.URL, true
		}
	}

	return "", false
}

func firstNameToken(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return ""
	}
	return NormalizePlayerName(fields[0])
}

func surnameToken(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) < 2 {
		return ""
	}
	return NormalizePlayerName(fields[len(fields)-1])
}
